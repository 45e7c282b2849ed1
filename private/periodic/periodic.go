// Copyright 2025 OpenFabric Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package periodic provides a mechanism to run tasks periodically. Runs are
// serialized, so a task never overlaps with itself.
package periodic

import (
	"context"
	"time"

	"github.com/openfabric/fabric/pkg/log"
	"github.com/openfabric/fabric/pkg/metrics"
)

// Event type labels for the events counter.
const (
	EventStop    = "stop"
	EventKill    = "kill"
	EventTrigger = "triggered"
)

// Task is a piece of work that is executed periodically.
type Task interface {
	// Run executes the task once. It should return within the context's
	// deadline.
	Run(context.Context)
	// Name returns the task's name. Successive calls must return the same
	// value.
	Name() string
}

// Func is a convenience wrapper that implements Task with a function.
type Func struct {
	Task     func(context.Context)
	TaskName string
}

// Run executes the wrapped function.
func (f Func) Run(ctx context.Context) {
	f.Task(ctx)
}

// Name returns the name of the task.
func (f Func) Name() string {
	return f.TaskName
}

// Metrics describes the metrics exposed by a Runner. All fields are optional.
type Metrics struct {
	// Events returns a counter for the given event type label.
	Events func(eventType string) metrics.Counter
	// Period is set to the configured period in seconds.
	Period metrics.Gauge
	// Runtime is set to the duration of the most recent run in seconds.
	Runtime metrics.Gauge
	// StartTime is set to the Unix time the runner was started, in seconds.
	StartTime metrics.Gauge
}

type runnerMetrics struct {
	stop    metrics.Counter
	kill    metrics.Counter
	trigger metrics.Counter
	runtime metrics.Gauge
}

func newRunnerMetrics(m *Metrics) runnerMetrics {
	var rm runnerMetrics
	if m == nil {
		return rm
	}
	if m.Events != nil {
		rm.stop = m.Events(EventStop)
		rm.kill = m.Events(EventKill)
		rm.trigger = m.Events(EventTrigger)
	}
	rm.runtime = m.Runtime
	return rm
}

// Runner runs a task periodically.
type Runner struct {
	task         Task
	ticker       *time.Ticker
	timeout      time.Duration
	ctx          context.Context
	cancelF      context.CancelFunc
	trigger      chan struct{}
	stop         chan struct{}
	loopFinished chan struct{}
	metrics      runnerMetrics
}

// Start creates and starts a new Runner that executes task every period. Each
// run gets a fresh context with the given timeout.
func Start(task Task, period, timeout time.Duration) *Runner {
	return StartWithMetrics(task, nil, period, timeout)
}

// StartWithMetrics is like Start, and additionally reports runner activity on
// the given metrics.
func StartWithMetrics(task Task, m *Metrics, period, timeout time.Duration) *Runner {
	ctx, cancelF := context.WithCancel(context.Background())
	runner := &Runner{
		task:         task,
		ticker:       time.NewTicker(period),
		timeout:      timeout,
		ctx:          ctx,
		cancelF:      cancelF,
		trigger:      make(chan struct{}),
		stop:         make(chan struct{}),
		loopFinished: make(chan struct{}),
		metrics:      newRunnerMetrics(m),
	}
	if m != nil {
		metrics.GaugeSet(m.Period, period.Seconds())
		metrics.GaugeSet(m.StartTime, float64(time.Now().UnixNano()/1e9))
	}
	go func() {
		defer log.HandlePanic()
		runner.runLoop()
	}()
	return runner
}

// Stop stops any further runs. If the task is currently running, Stop blocks
// until it is done.
func (r *Runner) Stop() {
	r.ticker.Stop()
	close(r.stop)
	<-r.loopFinished
	metrics.CounterInc(r.metrics.stop)
}

// Kill is like Stop, and additionally cancels the context of a run that is
// currently executing.
func (r *Runner) Kill() {
	if r == nil {
		return
	}
	r.ticker.Stop()
	close(r.stop)
	r.cancelF()
	<-r.loopFinished
	metrics.CounterInc(r.metrics.kill)
}

// TriggerRun triggers the task to run immediately. The timer until the next
// periodic run is not affected. If the task is currently executing,
// TriggerRun blocks until the run is picked up.
func (r *Runner) TriggerRun() {
	select {
	case <-r.stop:
	case r.trigger <- struct{}{}:
	}
	metrics.CounterInc(r.metrics.trigger)
}

func (r *Runner) runLoop() {
	defer close(r.loopFinished)
	defer r.cancelF()
	for {
		select {
		case <-r.stop:
			return
		case <-r.ticker.C:
			r.onTick()
		case <-r.trigger:
			r.onTick()
		}
	}
}

func (r *Runner) onTick() {
	select {
	case <-r.ctx.Done():
	default:
		start := time.Now()
		ctx, cancelF := context.WithTimeout(r.ctx, r.timeout)
		r.task.Run(ctx)
		cancelF()
		metrics.GaugeSet(r.metrics.runtime, time.Since(start).Seconds())
	}
}

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

package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/openfabric/fabric/pkg/metrics"
)

type options struct {
	entriesCounter *EntriesCounter
	callerSkip     int
}

func applyOptions(opts []Option) options {
	var o options
	for _, option := range opts {
		option(&o)
	}
	return o
}

func (o options) zapOptions() []zap.Option {
	var zOpts []zap.Option
	if o.entriesCounter != nil {
		zOpts = append(zOpts, zap.Hooks(o.entriesCounter.hook))
	}
	if o.callerSkip != 0 {
		zOpts = append(zOpts, zap.AddCallerSkip(o.callerSkip))
	}
	return zOpts
}

// Option is a function that sets an option on the logger.
type Option func(*options)

// WithEntriesCounter configures counters that are incremented for every
// emitted log entry.
func WithEntriesCounter(m EntriesCounter) Option {
	return func(o *options) {
		o.entriesCounter = &m
	}
}

// AddCallerSkip increases the number of callers skipped by caller annotation.
func AddCallerSkip(skip int) Option {
	return func(o *options) {
		o.callerSkip += skip
	}
}

// EntriesCounter defines the metrics that are incremented when a log entry is
// emitted.
type EntriesCounter struct {
	Debug metrics.Counter
	Info  metrics.Counter
	Error metrics.Counter
}

func (m *EntriesCounter) hook(e zapcore.Entry) error {
	switch e.Level {
	case zapcore.ErrorLevel:
		metrics.CounterInc(m.Error)
	case zapcore.InfoLevel:
		metrics.CounterInc(m.Info)
	case zapcore.DebugLevel:
		metrics.CounterInc(m.Debug)
	}
	return nil
}

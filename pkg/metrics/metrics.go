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

// Package metrics defines and implements a generic interface to metrics.
// Components accept these narrow interfaces instead of prometheus types, so
// tests can observe metric updates without a registry and callers can pass
// nil to disable instrumentation entirely. All helpers are nil-safe.
package metrics

// Counter describes a metric that accumulates values monotonically.
type Counter interface {
	With(labelValues ...string) Counter
	Add(delta float64)
}

// Gauge describes a metric that takes a specific value over time.
type Gauge interface {
	With(labelValues ...string) Gauge
	Set(value float64)
	Add(delta float64)
}

// Histogram describes a metric that takes repeated observations of the same
// kind of thing and produces a statistical summary of those observations.
type Histogram interface {
	With(labelValues ...string) Histogram
	Observe(value float64)
}

// CounterInc increases the passed counter by one. If the counter is nil,
// this is a no-op.
func CounterInc(c Counter) {
	CounterAdd(c, 1)
}

// CounterAdd increases the passed counter by delta. If the counter is nil,
// this is a no-op.
func CounterAdd(c Counter, delta float64) {
	if c != nil {
		c.Add(delta)
	}
}

// CounterWith returns the counter with the label values applied, or nil if
// the counter is nil.
func CounterWith(c Counter, labelValues ...string) Counter {
	if c == nil {
		return nil
	}
	return c.With(labelValues...)
}

// GaugeSet sets the passed gauge to value. If the gauge is nil, this is a
// no-op.
func GaugeSet(g Gauge, value float64) {
	if g != nil {
		g.Set(value)
	}
}

// GaugeAdd increases the passed gauge by delta. If the gauge is nil, this is
// a no-op.
func GaugeAdd(g Gauge, delta float64) {
	if g != nil {
		g.Add(delta)
	}
}

// GaugeWith returns the gauge with the label values applied, or nil if the
// gauge is nil.
func GaugeWith(g Gauge, labelValues ...string) Gauge {
	if g == nil {
		return nil
	}
	return g.With(labelValues...)
}

// HistogramObserve adds an observation to the passed histogram. If the
// histogram is nil, this is a no-op.
func HistogramObserve(h Histogram, value float64) {
	if h != nil {
		h.Observe(value)
	}
}

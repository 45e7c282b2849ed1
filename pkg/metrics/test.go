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

package metrics

import (
	"strings"
	"sync"
)

// series is the label-keyed storage shared by all With children of one test
// metric.
type series struct {
	mu     sync.Mutex
	values map[string]float64
}

func newSeries() *series {
	return &series{values: make(map[string]float64)}
}

func (s *series) add(key string, delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] += delta
}

func (s *series) set(key string, v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = v
}

func (s *series) value(key string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

func labelKey(labels []string) string {
	return strings.Join(labels, "\x00")
}

// TestCounter implements Counter for tests. With derives a child bound to
// the given label values; children with equal label values share one series.
type TestCounter struct {
	s      *series
	labels []string
}

// NewTestCounter creates a counter for testing.
func NewTestCounter() *TestCounter {
	return &TestCounter{s: newSeries()}
}

// With implements Counter.
func (c *TestCounter) With(labels ...string) Counter {
	child := &TestCounter{s: c.s}
	child.labels = append(append(child.labels, c.labels...), labels...)
	return child
}

// Add implements Counter.
func (c *TestCounter) Add(delta float64) {
	c.s.add(labelKey(c.labels), delta)
}

// CounterValue extracts the value of the series the counter is bound to. If
// the counter is of a different type, CounterValue panics.
func CounterValue(c Counter) float64 {
	tc := c.(*TestCounter)
	return tc.s.value(labelKey(tc.labels))
}

// TestGauge implements Gauge for tests. With derives a child bound to the
// given label values; children with equal label values share one series.
type TestGauge struct {
	s      *series
	labels []string
}

// NewTestGauge creates a gauge for testing.
func NewTestGauge() *TestGauge {
	return &TestGauge{s: newSeries()}
}

// With implements Gauge.
func (g *TestGauge) With(labels ...string) Gauge {
	child := &TestGauge{s: g.s}
	child.labels = append(append(child.labels, g.labels...), labels...)
	return child
}

// Set implements Gauge.
func (g *TestGauge) Set(v float64) {
	g.s.set(labelKey(g.labels), v)
}

// Add implements Gauge.
func (g *TestGauge) Add(delta float64) {
	g.s.add(labelKey(g.labels), delta)
}

// GaugeValue extracts the value of the series the gauge is bound to. If the
// gauge is of a different type, GaugeValue panics.
func GaugeValue(g Gauge) float64 {
	tg := g.(*TestGauge)
	return tg.s.value(labelKey(tg.labels))
}

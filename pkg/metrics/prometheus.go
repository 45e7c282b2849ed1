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
	"github.com/prometheus/client_golang/prometheus"
)

// NewPromCounter wraps a prometheus counter vector as a Counter. Returns nil
// if cv is nil.
func NewPromCounter(cv *prometheus.CounterVec) Counter {
	if cv == nil {
		return nil
	}
	return &promCounter{cv: cv}
}

// NewPromGauge wraps a prometheus gauge vector as a Gauge. Returns nil if gv
// is nil.
func NewPromGauge(gv *prometheus.GaugeVec) Gauge {
	if gv == nil {
		return nil
	}
	return &promGauge{gv: gv}
}

// NewPromHistogram wraps a prometheus histogram vector as a Histogram.
// Returns nil if hv is nil.
func NewPromHistogram(hv *prometheus.HistogramVec) Histogram {
	if hv == nil {
		return nil
	}
	return &promHistogram{hv: hv}
}

// The wrapper shapes follow the metrics interfaces of the go-kit/kit project
// under the prometheus package, adapted to keep the types unexported. That
// code carries the following license:
//
// The MIT License (MIT)
//
// Copyright (c) 2015 Peter Bourgon
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// labelValues aggregates label key-value pairs across With calls. Odd-length
// input is padded so a malformed call site cannot panic the vector lookup.
type labelValues []string

func (lvs labelValues) with(vals ...string) labelValues {
	if len(vals)%2 != 0 {
		vals = append(vals, "unknown")
	}
	result := make(labelValues, len(lvs), len(lvs)+len(vals))
	copy(result, lvs)
	return append(result, vals...)
}

func (lvs labelValues) labels() prometheus.Labels {
	labels := make(prometheus.Labels, len(lvs)/2)
	for i := 0; i+1 < len(lvs); i += 2 {
		labels[lvs[i]] = lvs[i+1]
	}
	return labels
}

type promCounter struct {
	cv  *prometheus.CounterVec
	lvs labelValues
}

func (c *promCounter) With(labelValues ...string) Counter {
	return &promCounter{cv: c.cv, lvs: c.lvs.with(labelValues...)}
}

func (c *promCounter) Add(delta float64) {
	c.cv.With(c.lvs.labels()).Add(delta)
}

type promGauge struct {
	gv  *prometheus.GaugeVec
	lvs labelValues
}

func (g *promGauge) With(labelValues ...string) Gauge {
	return &promGauge{gv: g.gv, lvs: g.lvs.with(labelValues...)}
}

func (g *promGauge) Set(value float64) {
	g.gv.With(g.lvs.labels()).Set(value)
}

func (g *promGauge) Add(delta float64) {
	g.gv.With(g.lvs.labels()).Add(delta)
}

type promHistogram struct {
	hv  *prometheus.HistogramVec
	lvs labelValues
}

func (h *promHistogram) With(labelValues ...string) Histogram {
	return &promHistogram{hv: h.hv, lvs: h.lvs.with(labelValues...)}
}

func (h *promHistogram) Observe(value float64) {
	h.hv.With(h.lvs.labels()).Observe(value)
}

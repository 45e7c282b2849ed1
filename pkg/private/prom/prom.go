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

// Package prom contains shared label and value conventions for prometheus
// metrics.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Common label names.
const (
	// LabelResult is the label for result classifications.
	LabelResult = "result"
	// LabelOperation is the label for the name of an executed operation.
	LabelOperation = "op"
	// LabelClass is the label for frame classifications.
	LabelClass = "class"
	// LabelMode is the label for the configured routing mode.
	LabelMode = "mode"
	// LabelEvent is the label for topology event types.
	LabelEvent = "event"
)

// Common result values.
const (
	// Success is no error.
	Success = "ok_success"
	// ErrInternal is an internal error.
	ErrInternal = "err_internal"
	// ErrParse is a failure to parse input.
	ErrParse = "err_parse"
	// ErrNoRoute is a missing path between two known switches.
	ErrNoRoute = "err_no_route"
	// ErrDisconnected is a partitioned switch graph.
	ErrDisconnected = "err_disconnected"
	// ErrCompute is a failed route computation.
	ErrCompute = "err_compute"
	// ErrEmit is a frame the driver failed to emit.
	ErrEmit = "err_emit"
	// ErrNotFound is a resource that is not found.
	ErrNotFound = "err_not_found"
	// ErrTimeout is a timeout error.
	ErrTimeout = "err_timeout"
)

// DefaultLatencyBuckets 10ms, 20ms, 40ms, ... 5.12s, 10.24s.
var DefaultLatencyBuckets = []float64{0.01, 0.02, 0.04, 0.08, 0.16, 0.32, 0.64,
	1.28, 2.56, 5.12, 10.24}

// ExportElementID exports the element ID as configured in the config file.
func ExportElementID(id string) {
	promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "fabric",
			Name:      "elem_id",
			Help:      "The element ID from the config file",
		},
		[]string{"cfg"},
	).WithLabelValues(id).Set(1)
}

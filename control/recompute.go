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

package control

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"

	"github.com/openfabric/fabric/control/routing"
	"github.com/openfabric/fabric/control/stability"
	"github.com/openfabric/fabric/control/topology"
	"github.com/openfabric/fabric/pkg/log"
	"github.com/openfabric/fabric/pkg/metrics"
	"github.com/openfabric/fabric/pkg/private/prom"
	"github.com/openfabric/fabric/pkg/tracing"
)

// Recomputer feeds settled topology snapshots to the route engine. It is
// driven by a periodic runner, which serializes runs and bounds each one
// with the computation timeout, so at most one recomputation is ever in
// flight. Topology events trigger an immediate run through the runner.
type Recomputer struct {
	// Store provides topology snapshots. Required.
	Store *topology.Store
	// Gate decides whether the topology has settled. Required.
	Gate *stability.Gate
	// Routes is the engine to recompute. Required.
	Routes routing.Engine

	// Recomputations counts successful recomputations. Optional.
	Recomputations metrics.Counter
	// Errors counts failed recomputations. Optional.
	Errors metrics.Counter
	// Duration observes the time spent per successful recomputation.
	// Optional.
	Duration metrics.Histogram
	// Switches and Links export the size of the observed topology.
	// Optional.
	Switches metrics.Gauge
	Links    metrics.Gauge

	// lastComputed is the snapshot hash of the last successful
	// recomputation. Only touched by Run, which the runner serializes.
	lastComputed uint64
	computedOnce bool
}

// Name returns the task's name.
func (r *Recomputer) Name() string {
	return "control.route_recomputer"
}

// Run observes the current snapshot and recomputes the route tables when
// the topology has settled on a state that was not computed yet. Failed
// recomputations keep the last good tables and are retried on the next
// settled observation.
func (r *Recomputer) Run(ctx context.Context) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "recomputer.run")
	defer span.Finish()
	logger := log.FromCtx(ctx)
	snap := r.Store.Snapshot()
	metrics.GaugeSet(r.Switches, float64(snap.NumSwitches()))
	metrics.GaugeSet(r.Links, float64(snap.NumLinks()))
	decision := r.Gate.Observe(snap)
	if !decision.Settled {
		tracing.ResultLabel(span, "unsettled")
		logger.Debug("Topology not settled, keeping route tables",
			"hash", decision.Hash)
		return
	}
	if r.computedOnce && decision.Hash == r.lastComputed {
		tracing.ResultLabel(span, "unchanged")
		return
	}
	start := time.Now()
	if err := r.Routes.Recompute(ctx, snap); err != nil {
		metrics.CounterInc(r.Errors)
		tracing.Error(span, err)
		tracing.ResultLabel(span, prom.ErrCompute)
		logger.Error("Route recomputation failed, keeping last good tables",
			"hash", decision.Hash, "err", err)
		return
	}
	r.lastComputed = decision.Hash
	r.computedOnce = true
	metrics.CounterInc(r.Recomputations)
	metrics.HistogramObserve(r.Duration, time.Since(start).Seconds())
	tracing.ResultLabel(span, prom.Success)
	logger.Info("Route tables recomputed",
		"hash", decision.Hash,
		"switches", snap.NumSwitches(),
		"links", snap.NumLinks(),
		"duration", time.Since(start))
}

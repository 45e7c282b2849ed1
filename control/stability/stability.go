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

// Package stability debounces topology churn. Discovery delivers link events
// in bursts, so routes are derived only from snapshots that have been
// observed unchanged for a number of consecutive cycles.
package stability

import (
	"sync"

	"github.com/openfabric/fabric/control/topology"
	"github.com/openfabric/fabric/pkg/metrics"
)

// DefaultThreshold is the number of consecutive equal observations after
// which a snapshot counts as settled.
const DefaultThreshold = 3

// Decision is the outcome of one observation cycle.
type Decision struct {
	// Settled reports whether the topology has converged.
	Settled bool
	// Hash is the digest of the observed snapshot.
	Hash uint64
}

// Metrics reports the gate state. All fields are optional.
type Metrics struct {
	// Observations is the current count of consecutive equal observations.
	Observations metrics.Gauge
	// Settled is 1 while the gate reports a converged topology.
	Settled metrics.Gauge
}

// Gate tracks consecutive identical topology observations. The zero
// threshold is lifted to 1, so settling always requires at least one
// confirmed repeat of a snapshot.
type Gate struct {
	threshold int
	metrics   Metrics

	mu       sync.Mutex
	count    int
	lastHash uint64
	observed bool
	settled  bool
}

// New creates a gate that settles after threshold consecutive equal
// observations.
func New(threshold int, m Metrics) *Gate {
	if threshold < 1 {
		threshold = 1
	}
	return &Gate{
		threshold: threshold,
		metrics:   m,
	}
}

// Observe feeds one observation cycle into the gate. An observation equal to
// the previous one advances the counter; any difference restarts the
// debounce.
func (g *Gate) Observe(snap topology.Snapshot) Decision {
	hash := snap.Hash()
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.observed && hash == g.lastHash {
		g.count++
	} else {
		g.count = 0
		g.settled = false
	}
	g.lastHash = hash
	g.observed = true
	if g.count >= g.threshold {
		g.settled = true
	}
	g.export()
	return Decision{Settled: g.settled, Hash: hash}
}

// Reset clears the settled state and restarts the debounce. It is invoked on
// every topology event; in particular a switch disconnect must never leave
// the gate settled, even if a later snapshot hashes identically.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.count = 0
	g.settled = false
	g.export()
}

// Settled reports the current gate state.
func (g *Gate) Settled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.settled
}

func (g *Gate) export() {
	metrics.GaugeSet(g.metrics.Observations, float64(g.count))
	if g.settled {
		metrics.GaugeSet(g.metrics.Settled, 1)
	} else {
		metrics.GaugeSet(g.metrics.Settled, 0)
	}
}

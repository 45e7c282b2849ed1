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

package stability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfabric/fabric/control/stability"
	"github.com/openfabric/fabric/control/topology"
	"github.com/openfabric/fabric/pkg/metrics"
)

func ringStore() *topology.Store {
	s := topology.New()
	s.SwitchUp(1, []uint32{1, 2})
	s.SwitchUp(2, []uint32{1, 2})
	s.LinkUp(1, 2, 2)
	s.LinkUp(2, 1, 1)
	return s
}

func TestSettleAtThreshold(t *testing.T) {
	s := ringStore()
	g := stability.New(3, stability.Metrics{})

	d := g.Observe(s.Snapshot())
	assert.False(t, d.Settled, "first observation has nothing to compare against")
	for i := 0; i < 2; i++ {
		d = g.Observe(s.Snapshot())
		assert.False(t, d.Settled, "observation %d must not settle yet", i+2)
	}
	d = g.Observe(s.Snapshot())
	assert.True(t, d.Settled, "threshold consecutive equal observations settle the gate")
	assert.True(t, g.Settled())

	d = g.Observe(s.Snapshot())
	assert.True(t, d.Settled, "gate stays settled while the topology is unchanged")
}

func settle(t *testing.T, g *stability.Gate, s *topology.Store) {
	t.Helper()
	var d stability.Decision
	for i := 0; i < 4; i++ {
		d = g.Observe(s.Snapshot())
	}
	require.True(t, d.Settled)
}

func TestChangeResets(t *testing.T) {
	s := ringStore()
	g := stability.New(3, stability.Metrics{})
	settle(t, g, s)

	s.LinkDown(1, 2)
	d := g.Observe(s.Snapshot())
	assert.False(t, d.Settled, "a differing observation clears settled")
	assert.False(t, g.Settled())

	for i := 0; i < 2; i++ {
		d = g.Observe(s.Snapshot())
		assert.False(t, d.Settled)
	}
	d = g.Observe(s.Snapshot())
	assert.True(t, d.Settled, "the changed topology settles after a fresh debounce")
}

func TestResetForcesFreshDebounce(t *testing.T) {
	s := ringStore()
	g := stability.New(3, stability.Metrics{})
	settle(t, g, s)

	// A flap that restores identical content still restarts the debounce.
	g.Reset()
	assert.False(t, g.Settled())

	for i := 0; i < 2; i++ {
		d := g.Observe(s.Snapshot())
		assert.False(t, d.Settled)
	}
	d := g.Observe(s.Snapshot())
	assert.True(t, d.Settled)
}

func TestDecisionHash(t *testing.T) {
	s := ringStore()
	g := stability.New(1, stability.Metrics{})
	snap := s.Snapshot()
	d := g.Observe(snap)
	assert.Equal(t, snap.Hash(), d.Hash)
}

func TestMetrics(t *testing.T) {
	obs := metrics.NewTestGauge()
	settledG := metrics.NewTestGauge()
	s := ringStore()
	g := stability.New(2, stability.Metrics{Observations: obs, Settled: settledG})

	g.Observe(s.Snapshot())
	assert.Equal(t, float64(0), metrics.GaugeValue(obs))
	assert.Equal(t, float64(0), metrics.GaugeValue(settledG))

	g.Observe(s.Snapshot())
	g.Observe(s.Snapshot())
	assert.Equal(t, float64(2), metrics.GaugeValue(obs))
	assert.Equal(t, float64(1), metrics.GaugeValue(settledG))

	g.Reset()
	assert.Equal(t, float64(0), metrics.GaugeValue(obs))
	assert.Equal(t, float64(0), metrics.GaugeValue(settledG))
}

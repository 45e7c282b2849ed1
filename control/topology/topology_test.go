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

package topology_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfabric/fabric/control/topology"
	"github.com/openfabric/fabric/pkg/addr"
)

func TestSwitchUpDuplicate(t *testing.T) {
	s := topology.New()
	require.True(t, s.SwitchUp(1, []uint32{1, 2}))
	assert.False(t, s.SwitchUp(1, []uint32{7, 8, 9}))

	ports, ok := s.Ports(1)
	require.True(t, ok)
	assert.Equal(t, []uint32{1, 2}, ports, "duplicate connect must not change state")
}

func TestSwitchDownRemovesIncidentLinks(t *testing.T) {
	s := topology.New()
	s.SwitchUp(1, []uint32{1, 2})
	s.SwitchUp(2, []uint32{1, 2})
	s.SwitchUp(3, []uint32{1, 2})
	s.LinkUp(1, 2, 1)
	s.LinkUp(2, 1, 1)
	s.LinkUp(2, 3, 2)
	s.LinkUp(3, 2, 1)

	require.True(t, s.SwitchDown(2))
	assert.False(t, s.SwitchDown(2))

	snap := s.Snapshot()
	assert.Equal(t, []addr.DPID{1, 3}, snap.Switches())
	assert.Empty(t, snap.Links(), "links touching the removed switch must be gone")
	assert.Equal(t, 0, snap.NumLinks())
}

func TestHalfLinkExcludedUntilBothEndpointsLive(t *testing.T) {
	s := topology.New()
	s.SwitchUp(1, []uint32{1})
	s.LinkUp(1, 2, 1)

	snap := s.Snapshot()
	assert.Empty(t, snap.Links(), "half link must not be effective")
	assert.Equal(t, 1, snap.NumLinks(), "half link must still be stored")

	s.SwitchUp(2, []uint32{1})
	snap = s.Snapshot()
	assert.Equal(t,
		[]topology.Link{{From: 1, To: 2, Port: 1}},
		snap.Links(),
		"link becomes effective once the missing switch connects",
	)
}

func TestLinkDown(t *testing.T) {
	s := topology.New()
	s.SwitchUp(1, []uint32{1})
	s.SwitchUp(2, []uint32{1})
	s.LinkUp(1, 2, 1)
	s.LinkUp(2, 1, 1)

	require.True(t, s.LinkDown(1, 2))
	assert.False(t, s.LinkDown(1, 2), "removing twice reports unknown")

	snap := s.Snapshot()
	assert.Equal(t,
		[]topology.Link{{From: 2, To: 1, Port: 1}},
		snap.Links(),
		"only the named direction is removed",
	)
}

func TestLinkUpRefresh(t *testing.T) {
	s := topology.New()
	s.SwitchUp(1, []uint32{1, 2})
	s.SwitchUp(2, []uint32{1})

	assert.True(t, s.LinkUp(1, 2, 1), "new adjacency is a change")
	assert.False(t, s.LinkUp(1, 2, 1), "identical refresh is not")
	assert.True(t, s.LinkUp(1, 2, 2), "moved port is a change")
}

func TestSnapshotIsolation(t *testing.T) {
	s := topology.New()
	s.SwitchUp(1, []uint32{1, 2})
	s.SwitchUp(2, []uint32{1})
	s.LinkUp(1, 2, 2)

	snap := s.Snapshot()
	s.SwitchDown(2)
	s.LinkUp(1, 3, 1)

	assert.Equal(t, []addr.DPID{1, 2}, snap.Switches())
	assert.Equal(t, []topology.Link{{From: 1, To: 2, Port: 2}}, snap.Links())
}

func TestHashOrderIndependent(t *testing.T) {
	a := topology.New()
	a.SwitchUp(1, []uint32{1, 2})
	a.SwitchUp(2, []uint32{2, 1})
	a.LinkUp(1, 2, 1)
	a.LinkUp(2, 1, 2)

	b := topology.New()
	b.LinkUp(2, 1, 2)
	b.SwitchUp(2, []uint32{1, 2})
	b.LinkUp(1, 2, 1)
	b.SwitchUp(1, []uint32{2, 1})

	assert.Equal(t, a.Snapshot().Hash(), b.Snapshot().Hash())
}

func TestHashChanges(t *testing.T) {
	s := topology.New()
	s.SwitchUp(1, []uint32{1, 2})
	s.SwitchUp(2, []uint32{1, 2})
	base := s.Snapshot().Hash()

	s.LinkUp(1, 2, 1)
	withLink := s.Snapshot().Hash()
	assert.NotEqual(t, base, withLink)

	s.LinkDown(1, 2)
	assert.Equal(t, base, s.Snapshot().Hash(), "returning to the same state restores the hash")

	s.LinkUp(1, 3, 2)
	assert.NotEqual(t, base, s.Snapshot().Hash(), "half links are part of the digest")
}

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

package routing

import (
	"context"
	"math"
	"sync"

	"gonum.org/v1/gonum/graph/path"

	"github.com/openfabric/fabric/control/topology"
	"github.com/openfabric/fabric/pkg/addr"
	"github.com/openfabric/fabric/pkg/private/serrors"
)

// Johnson is the precomputing routing engine. Recompute runs an all pairs
// shortest path computation and materializes the next hop of every ordered
// switch pair, so NextHop on the frame path is a pure map lookup. Equal
// cost ties resolve to the lowest neighbor identifier, which keeps
// recomputations of an unchanged snapshot identical.
type Johnson struct {
	policy Policy

	mu    sync.RWMutex
	state *allPairsState
}

// NewJohnson creates a precomputing engine.
func NewJohnson(policy Policy) *Johnson {
	return &Johnson{policy: policy.withDefaults()}
}

type allPairsState struct {
	*routeState
	next map[pair]addr.DPID
}

func (s *allPairsState) base() *routeState {
	if s == nil {
		return nil
	}
	return s.routeState
}

// Recompute derives the base artifacts and the full next hop table from
// the snapshot and swaps them in.
func (e *Johnson) Recompute(ctx context.Context, snap topology.Snapshot) error {
	base, err := newRouteState(snap)
	if err != nil {
		return err
	}
	next, err := nextHops(base, snap.Switches())
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return serrors.JoinNoStack(ErrComputationFailed, err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = &allPairsState{routeState: base, next: next}
	return nil
}

// nextHops materializes the next hop table from the all pairs distances.
// For every reachable pair the next hop is the lowest numbered neighbor
// that lies on a shortest path.
func nextHops(st *routeState, ids []addr.DPID) (m map[pair]addr.DPID, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, serrors.JoinNoStack(ErrComputationFailed, nil, "panic", r)
		}
	}()
	paths, ok := path.JohnsonAllPaths(st.graph)
	if !ok {
		return nil, serrors.JoinNoStack(ErrComputationFailed, nil,
			"reason", "negative cycle")
	}
	m = make(map[pair]addr.DPID)
	for _, src := range ids {
		nbrs := st.sortedNeighbors(src)
		for _, dst := range ids {
			if src == dst {
				continue
			}
			total := paths.Weight(src.Int64(), dst.Int64())
			if math.IsInf(total, 1) {
				continue
			}
			for _, nbr := range nbrs {
				if 1+paths.Weight(nbr.Int64(), dst.Int64()) == total {
					m[pair{src: src, dst: dst}] = nbr
					break
				}
			}
		}
	}
	return m, nil
}

// NextHop returns the neighbor of src on a shortest path towards dst.
func (e *Johnson) NextHop(src, dst addr.DPID) (addr.DPID, error) {
	st := e.current()
	if err := st.base().checkEndpoints(src, dst); err != nil {
		return 0, err
	}
	if src == dst {
		return dst, nil
	}
	hop, ok := st.next[pair{src: src, dst: dst}]
	if !ok {
		return 0, serrors.JoinNoStack(ErrNoRoute, nil, "src", src, "dst", dst)
	}
	return hop, nil
}

// PortTo returns the egress port on dpid towards the neighbor hop.
func (e *Johnson) PortTo(dpid, hop addr.DPID) (uint32, bool) {
	return e.current().base().portTo(dpid, hop)
}

// FloodPorts returns the ports a frame received on ingress is flooded to.
func (e *Johnson) FloodPorts(dpid addr.DPID, localPorts []uint32, ingress uint32) []uint32 {
	return e.current().base().floodPorts(e.policy, dpid, localPorts, ingress)
}

// Ready reports whether a recomputation has succeeded yet.
func (e *Johnson) Ready() bool {
	return e.current() != nil
}

func (e *Johnson) current() *allPairsState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

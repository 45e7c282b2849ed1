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
	"sync"

	"github.com/hashicorp/golang-lru/arc/v2"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/openfabric/fabric/control/topology"
	"github.com/openfabric/fabric/pkg/addr"
	"github.com/openfabric/fabric/pkg/private/serrors"
)

// BellmanFord is the on demand routing engine. The first NextHop query for
// a source computes the full shortest path tree rooted there and memoizes
// it, so every destination reachable from that source is served from the
// same tree afterwards. Materialized paths of hot (source, destination)
// pairs are additionally kept in an adaptive replacement cache.
type BellmanFord struct {
	policy    Policy
	cacheSize int

	mu    sync.RWMutex
	state *demandState
}

// NewBellmanFord creates an on demand engine. pathCache bounds the number
// of materialized paths, zero or negative selects DefaultPathCache.
func NewBellmanFord(policy Policy, pathCache int) *BellmanFord {
	if pathCache <= 0 {
		pathCache = DefaultPathCache
	}
	return &BellmanFord{
		policy:    policy.withDefaults(),
		cacheSize: pathCache,
	}
}

// demandState extends the base artifacts with the lazily filled per source
// trees and the path cache. Both are discarded together with the state on
// the next successful recomputation.
type demandState struct {
	*routeState
	paths *arc.ARCCache[pair, []addr.DPID]

	mu    sync.Mutex
	trees map[addr.DPID]path.Shortest
}

func (s *demandState) base() *routeState {
	if s == nil {
		return nil
	}
	return s.routeState
}

// tree returns the memoized shortest path tree rooted at src, computing it
// on first use.
func (s *demandState) tree(src addr.DPID) (path.Shortest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.trees[src]; ok {
		return t, nil
	}
	t, err := bellmanFrom(s.graph, src)
	if err != nil {
		return path.Shortest{}, err
	}
	s.trees[src] = t
	return t, nil
}

func bellmanFrom(g *simple.WeightedDirectedGraph, src addr.DPID) (t path.Shortest, err error) {
	defer func() {
		if r := recover(); r != nil {
			t, err = path.Shortest{}, serrors.JoinNoStack(ErrComputationFailed, nil, "panic", r)
		}
	}()
	t, ok := path.BellmanFordFrom(simple.Node(src.Int64()), g)
	if !ok {
		return path.Shortest{}, serrors.JoinNoStack(ErrComputationFailed, nil,
			"reason", "negative cycle")
	}
	return t, nil
}

// Recompute derives fresh base artifacts and empty caches from the
// snapshot and swaps them in.
func (e *BellmanFord) Recompute(ctx context.Context, snap topology.Snapshot) error {
	base, err := newRouteState(snap)
	if err != nil {
		return err
	}
	paths, err := arc.NewARC[pair, []addr.DPID](e.cacheSize)
	if err != nil {
		return serrors.Wrap("creating path cache", err)
	}
	if err := ctx.Err(); err != nil {
		return serrors.JoinNoStack(ErrComputationFailed, err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = &demandState{
		routeState: base,
		paths:      paths,
		trees:      make(map[addr.DPID]path.Shortest),
	}
	return nil
}

// NextHop returns the neighbor of src on a shortest path towards dst.
func (e *BellmanFord) NextHop(src, dst addr.DPID) (addr.DPID, error) {
	st := e.current()
	if err := st.base().checkEndpoints(src, dst); err != nil {
		return 0, err
	}
	if src == dst {
		return dst, nil
	}
	key := pair{src: src, dst: dst}
	if hops, ok := st.paths.Get(key); ok {
		return hops[1], nil
	}
	tree, err := st.tree(src)
	if err != nil {
		return 0, err
	}
	nodes, _ := tree.To(dst.Int64())
	if len(nodes) < 2 {
		return 0, serrors.JoinNoStack(ErrNoRoute, nil, "src", src, "dst", dst)
	}
	hops := make([]addr.DPID, len(nodes))
	for i, n := range nodes {
		hops[i] = addr.DPIDFromInt64(n.ID())
	}
	st.paths.Add(key, hops)
	return hops[1], nil
}

// PortTo returns the egress port on dpid towards the neighbor hop.
func (e *BellmanFord) PortTo(dpid, hop addr.DPID) (uint32, bool) {
	return e.current().base().portTo(dpid, hop)
}

// FloodPorts returns the ports a frame received on ingress is flooded to.
func (e *BellmanFord) FloodPorts(dpid addr.DPID, localPorts []uint32, ingress uint32) []uint32 {
	return e.current().base().floodPorts(e.policy, dpid, localPorts, ingress)
}

// Ready reports whether a recomputation has succeeded yet.
func (e *BellmanFord) Ready() bool {
	return e.current() != nil
}

func (e *BellmanFord) current() *demandState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

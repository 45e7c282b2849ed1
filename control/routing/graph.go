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
	"math"
	"sort"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/openfabric/fabric/control/topology"
	"github.com/openfabric/fabric/pkg/addr"
	"github.com/openfabric/fabric/pkg/private/serrors"
)

// pair keys a directed (source, destination) switch tuple.
type pair struct {
	src addr.DPID
	dst addr.DPID
}

// undirectedEdge keys an unordered switch pair, normalized so that a <= b.
type undirectedEdge struct {
	a addr.DPID
	b addr.DPID
}

func normEdge(x, y addr.DPID) undirectedEdge {
	if x <= y {
		return undirectedEdge{a: x, b: y}
	}
	return undirectedEdge{a: y, b: x}
}

// routeState is the immutable artifact bundle derived from one snapshot.
// All methods tolerate a nil receiver, which stands for "nothing routed
// yet" and answers like an empty topology.
type routeState struct {
	graph *simple.WeightedDirectedGraph
	nodes map[addr.DPID]struct{}
	// ports maps a switch to the egress port reaching each neighbor.
	ports map[addr.DPID]map[addr.DPID]uint32
	// byPort is the reverse view: which neighbor a local port leads to.
	byPort map[addr.DPID]map[uint32]addr.DPID
	// spanning holds the undirected edges flooded traffic may cross. It is
	// nil while the switch graph is partitioned.
	spanning map[undirectedEdge]struct{}
}

// newRouteState builds the graph, port maps and spanning structure for the
// snapshot. Half links are already excluded by Snapshot.Links, self links
// are skipped here. A panic inside the graph library must not reach the
// frame path, so it is converted into an ErrComputationFailed and the
// caller keeps its last good state.
func newRouteState(snap topology.Snapshot) (st *routeState, err error) {
	defer func() {
		if r := recover(); r != nil {
			st, err = nil, serrors.JoinNoStack(ErrComputationFailed, nil, "panic", r)
		}
	}()

	st = &routeState{
		graph:  simple.NewWeightedDirectedGraph(0, math.Inf(1)),
		nodes:  make(map[addr.DPID]struct{}),
		ports:  make(map[addr.DPID]map[addr.DPID]uint32),
		byPort: make(map[addr.DPID]map[uint32]addr.DPID),
	}
	for _, dpid := range snap.Switches() {
		st.graph.AddNode(simple.Node(dpid.Int64()))
		st.nodes[dpid] = struct{}{}
	}
	links := snap.Links()
	for _, l := range links {
		if l.From == l.To {
			continue
		}
		st.graph.SetWeightedEdge(simple.WeightedEdge{
			F: simple.Node(l.From.Int64()),
			T: simple.Node(l.To.Int64()),
			W: 1,
		})
		if st.ports[l.From] == nil {
			st.ports[l.From] = make(map[addr.DPID]uint32)
			st.byPort[l.From] = make(map[uint32]addr.DPID)
		}
		st.ports[l.From][l.To] = l.Port
		st.byPort[l.From][l.Port] = l.To
	}
	st.spanning = spanningEdges(snap.Switches(), links)
	return st, nil
}

// spanningEdges returns the edge set of a spanning tree over the undirected
// view of the links, or nil if the switch graph is not connected. Each
// undirected edge carries a distinct weight taken from its rank in sorted
// order, which makes the minimum tree unique: equal snapshots yield equal
// spanning sets.
func spanningEdges(switches []addr.DPID, links []topology.Link) map[undirectedEdge]struct{} {
	ug := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for _, dpid := range switches {
		ug.AddNode(simple.Node(dpid.Int64()))
	}
	seen := make(map[undirectedEdge]struct{})
	keys := make([]undirectedEdge, 0, len(links))
	for _, l := range links {
		if l.From == l.To {
			continue
		}
		k := normEdge(l.From, l.To)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].a != keys[j].a {
			return keys[i].a < keys[j].a
		}
		return keys[i].b < keys[j].b
	})
	for i, k := range keys {
		ug.SetWeightedEdge(simple.WeightedEdge{
			F: simple.Node(k.a.Int64()),
			T: simple.Node(k.b.Int64()),
			W: float64(i + 1),
		})
	}
	if len(topo.ConnectedComponents(ug)) != 1 {
		return nil
	}
	tree := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	path.Kruskal(tree, ug)
	spanning := make(map[undirectedEdge]struct{})
	it := tree.Edges()
	for it.Next() {
		e := it.Edge()
		spanning[normEdge(
			addr.DPIDFromInt64(e.From().ID()),
			addr.DPIDFromInt64(e.To().ID()),
		)] = struct{}{}
	}
	return spanning
}

func (s *routeState) hasNode(dpid addr.DPID) bool {
	if s == nil {
		return false
	}
	_, ok := s.nodes[dpid]
	return ok
}

// checkEndpoints validates that routing state exists and that both
// switches are part of the routed snapshot.
func (s *routeState) checkEndpoints(src, dst addr.DPID) error {
	if s == nil {
		return serrors.JoinNoStack(ErrDisconnected, nil, "reason", "no routes computed")
	}
	if !s.hasNode(src) {
		return serrors.JoinNoStack(ErrDisconnected, nil, "dpid", src)
	}
	if !s.hasNode(dst) {
		return serrors.JoinNoStack(ErrDisconnected, nil, "dpid", dst)
	}
	return nil
}

func (s *routeState) partitioned() bool {
	return s == nil || s.spanning == nil
}

func (s *routeState) spanningHas(x, y addr.DPID) bool {
	if s == nil || s.spanning == nil {
		return false
	}
	_, ok := s.spanning[normEdge(x, y)]
	return ok
}

// neighborOn returns the switch reached through the given local port.
func (s *routeState) neighborOn(dpid addr.DPID, port uint32) (addr.DPID, bool) {
	if s == nil {
		return 0, false
	}
	nbr, ok := s.byPort[dpid][port]
	return nbr, ok
}

func (s *routeState) portTo(dpid, hop addr.DPID) (uint32, bool) {
	if s == nil {
		return 0, false
	}
	port, ok := s.ports[dpid][hop]
	return port, ok
}

// sortedNeighbors returns the switches directly reachable from dpid in
// ascending order.
func (s *routeState) sortedNeighbors(dpid addr.DPID) []addr.DPID {
	if s == nil {
		return nil
	}
	nbrs := make([]addr.DPID, 0, len(s.ports[dpid]))
	for nbr := range s.ports[dpid] {
		nbrs = append(nbrs, nbr)
	}
	sort.Slice(nbrs, func(i, j int) bool { return nbrs[i] < nbrs[j] })
	return nbrs
}

// floodPorts applies the flood policy to the local port list. A port is
// flooded if it is host facing under the unmapped policy, or if it maps to
// a neighbor whose edge is part of the spanning structure. The ingress port
// is never flooded.
func (s *routeState) floodPorts(
	policy Policy,
	dpid addr.DPID,
	localPorts []uint32,
	ingress uint32,
) []uint32 {
	if s.partitioned() && policy.Partitioned == PartitionedDrop {
		return nil
	}
	ports := make([]uint32, 0, len(localPorts))
	for _, p := range localPorts {
		if p == ingress {
			continue
		}
		nbr, mapped := s.neighborOn(dpid, p)
		if !mapped {
			if policy.UnmappedPorts == UnmappedHost {
				ports = append(ports, p)
			}
			continue
		}
		if s.spanningHas(dpid, nbr) {
			ports = append(ports, p)
		}
	}
	return ports
}

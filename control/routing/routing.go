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

// Package routing derives forwarding state from settled topology snapshots.
//
// An Engine turns a snapshot into an immutable bundle of routing artifacts:
// a weighted graph, a port map, a spanning structure that bounds flooded
// traffic, and the mode specific path tables. The bundle is swapped in as
// one unit when a recomputation succeeds, so the frame path always reads
// either the previous complete state or the next one, never a mix. A failed
// recomputation leaves the last good state in place.
//
// Two modes share the Engine contract. The on demand mode computes single
// source shortest path trees when a destination is first asked for and
// memoizes them for the lifetime of the state. The all pairs mode
// materializes every next hop eagerly during Recompute, so lookups on the
// frame path never compute anything.
package routing

import (
	"context"

	"github.com/openfabric/fabric/control/topology"
	"github.com/openfabric/fabric/pkg/addr"
	"github.com/openfabric/fabric/pkg/private/serrors"
)

// Routing modes selectable in the configuration.
const (
	// ModeBellmanFord computes single source shortest paths on demand and
	// caches them per source.
	ModeBellmanFord = "bellman-ford"
	// ModeJohnson precomputes all pairs shortest paths on every recompute.
	ModeJohnson = "johnson"
)

// DefaultPathCache is the number of materialized (source, destination)
// paths kept by the on demand mode.
const DefaultPathCache = 1024

// Engine computes and serves routing decisions. Implementations serve
// NextHop, PortTo and FloodPorts from an immutable state bundle and are
// safe for concurrent use.
type Engine interface {
	// Recompute derives fresh routing state from the snapshot and swaps it
	// in atomically. On error the previous state stays in place. The
	// computation itself is not interrupted by the context; a context that
	// expires before the swap discards the result.
	Recompute(ctx context.Context, snap topology.Snapshot) error
	// NextHop returns the switch to forward to in order to reach dst from
	// src. Both switches must be part of the routed snapshot.
	NextHop(src, dst addr.DPID) (addr.DPID, error)
	// PortTo returns the egress port on dpid that reaches the neighbor hop.
	PortTo(dpid, hop addr.DPID) (uint32, bool)
	// FloodPorts returns the subset of localPorts on which a broadcast or
	// unknown destination frame received on ingress may be emitted.
	FloodPorts(dpid addr.DPID, localPorts []uint32, ingress uint32) []uint32
	// Ready reports whether at least one recomputation has succeeded.
	Ready() bool
}

// PortPolicy decides how a local port with no known switch neighbor is
// treated when flooding.
type PortPolicy string

const (
	// UnmappedHost assumes an unmapped port faces a host and floods it.
	UnmappedHost PortPolicy = "host"
	// UnmappedDrop never floods an unmapped port.
	UnmappedDrop PortPolicy = "drop"
)

// PartitionPolicy decides how flooding behaves while the switch graph is
// partitioned and no spanning structure exists.
type PartitionPolicy string

const (
	// PartitionedHostOnly floods host facing ports but never inter switch
	// links, so a partition cannot amplify broadcast traffic.
	PartitionedHostOnly PartitionPolicy = "host-only"
	// PartitionedDrop suppresses flooding entirely.
	PartitionedDrop PartitionPolicy = "drop"
)

// Policy bundles the flood behavior knobs of an Engine.
type Policy struct {
	// UnmappedPorts is the treatment of ports without a link record.
	UnmappedPorts PortPolicy
	// Partitioned is the flood behavior without a spanning structure.
	Partitioned PartitionPolicy
}

func (p Policy) withDefaults() Policy {
	if p.UnmappedPorts == "" {
		p.UnmappedPorts = UnmappedHost
	}
	if p.Partitioned == "" {
		p.Partitioned = PartitionedHostOnly
	}
	return p
}

// New creates the engine for the configured mode. An empty mode selects
// ModeBellmanFord.
func New(mode string, policy Policy, pathCache int) (Engine, error) {
	switch mode {
	case ModeBellmanFord, "":
		return NewBellmanFord(policy, pathCache), nil
	case ModeJohnson:
		return NewJohnson(policy), nil
	default:
		return nil, serrors.New("unknown routing mode", "mode", mode)
	}
}

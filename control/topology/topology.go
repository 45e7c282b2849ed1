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

// Package topology holds the authoritative in-memory view of the switch
// fabric. The store is fed by driver events and consulted through immutable
// snapshots.
package topology

import (
	"encoding/binary"
	"hash/fnv"
	"sort"
	"sync"

	"github.com/openfabric/fabric/pkg/addr"
)

// Link is a unidirectional adjacency: frames leave From on Port and arrive
// at To. A bidirectional physical link is stored as two records.
type Link struct {
	From addr.DPID
	To   addr.DPID
	Port uint32
}

type edge struct {
	from addr.DPID
	to   addr.DPID
}

// Store is the single writer topology state. Mutations take the write lock;
// snapshots are deep copies taken under the read lock and stay valid after
// further mutation.
type Store struct {
	mu       sync.RWMutex
	switches map[addr.DPID][]uint32
	links    map[edge]uint32
}

// New creates an empty topology store.
func New() *Store {
	return &Store{
		switches: make(map[addr.DPID][]uint32),
		links:    make(map[edge]uint32),
	}
}

// SwitchUp registers a switch and its port set. It returns false without
// changing any state if the switch is already registered.
func (s *Store) SwitchUp(dpid addr.DPID, ports []uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.switches[dpid]; ok {
		return false
	}
	cp := make([]uint32, len(ports))
	copy(cp, ports)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
	s.switches[dpid] = cp
	return true
}

// SwitchDown removes the switch and every link that references it, in both
// directions, as one atomic mutation. It returns false if the switch is
// unknown.
func (s *Store) SwitchDown(dpid addr.DPID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.switches[dpid]; !ok {
		return false
	}
	delete(s.switches, dpid)
	for e := range s.links {
		if e.from == dpid || e.to == dpid {
			delete(s.links, e)
		}
	}
	return true
}

// LinkUp records the adjacency from -> to via the given output port on from.
// Either endpoint may be unknown; such half links are stored and become
// effective once the missing switch connects. It returns false if the
// identical adjacency is already recorded, so that periodic discovery
// refreshes are distinguishable from actual changes.
func (s *Store) LinkUp(from, to addr.DPID, port uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := edge{from: from, to: to}
	if old, ok := s.links[e]; ok && old == port {
		return false
	}
	s.links[e] = port
	return true
}

// LinkDown removes the adjacency from -> to. It returns false if no such
// link is recorded.
func (s *Store) LinkDown(from, to addr.DPID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.links[edge{from: from, to: to}]; !ok {
		return false
	}
	delete(s.links, edge{from: from, to: to})
	return true
}

// Ports returns a copy of the port set of the switch.
func (s *Store) Ports(dpid addr.DPID) ([]uint32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ports, ok := s.switches[dpid]
	if !ok {
		return nil, false
	}
	cp := make([]uint32, len(ports))
	copy(cp, ports)
	return cp, true
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		switches: make(map[addr.DPID][]uint32, len(s.switches)),
		links:    make(map[edge]uint32, len(s.links)),
	}
	for dpid, ports := range s.switches {
		cp := make([]uint32, len(ports))
		copy(cp, ports)
		snap.switches[dpid] = cp
	}
	for e, port := range s.links {
		snap.links[e] = port
	}
	return snap
}

// Snapshot is an immutable copy of the topology at one point in time.
type Snapshot struct {
	switches map[addr.DPID][]uint32
	links    map[edge]uint32
}

// Switches returns the registered switch identifiers in ascending order.
func (s Snapshot) Switches() []addr.DPID {
	ids := make([]addr.DPID, 0, len(s.switches))
	for dpid := range s.switches {
		ids = append(ids, dpid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// HasSwitch reports whether the switch is part of the snapshot.
func (s Snapshot) HasSwitch(dpid addr.DPID) bool {
	_, ok := s.switches[dpid]
	return ok
}

// Ports returns the port set of the switch, in ascending order.
func (s Snapshot) Ports(dpid addr.DPID) ([]uint32, bool) {
	ports, ok := s.switches[dpid]
	if !ok {
		return nil, false
	}
	cp := make([]uint32, len(ports))
	copy(cp, ports)
	return cp, true
}

// Links returns the effective links, sorted by (From, To). Links with an
// endpoint that is not registered as a switch are omitted.
func (s Snapshot) Links() []Link {
	links := make([]Link, 0, len(s.links))
	for e, port := range s.links {
		if _, ok := s.switches[e.from]; !ok {
			continue
		}
		if _, ok := s.switches[e.to]; !ok {
			continue
		}
		links = append(links, Link{From: e.from, To: e.to, Port: port})
	}
	sortLinks(links)
	return links
}

// NumSwitches returns the number of registered switches.
func (s Snapshot) NumSwitches() int {
	return len(s.switches)
}

// NumLinks returns the number of stored link records, half links included.
func (s Snapshot) NumLinks() int {
	return len(s.links)
}

// Hash returns an order-independent digest of the snapshot. Two snapshots
// with the same switches, ports and link records hash equally regardless of
// the event order that produced them. Half links are part of the digest.
func (s Snapshot) Hash() uint64 {
	h := fnv.New64a()
	var b8 [8]byte
	var b4 [4]byte

	ids := s.Switches()
	binary.BigEndian.PutUint64(b8[:], uint64(len(ids)))
	h.Write(b8[:])
	for _, dpid := range ids {
		binary.BigEndian.PutUint64(b8[:], uint64(dpid))
		h.Write(b8[:])
		ports := s.switches[dpid]
		binary.BigEndian.PutUint32(b4[:], uint32(len(ports)))
		h.Write(b4[:])
		for _, p := range ports {
			binary.BigEndian.PutUint32(b4[:], p)
			h.Write(b4[:])
		}
	}

	links := make([]Link, 0, len(s.links))
	for e, port := range s.links {
		links = append(links, Link{From: e.from, To: e.to, Port: port})
	}
	sortLinks(links)
	binary.BigEndian.PutUint64(b8[:], uint64(len(links)))
	h.Write(b8[:])
	for _, l := range links {
		binary.BigEndian.PutUint64(b8[:], uint64(l.From))
		h.Write(b8[:])
		binary.BigEndian.PutUint64(b8[:], uint64(l.To))
		h.Write(b8[:])
		binary.BigEndian.PutUint32(b4[:], l.Port)
		h.Write(b4[:])
	}
	return h.Sum64()
}

func sortLinks(links []Link) {
	sort.Slice(links, func(i, j int) bool {
		if links[i].From != links[j].From {
			return links[i].From < links[j].From
		}
		return links[i].To < links[j].To
	})
}

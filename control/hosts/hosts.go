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

// Package hosts tracks where endpoints are attached to the fabric. The
// table is learned opportunistically from frame source addresses and is
// first writer wins: once an address is bound to an attachment point it
// keeps that binding until the switch disconnects. Hosts that physically
// move therefore require their switch to flap or the controller to
// restart.
package hosts

import (
	"net"
	"sort"
	"sync"
	"time"

	"github.com/openfabric/fabric/pkg/addr"
	"github.com/openfabric/fabric/pkg/metrics"
)

// Entry is a learned host attachment point.
type Entry struct {
	// MAC is the endpoint address.
	MAC net.HardwareAddr
	// DPID is the switch the endpoint is attached to.
	DPID addr.DPID
	// Port is the switch local port the endpoint is behind.
	Port uint32
	// Seen is when the binding was learned.
	Seen time.Time
}

// Metrics reports the table state. All fields are optional.
type Metrics struct {
	// Entries is the current number of learned bindings.
	Entries metrics.Gauge
}

// Table is the host location table. It is safe for concurrent use.
type Table struct {
	metrics Metrics

	mu    sync.RWMutex
	hosts map[string]Entry
}

// NewTable creates an empty host location table.
func NewTable(m Metrics) *Table {
	return &Table{
		metrics: m,
		hosts:   make(map[string]Entry),
	}
}

// Learn binds the address to the attachment point. It returns false
// without modifying the table if the address is already bound or empty.
// The address bytes are copied, callers may reuse their frame buffer.
func (t *Table) Learn(mac net.HardwareAddr, dpid addr.DPID, port uint32) bool {
	if len(mac) == 0 {
		return false
	}
	key := mac.String()
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.hosts[key]; ok {
		return false
	}
	cp := make(net.HardwareAddr, len(mac))
	copy(cp, mac)
	t.hosts[key] = Entry{
		MAC:  cp,
		DPID: dpid,
		Port: port,
		Seen: time.Now(),
	}
	metrics.GaugeSet(t.metrics.Entries, float64(len(t.hosts)))
	return true
}

// Lookup returns the binding of the address.
func (t *Table) Lookup(mac net.HardwareAddr) (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	entry, ok := t.hosts[mac.String()]
	return entry, ok
}

// Forget drops every binding attached to the switch and returns how many
// were dropped. It is invoked when a switch disconnects.
func (t *Table) Forget(dpid addr.DPID) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	dropped := 0
	for key, entry := range t.hosts {
		if entry.DPID == dpid {
			delete(t.hosts, key)
			dropped++
		}
	}
	if dropped > 0 {
		metrics.GaugeSet(t.metrics.Entries, float64(len(t.hosts)))
	}
	return dropped
}

// Len returns the number of bindings.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.hosts)
}

// All returns the bindings sorted by address.
func (t *Table) All() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	entries := make([]Entry, 0, len(t.hosts))
	for _, entry := range t.hosts {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].MAC.String() < entries[j].MAC.String()
	})
	return entries
}

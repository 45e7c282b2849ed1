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

// Package arpproxy answers address resolution requests from the controller
// instead of flooding them. Bindings are learned from the sender fields of
// every request and reply passing through and expire after a TTL, so a
// readdressed host is forgotten rather than answered with stale state.
package arpproxy

import (
	"context"
	"net"
	"net/netip"
	"time"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/mdlayher/arp"
	"github.com/mdlayher/ethernet"
	"github.com/patrickmn/go-cache"

	"github.com/openfabric/fabric/control/driver"
	"github.com/openfabric/fabric/pkg/log"
	"github.com/openfabric/fabric/pkg/metrics"
	"github.com/openfabric/fabric/pkg/private/serrors"
)

const (
	// DefaultTTL is the binding lifetime.
	DefaultTTL = 5 * time.Minute

	cleanupInterval = time.Minute
)

// Metrics reports proxy activity. All fields are optional.
type Metrics struct {
	// Answered counts requests answered from the binding table.
	Answered metrics.Counter
	// Learned counts newly learned bindings.
	Learned metrics.Counter
}

// Proxy is the address resolution proxy. It is safe for concurrent use.
type Proxy struct {
	driver  driver.Driver
	metrics Metrics
	cache   *cache.Cache
}

// NewProxy creates a proxy emitting replies through the driver. Bindings
// live for ttl, DefaultTTL if zero.
func NewProxy(d driver.Driver, ttl time.Duration, m Metrics) *Proxy {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Proxy{
		driver:  d,
		metrics: m,
		cache:   cache.New(ttl, cleanupInterval),
	}
}

// Handle inspects one broadcast class frame. It learns the sender binding
// of any address resolution frame and, for a request whose target is
// known, emits the reply out of the ingress port and reports the frame as
// handled. Unhandled frames continue on the flood path.
func (p *Proxy) Handle(ctx context.Context, f driver.Frame) (bool, error) {
	var eth layers.Ethernet
	if err := eth.DecodeFromBytes(f.Data, gopacket.NilDecodeFeedback); err != nil {
		return false, serrors.Wrap("decoding ethernet header", err)
	}
	if eth.EthernetType != layers.EthernetTypeARP {
		return false, nil
	}
	var pkt arp.Packet
	if err := pkt.UnmarshalBinary(eth.Payload); err != nil {
		return false, serrors.Wrap("decoding arp packet", err)
	}
	if !pkt.SenderIP.Is4() || !pkt.TargetIP.Is4() {
		return false, serrors.New("unsupported arp protocol",
			"sender", pkt.SenderIP, "target", pkt.TargetIP)
	}
	p.learn(pkt.SenderIP, pkt.SenderHardwareAddr)
	// Announcements resolve nothing, and replies need no answer.
	if pkt.Operation != arp.OperationRequest || pkt.SenderIP == pkt.TargetIP {
		return false, nil
	}
	mac, ok := p.lookup(pkt.TargetIP)
	if !ok {
		return false, nil
	}
	reply, err := buildReply(mac, pkt)
	if err != nil {
		return false, serrors.Wrap("building arp reply", err)
	}
	if err := p.driver.Emit(ctx, f.DPID, []uint32{f.Port}, reply, driver.NoBuffer); err != nil {
		return false, serrors.Wrap("emitting arp reply", err)
	}
	metrics.CounterInc(p.metrics.Answered)
	log.FromCtx(ctx).Debug("Answered arp request",
		"dpid", f.DPID, "port", f.Port, "ip", pkt.TargetIP)
	return true, nil
}

func (p *Proxy) learn(ip netip.Addr, mac net.HardwareAddr) {
	if ip.IsUnspecified() || emptyMAC(mac) {
		return
	}
	key := ip.String()
	if _, ok := p.cache.Get(key); !ok {
		metrics.CounterInc(p.metrics.Learned)
	}
	cp := make(net.HardwareAddr, len(mac))
	copy(cp, mac)
	p.cache.SetDefault(key, cp)
}

func (p *Proxy) lookup(ip netip.Addr) (net.HardwareAddr, bool) {
	v, ok := p.cache.Get(ip.String())
	if !ok {
		return nil, false
	}
	return v.(net.HardwareAddr), true
}

func emptyMAC(mac net.HardwareAddr) bool {
	for _, b := range mac {
		if b != 0 {
			return false
		}
	}
	return true
}

// buildReply answers the request with the binding of its target.
func buildReply(mac net.HardwareAddr, req arp.Packet) ([]byte, error) {
	pkt, err := arp.NewPacket(arp.OperationReply,
		mac, req.TargetIP,
		req.SenderHardwareAddr, req.SenderIP,
	)
	if err != nil {
		return nil, err
	}
	payload, err := pkt.MarshalBinary()
	if err != nil {
		return nil, err
	}
	f := &ethernet.Frame{
		Destination: req.SenderHardwareAddr,
		Source:      mac,
		EtherType:   ethernet.EtherTypeARP,
		Payload:     payload,
	}
	return f.MarshalBinary()
}

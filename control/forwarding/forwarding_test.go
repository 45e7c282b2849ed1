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

package forwarding_test

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"sort"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/mdlayher/arp"
	"github.com/mdlayher/ethernet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfabric/fabric/control/arpproxy"
	"github.com/openfabric/fabric/control/driver"
	"github.com/openfabric/fabric/control/driver/mock_driver"
	"github.com/openfabric/fabric/control/forwarding"
	"github.com/openfabric/fabric/control/frame"
	"github.com/openfabric/fabric/control/hosts"
	"github.com/openfabric/fabric/control/routing"
	"github.com/openfabric/fabric/control/routing/mock_routing"
	"github.com/openfabric/fabric/control/topology"
	"github.com/openfabric/fabric/pkg/addr"
	"github.com/openfabric/fabric/pkg/metrics"
	"github.com/openfabric/fabric/pkg/private/xtest"
)

var (
	h1 = xtest.MustParseMAC("02:00:00:00:00:01")
	h2 = xtest.MustParseMAC("02:00:00:00:00:02")
	h3 = xtest.MustParseMAC("02:00:00:00:00:03")
)

// portSet matches an emitted port slice regardless of order.
type portSet []uint32

func (m portSet) Matches(x any) bool {
	ports, ok := x.([]uint32)
	if !ok {
		return false
	}
	return cmp.Equal(sorted(m), sorted(ports))
}

func (m portSet) String() string {
	return fmt.Sprintf("ports %v in any order", []uint32(m))
}

func sorted(s []uint32) []uint32 {
	c := append([]uint32(nil), s...)
	sort.Slice(c, func(i, j int) bool { return c[i] < c[j] })
	return c
}

func ethFrame(t *testing.T, src, dst net.HardwareAddr) []byte {
	t.Helper()
	return ethFrameWithType(t, src, dst, layers.EthernetTypeIPv4)
}

func ethFrameWithType(t *testing.T, src, dst net.HardwareAddr,
	etype layers.EthernetType) []byte {

	t.Helper()
	buf := gopacket.NewSerializeBuffer()
	err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{},
		&layers.Ethernet{SrcMAC: src, DstMAC: dst, EthernetType: etype},
		gopacket.Payload(make([]byte, 46)),
	)
	require.NoError(t, err)
	return buf.Bytes()
}

func process(t *testing.T, e *forwarding.Engine, f driver.Frame) error {
	t.Helper()
	meta, err := frame.Classify(f.Data)
	require.NoError(t, err)
	return e.Process(context.Background(), f, meta)
}

// ringTopology connects s1..s4 in a ring. Port 1 leads clockwise, port 2
// counterclockwise, port 3 is free for hosts.
func ringTopology(t *testing.T) *topology.Store {
	t.Helper()
	store := topology.New()
	next := map[addr.DPID]addr.DPID{1: 2, 2: 3, 3: 4, 4: 1}
	for dpid := addr.DPID(1); dpid <= 4; dpid++ {
		require.True(t, store.SwitchUp(dpid, []uint32{1, 2, 3}))
	}
	for from, to := range next {
		store.LinkUp(from, to, 1)
		store.LinkUp(to, from, 2)
	}
	return store
}

type fixture struct {
	drv    *mock_driver.MockDriver
	store  *topology.Store
	routes routing.Engine
	table  *hosts.Table
	engine *forwarding.Engine
}

func newFixture(t *testing.T, ctrl *gomock.Controller, store *topology.Store,
	mod func(*forwarding.Config)) *fixture {

	t.Helper()
	routes, err := routing.New(routing.ModeBellmanFord, routing.Policy{}, 0)
	require.NoError(t, err)
	require.NoError(t, routes.Recompute(context.Background(), store.Snapshot()))
	drv := mock_driver.NewMockDriver(ctrl)
	table := hosts.NewTable(hosts.Metrics{})
	cfg := forwarding.Config{
		Driver:   drv,
		Topology: store,
		Routes:   routes,
		Hosts:    table,
	}
	if mod != nil {
		mod(&cfg)
	}
	return &fixture{
		drv:    drv,
		store:  store,
		routes: routes,
		table:  table,
		engine: forwarding.New(cfg),
	}
}

// TestRingUnicast drives a settled 4-switch ring. A frame from h1 to the
// non-adjacent h3 must leave s1 on exactly one of the two ring ports,
// with a matching rule install, and must never flood.
func TestRingUnicast(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	forwarded := metrics.NewTestCounter()
	installed := metrics.NewTestCounter()
	fix := newFixture(t, ctrl, ringTopology(t), func(cfg *forwarding.Config) {
		cfg.Metrics = forwarding.Metrics{
			Forwarded:      forwarded,
			RulesInstalled: installed,
		}
	})
	require.True(t, fix.table.Learn(h3, 3, 3))

	var emitPorts, rulePorts []uint32
	fix.drv.EXPECT().Emit(gomock.Any(), addr.DPID(1), gomock.Any(), gomock.Any(),
		driver.NoBuffer).Times(6).
		DoAndReturn(func(_ context.Context, _ addr.DPID, ports []uint32,
			_ []byte, _ uint32) error {

			emitPorts = append(emitPorts, ports...)
			return nil
		})
	fix.drv.EXPECT().InstallRule(gomock.Any(), addr.DPID(1), h3, gomock.Any(),
		forwarding.DefaultRuleTTL).
		DoAndReturn(func(_ context.Context, _ addr.DPID, _ net.HardwareAddr,
			port uint32, _ time.Duration) error {

			rulePorts = append(rulePorts, port)
			return nil
		})

	f := driver.Frame{DPID: 1, Port: 3, Data: ethFrame(t, h1, h3), BufferID: driver.NoBuffer}
	for i := 0; i < 6; i++ {
		require.NoError(t, process(t, fix.engine, f))
	}

	// One output port per frame, the same routed ring port every time,
	// and a single rule install thanks to the guard.
	require.Len(t, emitPorts, 6)
	assert.Contains(t, []uint32{1, 2}, emitPorts[0])
	for _, p := range emitPorts {
		assert.Equal(t, emitPorts[0], p)
	}
	require.Len(t, rulePorts, 1)
	assert.Equal(t, emitPorts[0], rulePorts[0])
	assert.Equal(t, 6.0, metrics.CounterValue(forwarded))
	assert.Equal(t, 1.0, metrics.CounterValue(installed))
	// The source was learned on the way through.
	entry, ok := fix.table.Lookup(h1)
	require.True(t, ok)
	assert.Equal(t, addr.DPID(1), entry.DPID)
	assert.Equal(t, uint32(3), entry.Port)
}

func TestUnknownDestinationFloods(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	flooded := metrics.NewTestCounter()
	fix := newFixture(t, ctrl, ringTopology(t), func(cfg *forwarding.Config) {
		cfg.Metrics = forwarding.Metrics{Flooded: flooded}
	})

	// In the ring spanning tree the s3-s4 edge is pruned. From s1 both
	// ring ports stay, the host port 3 is the ingress.
	fix.drv.EXPECT().Emit(gomock.Any(), addr.DPID(1), portSet{1, 2}, gomock.Any(),
		driver.NoBuffer)
	f := driver.Frame{DPID: 1, Port: 3, Data: ethFrame(t, h1, h3), BufferID: driver.NoBuffer}
	require.NoError(t, process(t, fix.engine, f))
	assert.Equal(t, 1.0, metrics.CounterValue(flooded))
}

func TestBroadcastFloodsWithBuffer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	fix := newFixture(t, ctrl, ringTopology(t), nil)

	// The buffer id of the punted frame rides along on the flood emit.
	// From s3 only the counterclockwise port survives the spanning
	// prune, port 3 is the ingress.
	fix.drv.EXPECT().Emit(gomock.Any(), addr.DPID(3), portSet{2}, gomock.Any(),
		uint32(42))
	f := driver.Frame{
		DPID: 3, Port: 3,
		Data:     ethFrame(t, h3, ethernet.Broadcast),
		BufferID: 42,
	}
	require.NoError(t, process(t, fix.engine, f))
	entry, ok := fix.table.Lookup(h3)
	require.True(t, ok)
	assert.Equal(t, addr.DPID(3), entry.DPID)
}

func TestBroadcastProxyAnswers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	drvProxy := mock_driver.NewMockDriver(ctrl)
	proxy := arpproxy.NewProxy(drvProxy, time.Minute, arpproxy.Metrics{})
	flooded := metrics.NewTestCounter()
	fix := newFixture(t, ctrl, ringTopology(t), func(cfg *forwarding.Config) {
		cfg.Proxy = proxy
		cfg.Metrics = forwarding.Metrics{Flooded: flooded}
	})

	ipH1 := netip.MustParseAddr("10.0.0.1")
	ipH3 := netip.MustParseAddr("10.0.0.3")
	teach, err := arp.NewPacket(arp.OperationRequest, h3, ipH3,
		net.HardwareAddr{0, 0, 0, 0, 0, 0}, ipH3)
	require.NoError(t, err)
	teachPayload, err := teach.MarshalBinary()
	require.NoError(t, err)
	teachFrame, err := (&ethernet.Frame{
		Destination: ethernet.Broadcast,
		Source:      h3,
		EtherType:   ethernet.EtherTypeARP,
		Payload:     teachPayload,
	}).MarshalBinary()
	require.NoError(t, err)
	handled, err := proxy.Handle(context.Background(), driver.Frame{
		DPID: 3, Port: 3, Data: teachFrame,
	})
	require.NoError(t, err)
	require.False(t, handled)

	// h1 asks for h3. The proxy answers out of the ingress port and the
	// flood path is never taken.
	req, err := arp.NewPacket(arp.OperationRequest, h1, ipH1,
		net.HardwareAddr{0, 0, 0, 0, 0, 0}, ipH3)
	require.NoError(t, err)
	reqPayload, err := req.MarshalBinary()
	require.NoError(t, err)
	reqFrame, err := (&ethernet.Frame{
		Destination: ethernet.Broadcast,
		Source:      h1,
		EtherType:   ethernet.EtherTypeARP,
		Payload:     reqPayload,
	}).MarshalBinary()
	require.NoError(t, err)

	drvProxy.EXPECT().Emit(gomock.Any(), addr.DPID(1), []uint32{3}, gomock.Any(),
		driver.NoBuffer)
	f := driver.Frame{DPID: 1, Port: 3, Data: reqFrame, BufferID: driver.NoBuffer}
	require.NoError(t, process(t, fix.engine, f))
	assert.Equal(t, 0.0, metrics.CounterValue(flooded))
}

func TestSameSwitchNoRuleInstall(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := topology.New()
	require.True(t, store.SwitchUp(1, []uint32{1, 2, 3}))
	fix := newFixture(t, ctrl, store, nil)
	require.True(t, fix.table.Learn(h2, 1, 2))

	fix.drv.EXPECT().Emit(gomock.Any(), addr.DPID(1), []uint32{2}, gomock.Any(),
		driver.NoBuffer)
	f := driver.Frame{DPID: 1, Port: 1, Data: ethFrame(t, h1, h2), BufferID: driver.NoBuffer}
	require.NoError(t, process(t, fix.engine, f))
}

func TestReflectedFrameDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := topology.New()
	require.True(t, store.SwitchUp(1, []uint32{1, 2, 3}))
	dropped := metrics.NewTestCounter()
	fix := newFixture(t, ctrl, store, func(cfg *forwarding.Config) {
		cfg.Metrics = forwarding.Metrics{Dropped: dropped}
	})
	// h2 already known behind port 1, and h1 sends to it from port 1.
	require.True(t, fix.table.Learn(h2, 1, 1))

	f := driver.Frame{DPID: 1, Port: 1, Data: ethFrame(t, h1, h2), BufferID: driver.NoBuffer}
	require.NoError(t, process(t, fix.engine, f))
	assert.Equal(t, 1.0, metrics.CounterValue(dropped))
}

func partitionedStore(t *testing.T) *topology.Store {
	t.Helper()
	store := topology.New()
	require.True(t, store.SwitchUp(1, []uint32{1, 2, 3}))
	require.True(t, store.SwitchUp(2, []uint32{1, 2, 3}))
	require.True(t, store.SwitchUp(5, []uint32{1, 2, 3}))
	store.LinkUp(1, 2, 1)
	store.LinkUp(2, 1, 1)
	return store
}

func TestNoRouteFloodPolicy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	fix := newFixture(t, ctrl, partitionedStore(t), nil)
	require.True(t, fix.table.Learn(h3, 5, 3))

	// s5 sits in another partition. Default policy floods, and with the
	// spanning structure absent only the unmapped host port qualifies.
	fix.drv.EXPECT().Emit(gomock.Any(), addr.DPID(1), []uint32{2}, gomock.Any(),
		driver.NoBuffer)
	f := driver.Frame{DPID: 1, Port: 3, Data: ethFrame(t, h1, h3), BufferID: driver.NoBuffer}
	require.NoError(t, process(t, fix.engine, f))
}

func TestNoRouteDropPolicy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	dropped := metrics.NewTestCounter()
	fix := newFixture(t, ctrl, partitionedStore(t), func(cfg *forwarding.Config) {
		cfg.Policy = forwarding.Policy{NoRoute: forwarding.NoRouteDrop}
		cfg.Metrics = forwarding.Metrics{Dropped: dropped}
	})
	require.True(t, fix.table.Learn(h3, 5, 3))

	f := driver.Frame{DPID: 1, Port: 3, Data: ethFrame(t, h1, h3), BufferID: driver.NoBuffer}
	require.NoError(t, process(t, fix.engine, f))
	assert.Equal(t, 1.0, metrics.CounterValue(dropped))
}

// TestMissingPortPolicy forces the window where the routed state changed
// between the hop and port lookups.
func TestMissingPortPolicy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := topology.New()
	require.True(t, store.SwitchUp(1, []uint32{1, 2, 3}))
	drv := mock_driver.NewMockDriver(ctrl)
	routes := mock_routing.NewMockEngine(ctrl)
	table := hosts.NewTable(hosts.Metrics{})
	require.True(t, table.Learn(h3, 3, 3))
	dropped := metrics.NewTestCounter()
	engine := forwarding.New(forwarding.Config{
		Driver:   drv,
		Topology: store,
		Routes:   routes,
		Hosts:    table,
		Metrics:  forwarding.Metrics{Dropped: dropped},
	})

	routes.EXPECT().NextHop(addr.DPID(1), addr.DPID(3)).Return(addr.DPID(2), nil)
	routes.EXPECT().PortTo(addr.DPID(1), addr.DPID(2)).Return(uint32(0), false)
	f := driver.Frame{DPID: 1, Port: 3, Data: ethFrame(t, h1, h3), BufferID: driver.NoBuffer}
	require.NoError(t, process(t, engine, f))
	assert.Equal(t, 1.0, metrics.CounterValue(dropped))

	t.Run("flood", func(t *testing.T) {
		flooding := forwarding.New(forwarding.Config{
			Driver:   drv,
			Topology: store,
			Routes:   routes,
			Hosts:    table,
			Policy:   forwarding.Policy{MissingPort: forwarding.MissingPortFlood},
		})
		routes.EXPECT().NextHop(addr.DPID(1), addr.DPID(3)).Return(addr.DPID(2), nil)
		routes.EXPECT().PortTo(addr.DPID(1), addr.DPID(2)).Return(uint32(0), false)
		routes.EXPECT().FloodPorts(addr.DPID(1), gomock.Any(), uint32(3)).
			Return([]uint32{1, 2})
		drv.EXPECT().Emit(gomock.Any(), addr.DPID(1), []uint32{1, 2}, gomock.Any(),
			driver.NoBuffer)
		require.NoError(t, process(t, flooding, f))
	})
}

func TestStrayControlFrameDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	fix := newFixture(t, ctrl, ringTopology(t), nil)

	lldp := ethFrameWithType(t, h1, xtest.MustParseMAC("01:80:c2:00:00:0e"),
		layers.EthernetTypeLinkLayerDiscovery)
	f := driver.Frame{DPID: 1, Port: 3, Data: lldp, BufferID: driver.NoBuffer}
	require.NoError(t, process(t, fix.engine, f))
	assert.Equal(t, 0, fix.table.Len())
}

func TestEmitErrorSurfaces(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	forwarded := metrics.NewTestCounter()
	fix := newFixture(t, ctrl, ringTopology(t), func(cfg *forwarding.Config) {
		cfg.Metrics = forwarding.Metrics{Forwarded: forwarded}
	})
	require.True(t, fix.table.Learn(h3, 3, 3))

	fix.drv.EXPECT().Emit(gomock.Any(), addr.DPID(1), gomock.Any(), gomock.Any(),
		driver.NoBuffer).Return(assert.AnError)
	f := driver.Frame{DPID: 1, Port: 3, Data: ethFrame(t, h1, h3), BufferID: driver.NoBuffer}
	assert.Error(t, process(t, fix.engine, f))
	assert.Equal(t, 0.0, metrics.CounterValue(forwarded))
}

func TestInstallGuardExpires(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	fix := newFixture(t, ctrl, ringTopology(t), func(cfg *forwarding.Config) {
		cfg.InstallGuard = 20 * time.Millisecond
	})
	require.True(t, fix.table.Learn(h3, 3, 3))

	fix.drv.EXPECT().Emit(gomock.Any(), addr.DPID(1), gomock.Any(), gomock.Any(),
		driver.NoBuffer).Times(2)
	fix.drv.EXPECT().InstallRule(gomock.Any(), addr.DPID(1), h3, gomock.Any(),
		gomock.Any()).Times(2)
	f := driver.Frame{DPID: 1, Port: 3, Data: ethFrame(t, h1, h3), BufferID: driver.NoBuffer}
	require.NoError(t, process(t, fix.engine, f))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, process(t, fix.engine, f))
}

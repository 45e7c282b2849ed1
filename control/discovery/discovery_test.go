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

package discovery

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfabric/fabric/control/driver"
	"github.com/openfabric/fabric/control/driver/mock_driver"
	"github.com/openfabric/fabric/control/frame"
	"github.com/openfabric/fabric/control/topology"
	"github.com/openfabric/fabric/pkg/addr"
	"github.com/openfabric/fabric/pkg/metrics"
)

type link struct {
	from, to addr.DPID
	port     uint32
}

type sink struct {
	links []link
}

func (s *sink) LinkDiscovered(ctx context.Context, from, to addr.DPID, fromPort uint32) {
	s.links = append(s.links, link{from: from, to: to, port: fromPort})
}

func TestProbeRoundTrip(t *testing.T) {
	data, err := probeFrame(0x2a, 7, 120)
	require.NoError(t, err)

	// Probes must classify as control so they never hit forwarding.
	meta, err := frame.Classify(data)
	require.NoError(t, err)
	assert.Equal(t, frame.ClassControl, meta.Class)

	dpid, port, err := decodeProbe(data)
	require.NoError(t, err)
	assert.Equal(t, addr.DPID(0x2a), dpid)
	assert.Equal(t, uint32(7), port)
}

func TestDecodeProbeForeign(t *testing.T) {
	t.Run("not lldp", func(t *testing.T) {
		raw := make([]byte, 60)
		copy(raw, []byte{
			0x02, 0, 0, 0, 0, 2,
			0x02, 0, 0, 0, 0, 1,
			0x08, 0x00,
		})
		_, _, err := decodeProbe(raw)
		assert.Error(t, err)
	})
	t.Run("foreign chassis subtype", func(t *testing.T) {
		var payload []byte
		payload = append(payload, tlv(tlvTypeChassis, []byte{4, 0, 1, 2, 3, 4, 5})...)
		payload = append(payload, tlv(tlvTypePort, []byte{7, 0, 0, 0, 9})...)
		payload = append(payload, tlv(tlvTypeTTL, []byte{0, 120})...)
		payload = append(payload, tlv(tlvTypeEnd, nil)...)
		raw := append([]byte{
			0x01, 0x80, 0xc2, 0, 0, 0x0e,
			0x02, 0, 0, 0, 0, 1,
			0x88, 0xcc,
		}, payload...)
		_, _, err := decodeProbe(raw)
		assert.Error(t, err)
	})
	t.Run("truncated", func(t *testing.T) {
		_, _, err := decodeProbe([]byte{0x01, 0x80})
		assert.Error(t, err)
	})
}

func TestProberRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := topology.New()
	store.SwitchUp(1, []uint32{1, 2})
	store.SwitchUp(2, []uint32{5})

	var emitted []link
	d := mock_driver.NewMockDriver(ctrl)
	d.EXPECT().Emit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Times(3).
		DoAndReturn(func(ctx context.Context, dpid addr.DPID, ports []uint32,
			data []byte, bufferID uint32) error {

			require.Len(t, ports, 1)
			assert.Equal(t, driver.NoBuffer, bufferID)
			src, port, err := decodeProbe(data)
			require.NoError(t, err)
			assert.Equal(t, dpid, src)
			assert.Equal(t, ports[0], port)
			emitted = append(emitted, link{from: dpid, port: port})
			return nil
		})

	sent := metrics.NewTestCounter()
	p := &Prober{
		Store:   store,
		Driver:  d,
		Metrics: Metrics{ProbesSent: sent},
	}
	p.Run(context.Background())

	assert.ElementsMatch(t, []link{
		{from: 1, port: 1},
		{from: 1, port: 2},
		{from: 2, port: 5},
	}, emitted)
	assert.Equal(t, 3.0, metrics.CounterValue(sent))
}

func TestProberRunEmitError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := topology.New()
	store.SwitchUp(1, []uint32{1, 2})

	d := mock_driver.NewMockDriver(ctrl)
	gomock.InOrder(
		d.EXPECT().Emit(gomock.Any(), addr.DPID(1), []uint32{1}, gomock.Any(), gomock.Any()).
			Return(assert.AnError),
		d.EXPECT().Emit(gomock.Any(), addr.DPID(1), []uint32{2}, gomock.Any(), gomock.Any()).
			Return(nil),
	)

	sent := metrics.NewTestCounter()
	failed := metrics.NewTestCounter()
	p := &Prober{
		Store:   store,
		Driver:  d,
		Metrics: Metrics{ProbesSent: sent, EmitErrors: failed},
	}
	p.Run(context.Background())

	assert.Equal(t, 1.0, metrics.CounterValue(sent))
	assert.Equal(t, 1.0, metrics.CounterValue(failed))
}

func TestHandleFrame(t *testing.T) {
	reports := &sink{}
	p := &Prober{Topology: reports}

	data, err := probeFrame(1, 7, 120)
	require.NoError(t, err)
	err = p.HandleFrame(context.Background(), driver.Frame{
		DPID: 2,
		Port: 9,
		Data: data,
	})
	require.NoError(t, err)
	require.Len(t, reports.links, 1)
	assert.Equal(t, link{from: 1, to: 2, port: 7}, reports.links[0])

	err = p.HandleFrame(context.Background(), driver.Frame{
		DPID: 2,
		Port: 9,
		Data: []byte{0x00},
	})
	assert.Error(t, err)
	assert.Len(t, reports.links, 1)
}

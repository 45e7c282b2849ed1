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

package frame_test

import (
	"testing"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfabric/fabric/control/frame"
	"github.com/openfabric/fabric/pkg/private/xtest"
)

func ethFrame(t *testing.T, src, dst string, etype layers.EthernetType) []byte {
	t.Helper()
	buf := gopacket.NewSerializeBuffer()
	err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{},
		&layers.Ethernet{
			SrcMAC:       xtest.MustParseMAC(src),
			DstMAC:       xtest.MustParseMAC(dst),
			EthernetType: etype,
		},
		gopacket.Payload(make([]byte, 46)),
	)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestClassify(t *testing.T) {
	testCases := map[string]struct {
		raw   []byte
		class frame.Class
	}{
		"unicast ipv4": {
			raw:   ethFrame(t, "02:00:00:00:00:01", "02:00:00:00:00:02", layers.EthernetTypeIPv4),
			class: frame.ClassUnicast,
		},
		"broadcast": {
			raw:   ethFrame(t, "02:00:00:00:00:01", "ff:ff:ff:ff:ff:ff", layers.EthernetTypeIPv4),
			class: frame.ClassBroadcast,
		},
		"multicast": {
			raw:   ethFrame(t, "02:00:00:00:00:01", "01:00:5e:00:00:fb", layers.EthernetTypeIPv4),
			class: frame.ClassBroadcast,
		},
		"arp request": {
			raw:   ethFrame(t, "02:00:00:00:00:01", "ff:ff:ff:ff:ff:ff", layers.EthernetTypeARP),
			class: frame.ClassBroadcast,
		},
		"arp reply to unicast": {
			raw:   ethFrame(t, "02:00:00:00:00:01", "02:00:00:00:00:02", layers.EthernetTypeARP),
			class: frame.ClassBroadcast,
		},
		"lldp": {
			raw: ethFrame(t, "02:00:00:00:00:01", "01:80:c2:00:00:0e",
				layers.EthernetTypeLinkLayerDiscovery),
			class: frame.ClassControl,
		},
		"lldp multicast with foreign type": {
			raw:   ethFrame(t, "02:00:00:00:00:01", "01:80:c2:00:00:0e", layers.EthernetTypeIPv4),
			class: frame.ClassControl,
		},
		"arp request raw capture": {
			raw: xtest.MustParseHexString(
				"ffffffffffff0200000000010806" +
					"0001080006040001" +
					"0200000000010a000001" +
					"0000000000000a000002"),
			class: frame.ClassBroadcast,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			meta, err := frame.Classify(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.class, meta.Class)
		})
	}
}

func TestClassifyAddresses(t *testing.T) {
	raw := ethFrame(t, "02:aa:bb:cc:dd:01", "02:aa:bb:cc:dd:02", layers.EthernetTypeIPv4)
	meta, err := frame.Classify(raw)
	require.NoError(t, err)
	assert.Equal(t, xtest.MustParseMAC("02:aa:bb:cc:dd:01"), meta.Src)
	assert.Equal(t, xtest.MustParseMAC("02:aa:bb:cc:dd:02"), meta.Dst)
}

func TestClassifyTruncated(t *testing.T) {
	_, err := frame.Classify([]byte{0x02, 0x00, 0x00})
	assert.Error(t, err)
}

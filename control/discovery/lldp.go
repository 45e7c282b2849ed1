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
	"encoding/binary"
	"net"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/mdlayher/ethernet"

	"github.com/openfabric/fabric/pkg/addr"
	"github.com/openfabric/fabric/pkg/private/serrors"
)

// Probes carry the emitting switch in the chassis TLV (8 byte identifier)
// and the emitting port in the port TLV (4 byte port number), both with
// the locally assigned subtype. Frames with any other shape are foreign
// and rejected.

const etherTypeLLDP ethernet.EtherType = 0x88cc

// lldpMulticast is the nearest bridge group address.
var lldpMulticast = net.HardwareAddr{0x01, 0x80, 0xc2, 0x00, 0x00, 0x0e}

const (
	tlvTypeEnd     = 0
	tlvTypeChassis = 1
	tlvTypePort    = 2
	tlvTypeTTL     = 3
)

func tlv(typ uint8, value []byte) []byte {
	b := make([]byte, 2+len(value))
	binary.BigEndian.PutUint16(b, uint16(typ)<<9|uint16(len(value)))
	copy(b[2:], value)
	return b
}

// probeSource derives a locally administered source address from the
// switch identifier. It only has to be valid, the probe content carries
// the real identity.
func probeSource(dpid addr.DPID) net.HardwareAddr {
	return net.HardwareAddr{
		0x02,
		byte(dpid >> 32), byte(dpid >> 24), byte(dpid >> 16),
		byte(dpid >> 8), byte(dpid),
	}
}

// probeFrame builds the probe emitted on the given switch port.
func probeFrame(dpid addr.DPID, port uint32, ttlSeconds uint16) ([]byte, error) {
	chassis := make([]byte, 9)
	chassis[0] = byte(layers.LLDPChassisIDSubTypeLocal)
	binary.BigEndian.PutUint64(chassis[1:], uint64(dpid))

	portID := make([]byte, 5)
	portID[0] = byte(layers.LLDPPortIDSubtypeLocal)
	binary.BigEndian.PutUint32(portID[1:], port)

	ttl := make([]byte, 2)
	binary.BigEndian.PutUint16(ttl, ttlSeconds)

	var payload []byte
	payload = append(payload, tlv(tlvTypeChassis, chassis)...)
	payload = append(payload, tlv(tlvTypePort, portID)...)
	payload = append(payload, tlv(tlvTypeTTL, ttl)...)
	payload = append(payload, tlv(tlvTypeEnd, nil)...)

	f := &ethernet.Frame{
		Destination: lldpMulticast,
		Source:      probeSource(dpid),
		EtherType:   etherTypeLLDP,
		Payload:     payload,
	}
	data, err := f.MarshalBinary()
	if err != nil {
		return nil, serrors.Wrap("marshaling probe frame", err)
	}
	return data, nil
}

// decodeProbe extracts the emitting switch and port from a punted probe.
// The discovery layer has no DecodingLayer implementation, so the frame
// runs through the full packet decoder.
func decodeProbe(raw []byte) (addr.DPID, uint32, error) {
	pkt := gopacket.NewPacket(raw, layers.LayerTypeEthernet, gopacket.NoCopy)
	lldp, ok := pkt.Layer(layers.LayerTypeLinkLayerDiscovery).(*layers.LinkLayerDiscovery)
	if !ok {
		if errLayer := pkt.ErrorLayer(); errLayer != nil {
			return 0, 0, serrors.Wrap("decoding probe frame", errLayer.Error())
		}
		return 0, 0, serrors.New("not a discovery frame")
	}
	if lldp.ChassisID.Subtype != layers.LLDPChassisIDSubTypeLocal ||
		len(lldp.ChassisID.ID) != 8 {
		return 0, 0, serrors.New("foreign chassis id",
			"subtype", lldp.ChassisID.Subtype, "len", len(lldp.ChassisID.ID))
	}
	if lldp.PortID.Subtype != layers.LLDPPortIDSubtypeLocal ||
		len(lldp.PortID.ID) != 4 {
		return 0, 0, serrors.New("foreign port id",
			"subtype", lldp.PortID.Subtype, "len", len(lldp.PortID.ID))
	}
	return addr.DPID(binary.BigEndian.Uint64(lldp.ChassisID.ID)),
		binary.BigEndian.Uint32(lldp.PortID.ID), nil
}

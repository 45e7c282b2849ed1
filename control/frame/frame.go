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

// Package frame classifies raw frames into the classes the forwarding
// engine distinguishes. Only the link layer header is parsed and parsing
// is zero copy, this code runs once per punted frame.
package frame

import (
	"bytes"
	"fmt"
	"net"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"

	"github.com/openfabric/fabric/pkg/private/serrors"
)

// lldpMulticast is the nearest bridge group address on which discovery
// frames are emitted.
var lldpMulticast = net.HardwareAddr{0x01, 0x80, 0xc2, 0x00, 0x00, 0x0e}

// Class partitions frames by required treatment.
type Class int

const (
	// ClassControl frames carry topology discovery and are consumed by
	// the discovery subsystem, they are never forwarded.
	ClassControl Class = iota
	// ClassBroadcast frames are flooded along the spanning structure.
	// Address resolution counts as broadcast regardless of destination.
	ClassBroadcast
	// ClassUnicast frames are forwarded along a computed path.
	ClassUnicast
)

func (c Class) String() string {
	switch c {
	case ClassControl:
		return "control"
	case ClassBroadcast:
		return "broadcast"
	case ClassUnicast:
		return "unicast"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(c))
	}
}

// Meta is the parsed view of a frame. Src and Dst alias the raw buffer
// passed to Classify.
type Meta struct {
	Src   net.HardwareAddr
	Dst   net.HardwareAddr
	Class Class
}

// Classify parses the link layer header of raw and assigns the class.
func Classify(raw []byte) (Meta, error) {
	var eth layers.Ethernet
	if err := eth.DecodeFromBytes(raw, gopacket.NilDecodeFeedback); err != nil {
		return Meta{}, serrors.Wrap("decoding ethernet header", err)
	}
	meta := Meta{Src: eth.SrcMAC, Dst: eth.DstMAC}
	switch {
	case eth.EthernetType == layers.EthernetTypeLinkLayerDiscovery,
		bytes.Equal(eth.DstMAC, lldpMulticast):
		meta.Class = ClassControl
	case eth.EthernetType == layers.EthernetTypeARP,
		len(eth.DstMAC) > 0 && eth.DstMAC[0]&0x01 == 1:
		meta.Class = ClassBroadcast
	default:
		meta.Class = ClassUnicast
	}
	return meta, nil
}

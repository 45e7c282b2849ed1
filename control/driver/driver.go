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

// Package driver defines the boundary between the controller core and the
// southbound protocol driver. The core never speaks the wire protocol; it
// receives events and frames from the driver and issues the commands defined
// here.
package driver

import (
	"context"
	"net"
	"time"

	"github.com/openfabric/fabric/pkg/addr"
)

// NoBuffer is the buffer id carried by frames that are not buffered on the
// switch.
const NoBuffer uint32 = 0xffffffff

// Frame is a frame punted to the controller by a switch.
type Frame struct {
	// DPID identifies the switch that delivered the frame.
	DPID addr.DPID
	// Port is the ingress port on that switch.
	Port uint32
	// Data is the raw Ethernet frame.
	Data []byte
	// BufferID refers to the switch buffer holding the original frame, or
	// NoBuffer if the full frame was delivered.
	BufferID uint32
}

// Buffered reports whether the original frame is held in a switch buffer.
func (f Frame) Buffered() bool {
	return f.BufferID != NoBuffer
}

// Driver is the southbound command interface of the controller.
type Driver interface {
	// InstallRule installs an exact-match rule on the switch: frames whose
	// destination address equals matchDst are forwarded on outPort. The rule
	// expires after it has seen no traffic for ttl.
	InstallRule(ctx context.Context, dpid addr.DPID, matchDst net.HardwareAddr,
		outPort uint32, ttl time.Duration) error
	// Emit instructs the switch to send the frame on the given ports. If
	// bufferID is not NoBuffer, the switch sends the buffered original and
	// data may be empty.
	Emit(ctx context.Context, dpid addr.DPID, ports []uint32, data []byte,
		bufferID uint32) error
	// RequestDefaultToController installs the lowest-priority rule that
	// punts unmatched frames to the controller. Called once per connect.
	RequestDefaultToController(ctx context.Context, dpid addr.DPID) error
}

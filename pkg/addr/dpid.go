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

// Package addr contains the switch addressing types of the fabric.
package addr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openfabric/fabric/pkg/private/serrors"
)

// DPID is the datapath identifier of a switch. The canonical string
// representation is 16 lower-case hex digits.
type DPID uint64

// ParseDPID parses a datapath identifier. It accepts up to 16 hex digits,
// optionally grouped with ':' or '-' separators and optionally prefixed with
// "0x".
func ParseDPID(s string) (DPID, error) {
	raw := strings.NewReplacer(":", "", "-", "").Replace(s)
	raw = strings.TrimPrefix(raw, "0x")
	if raw == "" || len(raw) > 16 {
		return 0, serrors.New("invalid DPID", "value", s)
	}
	v, err := strconv.ParseUint(raw, 16, 64)
	if err != nil {
		return 0, serrors.Wrap("parsing DPID", err, "value", s)
	}
	return DPID(v), nil
}

func (d DPID) String() string {
	return fmt.Sprintf("%016x", uint64(d))
}

// Int64 returns the two's-complement cast of the identifier. The cast is
// bijective, so it is safe as a graph node id.
func (d DPID) Int64() int64 {
	return int64(d)
}

// DPIDFromInt64 is the inverse of Int64.
func DPIDFromInt64(v int64) DPID {
	return DPID(uint64(v))
}

// MarshalText implements encoding.TextMarshaler.
func (d DPID) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DPID) UnmarshalText(b []byte) error {
	parsed, err := ParseDPID(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

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

// Package xtest contains helpers for testing.
package xtest

import (
	"encoding/hex"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/openfabric/fabric/pkg/addr"
)

// FailOnErr causes t to exit with a fatal error if err is non-nil.
func FailOnErr(t testing.TB, err error, desc ...string) {
	t.Helper()

	if err != nil {
		t.Fatal(strings.Join(desc, " "), err)
	}
}

// MustParseDPID parses s and returns the corresponding addr.DPID. It panics
// if s is not a valid datapath identifier.
func MustParseDPID(s string) addr.DPID {
	dpid, err := addr.ParseDPID(s)
	if err != nil {
		panic(err)
	}
	return dpid
}

// MustParseMAC parses a MAC address in colon notation. It panics if s is not
// a valid hardware address.
func MustParseMAC(s string) net.HardwareAddr {
	mac, err := net.ParseMAC(s)
	if err != nil {
		panic(err)
	}
	return mac
}

// MustParseHexString parses s and returns the corresponding byte slice. It
// panics if the decoding fails.
func MustParseHexString(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// AssertReadReturnsBefore will call t.Fatalf if the first read from the
// channel doesn't happen before timeout.
func AssertReadReturnsBefore(t testing.TB, ch <-chan struct{}, timeout time.Duration) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(timeout):
		t.Fatalf("goroutine took too long to finish")
	}
}

// AssertReadDoesNotReturnBefore will call t.Fatalf if the first read from the
// channel happens before timeout.
func AssertReadDoesNotReturnBefore(t testing.TB, ch <-chan struct{}, timeout time.Duration) {
	select {
	case <-ch:
		t.Fatalf("goroutine finished too quickly")
	case <-time.After(timeout):
	}
}

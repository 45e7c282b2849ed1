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

package driver

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/openfabric/fabric/pkg/addr"
	"github.com/openfabric/fabric/pkg/private/serrors"
)

// Events is the northbound surface a driver reports into. The controller
// core implements it; drivers call it as they decode switch traffic.
type Events interface {
	// SwitchUp informs the core that a switch completed its handshake and
	// exposes the given ports.
	SwitchUp(ctx context.Context, dpid addr.DPID, ports []uint32) error
	// SwitchDown informs the core that the connection to a switch is gone.
	SwitchDown(ctx context.Context, dpid addr.DPID)
	// LinkDiscovered informs the core of a unidirectional link between two
	// switches.
	LinkDiscovered(ctx context.Context, from, to addr.DPID, fromPort uint32)
	// LinkLost informs the core that a previously discovered link is gone.
	LinkLost(ctx context.Context, from, to addr.DPID)
	// Frame hands a punted frame to the core.
	Frame(ctx context.Context, f Frame) error
}

// Server is implemented by drivers that run their own serving loop, such as
// listening for switch connections. The application runs Run on a background
// goroutine and cancels the context on shutdown.
type Server interface {
	Run(ctx context.Context) error
}

// Builder constructs a driver that reports into events.
type Builder func(events Events) (Driver, error)

var (
	registryMtx sync.Mutex
	registry    = map[string]Builder{}
)

// Register makes a driver available under the given name. It is intended to
// be called from the init function of a driver package. Register panics if
// the builder is nil or the name is empty or already taken.
func Register(name string, b Builder) {
	registryMtx.Lock()
	defer registryMtx.Unlock()
	if b == nil {
		panic("driver: Register builder is nil")
	}
	if name == "" {
		panic("driver: Register name is empty")
	}
	if _, ok := registry[name]; ok {
		panic("driver: Register called twice for driver " + name)
	}
	registry[name] = b
}

// Drivers returns the names of the registered drivers, sorted.
func Drivers() []string {
	registryMtx.Lock()
	defer registryMtx.Unlock()
	return names()
}

// New builds the driver registered under name, wired to report into events.
// An empty name selects the only registered driver, and is an error if the
// binary has none or several compiled in.
func New(name string, events Events) (Driver, error) {
	registryMtx.Lock()
	b, err := lookup(name)
	registryMtx.Unlock()
	if err != nil {
		return nil, err
	}
	return b(events)
}

// lookup must be called with registryMtx held.
func lookup(name string) (Builder, error) {
	if name == "" {
		switch len(registry) {
		case 0:
			return nil, serrors.New("no driver compiled into this binary")
		case 1:
			for _, b := range registry {
				return b, nil
			}
		}
		return nil, serrors.New("multiple drivers compiled in, select one",
			"available", strings.Join(names(), " "))
	}
	b, ok := registry[name]
	if !ok {
		return nil, serrors.New("unknown driver", "name", name,
			"available", strings.Join(names(), " "))
	}
	return b, nil
}

// names must be called with registryMtx held.
func names() []string {
	s := make([]string, 0, len(registry))
	for name := range registry {
		s = append(s, name)
	}
	sort.Strings(s)
	return s
}

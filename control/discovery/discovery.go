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

// Package discovery learns switch adjacencies. A background round emits a
// probe on every port of every connected switch; a switch that hears a
// probe punts it back to the controller, which proves the directed link
// from the emitting switch to the punting one.
package discovery

import (
	"context"
	"time"

	"github.com/openfabric/fabric/control/driver"
	"github.com/openfabric/fabric/control/topology"
	"github.com/openfabric/fabric/pkg/addr"
	"github.com/openfabric/fabric/pkg/log"
	"github.com/openfabric/fabric/pkg/metrics"
	"github.com/openfabric/fabric/pkg/private/serrors"
)

const (
	// DefaultInterval is the cadence of probe rounds.
	DefaultInterval = 5 * time.Second
	// DefaultTTL is the time to live advertised in emitted probes, twice
	// the default probe interval.
	DefaultTTL = 10 * time.Second
)

// Topology is the sink discovered adjacencies are reported into.
type Topology interface {
	LinkDiscovered(ctx context.Context, from, to addr.DPID, fromPort uint32)
}

// Metrics reports prober activity. All fields are optional.
type Metrics struct {
	// ProbesSent counts emitted probe frames.
	ProbesSent metrics.Counter
	// EmitErrors counts probe frames the driver failed to emit.
	EmitErrors metrics.Counter
}

// Prober emits discovery probes and consumes the punted copies. Run is a
// periodic task; HandleFrame is fed by the service with every control
// class frame.
type Prober struct {
	// Store is read for the switches and ports to probe.
	Store *topology.Store
	// Driver emits the probe frames.
	Driver driver.Driver
	// Topology receives the discovered adjacencies.
	Topology Topology
	// TTL is advertised in emitted probes, DefaultTTL if zero.
	TTL time.Duration
	// Metrics reports prober activity.
	Metrics Metrics
}

// Name returns the task name of the probe round.
func (p *Prober) Name() string {
	return "discovery.lldp_prober"
}

// Run emits one probe per known switch port. Emission errors are counted
// and logged, a partial round is still useful.
func (p *Prober) Run(ctx context.Context) {
	logger := log.FromCtx(ctx)
	snap := p.Store.Snapshot()
	sent := 0
	for _, dpid := range snap.Switches() {
		if ctx.Err() != nil {
			return
		}
		ports, _ := snap.Ports(dpid)
		for _, port := range ports {
			data, err := probeFrame(dpid, port, p.ttlSeconds())
			if err != nil {
				logger.Error("Building discovery probe", "dpid", dpid, "port", port, "err", err)
				continue
			}
			if err := p.Driver.Emit(ctx, dpid, []uint32{port}, data, driver.NoBuffer); err != nil {
				metrics.CounterInc(p.Metrics.EmitErrors)
				logger.Info("Unable to emit discovery probe",
					"dpid", dpid, "port", port, "err", err)
				continue
			}
			metrics.CounterInc(p.Metrics.ProbesSent)
			sent++
		}
	}
	logger.Debug("Discovery probe round complete", "probes", sent)
}

// HandleFrame consumes a punted probe. The chassis and port carried in the
// probe identify the emitting end; the punting switch is the receiving
// end of the directed link.
func (p *Prober) HandleFrame(ctx context.Context, f driver.Frame) error {
	remote, remotePort, err := decodeProbe(f.Data)
	if err != nil {
		return serrors.Wrap("decoding discovery frame", err, "dpid", f.DPID, "port", f.Port)
	}
	p.Topology.LinkDiscovered(ctx, remote, f.DPID, remotePort)
	return nil
}

func (p *Prober) ttlSeconds() uint16 {
	ttl := p.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return uint16(ttl / time.Second)
}

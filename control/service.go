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

package control

import (
	"context"
	"time"

	"github.com/openfabric/fabric/control/discovery"
	"github.com/openfabric/fabric/control/driver"
	"github.com/openfabric/fabric/control/forwarding"
	"github.com/openfabric/fabric/control/frame"
	"github.com/openfabric/fabric/control/hosts"
	"github.com/openfabric/fabric/control/routing"
	"github.com/openfabric/fabric/control/stability"
	"github.com/openfabric/fabric/control/topology"
	"github.com/openfabric/fabric/pkg/addr"
	"github.com/openfabric/fabric/pkg/log"
	"github.com/openfabric/fabric/pkg/metrics"
	"github.com/openfabric/fabric/pkg/private/serrors"
	"github.com/openfabric/fabric/private/periodic"
	"github.com/openfabric/fabric/private/worker"
)

const (
	// DefaultScanInterval is the period of stability observations.
	DefaultScanInterval = 30 * time.Second
	// DefaultComputationTimeout bounds a single route recomputation.
	DefaultComputationTimeout = time.Minute
)

// ServiceMetrics report controller core activity. All fields are optional.
type ServiceMetrics struct {
	SwitchConnects        metrics.Counter
	SwitchDisconnects     metrics.Counter
	DuplicateConnects     metrics.Counter
	LinksDiscovered       metrics.Counter
	LinksLost             metrics.Counter
	ControlFrames         metrics.Counter
	DataFrames            metrics.Counter
	FrameErrors           metrics.Counter
	Recomputations        metrics.Counter
	RecomputationErrors   metrics.Counter
	RecomputationDuration metrics.Histogram
	Switches              metrics.Gauge
	Links                 metrics.Gauge
}

// Service is the driver facing surface of the controller core. A
// forwarding plane driver reports switch, link and frame events to it, and
// the service folds them into the topology store, nudges the
// recomputation schedule and dispatches frames to discovery or the
// forwarding engine.
//
// Event methods are safe for concurrent use. Run starts the background
// schedules and returns once they are up; Close tears them down.
type Service struct {
	// Driver executes commands against the forwarding plane. Run returns
	// an error if nil.
	Driver driver.Driver
	// Topology is the switch and link store. Run returns an error if nil.
	Topology *topology.Store
	// Gate is the stability gate. Run returns an error if nil.
	Gate *stability.Gate
	// Hosts is the host location table. Run returns an error if nil.
	Hosts *hosts.Table
	// Routes is the route engine. Run returns an error if nil.
	Routes routing.Engine
	// Forwarding processes punted data frames. Run returns an error if
	// nil.
	Forwarding *forwarding.Engine
	// Prober emits and consumes discovery probes. If nil, discovery is
	// disabled and control frames are dropped.
	Prober *discovery.Prober

	// ScanInterval is the period of stability observations,
	// DefaultScanInterval if zero.
	ScanInterval time.Duration
	// ComputationTimeout bounds a single recomputation,
	// DefaultComputationTimeout if zero.
	ComputationTimeout time.Duration
	// DiscoveryInterval is the probe period, discovery.DefaultInterval if
	// zero.
	DiscoveryInterval time.Duration

	// Metrics are modified during operation. If empty, nothing is
	// reported.
	Metrics ServiceMetrics

	// nudge coalesces recomputation triggers so that event bursts do not
	// queue behind a running computation.
	nudge           chan struct{}
	recomputeRunner *periodic.Runner
	discoveryRunner *periodic.Runner

	workerBase worker.Base
}

// Run validates the wiring and starts the recomputation and discovery
// schedules. It returns once the setup is done.
func (s *Service) Run(ctx context.Context) error {
	log.FromCtx(ctx).Debug("Controller core starting")
	return s.workerBase.RunWrapper(ctx, s.setup, nil)
}

// Close stops the background schedules. An in-flight recomputation is
// cancelled; the route engine keeps its last good tables.
func (s *Service) Close(ctx context.Context) error {
	return s.workerBase.CloseWrapper(ctx, s.close)
}

func (s *Service) setup(ctx context.Context) error {
	switch {
	case s.Driver == nil:
		return serrors.New("driver must not be nil")
	case s.Topology == nil:
		return serrors.New("topology store must not be nil")
	case s.Gate == nil:
		return serrors.New("stability gate must not be nil")
	case s.Hosts == nil:
		return serrors.New("host table must not be nil")
	case s.Routes == nil:
		return serrors.New("route engine must not be nil")
	case s.Forwarding == nil:
		return serrors.New("forwarding engine must not be nil")
	}
	scan := s.ScanInterval
	if scan <= 0 {
		scan = DefaultScanInterval
	}
	timeout := s.ComputationTimeout
	if timeout <= 0 {
		timeout = DefaultComputationTimeout
	}
	s.nudge = make(chan struct{}, 1)
	s.recomputeRunner = periodic.Start(
		&Recomputer{
			Store:          s.Topology,
			Gate:           s.Gate,
			Routes:         s.Routes,
			Recomputations: s.Metrics.Recomputations,
			Errors:         s.Metrics.RecomputationErrors,
			Duration:       s.Metrics.RecomputationDuration,
			Switches:       s.Metrics.Switches,
			Links:          s.Metrics.Links,
		},
		scan, timeout,
	)
	go func() {
		defer log.HandlePanic()
		s.forwardNudges()
	}()
	if s.Prober != nil {
		interval := s.DiscoveryInterval
		if interval <= 0 {
			interval = discovery.DefaultInterval
		}
		s.discoveryRunner = periodic.Start(s.Prober, interval, interval)
	}
	return nil
}

func (s *Service) close(ctx context.Context) error {
	if s.discoveryRunner != nil {
		s.discoveryRunner.Kill()
	}
	s.recomputeRunner.Kill()
	return nil
}

// forwardNudges turns coalesced topology change notifications into runner
// triggers. TriggerRun blocks while a run executes, this loop keeps that
// wait off the event path.
func (s *Service) forwardNudges() {
	done := s.workerBase.GetDoneChan()
	for {
		select {
		case <-done:
			return
		case <-s.nudge:
			s.recomputeRunner.TriggerRun()
		}
	}
}

func (s *Service) topologyChanged() {
	s.Gate.Reset()
	select {
	case s.nudge <- struct{}{}:
	default:
	}
}

// SwitchUp registers a connected switch with its ports and asks the
// driver to punt unmatched frames to the controller. A reconnect for an
// already tracked dpid is logged and ignored.
func (s *Service) SwitchUp(ctx context.Context, dpid addr.DPID, ports []uint32) error {
	logger := log.FromCtx(ctx)
	if !s.Topology.SwitchUp(dpid, ports) {
		metrics.CounterInc(s.Metrics.DuplicateConnects)
		logger.Info("Ignoring duplicate switch connect", "dpid", dpid)
		return nil
	}
	metrics.CounterInc(s.Metrics.SwitchConnects)
	logger.Info("Switch connected", "dpid", dpid, "ports", len(ports))
	s.topologyChanged()
	if err := s.Driver.RequestDefaultToController(ctx, dpid); err != nil {
		return serrors.Wrap("requesting default punt rule", err, "dpid", dpid)
	}
	return nil
}

// SwitchDown removes a disconnected switch, its incident links and the
// hosts learned behind it.
func (s *Service) SwitchDown(ctx context.Context, dpid addr.DPID) {
	logger := log.FromCtx(ctx)
	if !s.Topology.SwitchDown(dpid) {
		logger.Info("Ignoring disconnect of unknown switch", "dpid", dpid)
		return
	}
	forgotten := s.Hosts.Forget(dpid)
	metrics.CounterInc(s.Metrics.SwitchDisconnects)
	logger.Info("Switch disconnected", "dpid", dpid, "hosts_forgotten", forgotten)
	s.topologyChanged()
}

// LinkDiscovered records a directed adjacency reported by discovery.
// Refreshes of an unchanged adjacency do not disturb the stability gate.
func (s *Service) LinkDiscovered(ctx context.Context, from, to addr.DPID, fromPort uint32) {
	if !s.Topology.LinkUp(from, to, fromPort) {
		return
	}
	metrics.CounterInc(s.Metrics.LinksDiscovered)
	log.FromCtx(ctx).Info("Link discovered",
		"from", from, "to", to, "port", fromPort)
	s.topologyChanged()
}

// LinkLost removes a directed adjacency.
func (s *Service) LinkLost(ctx context.Context, from, to addr.DPID) {
	if !s.Topology.LinkDown(from, to) {
		return
	}
	metrics.CounterInc(s.Metrics.LinksLost)
	log.FromCtx(ctx).Info("Link lost", "from", from, "to", to)
	s.topologyChanged()
}

// Frame dispatches one punted frame. Control frames feed discovery, all
// others run through the forwarding engine. Errors are counted and
// reported to the caller; they never affect the service state.
func (s *Service) Frame(ctx context.Context, f driver.Frame) error {
	meta, err := frame.Classify(f.Data)
	if err != nil {
		metrics.CounterInc(s.Metrics.FrameErrors)
		return serrors.Wrap("classifying frame", err, "dpid", f.DPID, "port", f.Port)
	}
	if meta.Class == frame.ClassControl {
		metrics.CounterInc(s.Metrics.ControlFrames)
		if s.Prober == nil {
			return nil
		}
		if err := s.Prober.HandleFrame(ctx, f); err != nil {
			metrics.CounterInc(s.Metrics.FrameErrors)
			return err
		}
		return nil
	}
	metrics.CounterInc(s.Metrics.DataFrames)
	if err := s.Forwarding.Process(ctx, f, meta); err != nil {
		metrics.CounterInc(s.Metrics.FrameErrors)
		return err
	}
	return nil
}

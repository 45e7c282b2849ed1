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

// Package forwarding decides what happens to every frame the fabric punts
// to the controller. It combines the host table and the route engine into
// an output action and, for routed unicast traffic, asks the driver to
// install a short lived rule so follow-up frames stay in the fast path.
//
// Frame errors are reported to the caller for accounting but must never
// take the controller down. The worst outcome of any error is a dropped
// frame or an extra flood.
package forwarding

import (
	"context"
	"errors"
	"net"
	"time"

	"zgo.at/zcache/v2"

	"github.com/openfabric/fabric/control/arpproxy"
	"github.com/openfabric/fabric/control/driver"
	"github.com/openfabric/fabric/control/frame"
	"github.com/openfabric/fabric/control/hosts"
	"github.com/openfabric/fabric/control/routing"
	"github.com/openfabric/fabric/control/topology"
	"github.com/openfabric/fabric/pkg/addr"
	"github.com/openfabric/fabric/pkg/log"
	"github.com/openfabric/fabric/pkg/metrics"
	"github.com/openfabric/fabric/pkg/private/serrors"
)

const (
	// DefaultRuleTTL is the idle lifetime of installed forwarding rules.
	DefaultRuleTTL = 300 * time.Second
	// DefaultInstallGuard suppresses duplicate rule installs for the
	// burst of frames that arrive before the first rule takes effect.
	DefaultInstallGuard = 2 * time.Second

	guardCleanupInterval = time.Minute
)

// NoRoutePolicy selects the reaction to a known destination the route
// engine cannot reach.
type NoRoutePolicy string

const (
	// NoRouteFlood falls back to the restricted flood path.
	NoRouteFlood NoRoutePolicy = "flood"
	// NoRouteDrop drops the frame silently.
	NoRouteDrop NoRoutePolicy = "drop"
)

// MissingPortPolicy selects the reaction to a computed next hop that has
// no port in the current port map. That only happens when the routed
// state changes between the hop and port lookups.
type MissingPortPolicy string

const (
	// MissingPortDrop drops the frame. Default, avoids flooding over
	// switch links during the window where the maps disagree.
	MissingPortDrop MissingPortPolicy = "drop"
	// MissingPortFlood optimistically floods instead.
	MissingPortFlood MissingPortPolicy = "flood"
)

// Policy bundles the forwarding fallback policies.
type Policy struct {
	NoRoute     NoRoutePolicy
	MissingPort MissingPortPolicy
}

func (p Policy) withDefaults() Policy {
	if p.NoRoute == "" {
		p.NoRoute = NoRouteFlood
	}
	if p.MissingPort == "" {
		p.MissingPort = MissingPortDrop
	}
	return p
}

// Metrics reports forwarding decisions. All fields are optional.
type Metrics struct {
	// Forwarded counts frames emitted toward a known destination.
	Forwarded metrics.Counter
	// Flooded counts frames emitted on the flood path.
	Flooded metrics.Counter
	// Dropped counts frames dropped by policy.
	Dropped metrics.Counter
	// RulesInstalled counts accepted rule installations.
	RulesInstalled metrics.Counter
}

// Config configures the forwarding engine.
type Config struct {
	// Driver executes emit and rule install commands. Required.
	Driver driver.Driver
	// Topology provides the local port inventory. Required.
	Topology *topology.Store
	// Routes provides next hops and flood port sets. Required.
	Routes routing.Engine
	// Hosts is the host location table. Required.
	Hosts *hosts.Table
	// Proxy answers address resolution requests. Optional.
	Proxy *arpproxy.Proxy
	// Policy selects the fallback behaviors, zero values mean defaults.
	Policy Policy
	// RuleTTL is the idle lifetime of installed rules, DefaultRuleTTL
	// if zero.
	RuleTTL time.Duration
	// InstallGuard is the duplicate install suppression window,
	// DefaultInstallGuard if zero.
	InstallGuard time.Duration
	Metrics      Metrics
}

type ruleKey struct {
	dpid addr.DPID
	dst  string
}

// Engine is the forwarding decision engine. It is safe for concurrent
// use, one goroutine per punted frame.
type Engine struct {
	driver  driver.Driver
	store   *topology.Store
	routes  routing.Engine
	hosts   *hosts.Table
	proxy   *arpproxy.Proxy
	policy  Policy
	ruleTTL time.Duration
	metrics Metrics
	guard   *zcache.Cache[ruleKey, struct{}]
}

// New creates a forwarding engine from the configuration.
func New(cfg Config) *Engine {
	if cfg.RuleTTL <= 0 {
		cfg.RuleTTL = DefaultRuleTTL
	}
	if cfg.InstallGuard <= 0 {
		cfg.InstallGuard = DefaultInstallGuard
	}
	return &Engine{
		driver:  cfg.Driver,
		store:   cfg.Topology,
		routes:  cfg.Routes,
		hosts:   cfg.Hosts,
		proxy:   cfg.Proxy,
		policy:  cfg.Policy.withDefaults(),
		ruleTTL: cfg.RuleTTL,
		metrics: cfg.Metrics,
		guard:   zcache.New[ruleKey, struct{}](cfg.InstallGuard, guardCleanupInterval),
	}
}

// Process runs the decision machine on one punted frame. The meta must
// come from classifying f.Data. Control class frames are consumed by the
// discovery path before this point and are dropped here.
func (e *Engine) Process(ctx context.Context, f driver.Frame, meta frame.Meta) error {
	logger := log.FromCtx(ctx)
	if meta.Class == frame.ClassControl {
		logger.Debug("Dropping stray control frame", "dpid", f.DPID, "port", f.Port)
		return nil
	}
	if e.hosts.Learn(meta.Src, f.DPID, f.Port) {
		logger.Debug("Learned host", "mac", meta.Src, "dpid", f.DPID, "port", f.Port)
	}
	if meta.Class == frame.ClassBroadcast {
		return e.broadcast(ctx, f)
	}
	entry, ok := e.hosts.Lookup(meta.Dst)
	if !ok {
		return e.flood(ctx, f)
	}
	if entry.DPID == f.DPID {
		if entry.Port == f.Port {
			// The destination sits behind the ingress port. The frame
			// already reached its segment, emitting it back would only
			// reflect it.
			metrics.CounterInc(e.metrics.Dropped)
			logger.Debug("Dropping reflected frame",
				"dpid", f.DPID, "port", f.Port, "dst", meta.Dst)
			return nil
		}
		return e.unicast(ctx, f, meta.Dst, entry.Port, false)
	}
	hop, err := e.routes.NextHop(f.DPID, entry.DPID)
	if err != nil {
		return e.noRoute(ctx, f, err)
	}
	port, ok := e.routes.PortTo(f.DPID, hop)
	if !ok {
		if e.policy.MissingPort == MissingPortFlood {
			return e.flood(ctx, f)
		}
		metrics.CounterInc(e.metrics.Dropped)
		logger.Debug("Dropping frame, next hop has no port",
			"dpid", f.DPID, "hop", hop, "dst", meta.Dst)
		return nil
	}
	return e.unicast(ctx, f, meta.Dst, port, true)
}

// broadcast gives the proxy a shot at answering the frame and floods it
// otherwise. Proxy parse failures still flood, a frame the proxy cannot
// read is not the controller's to censor.
func (e *Engine) broadcast(ctx context.Context, f driver.Frame) error {
	if e.proxy != nil {
		handled, err := e.proxy.Handle(ctx, f)
		if err != nil {
			log.FromCtx(ctx).Debug("Proxy unable to handle frame",
				"dpid", f.DPID, "port", f.Port, "err", err)
		}
		if handled {
			return nil
		}
	}
	return e.flood(ctx, f)
}

func (e *Engine) flood(ctx context.Context, f driver.Frame) error {
	local, ok := e.store.Ports(f.DPID)
	if !ok {
		// The switch disconnected while its frame was in flight.
		metrics.CounterInc(e.metrics.Dropped)
		return nil
	}
	ports := e.routes.FloodPorts(f.DPID, local, f.Port)
	if len(ports) == 0 {
		metrics.CounterInc(e.metrics.Dropped)
		return nil
	}
	if err := e.driver.Emit(ctx, f.DPID, ports, f.Data, f.BufferID); err != nil {
		return serrors.Wrap("emitting flood", err, "dpid", f.DPID)
	}
	metrics.CounterInc(e.metrics.Flooded)
	return nil
}

func (e *Engine) noRoute(ctx context.Context, f driver.Frame, cause error) error {
	if e.policy.NoRoute == NoRouteDrop {
		metrics.CounterInc(e.metrics.Dropped)
		log.FromCtx(ctx).Debug("Dropping frame without route",
			"dpid", f.DPID, "err", cause)
		return nil
	}
	if errors.Is(cause, routing.ErrComputationFailed) {
		log.FromCtx(ctx).Info("Flooding frame, route lookup failed",
			"dpid", f.DPID, "err", cause)
	}
	return e.flood(ctx, f)
}

func (e *Engine) unicast(ctx context.Context, f driver.Frame,
	dst net.HardwareAddr, port uint32, install bool) error {

	if err := e.driver.Emit(ctx, f.DPID, []uint32{port}, f.Data, f.BufferID); err != nil {
		return serrors.Wrap("emitting frame", err, "dpid", f.DPID, "port", port)
	}
	metrics.CounterInc(e.metrics.Forwarded)
	if !install {
		return nil
	}
	key := ruleKey{dpid: f.DPID, dst: dst.String()}
	if _, ok := e.guard.Get(key); ok {
		return nil
	}
	if err := e.driver.InstallRule(ctx, f.DPID, dst, port, e.ruleTTL); err != nil {
		return serrors.Wrap("installing rule", err,
			"dpid", f.DPID, "dst", dst, "port", port)
	}
	e.guard.Set(key, struct{}{})
	metrics.CounterInc(e.metrics.RulesInstalled)
	return nil
}

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

// Package config describes the configuration of the fabric controller.
package config

import (
	"io"
	"strings"
	"time"

	"github.com/openfabric/fabric/control"
	"github.com/openfabric/fabric/control/arpproxy"
	"github.com/openfabric/fabric/control/discovery"
	"github.com/openfabric/fabric/control/forwarding"
	"github.com/openfabric/fabric/control/routing"
	"github.com/openfabric/fabric/control/stability"
	"github.com/openfabric/fabric/pkg/log"
	"github.com/openfabric/fabric/pkg/private/serrors"
	"github.com/openfabric/fabric/pkg/private/util"
	"github.com/openfabric/fabric/private/config"
	"github.com/openfabric/fabric/private/env"
	api "github.com/openfabric/fabric/private/mgmtapi"
)

var _ config.Config = (*Config)(nil)

// Config is the fabric controller configuration.
type Config struct {
	General    env.General      `toml:"general,omitempty"`
	Logging    log.Config       `toml:"log,omitempty"`
	Metrics    env.Metrics      `toml:"metrics,omitempty"`
	API        api.Config       `toml:"api,omitempty"`
	Tracing    env.Tracing      `toml:"tracing,omitempty"`
	Stability  StabilityConfig  `toml:"stability,omitempty"`
	Routing    RoutingConfig    `toml:"routing,omitempty"`
	Forwarding ForwardingConfig `toml:"forwarding,omitempty"`
	Discovery  DiscoveryConfig  `toml:"discovery,omitempty"`
	ARPProxy   ARPProxyConfig   `toml:"arpproxy,omitempty"`
	Driver     DriverConfig     `toml:"driver,omitempty"`
}

// InitDefaults initializes the default values for all parts of the config.
func (cfg *Config) InitDefaults() {
	config.InitAll(
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.API,
		&cfg.Tracing,
		&cfg.Stability,
		&cfg.Routing,
		&cfg.Forwarding,
		&cfg.Discovery,
		&cfg.ARPProxy,
		&cfg.Driver,
	)
}

// Validate validates all parts of the config.
func (cfg *Config) Validate() error {
	return config.ValidateAll(
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.API,
		&cfg.Stability,
		&cfg.Routing,
		&cfg.Forwarding,
		&cfg.Discovery,
		&cfg.ARPProxy,
		&cfg.Driver,
	)
}

// Sample generates a sample config file for the fabric controller.
func (cfg *Config) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteSample(dst, path, config.CtxMap{config.ID: idSample},
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.API,
		&cfg.Tracing,
		&cfg.Stability,
		&cfg.Routing,
		&cfg.Forwarding,
		&cfg.Discovery,
		&cfg.ARPProxy,
		&cfg.Driver,
	)
}

var _ config.Config = (*StabilityConfig)(nil)

// StabilityConfig decides when the observed topology counts as settled and
// how route recomputation is scheduled.
type StabilityConfig struct {
	// Threshold is the number of consecutive equal topology observations
	// after which the topology counts as settled.
	Threshold int `toml:"threshold,omitempty"`
	// ScanInterval is the cadence of topology observations.
	ScanInterval util.DurWrap `toml:"scan_interval,omitempty"`
	// ComputationTimeout bounds a single route recomputation.
	ComputationTimeout util.DurWrap `toml:"computation_timeout,omitempty"`
}

// InitDefaults initializes the values that are zero.
func (cfg *StabilityConfig) InitDefaults() {
	if cfg.Threshold == 0 {
		cfg.Threshold = stability.DefaultThreshold
	}
	initDurWrap(&cfg.ScanInterval, control.DefaultScanInterval)
	initDurWrap(&cfg.ComputationTimeout, control.DefaultComputationTimeout)
}

// Validate validates that the threshold and all durations are positive.
func (cfg *StabilityConfig) Validate() error {
	if cfg.Threshold < 1 {
		return serrors.New("stability threshold must be positive",
			"threshold", cfg.Threshold)
	}
	if cfg.ScanInterval.Duration <= 0 {
		return serrors.New("scan_interval must be positive",
			"scan_interval", cfg.ScanInterval)
	}
	if cfg.ComputationTimeout.Duration <= 0 {
		return serrors.New("computation_timeout must be positive",
			"computation_timeout", cfg.ComputationTimeout)
	}
	return nil
}

// Sample generates a sample for the stability configuration.
func (cfg *StabilityConfig) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, stabilitySample)
}

// ConfigName is the toml key for the stability configuration.
func (cfg *StabilityConfig) ConfigName() string {
	return "stability"
}

var _ config.Config = (*RoutingConfig)(nil)

// RoutingConfig selects and sizes the route computation engine.
type RoutingConfig struct {
	// Mode selects the shortest path strategy.
	Mode string `toml:"mode,omitempty"`
	// PathCache is the number of materialized paths kept by the
	// bellman-ford mode. Ignored by mode johnson.
	PathCache int `toml:"path_cache,omitempty"`
}

// InitDefaults initializes the values that are zero.
func (cfg *RoutingConfig) InitDefaults() {
	if cfg.Mode == "" {
		cfg.Mode = routing.ModeBellmanFord
	}
	if cfg.PathCache == 0 {
		cfg.PathCache = routing.DefaultPathCache
	}
}

// Validate validates the mode and normalizes its capitalization.
func (cfg *RoutingConfig) Validate() error {
	switch strings.ToLower(cfg.Mode) {
	case routing.ModeBellmanFord:
		cfg.Mode = routing.ModeBellmanFord
	case routing.ModeJohnson:
		cfg.Mode = routing.ModeJohnson
	default:
		return serrors.New("unknown routing mode", "mode", cfg.Mode)
	}
	if cfg.PathCache < 0 {
		return serrors.New("path_cache must not be negative",
			"path_cache", cfg.PathCache)
	}
	return nil
}

// Sample generates a sample for the routing configuration.
func (cfg *RoutingConfig) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, routingSample)
}

// ConfigName is the toml key for the routing configuration.
func (cfg *RoutingConfig) ConfigName() string {
	return "routing"
}

var _ config.Config = (*ForwardingConfig)(nil)

// ForwardingConfig configures the per frame forwarding decisions.
type ForwardingConfig struct {
	// UnmappedPorts is the flood treatment of local ports without a link
	// record.
	UnmappedPorts routing.PortPolicy `toml:"unmapped_ports,omitempty"`
	// Partitioned is the flood behavior while the switch graph is split.
	Partitioned routing.PartitionPolicy `toml:"partitioned,omitempty"`
	// NoRoute is the treatment of unicast frames whose destination has no
	// computed route.
	NoRoute forwarding.NoRoutePolicy `toml:"no_route,omitempty"`
	// MissingPort is the treatment of unicast frames whose next hop has no
	// known egress port.
	MissingPort forwarding.MissingPortPolicy `toml:"missing_port,omitempty"`
	// RuleTTL is the idle lifetime of forwarding rules installed on the
	// switches.
	RuleTTL util.DurWrap `toml:"rule_ttl,omitempty"`
	// InstallGuard is the interval during which repeated installs of the
	// same rule are suppressed.
	InstallGuard util.DurWrap `toml:"install_guard,omitempty"`
}

// InitDefaults initializes the values that are zero.
func (cfg *ForwardingConfig) InitDefaults() {
	if cfg.UnmappedPorts == "" {
		cfg.UnmappedPorts = routing.UnmappedHost
	}
	if cfg.Partitioned == "" {
		cfg.Partitioned = routing.PartitionedHostOnly
	}
	if cfg.NoRoute == "" {
		cfg.NoRoute = forwarding.NoRouteFlood
	}
	if cfg.MissingPort == "" {
		cfg.MissingPort = forwarding.MissingPortDrop
	}
	initDurWrap(&cfg.RuleTTL, forwarding.DefaultRuleTTL)
	initDurWrap(&cfg.InstallGuard, forwarding.DefaultInstallGuard)
}

// Validate validates all policies and normalizes their capitalization.
func (cfg *ForwardingConfig) Validate() error {
	if err := normalizePolicy("unmapped_ports", &cfg.UnmappedPorts,
		routing.UnmappedHost, routing.UnmappedDrop); err != nil {
		return err
	}
	if err := normalizePolicy("partitioned", &cfg.Partitioned,
		routing.PartitionedHostOnly, routing.PartitionedDrop); err != nil {
		return err
	}
	if err := normalizePolicy("no_route", &cfg.NoRoute,
		forwarding.NoRouteFlood, forwarding.NoRouteDrop); err != nil {
		return err
	}
	if err := normalizePolicy("missing_port", &cfg.MissingPort,
		forwarding.MissingPortDrop, forwarding.MissingPortFlood); err != nil {
		return err
	}
	if cfg.RuleTTL.Duration <= 0 {
		return serrors.New("rule_ttl must be positive", "rule_ttl", cfg.RuleTTL)
	}
	if cfg.InstallGuard.Duration <= 0 {
		return serrors.New("install_guard must be positive",
			"install_guard", cfg.InstallGuard)
	}
	return nil
}

// Sample generates a sample for the forwarding configuration.
func (cfg *ForwardingConfig) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, forwardingSample)
}

// ConfigName is the toml key for the forwarding configuration.
func (cfg *ForwardingConfig) ConfigName() string {
	return "forwarding"
}

var _ config.Config = (*DiscoveryConfig)(nil)

// DiscoveryConfig configures LLDP link discovery.
type DiscoveryConfig struct {
	// Disabled turns off link probing. Inter switch links then stay
	// unknown and every switch floods like an isolated learning switch.
	Disabled bool `toml:"disabled,omitempty"`
	// Interval is the cadence of probe rounds.
	Interval util.DurWrap `toml:"interval,omitempty"`
}

// InitDefaults initializes the values that are zero.
func (cfg *DiscoveryConfig) InitDefaults() {
	initDurWrap(&cfg.Interval, discovery.DefaultInterval)
}

// Validate validates that the probe interval is positive.
func (cfg *DiscoveryConfig) Validate() error {
	if cfg.Interval.Duration <= 0 {
		return serrors.New("discovery interval must be positive",
			"interval", cfg.Interval)
	}
	return nil
}

// Sample generates a sample for the discovery configuration.
func (cfg *DiscoveryConfig) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, discoverySample)
}

// ConfigName is the toml key for the discovery configuration.
func (cfg *DiscoveryConfig) ConfigName() string {
	return "discovery"
}

var _ config.Config = (*ARPProxyConfig)(nil)

// ARPProxyConfig configures the ARP proxy.
type ARPProxyConfig struct {
	// Enabled turns on answering of ARP requests from the controller.
	// When disabled, ARP traffic floods like any other broadcast.
	Enabled bool `toml:"enabled,omitempty"`
	// TTL is the lifetime of learned IP to MAC bindings.
	TTL util.DurWrap `toml:"ttl,omitempty"`
}

// InitDefaults initializes the values that are zero.
func (cfg *ARPProxyConfig) InitDefaults() {
	initDurWrap(&cfg.TTL, arpproxy.DefaultTTL)
}

// Validate validates that the binding lifetime is positive.
func (cfg *ARPProxyConfig) Validate() error {
	if cfg.TTL.Duration <= 0 {
		return serrors.New("arpproxy ttl must be positive", "ttl", cfg.TTL)
	}
	return nil
}

// Sample generates a sample for the ARP proxy configuration.
func (cfg *ARPProxyConfig) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, arpproxySample)
}

// ConfigName is the toml key for the ARP proxy configuration.
func (cfg *ARPProxyConfig) ConfigName() string {
	return "arpproxy"
}

var _ config.Config = (*DriverConfig)(nil)

// DriverConfig selects the southbound driver to attach. The name resolves
// against the drivers compiled into the binary when the service starts.
type DriverConfig struct {
	config.NoDefaulter
	config.NoValidator
	// Name is the name of a compiled-in driver. An empty name selects the
	// sole compiled-in driver.
	Name string `toml:"name,omitempty"`
}

// Sample generates a sample for the driver configuration.
func (cfg *DriverConfig) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, driverSample)
}

// ConfigName is the toml key for the driver configuration.
func (cfg *DriverConfig) ConfigName() string {
	return "driver"
}

func initDurWrap(w *util.DurWrap, def time.Duration) {
	if w.Duration == 0 {
		w.Duration = def
	}
}

// normalizePolicy lowercases the policy value in place and checks it against
// the allowed values.
func normalizePolicy[T ~string](key string, v *T, allowed ...T) error {
	p := T(strings.ToLower(string(*v)))
	for _, a := range allowed {
		if p == a {
			*v = a
			return nil
		}
	}
	return serrors.New("unknown "+key+" policy", "policy", *v)
}

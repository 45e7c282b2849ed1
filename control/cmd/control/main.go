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

package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	_ "net/http/pprof"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	cs "github.com/openfabric/fabric/control"
	"github.com/openfabric/fabric/control/arpproxy"
	"github.com/openfabric/fabric/control/config"
	"github.com/openfabric/fabric/control/discovery"
	"github.com/openfabric/fabric/control/driver"
	"github.com/openfabric/fabric/control/forwarding"
	"github.com/openfabric/fabric/control/hosts"
	"github.com/openfabric/fabric/control/routing"
	"github.com/openfabric/fabric/control/stability"
	"github.com/openfabric/fabric/control/topology"
	"github.com/openfabric/fabric/pkg/log"
	libmetrics "github.com/openfabric/fabric/pkg/metrics"
	"github.com/openfabric/fabric/pkg/private/prom"
	"github.com/openfabric/fabric/pkg/private/serrors"
	"github.com/openfabric/fabric/private/app"
	"github.com/openfabric/fabric/private/app/launcher"
	"github.com/openfabric/fabric/private/env"
)

var globalCfg config.Config

func main() {
	application := launcher.Application{
		TOMLConfig: &globalCfg,
		ShortName:  "OpenFabric Controller",
		Main:       realMain,
	}
	application.Run()
}

func realMain(ctx context.Context) error {
	metrics := cs.NewMetrics()

	closer, err := cs.InitTracer(globalCfg.Tracing, globalCfg.General.ID)
	if err != nil {
		return serrors.Wrap("initializing tracer", err)
	}
	defer closer.Close()

	store := topology.New()
	gate := stability.New(globalCfg.Stability.Threshold, stability.Metrics{
		Observations: libmetrics.NewPromGauge(metrics.StabilityObservations),
		Settled:      libmetrics.NewPromGauge(metrics.StabilitySettled),
	})
	table := hosts.NewTable(hosts.Metrics{
		Entries: libmetrics.NewPromGauge(metrics.HostEntries),
	})
	routes, err := routing.New(
		globalCfg.Routing.Mode,
		routing.Policy{
			UnmappedPorts: globalCfg.Forwarding.UnmappedPorts,
			Partitioned:   globalCfg.Forwarding.Partitioned,
		},
		globalCfg.Routing.PathCache,
	)
	if err != nil {
		return serrors.Wrap("creating route engine", err)
	}

	topologyEvents := libmetrics.NewPromCounter(metrics.TopologyEventsTotal)
	frames := libmetrics.NewPromCounter(metrics.FramesTotal)
	recomputations := libmetrics.NewPromCounter(metrics.RecomputationsTotal)
	svc := &cs.Service{
		Topology:           store,
		Gate:               gate,
		Hosts:              table,
		Routes:             routes,
		ScanInterval:       globalCfg.Stability.ScanInterval.Duration,
		ComputationTimeout: globalCfg.Stability.ComputationTimeout.Duration,
		DiscoveryInterval:  globalCfg.Discovery.Interval.Duration,
		Metrics: cs.ServiceMetrics{
			SwitchConnects:      topologyEvents.With(prom.LabelEvent, "switch_up"),
			SwitchDisconnects:   topologyEvents.With(prom.LabelEvent, "switch_down"),
			DuplicateConnects:   topologyEvents.With(prom.LabelEvent, "duplicate_connect"),
			LinksDiscovered:     topologyEvents.With(prom.LabelEvent, "link_discovered"),
			LinksLost:           topologyEvents.With(prom.LabelEvent, "link_lost"),
			ControlFrames:       frames.With(prom.LabelClass, "control"),
			DataFrames:          frames.With(prom.LabelClass, "data"),
			FrameErrors:         libmetrics.NewPromCounter(metrics.FrameErrorsTotal),
			Recomputations:      recomputations.With(prom.LabelResult, prom.Success),
			RecomputationErrors: recomputations.With(prom.LabelResult, prom.ErrCompute),
			RecomputationDuration: libmetrics.NewPromHistogram(
				metrics.RecomputationSeconds),
			Switches: libmetrics.NewPromGauge(metrics.TopologySwitches),
			Links:    libmetrics.NewPromGauge(metrics.TopologyLinks),
		},
	}

	drv, err := driver.New(globalCfg.Driver.Name, svc)
	if err != nil {
		return serrors.Wrap("attaching forwarding plane driver", err)
	}
	svc.Driver = drv

	var proxy *arpproxy.Proxy
	if globalCfg.ARPProxy.Enabled {
		proxy = arpproxy.NewProxy(drv, globalCfg.ARPProxy.TTL.Duration, arpproxy.Metrics{
			Answered: libmetrics.NewPromCounter(metrics.ProxyAnswersTotal),
			Learned:  libmetrics.NewPromCounter(metrics.ProxyBindingsTotal),
		})
	}

	decisions := libmetrics.NewPromCounter(metrics.ForwardingDecisionsTotal)
	svc.Forwarding = forwarding.New(forwarding.Config{
		Driver:   drv,
		Topology: store,
		Routes:   routes,
		Hosts:    table,
		Proxy:    proxy,
		Policy: forwarding.Policy{
			NoRoute:     globalCfg.Forwarding.NoRoute,
			MissingPort: globalCfg.Forwarding.MissingPort,
		},
		RuleTTL:      globalCfg.Forwarding.RuleTTL.Duration,
		InstallGuard: globalCfg.Forwarding.InstallGuard.Duration,
		Metrics: forwarding.Metrics{
			Forwarded:      decisions.With(prom.LabelResult, "forwarded"),
			Flooded:        decisions.With(prom.LabelResult, "flooded"),
			Dropped:        decisions.With(prom.LabelResult, "dropped"),
			RulesInstalled: libmetrics.NewPromCounter(metrics.RulesInstalledTotal),
		},
	})

	if !globalCfg.Discovery.Disabled {
		probes := libmetrics.NewPromCounter(metrics.DiscoveryProbesTotal)
		svc.Prober = &discovery.Prober{
			Store:    store,
			Driver:   drv,
			Topology: svc,
			Metrics: discovery.Metrics{
				ProbesSent: probes.With(prom.LabelResult, prom.Success),
				EmitErrors: probes.With(prom.LabelResult, prom.ErrEmit),
			},
		}
	}

	g, errCtx := errgroup.WithContext(ctx)
	var cleanup app.Cleanup

	if err := svc.Run(errCtx); err != nil {
		return serrors.Wrap("starting controller core", err)
	}
	cleanup.Add(func() error {
		shutCtx, cancel := context.WithTimeout(
			context.Background(), env.ShutdownGraceInterval)
		defer cancel()
		return svc.Close(shutCtx)
	})

	if server, ok := drv.(driver.Server); ok {
		g.Go(func() error {
			defer log.HandlePanic()
			if err := server.Run(errCtx); err != nil {
				return serrors.Wrap("serving forwarding plane driver", err)
			}
			return nil
		})
	}
	if dc, ok := drv.(io.Closer); ok {
		cleanup.Add(dc.Close)
	}

	if globalCfg.API.Addr != "" {
		r := chi.NewRouter()
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
		}))
		r.Mount("/", http.DefaultServeMux)
		log.Info("Exposing API", "addr", globalCfg.API.Addr)
		s := http.Server{
			Addr:    globalCfg.API.Addr,
			Handler: r,
		}
		g.Go(func() error {
			defer log.HandlePanic()
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return serrors.Wrap("serving service management API", err)
			}
			return nil
		})
		cleanup.Add(s.Close)
	}
	err = cs.RegisterHTTPEndpoints(globalCfg.General.ID, &globalCfg, store, table)
	if err != nil {
		return err
	}

	g.Go(func() error {
		defer log.HandlePanic()
		return globalCfg.Metrics.ServePrometheus(errCtx)
	})

	g.Go(func() error {
		defer log.HandlePanic()
		<-errCtx.Done()
		return cleanup.Do()
	})

	return g.Wait()
}

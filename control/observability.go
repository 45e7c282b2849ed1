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
	"encoding/json"
	"io"
	"net/http"
	"time"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/openfabric/fabric/control/hosts"
	"github.com/openfabric/fabric/control/topology"
	"github.com/openfabric/fabric/pkg/addr"
	"github.com/openfabric/fabric/pkg/private/prom"
	"github.com/openfabric/fabric/pkg/private/serrors"
	"github.com/openfabric/fabric/private/config"
	"github.com/openfabric/fabric/private/env"
	"github.com/openfabric/fabric/private/service"
)

// InitTracer initializes the global tracer.
func InitTracer(tracing env.Tracing, id string) (io.Closer, error) {
	tracer, trCloser, err := tracing.NewTracer(id)
	if err != nil {
		return nil, err
	}
	opentracing.SetGlobalTracer(tracer)
	return trCloser, nil
}

// Metrics defines the metrics exposed by the controller. Component metric
// structs are wired from these vectors in the launcher.
type Metrics struct {
	TopologyEventsTotal      *prometheus.CounterVec
	FramesTotal              *prometheus.CounterVec
	FrameErrorsTotal         *prometheus.CounterVec
	ForwardingDecisionsTotal *prometheus.CounterVec
	RulesInstalledTotal      *prometheus.CounterVec
	RecomputationsTotal      *prometheus.CounterVec
	RecomputationSeconds     *prometheus.HistogramVec
	DiscoveryProbesTotal     *prometheus.CounterVec
	ProxyAnswersTotal        *prometheus.CounterVec
	ProxyBindingsTotal       *prometheus.CounterVec
	HostEntries              *prometheus.GaugeVec
	TopologySwitches         *prometheus.GaugeVec
	TopologyLinks            *prometheus.GaugeVec
	StabilityObservations    *prometheus.GaugeVec
	StabilitySettled         *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		TopologyEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "control_topology_events_total",
				Help: "Total number of topology events, by event type.",
			},
			[]string{prom.LabelEvent},
		),
		FramesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "control_frames_total",
				Help: "Total number of frames punted to the controller.",
			},
			[]string{prom.LabelClass},
		),
		FrameErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "control_frame_errors_total",
				Help: "Total number of frames that could not be processed.",
			},
			[]string{},
		),
		ForwardingDecisionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "control_forwarding_decisions_total",
				Help: "Total number of forwarding decisions, by outcome.",
			},
			[]string{prom.LabelResult},
		),
		RulesInstalledTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "control_rules_installed_total",
				Help: "Total number of forwarding rules installed.",
			},
			[]string{},
		),
		RecomputationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "control_route_recomputations_total",
				Help: "Total number of route recomputations.",
			},
			[]string{prom.LabelResult},
		),
		RecomputationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "control_route_recomputation_duration_seconds",
				Help:    "Duration of successful route recomputations.",
				Buckets: prom.DefaultLatencyBuckets,
			},
			[]string{},
		),
		DiscoveryProbesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "control_discovery_probes_total",
				Help: "Total number of discovery probes emitted.",
			},
			[]string{prom.LabelResult},
		),
		ProxyAnswersTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "control_arp_proxy_answers_total",
				Help: "Total number of address resolution requests answered.",
			},
			[]string{},
		),
		ProxyBindingsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "control_arp_proxy_bindings_learned_total",
				Help: "Total number of address bindings learned by the proxy.",
			},
			[]string{},
		),
		HostEntries: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "control_host_entries",
				Help: "Number of learned host locations.",
			},
			[]string{},
		),
		TopologySwitches: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "control_topology_switches",
				Help: "Number of connected switches.",
			},
			[]string{},
		),
		TopologyLinks: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "control_topology_links",
				Help: "Number of directed links in the topology store.",
			},
			[]string{},
		),
		StabilityObservations: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "control_stability_observations",
				Help: "Consecutive equal topology observations.",
			},
			[]string{},
		),
		StabilitySettled: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "control_stability_settled",
				Help: "Whether the topology is considered settled.",
			},
			[]string{},
		),
	}
}

// RegisterHTTPEndpoints starts the HTTP endpoints that expose the running
// configuration and the current fabric state.
func RegisterHTTPEndpoints(
	elemId string,
	cfg config.Config,
	store *topology.Store,
	table *hosts.Table,
) error {
	statusPages := service.StatusPages{
		"info":      service.NewInfoStatusPage(),
		"config":    service.NewConfigStatusPage(cfg),
		"log/level": service.NewLogLevelStatusPage(),
		"topology":  topologyStatusPage(store),
		"hosts":     hostsStatusPage(table),
	}
	if err := statusPages.Register(http.DefaultServeMux, elemId); err != nil {
		return serrors.Wrap("registering status pages", err)
	}
	return nil
}

func topologyStatusPage(store *topology.Store) service.StatusPage {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		snap := store.Snapshot()

		type Switch struct {
			DPID  addr.DPID `json:"dpid"`
			Ports []uint32  `json:"ports"`
		}
		type Link struct {
			From addr.DPID `json:"from"`
			To   addr.DPID `json:"to"`
			Port uint32    `json:"port"`
		}
		rep := struct {
			Switches []Switch `json:"switches"`
			Links    []Link   `json:"links"`
			Hash     uint64   `json:"hash"`
		}{
			Switches: []Switch{},
			Links:    []Link{},
			Hash:     snap.Hash(),
		}
		for _, dpid := range snap.Switches() {
			ports, _ := snap.Ports(dpid)
			rep.Switches = append(rep.Switches, Switch{DPID: dpid, Ports: ports})
		}
		for _, l := range snap.Links() {
			rep.Links = append(rep.Links, Link{From: l.From, To: l.To, Port: l.Port})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		if err := enc.Encode(rep); err != nil {
			http.Error(w, "Unable to marshal response", http.StatusInternalServerError)
			return
		}
	}
	return service.StatusPage{
		Info:    "fabric topology snapshot",
		Handler: handler,
	}
}

func hostsStatusPage(table *hosts.Table) service.StatusPage {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		type Host struct {
			MAC  string    `json:"mac"`
			DPID addr.DPID `json:"dpid"`
			Port uint32    `json:"port"`
			Seen time.Time `json:"last_seen"`
		}
		rep := []Host{}
		for _, e := range table.All() {
			rep = append(rep, Host{
				MAC:  e.MAC.String(),
				DPID: e.DPID,
				Port: e.Port,
				Seen: e.Seen,
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		if err := enc.Encode(rep); err != nil {
			http.Error(w, "Unable to marshal response", http.StatusInternalServerError)
			return
		}
	}
	return service.StatusPage{
		Info:    "learned host locations",
		Handler: handler,
	}
}

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

package config

const idSample = "control-1"

const stabilitySample = `
# Number of consecutive equal topology observations after which the topology
# counts as settled and routes are recomputed. (default 3)
threshold = 3

# Cadence of the periodic topology observation. Topology events trigger an
# additional immediate observation. (default 30s)
scan_interval = "30s"

# Upper bound on the duration of a single route recomputation. On timeout the
# previously computed tables stay in place. (default 1m)
computation_timeout = "1m"
`

const routingSample = `
# The shortest path strategy. bellman-ford computes single source paths on
# demand and caches them, johnson precomputes all pairs on every recompute.
# (bellman-ford|johnson, default bellman-ford)
mode = "bellman-ford"

# Number of materialized source/destination paths kept by the bellman-ford
# mode. Ignored by mode johnson. (default 1024)
path_cache = 1024
`

const forwardingSample = `
# Flood treatment of local ports that have no link record. host assumes the
# port faces a host and includes it, drop excludes it. (host|drop, default host)
unmapped_ports = "host"

# Flood behavior while the switch graph is partitioned and no spanning
# structure exists. host-only floods host facing ports but never inter switch
# links, drop suppresses flooding entirely. (host-only|drop, default host-only)
partitioned = "host-only"

# Treatment of unicast frames whose destination has no computed route.
# (flood|drop, default flood)
no_route = "flood"

# Treatment of unicast frames whose next hop has no known egress port.
# (drop|flood, default drop)
missing_port = "drop"

# Idle lifetime of forwarding rules installed on the switches. (default 300s)
rule_ttl = "300s"

# Interval during which repeated installs of the same rule are suppressed.
# (default 2s)
install_guard = "2s"
`

const discoverySample = `
# Disable LLDP link discovery. Without discovery no inter switch links are
# learned and every switch floods like an isolated learning switch.
# (default false)
disabled = false

# Cadence of LLDP probe rounds. (default 5s)
interval = "5s"
`

const arpproxySample = `
# Answer ARP requests for learned bindings directly from the controller
# instead of flooding them. (default false)
enabled = false

# Lifetime of learned IP to MAC bindings. (default 5m)
ttl = "5m"
`

const driverSample = `
# Name of the southbound driver to attach. Leave empty to use the single
# driver compiled into the binary. (default "")
name = ""
`

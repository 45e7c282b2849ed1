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

// Package mgmtapi contains the configuration of the management API.
package mgmtapi

import (
	"io"

	"github.com/openfabric/fabric/private/config"
)

var _ config.Config = (*Config)(nil)

// Config contains the configuration of the management API.
type Config struct {
	config.NoDefaulter
	config.NoValidator
	// Addr is the address the management API listens on (host:port). The
	// API is disabled if this is not set.
	Addr string `toml:"addr,omitempty"`
}

// ConfigName returns the name of the config block.
func (cfg *Config) ConfigName() string {
	return "api"
}

// Sample writes the sample configuration of the management API.
func (cfg *Config) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, apiSample)
}

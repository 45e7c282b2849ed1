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

package log

import (
	"io"

	"github.com/openfabric/fabric/pkg/private/serrors"
	"github.com/openfabric/fabric/private/config"
)

const (
	// DefaultConsoleLevel is the default log level for the console logger.
	DefaultConsoleLevel = "info"
	// DefaultStacktraceLevel is the default level from which stacktraces are
	// attached to console log entries.
	DefaultStacktraceLevel = "none"
)

// Config is the configuration of the logging backend.
type Config struct {
	// Console is the configuration of the console logger.
	Console ConsoleConfig `toml:"console,omitempty"`
}

// InitDefaults populates unset fields with their default values.
func (c *Config) InitDefaults() {
	c.Console.initDefaults()
}

// Validate validates that the config contains a parsable level and format.
func (c *Config) Validate() error {
	return c.Console.validate()
}

// Sample writes the sample configuration to dst.
func (c *Config) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteSample(dst, path, ctx, &c.Console)
}

// ConfigName returns the name this config uses in a config file.
func (c *Config) ConfigName() string {
	return "log"
}

// ConsoleConfig is the configuration of the console logger.
type ConsoleConfig struct {
	// Level of console logging (debug, info, error).
	Level string `toml:"level,omitempty"`
	// Format of the console log entries (console, json).
	Format string `toml:"format,omitempty"`
	// StacktraceLevel is the level from which stacktraces are attached to log
	// entries (none to disable).
	StacktraceLevel string `toml:"stacktrace_level,omitempty"`
	// DisableCaller disables annotating log entries with the file name and
	// line number of the caller.
	DisableCaller bool `toml:"disable_caller,omitempty"`
}

func (c *ConsoleConfig) initDefaults() {
	if c.Level == "" {
		c.Level = DefaultConsoleLevel
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.StacktraceLevel == "" {
		c.StacktraceLevel = DefaultStacktraceLevel
	}
}

func (c *ConsoleConfig) validate() error {
	if _, err := parseLevel(c.Level); err != nil {
		return serrors.Wrap("validating console level", err)
	}
	switch c.Format {
	case "", "console", "json":
	default:
		return serrors.New("unknown console log format", "format", c.Format)
	}
	if c.StacktraceLevel != DefaultStacktraceLevel && c.StacktraceLevel != "" {
		if _, err := parseLevel(c.StacktraceLevel); err != nil {
			return serrors.Wrap("validating stacktrace level", err)
		}
	}
	return nil
}

// Sample writes the sample configuration of the console logger to dst.
func (c *ConsoleConfig) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteString(dst, consoleConfigSample)
}

// ConfigName returns the name this config uses in a config file.
func (c *ConsoleConfig) ConfigName() string {
	return "console"
}

const consoleConfigSample = `
# Console logging level (debug|info|error). (default info)
level = "info"

# Console logging format (console|json). (default console)
format = "console"

# Level from which stacktraces are attached to log entries
# (none|debug|info|error). (default none)
stacktrace_level = "none"

# Disable annotating log entries with the caller location. (default false)
disable_caller = false
`

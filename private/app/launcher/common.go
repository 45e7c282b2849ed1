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

// Package launcher includes the shared application execution boilerplate of
// the controller binaries.
package launcher

import (
	"fmt"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/spf13/cobra"

	"github.com/openfabric/fabric/private/app/command"
	libconfig "github.com/openfabric/fabric/private/config"
	"github.com/openfabric/fabric/private/env"
)

// Configuration keys used by the launcher.
const (
	cfgConfigFile                = "config"
	cfgGeneralID                 = "general.id"
	cfgLogConsoleLevel           = "log.console.level"
	cfgLogConsoleFormat          = "log.console.format"
	cfgLogConsoleStacktraceLevel = "log.console.stacktrace_level"
)

func newCommandTemplate(executable string, shortName string, sampler libconfig.Sampler,
	samplers ...func(command.Pather) *cobra.Command) *cobra.Command {

	cmd := &cobra.Command{
		Use:           executable,
		Short:         shortName,
		Example:       fmt.Sprintf("  %s --config %s", executable, "config.toml"),
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.AddCommand(
		command.NewCompletion(cmd),
		command.NewSample(
			cmd,
			append(
				[]func(command.Pather) *cobra.Command{command.NewSampleConfig(sampler)},
				samplers...,
			)...,
		),
		command.NewVersion(cmd),
		command.NewGendocs(cmd),
	)
	cmd.Flags().String(cfgConfigFile, "", "Configuration file (required)")
	if err := cmd.MarkFlagRequired(cfgConfigFile); err != nil {
		panic(err)
	}
	return cmd
}

func exportBuildInfo() {
	g := promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fabric_build_info",
			Help: "Build information about the binary.",
		},
		[]string{"version", "goversion"},
	)
	g.WithLabelValues(env.Version, runtime.Version()).Set(1)
}

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

// Package command contains helpers to build the command tree of the
// binaries.
package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openfabric/fabric/private/config"
	"github.com/openfabric/fabric/private/env"
)

// Pather returns the path to a command.
type Pather interface {
	CommandPath() string
}

// StringPather implements Pather with a static string.
type StringPather string

func (s StringPather) CommandPath() string {
	return string(s)
}

// NewVersion creates a command that shows the version information.
func NewVersion(pather Pather) *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Show the version information",
		Example: fmt.Sprintf("  %s version", pather.CommandPath()),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), env.VersionInfo())
			return nil
		},
	}
}

// NewSample creates a command that groups the given sample file generators.
func NewSample(pather Pather, samplers ...func(Pather) *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Display sample files",
	}
	joined := StringPather(fmt.Sprintf("%s sample", pather.CommandPath()))
	for _, sampler := range samplers {
		cmd.AddCommand(sampler(joined))
	}
	return cmd
}

// NewSampleConfig creates a sample generator for the given config.
func NewSampleConfig(cfg config.Sampler) func(Pather) *cobra.Command {
	return func(pather Pather) *cobra.Command {
		return &cobra.Command{
			Use:     "config",
			Short:   "Display sample configuration file",
			Example: fmt.Sprintf("  %s config > cfg.toml", pather.CommandPath()),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg.Sample(os.Stdout, nil, nil)
				return nil
			},
		}
	}
}

// NewCompletion creates a command that generates shell completion scripts.
func NewCompletion(pather Pather) *cobra.Command {
	var shell string
	cmd := &cobra.Command{
		Use:     "completion",
		Short:   "Generate shell completion script",
		Example: fmt.Sprintf("  %s completion --shell zsh", pather.CommandPath()),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch shell {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			default:
				return fmt.Errorf("unknown shell: %s", shell)
			}
		},
	}
	cmd.Flags().StringVar(&shell, "shell", "bash", "Shell type (bash|zsh|fish)")
	return cmd
}

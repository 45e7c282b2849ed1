// Copyright 2025 OpenFabric Labs

package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// NewGendocs creates a hidden command that writes markdown documentation
// for the whole command tree to a directory.
func NewGendocs(pather Pather) *cobra.Command {
	var cmd = &cobra.Command{
		Use:    "gendocs <directory>",
		Short:  "Generate documentation",
		Args:   cobra.ExactArgs(1),
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Root().DisableAutoGenTag = true

			directory := args[0]
			if err := os.MkdirAll(directory, 0755); err != nil {
				return fmt.Errorf("creating directory: %w", err)
			}

			if err := doc.GenMarkdownTree(cmd.Root(), directory); err != nil {
				return fmt.Errorf("generating documentation: %w", err)
			}
			return nil
		},
	}
	return cmd
}

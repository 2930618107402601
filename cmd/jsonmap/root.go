// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the jsonmap CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jsonmap",
		Short: "jsonmap - a JSON-to-JSON transformation language",
		Long: `jsonmap compiles small programs that project, restructure,
aggregate, and iterate over JSON documents, then runs them against
JSON input to produce JSON output.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (used by 'serve')")

	cmd.AddCommand(NewTranslateCmd())
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewServeCmd())

	return cmd
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kyle-silver/jsonmap/pkg/jsonmap"
)

// NewCheckCmd creates the "check" subcommand: lex + parse a program file
// without requiring an input value, reporting LexError/ParseError. Useful
// for editor integrations; the parser already exists, so this is cheap to
// offer and isn't excluded by any Non-goal.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <program-file>",
		Short: "Parse a jsonmap program and report any lex/parse errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0])
		},
	}
	return cmd
}

func runCheck(cmd *cobra.Command, programPath string) error {
	programText, err := os.ReadFile(programPath)
	if err != nil {
		return fmt.Errorf("read program file: %w", err)
	}

	if _, err := jsonmap.Compile(string(programText)); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kyle-silver/jsonmap/pkg/jsonmap"
)

// NewTranslateCmd creates the "translate" subcommand: reads JSON on stdin,
// writes JSON on stdout, compiling and running the given program exactly once.
func NewTranslateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate <program-file>",
		Short: "Run a jsonmap program against JSON read from standard input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, args[0])
		},
	}
	return cmd
}

func runTranslate(cmd *cobra.Command, programPath string) error {
	programText, err := os.ReadFile(programPath)
	if err != nil {
		return fmt.Errorf("read program file: %w", err)
	}

	inputBytes, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	input, err := jsonmap.Decode(inputBytes)
	if err != nil {
		return fmt.Errorf("decode input JSON: %w", err)
	}

	output, err := jsonmap.Translate(string(programText), input)
	if err != nil {
		return err
	}

	outputBytes, err := jsonmap.Encode(output)
	if err != nil {
		return fmt.Errorf("encode output JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(outputBytes))
	return nil
}

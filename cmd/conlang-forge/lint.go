// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/conlang-forge/internal/project"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check the lexicon against the project's constraints locally",
	Long: `Lint checks every entry against the banned sequences, allowed graphemes
and phonotactic structure in project.yaml without calling the model. The
placeholders C and V in the phonotactic structure stand for the project
phonology's consonants and vowels. Exits non-zero when anything fails.`,
	RunE: runLint,
}

func runLint(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	entries, err := ws.store.All(cmd.Context())
	if err != nil {
		return err
	}

	violations, err := project.Violations(entries, ws.project.EffectiveConstraints(), ws.project.Phonology)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, v := range violations {
		fmt.Fprintln(out, v)
	}
	if len(violations) > 0 {
		return fmt.Errorf("%d violation(s) in %d entries", len(violations), len(project.Offending(entries, violations)))
	}
	fmt.Fprintf(out, "%d entries, no violations\n", len(entries))
	return nil
}

func init() {
	rootCmd.AddCommand(lintCmd)
}

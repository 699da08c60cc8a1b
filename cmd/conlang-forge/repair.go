// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/conlang-forge/internal/forge"
	"github.com/pdiddy/conlang-forge/internal/project"
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Bring lexicon entries in line with the project's constraints",
	Long: `Repair sends the lexicon to the model in chunks of 15 entries and asks
for corrected forms. If any chunk fails, nothing is changed.

With --only-violations, only entries that fail the local constraint check
(see lint) are sent.`,
	RunE: runRepair,
}

func runRepair(cmd *cobra.Command, args []string) error {
	onlyViolations, _ := cmd.Flags().GetBool("only-violations")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	entries, err := ws.store.All(cmd.Context())
	if err != nil {
		return err
	}

	constraints := ws.project.EffectiveConstraints()
	targets := entries
	if onlyViolations {
		violations, err := project.Violations(entries, constraints, ws.project.Phonology)
		if err != nil {
			return err
		}
		targets = project.Offending(entries, violations)
		if len(targets) == 0 {
			fmt.Fprintln(out, "No entries violate the project's constraints.")
			return nil
		}
	}

	res, err := newAdapter(cfg, logger).RepairLexicon(cmd.Context(), targets, constraints)
	if err != nil {
		return err
	}

	merged, changed := forge.ApplyRepairs(entries, res.Repairs)
	fmt.Fprintf(out, "Repaired %d of %d entries\n", changed, len(targets))
	if dryRun || changed == 0 {
		return nil
	}
	return ws.store.ReplaceAll(cmd.Context(), merged)
}

func init() {
	repairCmd.Flags().Bool("only-violations", false, "send only entries that fail the local constraint check")
	repairCmd.Flags().Bool("dry-run", false, "report the repairs without saving them")

	rootCmd.AddCommand(repairCmd)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/conlang-forge/pkg/types"
)

var evolveCmd = &cobra.Command{
	Use:   "evolve",
	Short: "Apply sound-change rules to the whole lexicon",
	Long: `Evolve applies sound-change rules, in order, to every word. Rules come
from --rule flags or, when none are given, from the project's rules list.
Each changed entry's etymology records the form it came from.

If the model fails part-way, the lexicon is left unchanged and a warning
is printed.`,
	RunE: runEvolve,
}

func runEvolve(cmd *cobra.Command, args []string) error {
	ruleFlags, _ := cmd.Flags().GetStringArray("rule")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	rules := ws.project.Rules
	if len(ruleFlags) > 0 {
		rules = make([]types.SoundChangeRule, len(ruleFlags))
		for i, r := range ruleFlags {
			rules[i] = types.SoundChangeRule(r)
		}
	}

	entries, err := ws.store.All(cmd.Context())
	if err != nil {
		return err
	}

	res, err := newAdapter(cfg, logger).EvolveLexicon(cmd.Context(), entries, rules)
	if err != nil {
		return err
	}
	if res.Degraded != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: lexicon left unchanged: %v\n", res.Degraded)
		return nil
	}

	for _, c := range res.Changes {
		if c.Original != c.Word {
			fmt.Fprintf(out, "%-20s > %-20s  %s\n", c.Original, c.Word, c.Changelog)
		}
	}
	fmt.Fprintf(out, "Evolved %d of %d entries\n", res.Evolved, len(entries))
	if dryRun || res.Evolved == 0 {
		return nil
	}
	return ws.store.ReplaceAll(cmd.Context(), res.Entries)
}

func init() {
	evolveCmd.Flags().StringArray("rule", nil, "sound-change rule, e.g. \"p > f / V_V\" (repeatable)")
	evolveCmd.Flags().Bool("dry-run", false, "report the changes without saving them")

	rootCmd.AddCommand(evolveCmd)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply <instruction...>",
	Short: "Apply a free-text instruction to the whole lexicon",
	Long: `Apply sends the lexicon and an instruction such as "give every word for
a body part the suffix -u" to the model, then merges the returned edits
by entry ID. Etymology notes are appended, never replaced.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runApply,
}

func runApply(cmd *cobra.Command, args []string) error {
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

	res, err := newAdapter(cfg, logger).ApplyCommand(cmd.Context(), entries, joinArgs(args))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Modified %d entries\n", res.ModifiedCount)
	if dryRun || res.ModifiedCount == 0 {
		return nil
	}
	return ws.store.ReplaceAll(cmd.Context(), res.Entries)
}

func init() {
	applyCmd.Flags().Bool("dry-run", false, "report the edits without saving them")

	rootCmd.AddCommand(applyCmd)
}

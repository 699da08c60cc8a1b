// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/conlang-forge/internal/forge"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new words and add them to the lexicon",
	Long: `Generate asks the model for new words that fit the project's phonology
and constraints, avoiding words already in the lexicon. At most 50 words
are generated per call.`,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")
	theme, _ := cmd.Flags().GetString("theme")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	existing, err := ws.store.All(cmd.Context())
	if err != nil {
		return err
	}

	entries, err := newAdapter(cfg, logger).GenerateWords(cmd.Context(), forge.GenerateRequest{
		Count:       count,
		Theme:       theme,
		Phonology:   ws.project.Phonology,
		Constraints: ws.project.EffectiveConstraints(),
		Existing:    existing,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printEntries(out, entries, len(entries))
	if dryRun {
		return nil
	}

	if _, err := ws.store.PutAll(cmd.Context(), entries); err != nil {
		return err
	}
	fmt.Fprintf(out, "Added %d words to the lexicon\n", len(entries))
	return nil
}

func init() {
	generateCmd.Flags().IntP("count", "n", 10, "number of words to generate (max 50)")
	generateCmd.Flags().String("theme", "", "semantic field for the new words, e.g. weather")
	generateCmd.Flags().Bool("dry-run", false, "print the words without saving them")

	rootCmd.AddCommand(generateCmd)
}

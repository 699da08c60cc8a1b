// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/conlang-forge/internal/forge"
	"github.com/pdiddy/conlang-forge/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <sentence...>",
	Short: "Analyze the syntax of a sentence in the conlang",
	Long: `Analyze asks the model for an interlinear gloss, word order and
translation of a sentence, using the project's grammar notes and the
lexicon entries that appear in the sentence.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	entries, err := ws.store.All(cmd.Context())
	if err != nil {
		return err
	}

	analysis, err := newAdapter(cfg, logger).AnalyzeSyntax(cmd.Context(), forge.SyntaxRequest{
		Text:         joinArgs(args),
		GrammarNotes: ws.project.GrammarNotes,
		Lexicon:      entries,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	}
	printAnalysis(cmd.OutOrStdout(), analysis)
	return nil
}

func printAnalysis(out io.Writer, a types.SyntaxAnalysis) {
	if a.WordOrder != "" {
		fmt.Fprintf(out, "Word order:  %s\n", a.WordOrder)
	}
	if a.Translation != "" {
		fmt.Fprintf(out, "Translation: %s\n", a.Translation)
	}
	if len(a.Tokens) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%-20s  %-20s  %s\n", "Token", "Gloss", "Role")
		for _, t := range a.Tokens {
			fmt.Fprintf(out, "%-20s  %-20s  %s\n", t.Surface, t.Gloss, t.Role)
		}
	}
	if a.Summary != "" {
		fmt.Fprintf(out, "\n%s\n", a.Summary)
	}
	for _, n := range a.Notes {
		fmt.Fprintf(out, "- %s\n", n)
	}
}

func init() {
	analyzeCmd.Flags().Bool("json", false, "output the analysis as JSON")

	rootCmd.AddCommand(analyzeCmd)
}

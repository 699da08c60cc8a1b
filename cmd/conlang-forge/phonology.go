// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/conlang-forge/pkg/types"
)

var phonologyCmd = &cobra.Command{
	Use:   "phonology [description...]",
	Short: "Design a phonology from a description, or preview the current one",
	Long: `Phonology asks the model to design a sound inventory matching a prose
description ("a harsh desert tongue with many ejectives"). Use --save to
store it in project.yaml.

With --preview N, up to 15 sample words are generated from the new
phonology, or from the project's phonology when no description is given.`,
	RunE: runPhonology,
}

func runPhonology(cmd *cobra.Command, args []string) error {
	save, _ := cmd.Flags().GetBool("save")
	preview, _ := cmd.Flags().GetInt("preview")
	out := cmd.OutOrStdout()

	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	adapter := newAdapter(cfg, logger)
	description := joinArgs(args)

	var phon types.PhonologyConfig
	switch {
	case description != "":
		phon, err = adapter.SynthesizePhonology(cmd.Context(), description)
		if err != nil {
			return err
		}
		printPhonology(out, phon)
	case ws.project.Phonology != nil && preview > 0:
		phon = *ws.project.Phonology
	default:
		return fmt.Errorf("a description is required unless --preview is used with a project phonology")
	}

	if save && description != "" {
		ws.project.Phonology = &phon
		if err := ws.saveProject(); err != nil {
			return err
		}
		fmt.Fprintln(out, "Saved phonology to project.yaml")
	}

	if preview <= 0 {
		return nil
	}
	words, err := adapter.PreviewPhonology(cmd.Context(), phon, preview)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "\nSample words:")
	for _, w := range words {
		fmt.Fprintf(out, "  %-16s /%s/\n", w.Word, w.IPA)
	}
	return nil
}

func printPhonology(out io.Writer, p types.PhonologyConfig) {
	if p.Name != "" {
		fmt.Fprintf(out, "Name:        %s\n", p.Name)
	}
	if p.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", p.Description)
	}
	fmt.Fprintf(out, "Consonants:  %s\n", strings.Join(p.Consonants, " "))
	fmt.Fprintf(out, "Vowels:      %s\n", strings.Join(p.Vowels, " "))
	if p.SyllableStructure != "" {
		fmt.Fprintf(out, "Syllables:   %s\n", p.SyllableStructure)
	}
	if len(p.BannedCombinations) > 0 {
		fmt.Fprintf(out, "Banned:      %s\n", strings.Join(p.BannedCombinations, ", "))
	}
}

func init() {
	phonologyCmd.Flags().Bool("save", false, "store the designed phonology in project.yaml")
	phonologyCmd.Flags().Int("preview", 0, "number of sample words to generate (max 15)")

	rootCmd.AddCommand(phonologyCmd)
}

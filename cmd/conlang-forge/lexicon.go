// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/conlang-forge/internal/lexicon"
	"github.com/pdiddy/conlang-forge/pkg/types"
)

var lexiconCmd = &cobra.Command{
	Use:   "lexicon",
	Short: "Manage the lexicon (list, search, add, remove, export, import)",
	Long: `Lexicon manages the project's SQLite lexicon directly, without calling
the model.`,
}

// withStore opens the project's lexicon for the duration of fn.
func withStore(fn func(s *lexicon.Store) error) error {
	s, err := lexicon.Open(lexiconPath(cfg), cfg.Lexicon)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

// printWithTotal prints entries with the lexicon's size in the footer.
func printWithTotal(cmd *cobra.Command, s *lexicon.Store, entries []types.LexiconEntry) error {
	total, err := s.Count(cmd.Context())
	if err != nil {
		return err
	}
	printEntries(cmd.OutOrStdout(), entries, total)
	return nil
}

// --- list subcommand ---

var lexiconListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every entry in insertion order",
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		return withStore(func(s *lexicon.Store) error {
			if jsonOutput {
				return s.ExportJSON(cmd.Context(), cmd.OutOrStdout())
			}
			entries, err := s.All(cmd.Context())
			if err != nil {
				return err
			}
			return printWithTotal(cmd, s, entries)
		})
	},
}

// --- search subcommand ---

var lexiconSearchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Find entries whose word, IPA or meaning contains the query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return withStore(func(s *lexicon.Store) error {
			entries, err := s.Search(cmd.Context(), joinArgs(args), limit)
			if err != nil {
				return err
			}
			return printWithTotal(cmd, s, entries)
		})
	},
}

// --- add subcommand ---

var lexiconAddCmd = &cobra.Command{
	Use:   "add <word>",
	Short: "Add an entry by hand",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ipa, _ := cmd.Flags().GetString("ipa")
		meaning, _ := cmd.Flags().GetString("meaning")
		etymology, _ := cmd.Flags().GetString("etymology")
		return withStore(func(s *lexicon.Store) error {
			e, err := s.Put(cmd.Context(), types.LexiconEntry{
				Word:      args[0],
				IPA:       ipa,
				Meaning:   meaning,
				Etymology: etymology,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", e.Word, e.ID)
			return nil
		})
	},
}

// --- remove subcommand ---

var lexiconRemoveCmd = &cobra.Command{
	Use:   "remove <id...>",
	Short: "Remove entries by ID",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *lexicon.Store) error {
			for _, id := range args {
				if err := s.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
			}
			return nil
		})
	},
}

// --- export subcommand ---

var lexiconExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the lexicon to YAML or JSON",
	Long: `Export writes the full lexicon to --output, choosing JSON for a .json
file and YAML otherwise. Without --output it writes to stdout in the
--format format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		return withStore(func(s *lexicon.Store) error {
			if output != "" {
				if err := s.ExportFile(cmd.Context(), output); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", output)
				return nil
			}
			switch strings.ToLower(format) {
			case "yaml", "":
				return s.ExportYAML(cmd.Context(), cmd.OutOrStdout())
			case "json":
				return s.ExportJSON(cmd.Context(), cmd.OutOrStdout())
			default:
				return fmt.Errorf("unsupported format %q: use yaml or json", format)
			}
		})
	},
}

// --- import subcommand ---

var lexiconImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import entries from a YAML or JSON export",
	Long: `Import reads a file written by export (or a bare list of entries) and
merges it into the lexicon by ID. With --replace the lexicon is replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		replace, _ := cmd.Flags().GetBool("replace")
		return withStore(func(s *lexicon.Store) error {
			n, err := s.Import(cmd.Context(), args[0], replace)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries\n", n)
			return nil
		})
	},
}

func init() {
	lexiconListCmd.Flags().Bool("json", false, "output entries as JSON")

	lexiconSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use lexicon.max_results)")

	lexiconAddCmd.Flags().String("ipa", "", "IPA transcription")
	lexiconAddCmd.Flags().String("meaning", "", "gloss")
	lexiconAddCmd.Flags().String("etymology", "", "etymology note")

	lexiconExportCmd.Flags().String("format", "yaml", "stdout format: yaml or json")
	lexiconExportCmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")

	lexiconImportCmd.Flags().Bool("replace", false, "replace the lexicon instead of merging")

	// Wire subcommands.
	lexiconCmd.AddCommand(lexiconListCmd)
	lexiconCmd.AddCommand(lexiconSearchCmd)
	lexiconCmd.AddCommand(lexiconAddCmd)
	lexiconCmd.AddCommand(lexiconRemoveCmd)
	lexiconCmd.AddCommand(lexiconExportCmd)
	lexiconCmd.AddCommand(lexiconImportCmd)

	rootCmd.AddCommand(lexiconCmd)
}

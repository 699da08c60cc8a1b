// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/conlang-forge/internal/lexicon"
	"github.com/pdiddy/conlang-forge/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Create a project file and an empty lexicon",
	Long: `Init writes project.yaml and lexicon.db into the project directory
(--project, default the current directory). The project name defaults to
the directory name. Edit project.yaml to add constraints, sound-change
rules and grammar notes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	p, err := project.Init(cfg.ProjectDir, joinArgs(args))
	if err != nil {
		return err
	}

	s, err := lexicon.Open(lexiconPath(cfg), cfg.Lexicon)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized project %q in %s\n", p.Name, cfg.ProjectDir)
	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}

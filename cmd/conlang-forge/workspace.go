// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/conlang-forge/internal/forge"
	"github.com/pdiddy/conlang-forge/internal/lexicon"
	"github.com/pdiddy/conlang-forge/internal/model"
	"github.com/pdiddy/conlang-forge/internal/project"
	"github.com/pdiddy/conlang-forge/internal/secrets"
	"github.com/pdiddy/conlang-forge/pkg/types"
)

// newAdapter builds the forge adapter from configuration. Tests replace it
// to inject a stub model.
var newAdapter = func(c types.ForgeConfig, log *zap.Logger) *forge.Adapter {
	credential := secrets.Resolver(c.AI.APIKeyEnv, c.SecretsDir, secrets.KeyName(c.AI.Provider), log)
	factory := func(ctx context.Context, apiKey string) (model.Generator, error) {
		return model.New(ctx, c.AI.Provider, apiKey, model.Options{
			MaxRetries: c.AI.MaxRetries,
			Timeout:    c.AI.Timeout,
			Logger:     log,
		})
	}
	return forge.New(credential, factory,
		forge.WithProfiles(profilesFor(c.AI)),
		forge.WithLogger(log))
}

// workspace is an open project: its file and its lexicon.
type workspace struct {
	project *types.Project
	store   *lexicon.Store
}

func openWorkspace() (*workspace, error) {
	p, err := project.Load(cfg.ProjectDir)
	if err != nil {
		return nil, fmt.Errorf("%w (run conlang-forge init first)", err)
	}
	s, err := lexicon.Open(lexiconPath(cfg), cfg.Lexicon)
	if err != nil {
		return nil, err
	}
	return &workspace{project: p, store: s}, nil
}

func (w *workspace) Close() error {
	return w.store.Close()
}

func (w *workspace) saveProject() error {
	return project.Save(cfg.ProjectDir, w.project)
}

// printEntries writes entries as an aligned table. total is the size of
// the collection they were drawn from; the footer shows both when they
// differ.
func printEntries(out io.Writer, entries []types.LexiconEntry, total int) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No entries.")
		return
	}

	fmt.Fprintf(out, "%-20s  %-20s  %-30s  %s\n", "Word", "IPA", "Meaning", "ID")
	fmt.Fprintln(out, strings.Repeat("-", 110))
	for _, e := range entries {
		fmt.Fprintf(out, "%-20s  %-20s  %-30s  %s\n",
			truncate(e.Word, 20), truncate(e.IPA, 20), truncate(e.Meaning, 30), e.ID)
	}
	if total > len(entries) {
		fmt.Fprintf(out, "\n%d of %d entries\n", len(entries), total)
		return
	}
	fmt.Fprintf(out, "\n%d entries\n", len(entries))
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// joinArgs joins positional arguments into one text argument.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

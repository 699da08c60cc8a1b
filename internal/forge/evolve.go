// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package forge

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/conlang-forge/internal/batch"
	"github.com/pdiddy/conlang-forge/internal/prompt"
	"github.com/pdiddy/conlang-forge/pkg/types"
)

// EvolutionChunkSize is the number of entries sent per sound-change call.
const EvolutionChunkSize = 10

// EvolutionResult is the outcome of applying sound changes.
type EvolutionResult struct {
	// Entries is the evolved lexicon, or a copy of the input when Degraded is set.
	Entries []types.LexiconEntry

	// Changes lists the per-word results returned by the model.
	Changes []types.EvolutionChange

	// Evolved counts entries whose word or IPA changed.
	Evolved int

	// Degraded holds the failure that made the operation fall back to the
	// original entries. Nil on success.
	Degraded error
}

// EvolveLexicon applies rules to every entry, ten entries per model call.
// Unlike repair, a failing chunk does not fail the operation: the result
// degrades to the original, unmodified entries and Degraded reports why.
// Only a missing credential is returned as an error. Zero entries or zero
// non-blank rules is a no-op.
func (a *Adapter) EvolveLexicon(ctx context.Context, entries []types.LexiconEntry, rules []types.SoundChangeRule) (EvolutionResult, error) {
	rules = nonBlankRules(rules)
	if len(entries) == 0 || len(rules) == 0 {
		return EvolutionResult{Entries: cloneEntries(entries)}, nil
	}

	g, err := a.connect(ctx, opEvolve)
	if err != nil {
		return EvolutionResult{}, err
	}

	changes, err := batch.Run(ctx, entries, EvolutionChunkSize, func(ctx context.Context, i int, chunk []types.LexiconEntry) ([]types.EvolutionChange, error) {
		text, err := prompt.Evolve(chunk, rules)
		if err != nil {
			return nil, err
		}
		res, err := a.ask(ctx, g, opEvolve, text, a.profiles.Evolve)
		if err != nil {
			return nil, err
		}
		var out []types.EvolutionChange
		if err := decodeList(res, "results", &out); err != nil {
			return nil, err
		}
		a.log.Debug("evolved chunk", zap.Int("chunk", i), zap.Int("results", len(out)))
		return out, nil
	})
	if err != nil {
		degraded := fail(opEvolve, err)
		a.log.Warn("sound change failed, keeping original words", zap.Error(degraded))
		return EvolutionResult{Entries: cloneEntries(entries), Degraded: degraded}, nil
	}

	merged, evolved := ApplyEvolution(entries, changes)
	return EvolutionResult{Entries: merged, Changes: changes, Evolved: evolved}, nil
}

// ApplyEvolution returns a copy of entries with evolution results merged
// in by original word text, and the number of entries whose form changed.
// Each changelog is appended to the entry's etymology. Entries without a
// result pass through; results matching no entry are dropped.
func ApplyEvolution(entries []types.LexiconEntry, changes []types.EvolutionChange) ([]types.LexiconEntry, int) {
	byOriginal := make(map[string]types.EvolutionChange, len(changes))
	for _, c := range changes {
		if _, seen := byOriginal[c.Original]; !seen {
			byOriginal[c.Original] = c
		}
	}

	out := cloneEntries(entries)
	evolved := 0
	for i, e := range out {
		c, ok := byOriginal[e.Word]
		if !ok {
			continue
		}
		before := e
		if c.Word != "" {
			e.Word = c.Word
		}
		if c.IPA != "" {
			e.IPA = c.IPA
		}
		if e.Word != before.Word || e.IPA != before.IPA {
			evolved++
			e.Etymology = extendEtymology(e.Etymology, changelogNote(before.Word, c.Changelog))
		}
		out[i] = e
	}
	return out, evolved
}

// changelogNote prefixes a changelog with the form it evolved from.
func changelogNote(from, changelog string) string {
	changelog = strings.TrimSpace(changelog)
	if changelog == "" {
		return "< " + from
	}
	return "< " + from + ": " + changelog
}

func nonBlankRules(rules []types.SoundChangeRule) []types.SoundChangeRule {
	out := make([]types.SoundChangeRule, 0, len(rules))
	for _, r := range rules {
		if strings.TrimSpace(string(r)) != "" {
			out = append(out, r)
		}
	}
	return out
}

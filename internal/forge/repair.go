// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package forge

import (
	"context"

	"go.uber.org/zap"

	"github.com/pdiddy/conlang-forge/internal/batch"
	"github.com/pdiddy/conlang-forge/internal/prompt"
	"github.com/pdiddy/conlang-forge/pkg/types"
)

// RepairChunkSize is the number of entries sent per repair call.
const RepairChunkSize = 15

// RepairResult holds the corrected forms proposed by the model.
type RepairResult struct {
	Repairs []types.Repair
}

// RepairLexicon asks the model to bring entries in line with constraints.
// Entries are sent in chunks of RepairChunkSize, one call at a time. Any
// failing chunk fails the whole operation with no partial repairs.
// Repairing zero entries succeeds without calling the model.
func (a *Adapter) RepairLexicon(ctx context.Context, entries []types.LexiconEntry, constraints types.ProjectConstraints) (RepairResult, error) {
	if len(entries) == 0 {
		return RepairResult{Repairs: []types.Repair{}}, nil
	}

	g, err := a.connect(ctx, opRepair)
	if err != nil {
		return RepairResult{}, err
	}

	repairs, err := batch.Run(ctx, entries, RepairChunkSize, func(ctx context.Context, i int, chunk []types.LexiconEntry) ([]types.Repair, error) {
		text, err := prompt.Repair(chunk, constraints)
		if err != nil {
			return nil, err
		}
		res, err := a.ask(ctx, g, opRepair, text, a.profiles.Repair)
		if err != nil {
			return nil, err
		}
		var out []types.Repair
		if err := decodeList(res, "repairs", &out); err != nil {
			return nil, err
		}
		a.log.Debug("repaired chunk",
			zap.Int("chunk", i),
			zap.Int("entries", len(chunk)),
			zap.Int("repairs", len(out)))
		return out, nil
	})
	if err != nil {
		return RepairResult{}, fail(opRepair, err)
	}

	if repairs == nil {
		repairs = []types.Repair{}
	}
	return RepairResult{Repairs: repairs}, nil
}

// ApplyRepairs returns a copy of entries with repaired forms merged in by
// ID, and the number of entries changed. Empty repaired fields keep the
// original value; repairs for unknown IDs are dropped.
func ApplyRepairs(entries []types.LexiconEntry, repairs []types.Repair) ([]types.LexiconEntry, int) {
	byID := make(map[string]types.Repair, len(repairs))
	for _, r := range repairs {
		byID[r.ID] = r
	}

	out := cloneEntries(entries)
	changed := 0
	for i, e := range out {
		r, ok := byID[e.ID]
		if !ok {
			continue
		}
		if r.Word != "" {
			e.Word = r.Word
		}
		if r.IPA != "" {
			e.IPA = r.IPA
		}
		if e != entries[i] {
			changed++
		}
		out[i] = e
	}
	return out, changed
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package forge

import (
	"context"
	"strings"

	"github.com/pdiddy/conlang-forge/internal/prompt"
	"github.com/pdiddy/conlang-forge/pkg/types"
)

// CommandResult is the outcome of a bulk command.
type CommandResult struct {
	Entries       []types.LexiconEntry
	Modifications []types.Modification
	ModifiedCount int
}

// ApplyCommand applies a free-text instruction ("make every word for a
// body part end in -u") to the whole lexicon in one call. Modifications
// are merged by ID. A blank instruction is ErrEmptyInput; an empty lexicon
// is a no-op.
func (a *Adapter) ApplyCommand(ctx context.Context, entries []types.LexiconEntry, instruction string) (CommandResult, error) {
	if strings.TrimSpace(instruction) == "" {
		return CommandResult{}, emptyInput(opCommand, "instruction is blank")
	}
	if len(entries) == 0 {
		return CommandResult{Entries: []types.LexiconEntry{}}, nil
	}

	g, err := a.connect(ctx, opCommand)
	if err != nil {
		return CommandResult{}, err
	}

	text, err := prompt.Command(entries, instruction)
	if err != nil {
		return CommandResult{}, fail(opCommand, err)
	}

	res, err := a.ask(ctx, g, opCommand, text, a.profiles.Command)
	if err != nil {
		return CommandResult{}, fail(opCommand, err)
	}

	var mods []types.Modification
	if err := decodeList(res, "modifications", &mods); err != nil {
		return CommandResult{}, fail(opCommand, err)
	}

	merged, n := ApplyModifications(entries, mods)
	return CommandResult{Entries: merged, Modifications: mods, ModifiedCount: n}, nil
}

// ApplyModifications returns a copy of entries with modifications merged
// in by ID, and the number of entries matched. Only non-nil fields are
// applied; etymology stays append-only. Modifications for unknown IDs are
// dropped.
func ApplyModifications(entries []types.LexiconEntry, mods []types.Modification) ([]types.LexiconEntry, int) {
	byID := make(map[string][]types.Modification, len(mods))
	for _, m := range mods {
		byID[m.ID] = append(byID[m.ID], m)
	}

	out := cloneEntries(entries)
	matched := 0
	for i, e := range out {
		list, ok := byID[e.ID]
		if !ok {
			continue
		}
		for _, m := range list {
			if m.Word != nil {
				e.Word = *m.Word
			}
			if m.IPA != nil {
				e.IPA = *m.IPA
			}
			if m.Meaning != nil {
				e.Meaning = *m.Meaning
			}
			if m.Etymology != nil {
				e.Etymology = extendEtymology(e.Etymology, *m.Etymology)
			}
		}
		out[i] = e
		matched++
	}
	return out, matched
}

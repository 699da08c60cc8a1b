// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package forge

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/conlang-forge/internal/prompt"
	"github.com/pdiddy/conlang-forge/pkg/types"
)

// Count caps. The model's output budget cannot reliably hold more words
// in one structured answer.
const (
	MaxGenerateCount = 50
	MaxPreviewCount  = 15
)

// maxAvoidWords bounds how many existing words are listed in the prompt.
const maxAvoidWords = 200

// GenerateRequest describes a word-generation call.
type GenerateRequest struct {
	// Count is the number of words wanted; values above MaxGenerateCount are capped.
	Count int

	// Theme is an optional semantic field, e.g. "weather" or "kinship terms".
	Theme string

	Phonology   *types.PhonologyConfig
	Constraints types.ProjectConstraints

	// Existing entries whose words the model should not repeat.
	Existing []types.LexiconEntry
}

// GenerateWords asks the model for new words and returns them as fresh
// lexicon entries with generated IDs. An answer with no usable words is an
// error, never an empty success.
func (a *Adapter) GenerateWords(ctx context.Context, req GenerateRequest) ([]types.LexiconEntry, error) {
	words, err := a.generate(ctx, opGenerate, req, MaxGenerateCount)
	if err != nil {
		return nil, err
	}

	entries := make([]types.LexiconEntry, len(words))
	for i, w := range words {
		entries[i] = types.LexiconEntry{
			ID:      uuid.NewString(),
			Word:    w.Word,
			IPA:     w.IPA,
			Meaning: w.Meaning,
		}
	}
	return entries, nil
}

// PreviewPhonology samples up to MaxPreviewCount words from a phonology so
// it can be judged by ear before it is adopted.
func (a *Adapter) PreviewPhonology(ctx context.Context, cfg types.PhonologyConfig, count int) ([]types.GeneratedWord, error) {
	return a.generate(ctx, opPreview, GenerateRequest{Count: count, Phonology: &cfg}, MaxPreviewCount)
}

func (a *Adapter) generate(ctx context.Context, op string, req GenerateRequest, limit int) ([]types.GeneratedWord, error) {
	if req.Count <= 0 {
		return nil, emptyInput(op, "word count must be positive")
	}
	count := min(req.Count, limit)

	g, err := a.connect(ctx, op)
	if err != nil {
		return nil, err
	}

	text, err := prompt.Generate(prompt.GenerateParams{
		Count:       count,
		Theme:       req.Theme,
		Phonology:   req.Phonology,
		Constraints: req.Constraints,
		Avoid:       avoidList(req.Existing),
	})
	if err != nil {
		return nil, fail(op, err)
	}

	res, err := a.ask(ctx, g, op, text, a.profiles.Generate)
	if err != nil {
		return nil, fail(op, err)
	}

	var raw []types.GeneratedWord
	if err := decodeList(res, "words", &raw); err != nil {
		return nil, fail(op, err)
	}

	words := make([]types.GeneratedWord, 0, len(raw))
	for _, w := range raw {
		w.Word = strings.TrimSpace(w.Word)
		if w.Word == "" {
			continue
		}
		words = append(words, w)
		if len(words) == count {
			break
		}
	}
	if len(words) == 0 {
		return nil, fail(op, classify(ErrMalformedResponse, errors.New("the model returned no words; try again or relax the constraints")))
	}

	a.log.Info("generated words",
		zap.String("op", op),
		zap.Int("requested", count),
		zap.Int("received", len(words)))
	return words, nil
}

// avoidList returns the most recent existing words, bounded by maxAvoidWords.
func avoidList(existing []types.LexiconEntry) []string {
	if len(existing) > maxAvoidWords {
		existing = existing[len(existing)-maxAvoidWords:]
	}
	words := make([]string, 0, len(existing))
	for _, e := range existing {
		if e.Word != "" {
			words = append(words, e.Word)
		}
	}
	return words
}

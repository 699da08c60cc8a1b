// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package forge

import (
	"context"
	"strings"
	"unicode"

	"github.com/pdiddy/conlang-forge/internal/parse"
	"github.com/pdiddy/conlang-forge/internal/prompt"
	"github.com/pdiddy/conlang-forge/pkg/types"
)

// SyntaxRequest describes a sentence to analyze.
type SyntaxRequest struct {
	Text         string
	GrammarNotes string

	// Lexicon supplies glosses; only entries whose word occurs in Text are sent.
	Lexicon []types.LexiconEntry
}

// AnalyzeSyntax asks the model for a syntactic reading of a sentence.
func (a *Adapter) AnalyzeSyntax(ctx context.Context, req SyntaxRequest) (types.SyntaxAnalysis, error) {
	if strings.TrimSpace(req.Text) == "" {
		return types.SyntaxAnalysis{}, emptyInput(opSyntax, "sentence is blank")
	}

	g, err := a.connect(ctx, opSyntax)
	if err != nil {
		return types.SyntaxAnalysis{}, err
	}

	text, err := prompt.Syntax(prompt.SyntaxParams{
		Text:         req.Text,
		GrammarNotes: req.GrammarNotes,
		Vocabulary:   vocabularyFor(req.Text, req.Lexicon),
	})
	if err != nil {
		return types.SyntaxAnalysis{}, fail(opSyntax, err)
	}

	res, err := a.ask(ctx, g, opSyntax, text, a.profiles.Syntax)
	if err != nil {
		return types.SyntaxAnalysis{}, fail(opSyntax, err)
	}

	var analysis types.SyntaxAnalysis
	if err := parse.DecodeObject(res, &analysis); err != nil {
		return types.SyntaxAnalysis{}, fail(opSyntax, classify(ErrMalformedResponse, err))
	}
	if analysis.Tokens == nil {
		analysis.Tokens = []types.SyntaxToken{}
	}
	if analysis.Notes == nil {
		analysis.Notes = []string{}
	}
	return analysis, nil
}

// vocabularyFor returns the lexicon entries whose word occurs in text,
// compared case-insensitively, once each, in lexicon order.
func vocabularyFor(text string, lexicon []types.LexiconEntry) []types.LexiconEntry {
	tokens := make(map[string]bool)
	for _, f := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return unicode.IsSpace(r) || (unicode.IsPunct(r) && r != '\'' && r != '-')
	}) {
		tokens[f] = true
	}

	var out []types.LexiconEntry
	seen := make(map[string]bool)
	for _, e := range lexicon {
		w := strings.ToLower(e.Word)
		if tokens[w] && !seen[w] {
			seen[w] = true
			out = append(out, e)
		}
	}
	return out
}

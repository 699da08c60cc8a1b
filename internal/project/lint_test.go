// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/conlang-forge/pkg/types"
)

func TestViolations(t *testing.T) {
	phon := &types.PhonologyConfig{
		Consonants: []string{"p", "t", "k", "ts"},
		Vowels:     []string{"a", "i"},
	}

	tests := []struct {
		name        string
		word        string
		constraints types.ProjectConstraints
		phon        *types.PhonologyConfig
		want        []string
	}{
		{
			name: "clean word",
			word: "kata",
			constraints: types.ProjectConstraints{
				BannedSequences:      []string{"tk"},
				AllowedGraphemes:     "[ptkai]",
				PhonotacticStructure: "(CV)+",
			},
			phon: phon,
		},
		{
			name:        "banned sequence",
			word:        "atka",
			constraints: types.ProjectConstraints{BannedSequences: []string{"tk", "  ", "ka"}},
			want:        []string{RuleBannedSequence, RuleBannedSequence},
		},
		{
			name:        "unanchored grapheme class covers the whole word",
			word:        "kaxa",
			constraints: types.ProjectConstraints{AllowedGraphemes: "[ptkai]"},
			want:        []string{RuleGraphemes},
		},
		{
			name:        "anchored grapheme pattern used as is",
			word:        "KATA",
			constraints: types.ProjectConstraints{AllowedGraphemes: "^[a-z]+$"},
			want:        []string{RuleGraphemes},
		},
		{
			name:        "placeholders expand to phonology classes",
			word:        "tsapa",
			constraints: types.ProjectConstraints{PhonotacticStructure: "(CV)+"},
			phon:        phon,
		},
		{
			name:        "phonotactics violated",
			word:        "akta",
			constraints: types.ProjectConstraints{PhonotacticStructure: "(CV)+"},
			phon:        phon,
			want:        []string{RulePhonotactics},
		},
		{
			name:        "placeholders stay literal without phonology",
			word:        "kata",
			constraints: types.ProjectConstraints{PhonotacticStructure: "(CV)+"},
			want:        []string{RulePhonotactics},
		},
		{
			name:        "no constraints",
			word:        "anything",
			constraints: types.ProjectConstraints{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Violations([]types.LexiconEntry{{ID: "e1", Word: tt.word}}, tt.constraints, tt.phon)
			require.NoError(t, err)
			var rules []string
			for _, v := range got {
				assert.Equal(t, "e1", v.EntryID)
				assert.Equal(t, tt.word, v.Word)
				rules = append(rules, v.Rule)
			}
			assert.Equal(t, tt.want, rules)
		})
	}
}

func TestViolationsBadPattern(t *testing.T) {
	tests := []struct {
		name        string
		constraints types.ProjectConstraints
		want        string
	}{
		{"graphemes", types.ProjectConstraints{AllowedGraphemes: "[a-"}, "allowed graphemes pattern"},
		{"structure", types.ProjectConstraints{PhonotacticStructure: "(CV"}, "phonotactic structure pattern"},
		{"lookahead is not RE2", types.ProjectConstraints{PhonotacticStructure: "(?=a)"}, "phonotactic structure pattern"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Violations([]types.LexiconEntry{{ID: "x", Word: "a"}}, tt.constraints, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestExpandClasses(t *testing.T) {
	phon := &types.PhonologyConfig{Consonants: []string{"k", "kʷ", "."}, Vowels: []string{"a"}}
	assert.Equal(t, `(?:kʷ|\.|k)(?:a)[CV]\C`, expandClasses(`CV[CV]\C`, phon))
	assert.Equal(t, "CV", expandClasses("CV", &types.PhonologyConfig{Consonants: []string{"k"}}))

	simple := &types.PhonologyConfig{Consonants: []string{"k"}, Vowels: []string{"a"}}
	tests := []struct {
		pattern string
		want    string
	}{
		{`\p{Cyrillic}V`, `\p{Cyrillic}(?:a)`},
		{`\P{Common}C`, `\P{Common}(?:k)`},
		{`\pCV`, `\pC(?:a)`},
		{`\x{56}C`, `\x{56}(?:k)`},
		{`\x56C`, `\x56(?:k)`},
		{`(?P<CV>C)V`, `(?P<CV>(?:k))(?:a)`},
		{`C\`, `(?:k)\`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, expandClasses(tt.pattern, simple), tt.pattern)
	}
}

func TestPropertyClassConstraint(t *testing.T) {
	phon := &types.PhonologyConfig{Consonants: []string{"к"}, Vowels: []string{"а"}}
	l, err := NewLinter(types.ProjectConstraints{PhonotacticStructure: `(\p{Cyrillic}V)+`}, phon)
	require.NoError(t, err)
	assert.Empty(t, l.Check(types.LexiconEntry{ID: "a", Word: "када"}))
	assert.NotEmpty(t, l.Check(types.LexiconEntry{ID: "b", Word: "кк"}))
}

func TestOffending(t *testing.T) {
	entries := []types.LexiconEntry{{ID: "a", Word: "ok"}, {ID: "b", Word: "tka"}, {ID: "c", Word: "tkatk"}}
	v, err := Violations(entries, types.ProjectConstraints{BannedSequences: []string{"tk"}}, nil)
	require.NoError(t, err)
	assert.Len(t, v, 2)
	assert.Equal(t, entries[1:], Offending(entries, v))
	assert.Equal(t, "tka (b): banned-sequence: contains \"tk\"", v[0].String())
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package forge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/conlang-forge/internal/model"
	"github.com/pdiddy/conlang-forge/pkg/types"
)

// stubModel answers prompts with canned text and records what it saw.
type stubModel struct {
	mu      sync.Mutex
	prompts []string
	answer  func(call int, prompt string) (string, error)
}

func (s *stubModel) Generate(_ context.Context, prompt string, _ types.ModelConfig) (string, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	call := len(s.prompts)
	s.mu.Unlock()
	return s.answer(call, prompt)
}

func (s *stubModel) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

func newTestAdapter(stub *stubModel) *Adapter {
	return New(
		func() string { return "test-key" },
		func(context.Context, string) (model.Generator, error) { return stub, nil },
	)
}

func answerWith(text string) *stubModel {
	return &stubModel{answer: func(int, string) (string, error) { return text, nil }}
}

func makeEntries(n int) []types.LexiconEntry {
	out := make([]types.LexiconEntry, n)
	for i := range out {
		out[i] = types.LexiconEntry{
			ID:   fmt.Sprintf("e%02d", i),
			Word: fmt.Sprintf("word%02d", i),
			IPA:  fmt.Sprintf("wɔrd%02d", i),
		}
	}
	return out
}

func TestOperationsRequireCredential(t *testing.T) {
	built := 0
	a := New(
		func() string { return "  " },
		func(context.Context, string) (model.Generator, error) {
			built++
			return answerWith("{}"), nil
		},
	)
	ctx := context.Background()
	entries := makeEntries(3)

	ops := []struct {
		name string
		call func() error
	}{
		{"generate", func() error {
			_, err := a.GenerateWords(ctx, GenerateRequest{Count: 5})
			return err
		}},
		{"preview", func() error {
			_, err := a.PreviewPhonology(ctx, types.EmptyPhonology(), 5)
			return err
		}},
		{"repair", func() error {
			_, err := a.RepairLexicon(ctx, entries, types.ProjectConstraints{})
			return err
		}},
		{"evolve", func() error {
			_, err := a.EvolveLexicon(ctx, entries, []types.SoundChangeRule{"a > e"})
			return err
		}},
		{"command", func() error {
			_, err := a.ApplyCommand(ctx, entries, "shorten everything")
			return err
		}},
		{"syntax", func() error {
			_, err := a.AnalyzeSyntax(ctx, SyntaxRequest{Text: "kala mi"})
			return err
		}},
		{"phonology", func() error {
			_, err := a.SynthesizePhonology(ctx, "soft and liquid")
			return err
		}},
	}

	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			err := op.call()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfiguration)
			assert.Contains(t, err.Error(), "no API key configured")
		})
	}
	assert.Zero(t, built, "no generator should be built without a key")
}

func TestFactoryErrorIsConfiguration(t *testing.T) {
	a := New(
		func() string { return "key" },
		func(context.Context, string) (model.Generator, error) { return nil, errors.New("unknown provider") },
	)
	_, err := a.SynthesizePhonology(context.Background(), "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, "synthesize phonology: configuration error: unknown provider", err.Error())
}

func TestEmptyInputPolicy(t *testing.T) {
	stub := answerWith("{}")
	a := newTestAdapter(stub)
	ctx := context.Background()

	t.Run("generate zero count", func(t *testing.T) {
		_, err := a.GenerateWords(ctx, GenerateRequest{Count: 0})
		assert.ErrorIs(t, err, ErrEmptyInput)
	})
	t.Run("preview negative count", func(t *testing.T) {
		_, err := a.PreviewPhonology(ctx, types.EmptyPhonology(), -1)
		assert.ErrorIs(t, err, ErrEmptyInput)
	})
	t.Run("repair no entries", func(t *testing.T) {
		res, err := a.RepairLexicon(ctx, nil, types.ProjectConstraints{})
		require.NoError(t, err)
		assert.NotNil(t, res.Repairs)
		assert.Empty(t, res.Repairs)
	})
	t.Run("evolve no rules", func(t *testing.T) {
		entries := makeEntries(2)
		res, err := a.EvolveLexicon(ctx, entries, []types.SoundChangeRule{"", "   "})
		require.NoError(t, err)
		assert.Equal(t, entries, res.Entries)
		assert.NoError(t, res.Degraded)
	})
	t.Run("evolve no entries", func(t *testing.T) {
		res, err := a.EvolveLexicon(ctx, nil, []types.SoundChangeRule{"a > e"})
		require.NoError(t, err)
		assert.Empty(t, res.Entries)
	})
	t.Run("command blank instruction", func(t *testing.T) {
		_, err := a.ApplyCommand(ctx, makeEntries(1), " \n ")
		assert.ErrorIs(t, err, ErrEmptyInput)
	})
	t.Run("command no entries", func(t *testing.T) {
		res, err := a.ApplyCommand(ctx, nil, "do something")
		require.NoError(t, err)
		assert.Empty(t, res.Entries)
		assert.Zero(t, res.ModifiedCount)
	})
	t.Run("syntax blank text", func(t *testing.T) {
		_, err := a.AnalyzeSyntax(ctx, SyntaxRequest{Text: "\t"})
		assert.ErrorIs(t, err, ErrEmptyInput)
	})
	t.Run("phonology blank description", func(t *testing.T) {
		_, err := a.SynthesizePhonology(ctx, "")
		assert.ErrorIs(t, err, ErrEmptyInput)
	})

	assert.Zero(t, stub.calls(), "empty inputs must not reach the model")
}

func TestGenerateWords(t *testing.T) {
	stub := answerWith("Here you go:\n```json\n" + `{"words": [
		{"word": "kala", "ipa": "ˈkala", "meaning": "water"},
		{"word": "  ", "ipa": "x"},
		{"word": "tosa", "ipa": "ˈtosa", "meaning": "stone"}
	]}` + "\n```")
	a := newTestAdapter(stub)

	entries, err := a.GenerateWords(context.Background(), GenerateRequest{
		Count:    80,
		Theme:    "nature",
		Existing: []types.LexiconEntry{{ID: "x", Word: "mela"}},
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "kala", entries[0].Word)
	assert.Equal(t, "water", entries[0].Meaning)
	assert.Equal(t, "tosa", entries[1].Word)
	assert.NotEmpty(t, entries[0].ID)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)

	require.Equal(t, 1, stub.calls())
	assert.Contains(t, stub.prompts[0], "Generate exactly 50 new, distinct words.")
	assert.Contains(t, stub.prompts[0], "Do not reuse any of these existing words: mela")
}

func TestPreviewPhonologyCap(t *testing.T) {
	stub := answerWith(`{"words": [{"word": "pa"}, {"word": "ti"}]}`)
	a := newTestAdapter(stub)

	words, err := a.PreviewPhonology(context.Background(), types.PhonologyConfig{
		Consonants: []string{"p", "t"},
		Vowels:     []string{"a", "i"},
	}, 40)
	require.NoError(t, err)
	assert.Len(t, words, 2)
	assert.Contains(t, stub.prompts[0], "Generate exactly 15 new, distinct words.")
	assert.Contains(t, stub.prompts[0], "- Consonants: p t")
}

func TestGenerateWordsNoWords(t *testing.T) {
	tests := []struct {
		name   string
		answer string
	}{
		{"empty list", `{"words": []}`},
		{"only blank words", `{"words": [{"word": ""}]}`},
		{"missing key", `{"result": "nothing"}`},
		{"prose", "I could not think of any words."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAdapter(answerWith(tt.answer))
			_, err := a.GenerateWords(context.Background(), GenerateRequest{Count: 3})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedResponse)
			assert.True(t, strings.HasPrefix(err.Error(), "generate words: "), err.Error())
		})
	}
}

func TestTransportErrorKeepsCause(t *testing.T) {
	cause := &model.APIError{Provider: types.ProviderClaude, StatusCode: 401, Body: "bad key"}
	stub := &stubModel{answer: func(int, string) (string, error) { return "", cause }}
	a := newTestAdapter(stub)

	_, err := a.SynthesizePhonology(context.Background(), "airy")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)

	var apiErr *model.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
	assert.Equal(t, "synthesize phonology: transport error: claude API returned 401: bad key", err.Error())
}

func TestRepairLexicon(t *testing.T) {
	stub := answerWith(`{"repairs": [{"id": "e00", "word": "wora", "ipa": "wora"}]}`)
	a := newTestAdapter(stub)
	entries := makeEntries(37)

	res, err := a.RepairLexicon(context.Background(), entries, types.ProjectConstraints{BannedSequences: []string{"rd"}})
	require.NoError(t, err)
	assert.Equal(t, 3, stub.calls())
	assert.Len(t, res.Repairs, 3)
	assert.Contains(t, stub.prompts[0], `{"id":"e14","word":"word14","ipa":"wɔrd14"}`)
	assert.NotContains(t, stub.prompts[0], `"e15"`)
	assert.Contains(t, stub.prompts[2], `"e36"`)
}

func TestRepairLexiconFailsFast(t *testing.T) {
	stub := &stubModel{answer: func(call int, _ string) (string, error) {
		if call == 2 {
			return "", errors.New("connection reset")
		}
		return `{"repairs": [{"id": "e00", "word": "x"}]}`, nil
	}}
	a := newTestAdapter(stub)

	res, err := a.RepairLexicon(context.Background(), makeEntries(37), types.ProjectConstraints{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Empty(t, res.Repairs)
	assert.Equal(t, 2, stub.calls(), "third chunk must not be sent")
	assert.Equal(t, "repair lexicon: chunk 2 of 3: transport error: connection reset", err.Error())
}

func TestRepairLexiconMalformedChunk(t *testing.T) {
	stub := &stubModel{answer: func(call int, _ string) (string, error) {
		if call == 1 {
			return "sorry, no JSON today", nil
		}
		return `{"repairs": []}`, nil
	}}
	a := newTestAdapter(stub)

	_, err := a.RepairLexicon(context.Background(), makeEntries(20), types.ProjectConstraints{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Equal(t, ErrMalformedResponse, KindOf(err))
}

func TestEvolveLexicon(t *testing.T) {
	stub := &stubModel{answer: func(call int, prompt string) (string, error) {
		if call == 1 {
			return `{"results": [
				{"original": "word00", "word": "vord00", "ipa": "vɔrd00", "changelog": "w > v"},
				{"original": "word01", "word": "word01", "ipa": "wɔrd01", "changelog": "no change"},
				{"original": "ghost", "word": "boo"}
			]}`, nil
		}
		return `{"results": []}`, nil
	}}
	a := newTestAdapter(stub)
	entries := makeEntries(12)
	entries[0].Etymology = "from proto *wor"

	res, err := a.EvolveLexicon(context.Background(), entries, []types.SoundChangeRule{"w > v / #_"})
	require.NoError(t, err)
	require.NoError(t, res.Degraded)
	assert.Equal(t, 2, stub.calls())
	assert.Equal(t, 1, res.Evolved)

	assert.Equal(t, "vord00", res.Entries[0].Word)
	assert.Equal(t, "vɔrd00", res.Entries[0].IPA)
	assert.Equal(t, "from proto *wor\n< word00: w > v", res.Entries[0].Etymology)
	assert.Equal(t, entries[1], res.Entries[1])
	assert.Len(t, res.Entries, 12)

	assert.Equal(t, "word00", entries[0].Word, "input must not be mutated")
}

func TestEvolveLexiconDegradesToOriginal(t *testing.T) {
	stub := &stubModel{answer: func(call int, _ string) (string, error) {
		if call == 2 {
			return "", errors.New("service unavailable")
		}
		return `{"results": [{"original": "word00", "word": "changed"}]}`, nil
	}}
	a := newTestAdapter(stub)
	entries := makeEntries(30)

	res, err := a.EvolveLexicon(context.Background(), entries, []types.SoundChangeRule{"o > u"})
	require.NoError(t, err)
	require.Error(t, res.Degraded)
	assert.ErrorIs(t, res.Degraded, ErrTransport)
	assert.Equal(t, entries, res.Entries)
	assert.Zero(t, res.Evolved)
	assert.Empty(t, res.Changes)
	assert.Equal(t, 2, stub.calls())

	res.Entries[0].Word = "mutated"
	assert.Equal(t, "word00", entries[0].Word, "result must be a copy")
}

func TestApplyCommand(t *testing.T) {
	stub := answerWith(`{"modifications":[{"id":"a","word":"FOO"}]}`)
	a := newTestAdapter(stub)
	entries := []types.LexiconEntry{{ID: "a", Word: "foo"}, {ID: "b", Word: "bar"}}

	res, err := a.ApplyCommand(context.Background(), entries, "uppercase foo")
	require.NoError(t, err)
	assert.Equal(t, []types.LexiconEntry{{ID: "a", Word: "FOO"}, {ID: "b", Word: "bar"}}, res.Entries)
	assert.Equal(t, 1, res.ModifiedCount)
	assert.Equal(t, "foo", entries[0].Word)
	assert.Contains(t, stub.prompts[0], "uppercase foo")
}

func TestApplyModifications(t *testing.T) {
	ptr := func(s string) *string { return &s }
	entries := []types.LexiconEntry{
		{ID: "a", Word: "kala", IPA: "kala", Meaning: "water", Etymology: "old"},
		{ID: "b", Word: "tosa", IPA: "tosa"},
	}

	got, n := ApplyModifications(entries, []types.Modification{
		{ID: "a", IPA: ptr("kaːla"), Etymology: ptr("lengthened")},
		{ID: "b", Meaning: ptr("stone"), Etymology: ptr("coined")},
		{ID: "zzz", Word: ptr("nobody")},
	})
	assert.Equal(t, 2, n)
	assert.Equal(t, []types.LexiconEntry{
		{ID: "a", Word: "kala", IPA: "kaːla", Meaning: "water", Etymology: "old\nlengthened"},
		{ID: "b", Word: "tosa", IPA: "tosa", Meaning: "stone", Etymology: "coined"},
	}, got)
}

func TestApplyRepairs(t *testing.T) {
	entries := []types.LexiconEntry{
		{ID: "a", Word: "tkala", IPA: "tkala"},
		{ID: "b", Word: "ok", IPA: "ok"},
		{ID: "c", Word: "ppo", IPA: "ppo"},
	}
	got, n := ApplyRepairs(entries, []types.Repair{
		{ID: "a", Word: "takala", IPA: "takala"},
		{ID: "b", Word: "ok", IPA: "ok"},
		{ID: "c", Word: "po"},
		{ID: "missing", Word: "x"},
	})
	assert.Equal(t, 2, n)
	assert.Equal(t, []types.LexiconEntry{
		{ID: "a", Word: "takala", IPA: "takala"},
		{ID: "b", Word: "ok", IPA: "ok"},
		{ID: "c", Word: "po", IPA: "ppo"},
	}, got)
	assert.Equal(t, "tkala", entries[0].Word)
}

func TestExtendEtymology(t *testing.T) {
	tests := []struct {
		name, existing, note, want string
	}{
		{"blank note", "old", "  ", "old"},
		{"first note", "", "coined", "coined"},
		{"append", "old", "new", "old\nnew"},
		{"extension of existing", "old", "old; then new", "old; then new"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extendEtymology(tt.existing, tt.note))
		})
	}
}

func TestAnalyzeSyntax(t *testing.T) {
	stub := answerWith(`{"summary": "Verb-final clause.", "wordOrder": "SOV", "translation": "I drink water."}`)
	a := newTestAdapter(stub)

	got, err := a.AnalyzeSyntax(context.Background(), SyntaxRequest{
		Text:         "Mi kala tosa.",
		GrammarNotes: "Verbs are final.",
		Lexicon: []types.LexiconEntry{
			{Word: "kala", Meaning: "water"},
			{Word: "unused", Meaning: "nothing"},
			{Word: "mi", Meaning: "I"},
			{Word: "Kala", Meaning: "duplicate"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "SOV", got.WordOrder)
	assert.Equal(t, "I drink water.", got.Translation)
	assert.NotNil(t, got.Tokens)
	assert.NotNil(t, got.Notes)

	p := stub.prompts[0]
	assert.Contains(t, p, "- kala: water\n- mi: I\n")
	assert.NotContains(t, p, "unused")
	assert.NotContains(t, p, "duplicate")
}

func TestAnalyzeSyntaxRejectsArray(t *testing.T) {
	a := newTestAdapter(answerWith(`["not", "an", "object"]`))
	_, err := a.AnalyzeSyntax(context.Background(), SyntaxRequest{Text: "kala"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestSynthesizePhonology(t *testing.T) {
	a := newTestAdapter(answerWith("```json\n" + `{"name": 5, "description": "Soft.", "consonants": "not-array", "vowels": ["a", "e"]}` + "\n```"))

	got, err := a.SynthesizePhonology(context.Background(), "soft and vowel-heavy")
	require.NoError(t, err)
	assert.Equal(t, types.PhonologyConfig{
		Name:               "",
		Description:        "Soft.",
		Consonants:         []string{},
		Vowels:             []string{"a", "e"},
		SyllableStructure:  "",
		BannedCombinations: []string{},
	}, got)
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"kind only", &Error{Op: "apply command", Kind: ErrEmptyInput}, "apply command: empty input"},
		{"kind and cause", &Error{Op: "apply command", Kind: ErrEmptyInput, Err: errors.New("instruction is blank")}, "apply command: empty input: instruction is blank"},
		{"no op", &Error{Kind: ErrTransport, Err: errors.New("eof")}, "transport error: eof"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, tt.err.Kind)
		})
	}
}

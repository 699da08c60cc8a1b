// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// LexiconEntry is one word record in a conlang lexicon. Entries are owned
// by the caller; operations return copies with fields replaced.
type LexiconEntry struct {
	// ID is unique within a lexicon and stable for the entry's life.
	ID string `json:"id" yaml:"id"`

	// Word is the written form.
	Word string `json:"word" yaml:"word"`

	// IPA is the phonetic transcription.
	IPA string `json:"ipa" yaml:"ipa"`

	// Meaning is an optional gloss.
	Meaning string `json:"meaning,omitempty" yaml:"meaning,omitempty"`

	// Etymology is append-only derivation history.
	Etymology string `json:"etymology,omitempty" yaml:"etymology,omitempty"`
}

// ProjectConstraints restrict the shape of words in a project. The two
// pattern fields hold regular expression sources.
type ProjectConstraints struct {
	BannedSequences      []string `json:"banned_sequences,omitempty" yaml:"banned_sequences,omitempty"`
	AllowedGraphemes     string   `json:"allowed_graphemes,omitempty" yaml:"allowed_graphemes,omitempty"`
	PhonotacticStructure string   `json:"phonotactic_structure,omitempty" yaml:"phonotactic_structure,omitempty"`
}

// IsZero reports whether no constraint is set.
func (c ProjectConstraints) IsZero() bool {
	return len(c.BannedSequences) == 0 && c.AllowedGraphemes == "" && c.PhonotacticStructure == ""
}

// SoundChangeRule is a human-readable sound-change description,
// e.g. "p > f / V_V".
type SoundChangeRule string

// GeneratedWord is a word proposed by the model before it becomes an entry.
type GeneratedWord struct {
	Word    string `json:"word" yaml:"word"`
	IPA     string `json:"ipa" yaml:"ipa"`
	Meaning string `json:"meaning,omitempty" yaml:"meaning,omitempty"`
}

// Repair replaces the form of the entry with the matching ID.
type Repair struct {
	ID   string `json:"id" yaml:"id"`
	Word string `json:"word" yaml:"word"`
	IPA  string `json:"ipa" yaml:"ipa"`
}

// EvolutionChange records how one word changed under a set of rules.
// Original is the word text before the change and is the merge key.
type EvolutionChange struct {
	Original  string `json:"original" yaml:"original"`
	Word      string `json:"word" yaml:"word"`
	IPA       string `json:"ipa" yaml:"ipa"`
	Changelog string `json:"changelog" yaml:"changelog"`
}

// Modification is a partial update produced by a bulk command. Nil fields
// leave the entry's value unchanged.
type Modification struct {
	ID        string  `json:"id" yaml:"id"`
	Word      *string `json:"word,omitempty" yaml:"word,omitempty"`
	IPA       *string `json:"ipa,omitempty" yaml:"ipa,omitempty"`
	Meaning   *string `json:"meaning,omitempty" yaml:"meaning,omitempty"`
	Etymology *string `json:"etymology,omitempty" yaml:"etymology,omitempty"`
}

// SyntaxToken is one glossed token of an analyzed sentence.
type SyntaxToken struct {
	Surface string `json:"surface" yaml:"surface"`
	Gloss   string `json:"gloss" yaml:"gloss"`
	Role    string `json:"role" yaml:"role"`
}

// SyntaxAnalysis is the model's reading of a sentence in the conlang.
type SyntaxAnalysis struct {
	Summary     string        `json:"summary" yaml:"summary"`
	WordOrder   string        `json:"wordOrder" yaml:"word_order"`
	Tokens      []SyntaxToken `json:"tokens" yaml:"tokens"`
	Translation string        `json:"translation" yaml:"translation"`
	Notes       []string      `json:"notes" yaml:"notes"`
}

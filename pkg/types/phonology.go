// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PhonologyConfig describes a conlang's sound inventory. Every field is
// always populated: slices are empty rather than nil after normalization.
type PhonologyConfig struct {
	Name               string   `json:"name" yaml:"name"`
	Description        string   `json:"description" yaml:"description"`
	Consonants         []string `json:"consonants" yaml:"consonants"`
	Vowels             []string `json:"vowels" yaml:"vowels"`
	SyllableStructure  string   `json:"syllableStructure" yaml:"syllable_structure"`
	BannedCombinations []string `json:"bannedCombinations" yaml:"banned_combinations"`
}

// EmptyPhonology returns a config with every field set to its empty value.
func EmptyPhonology() PhonologyConfig {
	return PhonologyConfig{
		Consonants:         []string{},
		Vowels:             []string{},
		BannedCombinations: []string{},
	}
}

// IsZero reports whether the config carries no inventory or description.
func (p PhonologyConfig) IsZero() bool {
	return p.Name == "" && p.Description == "" && len(p.Consonants) == 0 &&
		len(p.Vowels) == 0 && p.SyllableStructure == "" && len(p.BannedCombinations) == 0
}

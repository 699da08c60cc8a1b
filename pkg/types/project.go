// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Project is the contents of a conlang project file.
type Project struct {
	Name         string             `yaml:"name" json:"name"`
	Description  string             `yaml:"description,omitempty" json:"description,omitempty"`
	Constraints  ProjectConstraints `yaml:"constraints,omitempty" json:"constraints,omitempty"`
	Phonology    *PhonologyConfig   `yaml:"phonology,omitempty" json:"phonology,omitempty"`
	Rules        []SoundChangeRule  `yaml:"rules,omitempty" json:"rules,omitempty"`
	GrammarNotes string             `yaml:"grammar_notes,omitempty" json:"grammar_notes,omitempty"`
}

// EffectiveConstraints returns the project constraints with the
// phonology's banned combinations folded into the banned sequences.
func (p *Project) EffectiveConstraints() ProjectConstraints {
	c := p.Constraints
	if p.Phonology == nil || len(p.Phonology.BannedCombinations) == 0 {
		return c
	}
	seen := make(map[string]bool, len(c.BannedSequences))
	banned := make([]string, 0, len(c.BannedSequences)+len(p.Phonology.BannedCombinations))
	for _, s := range append(append([]string{}, c.BannedSequences...), p.Phonology.BannedCombinations...) {
		if s != "" && !seen[s] {
			seen[s] = true
			banned = append(banned, s)
		}
	}
	c.BannedSequences = banned
	return c
}

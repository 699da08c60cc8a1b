// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package project

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/conlang-forge/pkg/types"
)

// Rule names reported in violations.
const (
	RuleBannedSequence = "banned-sequence"
	RuleGraphemes      = "graphemes"
	RulePhonotactics   = "phonotactics"
)

// Violation is one constraint an entry breaks.
type Violation struct {
	EntryID string
	Word    string
	Rule    string
	Detail  string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s (%s): %s: %s", v.Word, v.EntryID, v.Rule, v.Detail)
}

// Linter checks words against compiled constraints.
type Linter struct {
	banned       []string
	graphemes    *regexp.Regexp
	structure    *regexp.Regexp
	graphemeSrc  string
	structureSrc string
}

// NewLinter compiles c. Unanchored patterns are anchored: the grapheme
// pattern must cover the whole word as one or more matches, and the
// phonotactic pattern must match the whole word. When phon lists
// consonants and vowels, the placeholders C and V in the phonotactic
// pattern stand for any consonant or vowel.
func NewLinter(c types.ProjectConstraints, phon *types.PhonologyConfig) (*Linter, error) {
	l := &Linter{graphemeSrc: c.AllowedGraphemes, structureSrc: c.PhonotacticStructure}
	for _, s := range c.BannedSequences {
		if s = strings.TrimSpace(s); s != "" {
			l.banned = append(l.banned, s)
		}
	}

	if c.AllowedGraphemes != "" {
		re, err := compile(c.AllowedGraphemes, "+")
		if err != nil {
			return nil, fmt.Errorf("allowed graphemes pattern: %w", err)
		}
		l.graphemes = re
	}
	if c.PhonotacticStructure != "" {
		re, err := compile(expandClasses(c.PhonotacticStructure, phon), "")
		if err != nil {
			return nil, fmt.Errorf("phonotactic structure pattern: %w", err)
		}
		l.structure = re
	}
	return l, nil
}

// Check returns the violations of one entry, in rule order.
func (l *Linter) Check(e types.LexiconEntry) []Violation {
	var out []Violation
	for _, s := range l.banned {
		if strings.Contains(e.Word, s) {
			out = append(out, Violation{e.ID, e.Word, RuleBannedSequence, fmt.Sprintf("contains %q", s)})
		}
	}
	if l.graphemes != nil && !l.graphemes.MatchString(e.Word) {
		out = append(out, Violation{e.ID, e.Word, RuleGraphemes, fmt.Sprintf("does not match %s", l.graphemeSrc)})
	}
	if l.structure != nil && !l.structure.MatchString(e.Word) {
		out = append(out, Violation{e.ID, e.Word, RulePhonotactics, fmt.Sprintf("does not follow %s", l.structureSrc)})
	}
	return out
}

// Violations checks every entry against c. It fails only when a pattern
// does not compile.
func Violations(entries []types.LexiconEntry, c types.ProjectConstraints, phon *types.PhonologyConfig) ([]Violation, error) {
	l, err := NewLinter(c, phon)
	if err != nil {
		return nil, err
	}
	var out []Violation
	for _, e := range entries {
		out = append(out, l.Check(e)...)
	}
	return out, nil
}

// Offending returns the entries with at least one violation, in order.
func Offending(entries []types.LexiconEntry, violations []Violation) []types.LexiconEntry {
	bad := make(map[string]bool, len(violations))
	for _, v := range violations {
		bad[v.EntryID] = true
	}
	var out []types.LexiconEntry
	for _, e := range entries {
		if bad[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

// compile anchors pattern when it is not already anchored at both ends.
func compile(pattern, repeat string) (*regexp.Regexp, error) {
	if !strings.HasPrefix(pattern, "^") || !strings.HasSuffix(pattern, "$") {
		pattern = "^(?:" + pattern + ")" + repeat + "$"
	}
	return regexp.Compile(pattern)
}

// expandClasses replaces bare C and V outside bracket expressions with
// alternations of the phonology's consonants and vowels. Longer symbols
// are tried first so digraphs win over their first letter. Escapes are
// copied whole, including the name of a \p or \P property class and the
// body of a \x{...} code point, as are group names in (?P<name>...).
func expandClasses(pattern string, phon *types.PhonologyConfig) string {
	if phon == nil || len(phon.Consonants) == 0 || len(phon.Vowels) == 0 {
		return pattern
	}
	cons := alternation(phon.Consonants)
	vows := alternation(phon.Vowels)

	rs := []rune(pattern)
	var b strings.Builder
	inClass := false
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == '\\' && i+1 < len(rs):
			end := escapeEnd(rs, i)
			b.WriteString(string(rs[i : end+1]))
			i = end
		case r == '(' && hasPrefix(rs[i:], "(?P<"):
			end := indexFrom(rs, i, '>')
			b.WriteString(string(rs[i : end+1]))
			i = end
		case r == '[':
			inClass = true
			b.WriteRune(r)
		case r == ']':
			inClass = false
			b.WriteRune(r)
		case r == 'C' && !inClass:
			b.WriteString(cons)
		case r == 'V' && !inClass:
			b.WriteString(vows)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// escapeEnd returns the index of the last rune of the escape starting at
// rs[i], which is a backslash.
func escapeEnd(rs []rune, i int) int {
	next := i + 1
	switch rs[next] {
	case 'p', 'P', 'x':
		if next+1 >= len(rs) {
			return next
		}
		if rs[next+1] == '{' {
			return indexFrom(rs, next+1, '}')
		}
		if rs[next] == 'x' {
			return min(next+2, len(rs)-1)
		}
		return next + 1
	}
	return next
}

// indexFrom returns the index of the first want at or after i, or the last
// index when there is none.
func indexFrom(rs []rune, i int, want rune) int {
	for j := i; j < len(rs); j++ {
		if rs[j] == want {
			return j
		}
	}
	return len(rs) - 1
}

func hasPrefix(rs []rune, prefix string) bool {
	return strings.HasPrefix(string(rs[:min(len(rs), len(prefix))]), prefix)
}

func alternation(symbols []string) string {
	quoted := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s != "" {
			quoted = append(quoted, regexp.QuoteMeta(s))
		}
	}
	sort.SliceStable(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })
	return "(?:" + strings.Join(quoted, "|") + ")"
}

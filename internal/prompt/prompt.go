// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt renders the model prompts for each conlang operation.
// Builders are pure: equal parameters always produce the same text, since
// output quality is sensitive to wording and tests pin the exact prompts.
package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/conlang-forge/pkg/types"
)

const jsonOnly = "Do not include any text outside the JSON object."

var generateTmpl = template.Must(template.New("generate").Parse(`You are a linguist designing the lexicon of a constructed language.
Generate exactly {{.Count}} new, distinct words.
{{if .Theme}}Theme: {{.Theme}}
{{end}}{{if .HasPhonology}}
Phonology{{if .PhonologyName}} ({{.PhonologyName}}){{end}}:
- Consonants: {{.Consonants}}
- Vowels: {{.Vowels}}
{{if .Syllable}}- Syllable shape: {{.Syllable}}
{{end}}{{end}}
Constraints:
- Banned sequences: {{.Banned}}
- Allowed graphemes: {{.Graphemes}}
- Syllable structure: {{.Structure}}
{{if .Avoid}}
Do not reuse any of these existing words: {{.Avoid}}
{{end}}
Respond with a JSON object of the form:
{"words": [{"word": "written form", "ipa": "IPA transcription", "meaning": "short English gloss"}]}
{{.JSONOnly}}
`))

var repairTmpl = template.Must(template.New("repair").Parse(`You are a linguist repairing the lexicon of a constructed language.
The entries below may violate the project's constraints. For each entry, propose a corrected written form and IPA transcription that stays as close as possible to the original.
{{if .HasConstraints}}
Constraints:
{{if .Banned}}- Never use these sequences: {{.Banned}}
{{end}}{{if .Graphemes}}- Every word must match the grapheme pattern: {{.Graphemes}}
{{end}}{{if .Structure}}- Every word must follow the phonotactic structure: {{.Structure}}
{{end}}{{end}}
Entries:
{{.Entries}}

Respond with a JSON object of the form:
{"repairs": [{"id": "entry id", "word": "corrected written form", "ipa": "corrected IPA"}]}
Return one repair per entry and keep every id unchanged. {{.JSONOnly}}
`))

var evolveTmpl = template.Must(template.New("evolve").Parse(`You are a historical linguist applying sound changes to a constructed language.
Apply the following sound-change rules, in order, to every word.

Rules:
{{.Rules}}

Words:
{{.Words}}

Respond with a JSON object of the form:
{"results": [{"original": "word exactly as given", "word": "evolved written form", "ipa": "evolved IPA", "changelog": "which rules applied and how"}]}
Include every word, even when no rule applies. {{.JSONOnly}}
`))

var commandTmpl = template.Must(template.New("command").Parse(`You are an assistant editing the lexicon of a constructed language.
Apply this instruction to the lexicon:
{{.Instruction}}

Lexicon:
{{.Entries}}

Respond with a JSON object of the form:
{"modifications": [{"id": "entry id", "word": "new written form", "ipa": "new IPA", "meaning": "new meaning", "etymology": "new etymology"}]}
List only entries that change, and include only the fields that change. Keep every id unchanged. {{.JSONOnly}}
`))

var syntaxTmpl = template.Must(template.New("syntax").Parse(`You are a linguist analyzing the syntax of a sentence in a constructed language.

Sentence:
{{.Text}}
{{if .Notes}}
Grammar notes:
{{.Notes}}
{{end}}{{if .Vocabulary}}
Known vocabulary:
{{.Vocabulary}}
{{end}}
Respond with a JSON object of the form:
{"summary": "one-paragraph analysis", "wordOrder": "e.g. SOV", "tokens": [{"surface": "token", "gloss": "interlinear gloss", "role": "syntactic role"}], "translation": "English translation", "notes": ["observation"]}
{{.JSONOnly}}
`))

var phonologyTmpl = template.Must(template.New("phonology").Parse(`You are a linguist designing the phonology of a constructed language.
Design a phonology that matches this description:
{{.Description}}

Respond with a JSON object of the form:
{"name": "language name", "description": "short summary", "consonants": ["IPA symbol"], "vowels": ["IPA symbol"], "syllableStructure": "e.g. (C)V(C)", "bannedCombinations": ["sequence"]}
Use IPA symbols for consonants and vowels. {{.JSONOnly}}
`))

// GenerateParams describes a word-generation request.
type GenerateParams struct {
	Count       int
	Theme       string
	Phonology   *types.PhonologyConfig
	Constraints types.ProjectConstraints
	// Avoid lists existing words the model must not repeat.
	Avoid []string
}

// Generate renders the word-generation prompt. Absent constraints render
// as None, Any and Free.
func Generate(p GenerateParams) (string, error) {
	view := struct {
		Count         int
		Theme         string
		HasPhonology  bool
		PhonologyName string
		Consonants    string
		Vowels        string
		Syllable      string
		Banned        string
		Graphemes     string
		Structure     string
		Avoid         string
		JSONOnly      string
	}{
		Count:     p.Count,
		Theme:     strings.TrimSpace(p.Theme),
		Banned:    orDefault(strings.Join(p.Constraints.BannedSequences, ", "), "None"),
		Graphemes: orDefault(p.Constraints.AllowedGraphemes, "Any"),
		Structure: orDefault(p.Constraints.PhonotacticStructure, "Free"),
		Avoid:     strings.Join(p.Avoid, ", "),
		JSONOnly:  jsonOnly,
	}
	if p.Phonology != nil && !p.Phonology.IsZero() {
		view.HasPhonology = true
		view.PhonologyName = p.Phonology.Name
		view.Consonants = strings.Join(p.Phonology.Consonants, " ")
		view.Vowels = strings.Join(p.Phonology.Vowels, " ")
		view.Syllable = p.Phonology.SyllableStructure
	}
	return render(generateTmpl, view)
}

// Repair renders the lexicon-repair prompt for one chunk of entries.
// Constraint lines are omitted when absent.
func Repair(entries []types.LexiconEntry, c types.ProjectConstraints) (string, error) {
	lines, err := jsonLines(entries, func(e types.LexiconEntry) any {
		return struct {
			ID   string `json:"id"`
			Word string `json:"word"`
			IPA  string `json:"ipa"`
		}{e.ID, e.Word, e.IPA}
	})
	if err != nil {
		return "", err
	}
	return render(repairTmpl, struct {
		HasConstraints bool
		Banned         string
		Graphemes      string
		Structure      string
		Entries        string
		JSONOnly       string
	}{
		HasConstraints: !c.IsZero(),
		Banned:         strings.Join(c.BannedSequences, ", "),
		Graphemes:      c.AllowedGraphemes,
		Structure:      c.PhonotacticStructure,
		Entries:        lines,
		JSONOnly:       jsonOnly,
	})
}

// Evolve renders the sound-change prompt for one chunk of entries.
func Evolve(entries []types.LexiconEntry, rules []types.SoundChangeRule) (string, error) {
	lines, err := jsonLines(entries, func(e types.LexiconEntry) any {
		return struct {
			Word string `json:"word"`
			IPA  string `json:"ipa"`
		}{e.Word, e.IPA}
	})
	if err != nil {
		return "", err
	}

	numbered := make([]string, len(rules))
	for i, r := range rules {
		numbered[i] = fmt.Sprintf("%d. %s", i+1, strings.TrimSpace(string(r)))
	}

	return render(evolveTmpl, struct {
		Rules    string
		Words    string
		JSONOnly string
	}{strings.Join(numbered, "\n"), lines, jsonOnly})
}

// Command renders the bulk-command prompt for a free-text instruction.
func Command(entries []types.LexiconEntry, instruction string) (string, error) {
	lines, err := jsonLines(entries, func(e types.LexiconEntry) any { return e })
	if err != nil {
		return "", err
	}
	return render(commandTmpl, struct {
		Instruction string
		Entries     string
		JSONOnly    string
	}{strings.TrimSpace(instruction), lines, jsonOnly})
}

// SyntaxParams describes a syntax-analysis request.
type SyntaxParams struct {
	Text         string
	GrammarNotes string
	Vocabulary   []types.LexiconEntry
}

// Syntax renders the syntax-analysis prompt.
func Syntax(p SyntaxParams) (string, error) {
	vocab := make([]string, 0, len(p.Vocabulary))
	for _, e := range p.Vocabulary {
		if e.Meaning != "" {
			vocab = append(vocab, fmt.Sprintf("- %s: %s", e.Word, e.Meaning))
		} else {
			vocab = append(vocab, "- "+e.Word)
		}
	}
	return render(syntaxTmpl, struct {
		Text       string
		Notes      string
		Vocabulary string
		JSONOnly   string
	}{strings.TrimSpace(p.Text), strings.TrimSpace(p.GrammarNotes), strings.Join(vocab, "\n"), jsonOnly})
}

// Phonology renders the phonology-synthesis prompt.
func Phonology(description string) (string, error) {
	return render(phonologyTmpl, struct {
		Description string
		JSONOnly    string
	}{strings.TrimSpace(description), jsonOnly})
}

// render executes tmpl with data.
func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// jsonLines encodes one compact JSON object per entry, newline separated.
func jsonLines(entries []types.LexiconEntry, shape func(types.LexiconEntry) any) (string, error) {
	lines := make([]string, len(entries))
	for i, e := range entries {
		b, err := json.Marshal(shape(e))
		if err != nil {
			return "", fmt.Errorf("encoding entry %s: %w", e.ID, err)
		}
		lines[i] = string(b)
	}
	return strings.Join(lines, "\n"), nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse recovers structured JSON from free-form model output.
// Model responses may be clean JSON, JSON inside a markdown fence, or JSON
// surrounded by conversational prose; the parser tries a fixed chain of
// heuristics and fails with ErrMalformedResponse when none yields valid
// JSON.
package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// ErrMalformedResponse is returned when no JSON payload can be recovered.
var ErrMalformedResponse = errors.New("malformed model response")

var (
	// fencePattern matches a ```json fenced block and captures its body.
	fencePattern = regexp.MustCompile("(?is)```json\\s*(.*?)```")

	// loosePattern matches a brace-delimited span holding a key and colon.
	loosePattern = regexp.MustCompile(`(?s)\{.*?"?[A-Za-z_][A-Za-z0-9_]*"?\s*:.*?\}`)
)

// Parser extracts JSON payloads from model text.
type Parser struct {
	log *zap.Logger
}

// NewParser returns a Parser that logs unparseable responses to log.
// A nil logger discards diagnostics.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log}
}

// ExtractJSON returns the first JSON value recovered from text. Candidates
// are tried in priority order:
//
//  1. the body of a ```json fenced block;
//  2. the span from the first '{' to the last '}';
//  3. the first loose {key: ...} match;
//  4. the whole trimmed text.
//
// Each candidate is trimmed and cut to start at its first '{' or '['. The
// raw text is logged before ErrMalformedResponse is returned.
func (p *Parser) ExtractJSON(text string) (gjson.Result, error) {
	for _, candidate := range candidates(text) {
		payload, ok := normalize(candidate)
		if !ok {
			continue
		}
		if gjson.Valid(payload) {
			return gjson.Parse(payload), nil
		}
	}

	p.log.Warn("model response contained no parseable JSON",
		zap.Int("length", len(text)),
		zap.String("raw", text))
	return gjson.Result{}, fmt.Errorf("%w: no JSON payload found", ErrMalformedResponse)
}

// candidates lists the heuristic candidates that apply to text, in order.
func candidates(text string) []string {
	var out []string

	if m := fencePattern.FindStringSubmatch(text); m != nil {
		out = append(out, m[1])
	}

	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first != -1 && last > first {
		out = append(out, text[first:last+1])
	}

	if m := loosePattern.FindString(text); m != "" {
		out = append(out, m)
	}

	return append(out, strings.TrimSpace(text))
}

// normalize trims candidate and drops everything before the first bracket.
// It reports false when the candidate holds neither '{' nor '['.
func normalize(candidate string) (string, bool) {
	s := strings.TrimSpace(candidate)
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return s, true
	}

	obj := strings.Index(s, "{")
	arr := strings.Index(s, "[")
	switch {
	case obj == -1 && arr == -1:
		return "", false
	case obj == -1:
		return s[arr:], true
	case arr == -1:
		return s[obj:], true
	case arr < obj:
		return s[arr:], true
	default:
		return s[obj:], true
	}
}

// DecodeList unmarshals the array stored under key into dst. When the model
// answered with a bare array, the array itself is used.
func DecodeList(res gjson.Result, key string, dst any) error {
	src := res
	if !res.IsArray() {
		src = res.Get(key)
	}
	if !src.Exists() {
		return fmt.Errorf("%w: missing %q array", ErrMalformedResponse, key)
	}
	if !src.IsArray() {
		return fmt.Errorf("%w: %q is not an array", ErrMalformedResponse, key)
	}
	if err := json.Unmarshal([]byte(src.Raw), dst); err != nil {
		return fmt.Errorf("%w: decoding %q: %v", ErrMalformedResponse, key, err)
	}
	return nil
}

// DecodeObject unmarshals res into dst, which must describe a JSON object.
func DecodeObject(res gjson.Result, dst any) error {
	if !res.IsObject() {
		return fmt.Errorf("%w: expected a JSON object", ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(res.Raw), dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

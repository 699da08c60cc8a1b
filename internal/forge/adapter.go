// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package forge implements the conlang operations: word generation,
// lexicon repair, sound-change evolution, bulk commands, syntax analysis
// and phonology synthesis. Each operation builds a prompt, calls the
// remote model, and parses the answer back into domain types.
//
// Operations never mutate caller-owned slices; results are new slices.
// Each call resolves the credential and builds its own generator, so an
// Adapter holds no mutable state and may be shared between goroutines.
package forge

import (
	"context"
	"errors"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/pdiddy/conlang-forge/internal/model"
	"github.com/pdiddy/conlang-forge/internal/parse"
	"github.com/pdiddy/conlang-forge/pkg/types"
)

// Operation names used in errors and logs.
const (
	opGenerate  = "generate words"
	opPreview   = "preview phonology"
	opRepair    = "repair lexicon"
	opEvolve    = "evolve lexicon"
	opCommand   = "apply command"
	opSyntax    = "analyze syntax"
	opPhonology = "synthesize phonology"
)

// CredentialFunc resolves the API key at call time.
type CredentialFunc func() string

// GeneratorFactory builds a model client for one operation.
type GeneratorFactory func(ctx context.Context, apiKey string) (model.Generator, error)

// Adapter runs conlang operations against a remote model.
type Adapter struct {
	credential   CredentialFunc
	newGenerator GeneratorFactory
	profiles     types.ModelProfiles
	parser       *parse.Parser
	log          *zap.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithProfiles sets the per-operation model configuration.
func WithProfiles(p types.ModelProfiles) Option {
	return func(a *Adapter) { a.profiles = p }
}

// WithLogger sets the logger for diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(a *Adapter) {
		if log != nil {
			a.log = log
		}
	}
}

// New returns an Adapter that resolves its key with credential and builds
// clients with factory.
func New(credential CredentialFunc, factory GeneratorFactory, opts ...Option) *Adapter {
	a := &Adapter{
		credential:   credential,
		newGenerator: factory,
		profiles:     types.DefaultProfiles(""),
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.parser = parse.NewParser(a.log)
	return a
}

// connect resolves the credential and builds a generator. It fails with
// ErrConfiguration before any network call when the key is empty.
func (a *Adapter) connect(ctx context.Context, op string) (model.Generator, error) {
	var key string
	if a.credential != nil {
		key = strings.TrimSpace(a.credential())
	}
	if key == "" {
		return nil, &Error{Op: op, Kind: ErrConfiguration, Err: errors.New("no API key configured")}
	}
	if a.newGenerator == nil {
		return nil, &Error{Op: op, Kind: ErrConfiguration, Err: errors.New("no model backend configured")}
	}

	g, err := a.newGenerator(ctx, key)
	if err != nil {
		return nil, &Error{Op: op, Kind: ErrConfiguration, Err: err}
	}
	return g, nil
}

// ask sends prompt and extracts the JSON payload from the answer. Errors
// are classified but not yet tied to an operation.
func (a *Adapter) ask(ctx context.Context, g model.Generator, op, prompt string, cfg types.ModelConfig) (gjson.Result, error) {
	a.log.Debug("calling model",
		zap.String("op", op),
		zap.String("model", cfg.Model),
		zap.Int("prompt_bytes", len(prompt)))

	text, err := g.Generate(ctx, prompt, cfg)
	if err != nil {
		return gjson.Result{}, classify(ErrTransport, err)
	}

	res, err := a.parser.ExtractJSON(text)
	if err != nil {
		return gjson.Result{}, classify(ErrMalformedResponse, err)
	}
	return res, nil
}

// decodeList unmarshals the array under key, classifying failures.
func decodeList(res gjson.Result, key string, dst any) error {
	if err := parse.DecodeList(res, key, dst); err != nil {
		return classify(ErrMalformedResponse, err)
	}
	return nil
}

func cloneEntries(entries []types.LexiconEntry) []types.LexiconEntry {
	out := make([]types.LexiconEntry, len(entries))
	copy(out, entries)
	return out
}

// extendEtymology appends note to an append-only etymology. A note that
// already starts with the existing text is treated as its extension.
func extendEtymology(existing, note string) string {
	note = strings.TrimSpace(note)
	switch {
	case note == "":
		return existing
	case existing == "":
		return note
	case strings.HasPrefix(note, existing):
		return note
	default:
		return existing + "\n" + note
	}
}

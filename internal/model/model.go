// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package model talks to the remote generative model. The rest of the
// system sees only the Generator interface: one prompt in, one text out.
package model

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/pdiddy/conlang-forge/internal/httputil"
	"github.com/pdiddy/conlang-forge/pkg/types"
)

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("model returned an empty response")

// Generator sends a prompt to a model and returns its text response.
// Tests supply stubs that return canned text.
type Generator interface {
	Generate(ctx context.Context, prompt string, cfg types.ModelConfig) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string, cfg types.ModelConfig) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string, cfg types.ModelConfig) (string, error) {
	return f(ctx, prompt, cfg)
}

// APIError is a non-success HTTP answer from a model API.
type APIError struct {
	Provider   types.Provider
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API returned %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Temporary reports whether retrying may succeed. Rate-limit and overload
// statuses are excluded: the HTTP transport has already retried those.
func (e *APIError) Temporary() bool {
	return e.StatusCode >= 500 && !httputil.Retryable(e.StatusCode)
}

// IsTemporary reports whether err is worth retrying. Context errors are
// final. Gemini API errors are retried only for 429 and 5xx. Errors that
// expose Temporary() decide for themselves; anything else (network
// failures, empty answers) is treated as transient.
func IsTemporary(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var gerr genai.APIError
	if errors.As(err, &gerr) {
		return gerr.Code >= 500 || gerr.Code == http.StatusTooManyRequests
	}
	var t interface{ Temporary() bool }
	if errors.As(err, &t) {
		return t.Temporary()
	}
	return true
}

// Options configures a backend built by New.
type Options struct {
	// MaxRetries bounds retry attempts; 0 uses the default (3), negative disables retries.
	MaxRetries int

	// Timeout bounds each HTTP request. Zero means none.
	Timeout time.Duration

	// Logger receives retry diagnostics. Nil discards them.
	Logger *zap.Logger

	// HTTPClient overrides the transport. Tests point it at httptest servers.
	HTTPClient *http.Client
}

func (o Options) httpClient() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return &http.Client{Timeout: o.Timeout}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// New builds the backend for provider, wrapped with retries.
func New(ctx context.Context, provider types.Provider, apiKey string, opts Options) (Generator, error) {
	if apiKey == "" {
		return nil, errors.New("API key is required")
	}

	var (
		g   Generator
		err error
	)
	switch provider {
	case types.ProviderGemini, "":
		g, err = NewGemini(ctx, apiKey, opts)
	case types.ProviderClaude:
		g = NewClaude(apiKey, opts)
	default:
		return nil, fmt.Errorf("unknown model provider %q", provider)
	}
	if err != nil {
		return nil, err
	}
	return WithRetry(g, opts.MaxRetries, opts.Logger), nil
}

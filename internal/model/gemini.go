// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/pdiddy/conlang-forge/pkg/types"
)

// jsonMIMEType is the response-format hint for JSON-mode operations.
const jsonMIMEType = "application/json"

// GeminiBackend generates text with Google's Gemini API.
type GeminiBackend struct {
	client *genai.Client
}

// geminiBaseURL overrides the API endpoint. Tests point it at httptest servers.
var geminiBaseURL = ""

// NewGemini creates a Gemini client authenticated with apiKey.
func NewGemini(ctx context.Context, apiKey string, opts Options) (*GeminiBackend, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.httpClient(),
	}
	if geminiBaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: geminiBaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &GeminiBackend{client: client}, nil
}

// Generate sends prompt as a single user turn.
func (g *GeminiBackend) Generate(ctx context.Context, prompt string, cfg types.ModelConfig) (string, error) {
	gc := &genai.GenerateContentConfig{}
	if cfg.JSON {
		gc.ResponseMIMEType = jsonMIMEType
	}
	if cfg.Temperature != nil {
		temp := *cfg.Temperature
		gc.Temperature = &temp
	}
	if cfg.MaxOutputTokens > 0 {
		gc.MaxOutputTokens = int32(cfg.MaxOutputTokens)
	}

	model := cfg.Model
	if model == "" {
		model = types.DefaultModel
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), gc)
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

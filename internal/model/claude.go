// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/conlang-forge/internal/httputil"
	"github.com/pdiddy/conlang-forge/pkg/types"
)

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

const (
	claudeDefaultModel     = "claude-sonnet-4-5"
	claudeDefaultMaxTokens = 8192
	claudeJSONSystem       = "Respond with a single JSON value and nothing else."
)

// ClaudeBackend calls the Anthropic Messages API.
type ClaudeBackend struct {
	APIKey     string
	Client     *http.Client
	MaxRetries int
	Logger     *zap.Logger
}

// NewClaude returns a Claude backend using opts' transport settings.
func NewClaude(apiKey string, opts Options) *ClaudeBackend {
	return &ClaudeBackend{
		APIKey:     apiKey,
		Client:     opts.httpClient(),
		MaxRetries: opts.MaxRetries,
		Logger:     opts.logger(),
	}
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	System      string          `json:"system,omitempty"`
	Temperature *float32        `json:"temperature,omitempty"`
	Messages    []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Generate sends prompt as a single user message and returns the
// concatenated text blocks. Claude has no JSON response mode, so cfg.JSON
// is expressed as a system instruction.
func (c *ClaudeBackend) Generate(ctx context.Context, prompt string, cfg types.ModelConfig) (string, error) {
	model := cfg.Model
	if model == "" || strings.HasPrefix(model, "gemini") {
		model = claudeDefaultModel
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = claudeDefaultMaxTokens
	}

	reqBody := claudeRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: cfg.Temperature,
		Messages: []claudeMessage{
			{Role: "user", Content: prompt},
		},
	}
	if cfg.JSON {
		reqBody.System = claudeJSONSystem
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries, c.Logger)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &APIError{Provider: types.ProviderClaude, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Claude response: %w", err)
	}

	var b strings.Builder
	for _, block := range cResp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

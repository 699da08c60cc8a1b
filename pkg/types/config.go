// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Provider identifies the remote model service.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderClaude Provider = "claude"
)

// ModelConfig selects the model and response hint for one operation.
type ModelConfig struct {
	// Model is the model identifier (e.g. "gemini-2.5-flash").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// JSON asks the backend to constrain output to JSON where supported.
	JSON bool `json:"json" yaml:"json" mapstructure:"json"`

	// Temperature is the sampling temperature. Nil leaves the backend default.
	Temperature *float32 `json:"temperature,omitempty" yaml:"temperature,omitempty" mapstructure:"temperature"`

	// MaxOutputTokens caps the response length. Zero uses the backend default.
	MaxOutputTokens int `json:"max_output_tokens,omitempty" yaml:"max_output_tokens,omitempty" mapstructure:"max_output_tokens"`
}

// ModelProfiles holds one ModelConfig per operation.
type ModelProfiles struct {
	Generate  ModelConfig `json:"generate" yaml:"generate" mapstructure:"generate"`
	Repair    ModelConfig `json:"repair" yaml:"repair" mapstructure:"repair"`
	Evolve    ModelConfig `json:"evolve" yaml:"evolve" mapstructure:"evolve"`
	Command   ModelConfig `json:"command" yaml:"command" mapstructure:"command"`
	Syntax    ModelConfig `json:"syntax" yaml:"syntax" mapstructure:"syntax"`
	Phonology ModelConfig `json:"phonology" yaml:"phonology" mapstructure:"phonology"`
}

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// WithTemperature returns p with every operation's temperature set to t.
func (p ModelProfiles) WithTemperature(t float32) ModelProfiles {
	for _, c := range []*ModelConfig{&p.Generate, &p.Repair, &p.Evolve, &p.Command, &p.Syntax, &p.Phonology} {
		v := t
		c.Temperature = &v
	}
	return p
}

// DefaultProfiles returns JSON-mode profiles for every operation using model.
// Syntax analysis runs slightly warmer since its output is partly prose.
func DefaultProfiles(model string) ModelProfiles {
	if model == "" {
		model = DefaultModel
	}
	base := ModelConfig{Model: model, JSON: true}
	syntax := base
	warm := float32(0.4)
	syntax.Temperature = &warm
	return ModelProfiles{
		Generate:  base,
		Repair:    base,
		Evolve:    base,
		Command:   base,
		Syntax:    syntax,
		Phonology: base,
	}
}

// AIConfig holds settings for calling the remote model.
type AIConfig struct {
	// Provider selects the backend: gemini or claude.
	Provider Provider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the default model identifier for all operations.
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `json:"api_key_env" yaml:"api_key_env" mapstructure:"api_key_env"`

	// Temperature overrides the sampling temperature of every operation.
	// Nil keeps the per-operation defaults.
	Temperature *float32 `json:"temperature,omitempty" yaml:"temperature,omitempty" mapstructure:"temperature"`

	// MaxRetries is the number of retry attempts for failed calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// Timeout bounds a single HTTP request. Zero means no client-side timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// LexiconConfig holds settings for the lexicon store.
type LexiconConfig struct {
	// MaxResults is the default search limit (default 50).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `json:"level" yaml:"level" mapstructure:"level"`
	JSON  bool   `json:"json" yaml:"json" mapstructure:"json"`
}

// ForgeConfig groups all configuration for the CLI.
type ForgeConfig struct {
	AI         AIConfig      `json:"ai" yaml:"ai" mapstructure:"ai"`
	Lexicon    LexiconConfig `json:"lexicon" yaml:"lexicon" mapstructure:"lexicon"`
	Log        LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
	ProjectDir string        `json:"project_dir" yaml:"project_dir" mapstructure:"project_dir"`
	SecretsDir string        `json:"secrets_dir" yaml:"secrets_dir" mapstructure:"secrets_dir"`
}

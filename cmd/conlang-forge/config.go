// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/pdiddy/conlang-forge/internal/lexicon"
	"github.com/pdiddy/conlang-forge/internal/secrets"
	"github.com/pdiddy/conlang-forge/pkg/types"
)

// envPrefix prefixes every environment override, e.g. CONLANG_FORGE_AI_MODEL.
const envPrefix = "CONLANG_FORGE"

// setDefaults registers every config key. ai.temperature has no default,
// since nil keeps the per-operation values, so it is bound to its
// environment variable explicitly for Unmarshal to see it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("ai.provider", string(types.ProviderGemini))
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.api_key_env", "")
	v.SetDefault("ai.max_retries", 3)
	v.SetDefault("ai.timeout", "2m")
	v.SetDefault("lexicon.max_results", 50)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.json", false)
	v.SetDefault("project_dir", ".")
	v.SetDefault("secrets_dir", "")
	_ = v.BindEnv("ai.temperature", envPrefix+"_AI_TEMPERATURE")
}

// loadConfig decodes v into a ForgeConfig and fills derived defaults.
func loadConfig(v *viper.Viper) (types.ForgeConfig, error) {
	var c types.ForgeConfig
	if err := v.Unmarshal(&c); err != nil {
		return types.ForgeConfig{}, fmt.Errorf("decoding config: %w", err)
	}

	switch c.AI.Provider {
	case "":
		c.AI.Provider = types.ProviderGemini
	case types.ProviderGemini, types.ProviderClaude:
	default:
		return types.ForgeConfig{}, fmt.Errorf("unknown ai.provider %q: use gemini or claude", c.AI.Provider)
	}
	if c.AI.APIKeyEnv == "" {
		c.AI.APIKeyEnv = secrets.DefaultEnvVar(c.AI.Provider)
	}
	if c.ProjectDir == "" {
		c.ProjectDir = "."
	}
	if c.SecretsDir == "" {
		c.SecretsDir = filepath.Join(c.ProjectDir, ".secrets")
	}
	return c, nil
}

// profilesFor derives the per-operation model settings from the AI config.
func profilesFor(ai types.AIConfig) types.ModelProfiles {
	p := types.DefaultProfiles(ai.Model)
	if ai.Temperature != nil {
		p = p.WithTemperature(*ai.Temperature)
	}
	return p
}

func lexiconPath(c types.ForgeConfig) string {
	return filepath.Join(c.ProjectDir, lexicon.DBFile)
}

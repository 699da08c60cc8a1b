// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: gemini-api-key, claude-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/conlang-forge/pkg/types"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged as warnings but do not abort.
func Load(dir string, log *zap.Logger) (map[string]string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// KeyName returns the secrets file that overrides the API key for p.
func KeyName(p types.Provider) string {
	return string(p) + "-api-key"
}

// DefaultEnvVar returns the environment variable conventionally holding
// the API key for p.
func DefaultEnvVar(p types.Provider) string {
	switch p {
	case types.ProviderClaude:
		return "ANTHROPIC_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}

// Resolver returns a function that looks the key up on every call: the
// persisted file dir/name wins when present and non-empty, otherwise the
// environment variable envVar is used. An empty result means no key.
func Resolver(envVar, dir, name string, log *zap.Logger) func() string {
	return func() string {
		if dir != "" && name != "" {
			stored, err := Load(dir, log)
			if err != nil && log != nil {
				log.Warn("secrets unavailable, falling back to environment", zap.Error(err))
			}
			if v := stored[name]; v != "" {
				return v
			}
		}
		if envVar == "" {
			return ""
		}
		return strings.TrimSpace(os.Getenv(envVar))
	}
}

// Save writes value to dir/name with owner-only permissions, creating dir
// when needed.
func Save(dir, name, value string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating secrets directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.TrimSpace(value)+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing secret %s: %w", name, err)
	}
	return nil
}

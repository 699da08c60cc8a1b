// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/conlang-forge/internal/forge"
	"github.com/pdiddy/conlang-forge/internal/lexicon"
	"github.com/pdiddy/conlang-forge/internal/model"
	"github.com/pdiddy/conlang-forge/internal/secrets"
	"github.com/pdiddy/conlang-forge/pkg/types"
)

// execute runs the CLI with args and returns everything it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// stubModel makes every command use a model that answers with answer.
func stubModel(t *testing.T, answer func(prompt string) string) {
	t.Helper()
	prev := newAdapter
	newAdapter = func(types.ForgeConfig, *zap.Logger) *forge.Adapter {
		return forge.New(
			func() string { return "test-key" },
			func(context.Context, string) (model.Generator, error) {
				return model.GeneratorFunc(func(_ context.Context, prompt string, _ types.ModelConfig) (string, error) {
					return answer(prompt), nil
				}), nil
			})
	}
	t.Cleanup(func() { newAdapter = prev })
}

func initProject(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "velic")
	out, err := execute(t, "init", "-C", dir, "Velic")
	require.NoError(t, err)
	assert.Contains(t, out, `Initialized project "Velic"`)
	return dir
}

func listEntries(t *testing.T, dir string) []types.LexiconEntry {
	t.Helper()
	out, err := execute(t, "lexicon", "list", "-C", dir, "--json=true")
	require.NoError(t, err)
	var doc lexicon.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	return doc.Entries
}

func addEntry(t *testing.T, dir, word, meaning string) {
	t.Helper()
	_, err := execute(t, "lexicon", "add", "-C", dir, word, "--ipa", word, "--meaning", meaning)
	require.NoError(t, err)
}

func TestInitRefusesExistingProject(t *testing.T) {
	dir := initProject(t)
	_, err := execute(t, "init", "-C", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project already exists")
	assert.FileExists(t, filepath.Join(dir, lexicon.DBFile))
}

func TestLexiconCommands(t *testing.T) {
	dir := initProject(t)
	addEntry(t, dir, "kala", "water")
	addEntry(t, dir, "tosa", "stone")

	entries := listEntries(t, dir)
	require.Len(t, entries, 2)
	assert.Equal(t, "kala", entries[0].Word)
	assert.Equal(t, "water", entries[0].Meaning)

	out, err := execute(t, "lexicon", "search", "-C", dir, "--limit", "0", "ston")
	require.NoError(t, err)
	assert.Contains(t, out, "tosa")
	assert.NotContains(t, out, "kala")
	assert.Contains(t, out, "1 of 2 entries")

	out, err = execute(t, "lexicon", "list", "-C", dir, "--json=false")
	require.NoError(t, err)
	assert.Contains(t, out, "\n2 entries\n")

	exported := filepath.Join(t.TempDir(), "lexicon.json")
	_, err = execute(t, "lexicon", "export", "-C", dir, "-o", exported)
	require.NoError(t, err)

	_, err = execute(t, "lexicon", "remove", "-C", dir, entries[0].ID)
	require.NoError(t, err)
	assert.Len(t, listEntries(t, dir), 1)

	out, err = execute(t, "lexicon", "import", "-C", dir, "--replace=true", exported)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 entries")
	assert.Equal(t, entries, listEntries(t, dir))
}

func TestMissingProject(t *testing.T) {
	_, err := execute(t, "lint", "-C", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run conlang-forge init first")
}

func TestGenerateSavesWords(t *testing.T) {
	dir := initProject(t)
	addEntry(t, dir, "mela", "honey")

	var sent string
	stubModel(t, func(prompt string) string {
		sent = prompt
		return "```json\n" + `{"words": [{"word": "kala", "ipa": "kala", "meaning": "water"}, {"word": "tosa", "ipa": "tosa"}]}` + "\n```"
	})

	out, err := execute(t, "generate", "-C", dir, "-n", "2", "--theme", "nature", "--dry-run=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Added 2 words to the lexicon")
	assert.Contains(t, sent, "Theme: nature")
	assert.Contains(t, sent, "existing words: mela")

	entries := listEntries(t, dir)
	require.Len(t, entries, 3)
	assert.Equal(t, "tosa", entries[2].Word)
}

func TestApplyMergesByID(t *testing.T) {
	dir := initProject(t)
	addEntry(t, dir, "foo", "one")
	addEntry(t, dir, "bar", "two")

	idOf := regexp.MustCompile(`"id":"([^"]+)","word":"foo"`)
	stubModel(t, func(prompt string) string {
		m := idOf.FindStringSubmatch(prompt)
		require.NotNil(t, m)
		return fmt.Sprintf(`{"modifications": [{"id": %q, "word": "FOO", "etymology": "capitalized"}]}`, m[1])
	})

	out, err := execute(t, "apply", "-C", dir, "--dry-run=false", "capitalize", "foo")
	require.NoError(t, err)
	assert.Contains(t, out, "Modified 1 entries")

	entries := listEntries(t, dir)
	require.Len(t, entries, 2)
	assert.Equal(t, "FOO", entries[0].Word)
	assert.Equal(t, "capitalized", entries[0].Etymology)
	assert.Equal(t, "bar", entries[1].Word)
}

func TestEvolveDegradedLeavesLexicon(t *testing.T) {
	dir := initProject(t)
	addEntry(t, dir, "pata", "foot")
	stubModel(t, func(string) string { return "I cannot do that." })

	out, err := execute(t, "evolve", "-C", dir, "--dry-run=false", "--rule", "p > f")
	require.NoError(t, err)
	assert.Contains(t, out, "warning: lexicon left unchanged")
	assert.Equal(t, "pata", listEntries(t, dir)[0].Word)
}

func TestEvolveSavesChanges(t *testing.T) {
	dir := initProject(t)
	addEntry(t, dir, "pata", "foot")
	stubModel(t, func(string) string {
		return `{"results": [{"original": "pata", "word": "fata", "ipa": "fata", "changelog": "p > f"}]}`
	})

	out, err := execute(t, "evolve", "-C", dir, "--dry-run=false", "--rule", "p > f")
	require.NoError(t, err)
	assert.Contains(t, out, "Evolved 1 of 1 entries")

	e := listEntries(t, dir)[0]
	assert.Equal(t, "fata", e.Word)
	assert.Equal(t, "< pata: p > f", e.Etymology)
}

func TestLint(t *testing.T) {
	dir := initProject(t)
	project := "name: Velic\nconstraints:\n  banned_sequences: [tk]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "project.yaml"), []byte(project), 0o644))
	addEntry(t, dir, "atka", "")
	addEntry(t, dir, "kata", "")

	out, err := execute(t, "lint", "-C", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 violation(s) in 1 entries")
	assert.Contains(t, out, `atka`)
	assert.Contains(t, out, "banned-sequence")
	assert.NotContains(t, out, "kata (")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "conlang-forge dev\n", out)
}

func TestLoadConfig(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("ai.provider", "claude")
	v.Set("ai.temperature", 0.2)
	v.Set("project_dir", "/tmp/velic")

	c, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, types.ProviderClaude, c.AI.Provider)
	assert.Equal(t, "ANTHROPIC_API_KEY", c.AI.APIKeyEnv)
	assert.Equal(t, 3, c.AI.MaxRetries)
	assert.Equal(t, 2*time.Minute, c.AI.Timeout)
	assert.Equal(t, 50, c.Lexicon.MaxResults)
	assert.Equal(t, filepath.Join("/tmp/velic", ".secrets"), c.SecretsDir)

	p := profilesFor(c.AI)
	require.NotNil(t, p.Repair.Temperature)
	assert.InDelta(t, 0.2, *p.Repair.Temperature, 1e-6)
	assert.Equal(t, types.DefaultModel, p.Generate.Model)
}

func TestLoadConfigTemperatureFromEnv(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	c, err := loadConfig(v)
	require.NoError(t, err)
	assert.Nil(t, c.AI.Temperature)

	t.Setenv("CONLANG_FORGE_AI_TEMPERATURE", "0.7")
	c, err = loadConfig(v)
	require.NoError(t, err)
	require.NotNil(t, c.AI.Temperature)
	assert.InDelta(t, 0.7, *c.AI.Temperature, 1e-6)
}

func TestLoadConfigRejectsUnknownProvider(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("ai.provider", "oracle")
	_, err := loadConfig(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown ai.provider")
}

func TestConfigSetKey(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "config", "set-key", "-C", dir, "--provider", "claude", "sk-arg")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved claude API key")
	resolve := secrets.Resolver("", filepath.Join(dir, ".secrets"), "claude-api-key", nil)
	assert.Equal(t, "sk-arg", resolve())

	rootCmd.SetIn(strings.NewReader("sk-stdin\n"))
	t.Cleanup(func() { rootCmd.SetIn(nil) })
	_, err = execute(t, "config", "set-key", "-C", dir, "--provider", "gemini")
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, ".secrets", "gemini-api-key"))
	require.NoError(t, err)
	assert.Equal(t, "sk-stdin\n", string(data))

	rootCmd.SetIn(strings.NewReader(""))
	_, err = execute(t, "config", "set-key", "-C", dir, "--provider", "gemini")
	assert.ErrorContains(t, err, "no API key given")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ˈkaː...", truncate("ˈkaːlatosa", 7))
}

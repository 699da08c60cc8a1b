// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package project loads and saves conlang project files and checks
// lexicon entries against a project's constraints.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/conlang-forge/pkg/types"
)

// File is the project file name inside a project directory.
const File = "project.yaml"

// ErrExists is returned by Init when a project file is already present.
var ErrExists = errors.New("project already exists")

// Load reads project.yaml from a project directory.
func Load(dir string) (*types.Project, error) {
	data, err := os.ReadFile(filepath.Join(dir, File))
	if err != nil {
		return nil, fmt.Errorf("reading project: %w", err)
	}
	var p types.Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing project: %w", err)
	}
	return &p, nil
}

// Save writes p to project.yaml in dir, creating dir when needed.
func Save(dir string, p *types.Project) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling project: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, File), data, 0o644); err != nil {
		return fmt.Errorf("writing project: %w", err)
	}
	return nil
}

// Init creates a new project named name in dir. It refuses to overwrite
// an existing project file.
func Init(dir, name string) (*types.Project, error) {
	if _, err := os.Stat(filepath.Join(dir, File)); err == nil {
		return nil, fmt.Errorf("%w in %s", ErrExists, dir)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = filepath.Base(dir)
	}
	p := &types.Project{Name: name}
	if err := Save(dir, p); err != nil {
		return nil, err
	}
	return p, nil
}

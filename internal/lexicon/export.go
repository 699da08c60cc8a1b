// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lexicon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/conlang-forge/pkg/types"
)

// Document is the on-disk shape of an exported lexicon.
type Document struct {
	Entries []types.LexiconEntry `json:"entries" yaml:"entries"`
}

// ExportYAML writes the whole lexicon to w as YAML.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	doc, err := s.document(ctx)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes the whole lexicon to w as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer) error {
	doc, err := s.document(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// ExportFile writes the lexicon to path, choosing JSON for a .json
// extension and YAML otherwise.
func (s *Store) ExportFile(ctx context.Context, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if isJSON(path) {
		err = s.ExportJSON(ctx, f)
	} else {
		err = s.ExportYAML(ctx, f)
	}
	if err != nil {
		return err
	}
	return f.Close()
}

// Import reads a YAML or JSON export (chosen by extension) and stores its
// entries. With replace set, the lexicon is replaced; otherwise entries
// are merged by ID. It returns the number of entries read.
func (s *Store) Import(ctx context.Context, path string, replace bool) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}

	entries, err := decode(data, isJSON(path))
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", path, err)
	}

	if replace {
		if err := s.ReplaceAll(ctx, entries); err != nil {
			return 0, err
		}
		return len(entries), nil
	}
	for _, e := range entries {
		if _, err := s.Put(ctx, e); err != nil {
			return 0, err
		}
	}
	return len(entries), nil
}

func (s *Store) document(ctx context.Context) (Document, error) {
	entries, err := s.All(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("querying for export: %w", err)
	}
	return Document{Entries: entries}, nil
}

// decode accepts either a Document or a bare list of entries.
func decode(data []byte, asJSON bool) ([]types.LexiconEntry, error) {
	unmarshal := yaml.Unmarshal
	if asJSON {
		unmarshal = json.Unmarshal
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "-") {
		var list []types.LexiconEntry
		if err := unmarshal(data, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var doc Document
	if err := unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Entries, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

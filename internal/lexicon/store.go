// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lexicon persists a project's lexicon in SQLite. Entries keep
// the order in which they were first added.
package lexicon

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/conlang-forge/pkg/types"
)

// DBFile is the lexicon database name inside a project directory.
const DBFile = "lexicon.db"

const defaultMaxResults = 50

// ErrNotFound is returned when no entry has the requested ID.
var ErrNotFound = errors.New("lexicon entry not found")

//go:embed schema.sql
var schemaSQL string

// Store manages the lexicon database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the lexicon database at path and applies the
// schema. Use ":memory:" for a throwaway store.
func Open(path string, cfg types.LexiconConfig) (*Store, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating lexicon directory: %w", err)
		}
		dsn = path + "?_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

const upsertSQL = `INSERT INTO entries (id, word, ipa, meaning, etymology)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		word=excluded.word, ipa=excluded.ipa,
		meaning=excluded.meaning, etymology=excluded.etymology`

// Put inserts e, or updates the entry with the same ID in place. An
// entry without an ID is given a new one. The stored entry is returned.
func (s *Store) Put(ctx context.Context, e types.LexiconEntry) (types.LexiconEntry, error) {
	e, err := prepare(e)
	if err != nil {
		return types.LexiconEntry{}, err
	}
	if _, err := s.db.ExecContext(ctx, upsertSQL, e.ID, e.Word, e.IPA, e.Meaning, e.Etymology); err != nil {
		return types.LexiconEntry{}, fmt.Errorf("storing entry %s: %w", e.ID, err)
	}
	return e, nil
}

// Get returns the entry with the given ID.
func (s *Store) Get(ctx context.Context, id string) (types.LexiconEntry, error) {
	var e types.LexiconEntry
	err := s.db.QueryRowContext(ctx,
		`SELECT id, word, ipa, meaning, etymology FROM entries WHERE id = ?`, id,
	).Scan(&e.ID, &e.Word, &e.IPA, &e.Meaning, &e.Etymology)
	if errors.Is(err, sql.ErrNoRows) {
		return types.LexiconEntry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return types.LexiconEntry{}, fmt.Errorf("reading entry %s: %w", id, err)
	}
	return e, nil
}

// Delete removes the entry with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting entry %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting entry %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// All returns every entry in insertion order.
func (s *Store) All(ctx context.Context) ([]types.LexiconEntry, error) {
	return s.query(ctx, `SELECT id, word, ipa, meaning, etymology FROM entries ORDER BY position`)
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return n, nil
}

// PutAll upserts entries in one transaction: either all are stored or
// none are. Entries without an ID are given one. The stored entries are
// returned in order.
func (s *Store) PutAll(ctx context.Context, entries []types.LexiconEntry) ([]types.LexiconEntry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stored, err := upsertAll(ctx, tx, entries)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing entries: %w", err)
	}
	return stored, nil
}

// ReplaceAll swaps the whole lexicon for entries in one transaction,
// keeping their order. Operations that return a merged lexicon are saved
// this way.
func (s *Store) ReplaceAll(ctx context.Context, entries []types.LexiconEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("clearing entries: %w", err)
	}
	if _, err := upsertAll(ctx, tx, entries); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertAll(ctx context.Context, tx *sql.Tx, entries []types.LexiconEntry) ([]types.LexiconEntry, error) {
	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return nil, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	stored := make([]types.LexiconEntry, 0, len(entries))
	for _, e := range entries {
		e, err := prepare(e)
		if err != nil {
			return nil, err
		}
		if _, err := stmt.ExecContext(ctx, e.ID, e.Word, e.IPA, e.Meaning, e.Etymology); err != nil {
			return nil, fmt.Errorf("inserting entry %s: %w", e.ID, err)
		}
		stored = append(stored, e)
	}
	return stored, nil
}

// Search returns entries whose word, IPA or meaning contains query,
// case-insensitively for ASCII, in insertion order. A limit of zero or
// less uses the configured maximum.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]types.LexiconEntry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query is empty")
	}
	if limit <= 0 {
		limit = s.maxResults
	}

	pattern := "%" + escapeLike(query) + "%"
	return s.query(ctx,
		`SELECT id, word, ipa, meaning, etymology FROM entries
		 WHERE word LIKE ? ESCAPE '\' OR ipa LIKE ? ESCAPE '\' OR meaning LIKE ? ESCAPE '\'
		 ORDER BY position LIMIT ?`,
		pattern, pattern, pattern, limit)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]types.LexiconEntry, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	entries := []types.LexiconEntry{}
	for rows.Next() {
		var e types.LexiconEntry
		if err := rows.Scan(&e.ID, &e.Word, &e.IPA, &e.Meaning, &e.Etymology); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// prepare assigns a missing ID and rejects entries without a word.
func prepare(e types.LexiconEntry) (types.LexiconEntry, error) {
	e.Word = strings.TrimSpace(e.Word)
	if e.Word == "" {
		return e, fmt.Errorf("entry %q has no word", e.ID)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return e, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

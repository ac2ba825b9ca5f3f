// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history persists the prompts the user has typed.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Schema for the prompt history database. This records only locally typed
// input for recall and search; conversation messages stay on the backend.
const schema = `
CREATE TABLE IF NOT EXISTS prompts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    content TEXT NOT NULL,
    mode TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_prompts_created_at ON prompts(created_at DESC);
`

// Entry is one remembered prompt.
type Entry struct {
	ID        int64
	Content   string
	Mode      string
	CreatedAt time.Time
}

// Store is a SQLite-backed prompt history.
type Store struct {
	db         *sql.DB
	maxEntries int
}

// Open opens (creating if needed) the history database at path.
// maxEntries bounds the table size; 0 means unlimited.
func Open(path string, maxEntries int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &Store{db: db, maxEntries: maxEntries}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add records a submitted prompt. Consecutive duplicates are collapsed so
// an up-arrow retry does not litter the history.
func (s *Store) Add(ctx context.Context, content, mode string) error {
	var last string
	err := s.db.QueryRowContext(ctx,
		`SELECT content FROM prompts ORDER BY id DESC LIMIT 1`).Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	if last == content {
		return nil
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO prompts (content, mode) VALUES (?, ?)`, content, mode); err != nil {
		return err
	}

	return s.prune(ctx)
}

// Recent returns up to n prompts, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, mode, created_at FROM prompts ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Count returns the number of stored prompts.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM prompts`).Scan(&n)
	return n, err
}

// Search returns up to n prompts containing term, newest first.
func (s *Store) Search(ctx context.Context, term string, n int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, mode, created_at FROM prompts
		 WHERE content LIKE '%' || ? || '%' ORDER BY id DESC LIMIT ?`, term, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// prune drops the oldest rows beyond maxEntries.
func (s *Store) prune(ctx context.Context) error {
	if s.maxEntries <= 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM prompts WHERE id NOT IN (
		    SELECT id FROM prompts ORDER BY id DESC LIMIT ?
		 )`, s.maxEntries)
	return err
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Content, &e.Mode, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

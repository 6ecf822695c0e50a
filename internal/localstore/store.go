// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package localstore mirrors session state to a durable local key/value
// store so a session survives a restart. The mirror is purely a cache: it
// is never the source of truth while the process is live, and it is never
// authoritative about server-side state.
package localstore

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// KEY/VALUE STORE
// =============================================================================

// Store is a text-keyed, text-valued durable store backed by SQLite. It
// plays the role browser local storage played for the original front end:
// five well-known keys, string values, nothing else.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the mirror database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Single writer; the mirror is touched from one goroutine per Set.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS mirror (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Get returns the value for key, with found=false when the key is absent.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM mirror WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Put writes the value for key, replacing any previous value.
func (s *Store) Put(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO mirror (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// Delete removes key. Removing an absent key is not an error.
func (s *Store) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM mirror WHERE key = ?`, key)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

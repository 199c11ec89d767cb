// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"nickandperla.net/clips/internal/eval"
)

// Current schema version
const SchemaVersion = "1"

// SQLite is a SQLite-backed store.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite creates a new SQLite store at the given path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, err
	}

	// Create tables if not exists
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			name TEXT PRIMARY KEY,
			fact_counter INTEGER NOT NULL,
			saved_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS facts (
			session TEXT NOT NULL,
			seq INTEGER NOT NULL,
			id TEXT NOT NULL,
			content TEXT NOT NULL,
			PRIMARY KEY (session, id),
			FOREIGN KEY (session) REFERENCES sessions(name)
		);
		CREATE TABLE IF NOT EXISTS rules (
			session TEXT NOT NULL,
			seq INTEGER NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			PRIMARY KEY (session, name),
			FOREIGN KEY (session) REFERENCES sessions(name)
		);
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLite{db: db}

	version, err := s.getMetadata("schema_version")
	if err != nil {
		db.Close()
		return nil, err
	}
	switch version {
	case "":
		if err := s.setMetadata("schema_version", SchemaVersion); err != nil {
			db.Close()
			return nil, err
		}
	case SchemaVersion:
	default:
		db.Close()
		return nil, fmt.Errorf("unsupported schema version: %s (expected %s)", version, SchemaVersion)
	}

	return s, nil
}

// Get retrieves a snapshot by session name.
func (s *SQLite) Get(name string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &Snapshot{}
	var savedAt string
	err := s.db.QueryRow("SELECT fact_counter, saved_at FROM sessions WHERE name = ?", name).
		Scan(&snap.FactCounter, &savedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if snap.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt); err != nil {
		return nil, fmt.Errorf("session %s: bad saved_at: %w", name, err)
	}

	rows, err := s.db.Query("SELECT id, content FROM facts WHERE session = ? ORDER BY seq", name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var f eval.Fact
		if err := rows.Scan(&f.ID, &f.Text); err != nil {
			return nil, err
		}
		snap.Facts = append(snap.Facts, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rrows, err := s.db.Query("SELECT name, description FROM rules WHERE session = ? ORDER BY seq", name)
	if err != nil {
		return nil, err
	}
	defer rrows.Close()
	for rrows.Next() {
		var r eval.Rule
		if err := rrows.Scan(&r.Name, &r.Description); err != nil {
			return nil, err
		}
		snap.Rules = append(snap.Rules, r)
	}
	return snap, rrows.Err()
}

// Put replaces the stored snapshot for a session in one transaction.
func (s *SQLite) Put(name string, snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteSession(tx, name); err != nil {
		return err
	}
	_, err = tx.Exec(`
		INSERT INTO sessions (name, fact_counter, saved_at) VALUES (?, ?, ?)
	`, name, snap.FactCounter, snap.SavedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return err
	}
	for i, f := range snap.Facts {
		if _, err := tx.Exec(`INSERT INTO facts (session, seq, id, content) VALUES (?, ?, ?, ?)`,
			name, i, f.ID, f.Text); err != nil {
			return err
		}
	}
	for i, r := range snap.Rules {
		if _, err := tx.Exec(`INSERT INTO rules (session, seq, name, description) VALUES (?, ?, ?, ?)`,
			name, i, r.Name, r.Description); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Delete removes a session's snapshot.
func (s *SQLite) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := deleteSession(tx, name); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteSession(tx *sql.Tx, name string) error {
	for _, q := range []string{
		"DELETE FROM facts WHERE session = ?",
		"DELETE FROM rules WHERE session = ?",
		"DELETE FROM sessions WHERE name = ?",
	} {
		if _, err := tx.Exec(q, name); err != nil {
			return err
		}
	}
	return nil
}

// Names lists stored session names.
func (s *SQLite) Names() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query("SELECT name FROM sessions ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// getMetadata retrieves metadata without locking (caller must hold lock
// or be initializing).
func (s *SQLite) getMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SQLite) setMetadata(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

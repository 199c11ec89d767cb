// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package clips provides the public API for the clips command engine.
package clips

import (
	"log"
	"strings"

	"nickandperla.net/clips/internal/store"
)

// Option configures a Session.
type Option func(*Session)

// Store is the snapshot persistence interface.
type Store = store.Store

// WithStore uses an existing store. The session does not close it.
func WithStore(st Store) Option {
	return func(s *Session) {
		s.releaseStore()
		s.store = st
		s.ownsStore = false
	}
}

// WithSQLiteStore configures SQLite persistence at the given path.
func WithSQLiteStore(path string) Option {
	return func(s *Session) {
		s.releaseStore()
		st, err := store.NewSQLite(path)
		s.setOwnedStore(st, err)
	}
}

// WithBoltStore configures BoltDB persistence at the given path.
func WithBoltStore(path string) Option {
	return func(s *Session) {
		s.releaseStore()
		st, err := store.NewBolt(path)
		s.setOwnedStore(st, err)
	}
}

// WithMemoryStore configures an in-memory store (for testing).
func WithMemoryStore() Option {
	return func(s *Session) {
		s.releaseStore()
		s.setOwnedStore(store.NewMemory(), nil)
	}
}

// releaseStore closes a store opened by an earlier option. A store
// passed with WithStore is only detached.
func (s *Session) releaseStore() {
	if s.store != nil && s.ownsStore {
		if err := s.store.Close(); err != nil {
			s.logger.Printf("clips: close store: %v", err)
		}
	}
	s.store = nil
	s.ownsStore = false
	s.openErr = nil
}

func (s *Session) setOwnedStore(st Store, err error) {
	if err != nil {
		s.openErr = err
		return
	}
	s.store = st
	s.ownsStore = true
}

// WithSessionName sets the key the knowledge base is saved under.
func WithSessionName(name string) Option {
	return func(s *Session) {
		if name != "" {
			s.name = name
		}
	}
}

// WithLogger sets the logger for persistence problems.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDebug enables per-command debug logging.
func WithDebug(debug bool) Option {
	return func(s *Session) {
		s.debug = debug
	}
}

// WithPrelude sets commands to execute when the session is created,
// for example default bindings or facts.
func WithPrelude(source string) Option {
	return func(s *Session) {
		s.prelude = source
	}
}

// PersistMode controls when the knowledge base is persisted.
type PersistMode int

const (
	// PersistOnDemand is the default - explicit Save/Load calls only.
	PersistOnDemand PersistMode = iota
	// PersistAlways loads on New and saves after every successful command.
	PersistAlways
	// PersistNever makes Save and Load no-ops (memory-only mode).
	PersistNever
)

// String returns the string representation of a PersistMode.
func (m PersistMode) String() string {
	switch m {
	case PersistOnDemand:
		return "on_demand"
	case PersistAlways:
		return "always"
	case PersistNever:
		return "never"
	default:
		return "unknown"
	}
}

// ParsePersistMode parses a string into a PersistMode.
func ParsePersistMode(s string) (PersistMode, bool) {
	switch strings.ToLower(s) {
	case "on_demand", "":
		return PersistOnDemand, true
	case "always":
		return PersistAlways, true
	case "never":
		return PersistNever, true
	default:
		return PersistOnDemand, false
	}
}

// WithPersistMode sets the persistence mode.
func WithPersistMode(mode PersistMode) Option {
	return func(s *Session) {
		s.persistMode = mode
	}
}

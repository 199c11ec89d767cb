// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package store provides persistence for clips knowledge bases.
package store

import (
	"fmt"
	"time"

	"nickandperla.net/clips/internal/eval"
)

// Snapshot is the persisted knowledge base of one session. Variables
// are session-local and are not part of it.
type Snapshot struct {
	Facts       []eval.Fact `json:"facts"`
	Rules       []eval.Rule `json:"rules"`
	FactCounter int         `json:"fact_counter"`
	SavedAt     time.Time   `json:"saved_at"`
}

// Store is the interface for snapshot persistence.
type Store interface {
	// Get retrieves a snapshot by session name. Returns nil if not found.
	Get(name string) (*Snapshot, error)
	// Put stores a snapshot by session name, overwriting if it exists.
	Put(name string, s *Snapshot) error
	// Delete removes a snapshot by session name.
	Delete(name string) error
	// Names lists the stored session names in sorted order.
	Names() ([]string, error)
	// Close releases resources.
	Close() error
}

// Open opens a store by kind: "memory", "sqlite" or "bolt".
func Open(kind, path string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemory(), nil
	case "sqlite":
		return NewSQLite(path)
	case "bolt":
		return NewBolt(path)
	}
	return nil, fmt.Errorf("unknown store kind: %s", kind)
}

// clone copies a snapshot so callers cannot alias stored slices.
func clone(s *Snapshot) *Snapshot {
	c := *s
	c.Facts = append([]eval.Fact(nil), s.Facts...)
	c.Rules = append([]eval.Rule(nil), s.Rules...)
	return &c
}

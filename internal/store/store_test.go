// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"nickandperla.net/clips/internal/eval"
)

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		Facts: []eval.Fact{
			{ID: "3", Text: "(student mohamed)"},
			{ID: "1", Text: "(color red)"},
		},
		Rules: []eval.Rule{
			{Name: "adult-rule", Description: "(defrule adult-rule (person (age ?a)) => (assert (adult ?a)))"},
		},
		FactCounter: 3,
		SavedAt:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	got, err := s.Get("missing")
	if err != nil {
		t.Fatalf("Get missing failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing session, got %+v", got)
	}

	want := sampleSnapshot()
	if err := s.Put("main", want); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err = s.Get("main")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected snapshot, got nil")
	}
	if !reflect.DeepEqual(got.Facts, want.Facts) {
		t.Errorf("facts: expected %v, got %v", want.Facts, got.Facts)
	}
	if !reflect.DeepEqual(got.Rules, want.Rules) {
		t.Errorf("rules: expected %v, got %v", want.Rules, got.Rules)
	}
	if got.FactCounter != 3 {
		t.Errorf("expected fact counter 3, got %d", got.FactCounter)
	}
	if !got.SavedAt.Equal(want.SavedAt) {
		t.Errorf("expected saved_at %v, got %v", want.SavedAt, got.SavedAt)
	}

	// Overwrite with fewer facts
	smaller := sampleSnapshot()
	smaller.Facts = smaller.Facts[:1]
	if err := s.Put("main", smaller); err != nil {
		t.Fatalf("Put overwrite failed: %v", err)
	}
	got, _ = s.Get("main")
	if len(got.Facts) != 1 {
		t.Errorf("expected 1 fact after overwrite, got %d", len(got.Facts))
	}

	if err := s.Put("alt", sampleSnapshot()); err != nil {
		t.Fatalf("Put alt failed: %v", err)
	}
	names, err := s.Names()
	if err != nil {
		t.Fatalf("Names failed: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"alt", "main"}) {
		t.Errorf("expected [alt main], got %v", names)
	}

	if err := s.Delete("main"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	got, err = s.Get("main")
	if err != nil {
		t.Fatalf("Get after delete failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	exerciseStore(t, s)
}

func TestMemoryStoreCopies(t *testing.T) {
	s := NewMemory()
	snap := sampleSnapshot()
	s.Put("main", snap)
	snap.Facts[0].Text = "mutated"

	got, _ := s.Get("main")
	if got.Facts[0].Text != "(student mohamed)" {
		t.Errorf("store aliased caller slice: got %q", got.Facts[0].Text)
	}
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clips-test.db")

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("Failed to create SQLite store: %v", err)
	}
	exerciseStore(t, s)

	if err := s.Put("persisted", sampleSnapshot()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Close and reopen to verify persistence
	s.Close()

	s2, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("Failed to reopen SQLite store: %v", err)
	}
	defer s2.Close()

	got, err := s2.Get("persisted")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if got == nil || len(got.Facts) != 2 || got.Facts[0].ID != "3" {
		t.Errorf("expected facts in saved order after reopen, got %+v", got)
	}
}

func TestBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clips-test.bolt")

	s, err := NewBolt(path)
	if err != nil {
		t.Fatalf("Failed to create Bolt store: %v", err)
	}
	exerciseStore(t, s)

	if err := s.Put("persisted", sampleSnapshot()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	s.Close()

	s2, err := NewBolt(path)
	if err != nil {
		t.Fatalf("Failed to reopen Bolt store: %v", err)
	}
	defer s2.Close()

	got, err := s2.Get("persisted")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if got == nil || got.FactCounter != 3 {
		t.Errorf("expected snapshot after reopen, got %+v", got)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	for _, kind := range []string{"memory", "sqlite", "bolt"} {
		s, err := Open(kind, filepath.Join(dir, kind+".db"))
		if err != nil {
			t.Fatalf("Open(%s) failed: %v", kind, err)
		}
		s.Close()
	}

	if _, err := Open("redis", ""); err == nil {
		t.Error("expected error for unknown store kind")
	}
	if _, err := os.Stat(filepath.Join(dir, "memory.db")); !os.IsNotExist(err) {
		t.Error("memory store should not create a file")
	}
}

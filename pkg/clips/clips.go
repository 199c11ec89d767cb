// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package clips

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"nickandperla.net/clips/internal/eval"
	"nickandperla.net/clips/internal/store"
)

// DefaultSessionName is the snapshot key used when none is configured.
const DefaultSessionName = "default"

// Session owns one environment and runs commands against it. A Session
// is not safe for concurrent use; callers serialize Execute calls.
type Session struct {
	env         *eval.Environment
	store       store.Store
	ownsStore   bool
	openErr     error // store open failure, reported once by New
	name        string
	persistMode PersistMode
	prelude     string
	logger      *log.Logger
	debug       bool
}

// New creates a new session with the given options. In PersistAlways
// mode the session's stored knowledge base is loaded immediately.
func New(opts ...Option) *Session {
	s := &Session{
		env:    eval.NewEnvironment(),
		name:   DefaultSessionName,
		logger: log.New(io.Discard, "", 0),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.openErr != nil {
		s.logger.Printf("clips: open store: %v", s.openErr)
	}

	if s.persistMode == PersistAlways {
		if _, err := s.Load(); err != nil {
			s.logger.Printf("clips: load session %s: %v", s.name, err)
		}
	}

	// Prelude commands run after any stored knowledge base is loaded.
	if s.prelude != "" {
		for _, line := range s.Execute(s.prelude) {
			if strings.HasPrefix(line, "Error: ") {
				s.logger.Printf("clips: prelude: %s", line)
			}
		}
	}

	return s
}

// Name returns the session name used as the snapshot key.
func (s *Session) Name() string {
	return s.name
}

// Execute tokenizes, parses and evaluates command and returns the
// display lines. Any failure yields the single line "Error: <message>".
func (s *Session) Execute(command string) []string {
	v, err := eval.Eval(command, s.env)
	if err != nil {
		s.logf("execute %q: %v", command, err)
		return []string{"Error: " + err.Error()}
	}

	if s.persistMode == PersistAlways {
		s.autoSave()
	}

	return lines(v)
}

// lines converts a result into display lines: nil yields none, a
// multi-line string is split, anything else is one line.
func lines(v eval.Value) []string {
	switch v := v.(type) {
	case nil, eval.Nil:
		return nil
	case eval.String:
		if strings.Contains(string(v), "\n") {
			return strings.Split(string(v), "\n")
		}
	}
	return []string{eval.Format(v)}
}

// Facts returns the asserted facts as "f-<id>: <text>" lines.
func (s *Session) Facts() []string {
	facts := s.env.Facts()
	out := make([]string, len(facts))
	for i, f := range facts {
		out[i] = eval.FormatFact(f)
	}
	return out
}

// Rules returns the defined rules as "<name>: <description>" lines.
func (s *Session) Rules() []string {
	rules := s.env.Rules()
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = eval.FormatRule(r)
	}
	return out
}

// Variables returns user bindings as "?name: <value>" lines. The
// built-in TRUE, FALSE and nil are omitted.
func (s *Session) Variables() []string {
	var out []string
	for _, b := range s.env.Variables() {
		if eval.IsBuiltinVariable(b.Name) {
			continue
		}
		out = append(out, fmt.Sprintf("%s: %s", b.Name, eval.Format(b.Value)))
	}
	return out
}

// Clear discards the environment and installs a fresh one.
func (s *Session) Clear() {
	s.env = eval.NewEnvironment()
	if s.persistMode == PersistAlways {
		s.autoSave()
	}
}

// Save writes the knowledge base (facts, rules and fact counter) to the
// store. It is a no-op without a store or in PersistNever mode.
func (s *Session) Save() error {
	if s.store == nil || s.persistMode == PersistNever {
		return nil
	}
	snap := &store.Snapshot{
		Facts:       s.env.Facts(),
		Rules:       s.env.Rules(),
		FactCounter: s.env.FactCounter(),
		SavedAt:     time.Now(),
	}
	if err := s.store.Put(s.name, snap); err != nil {
		return fmt.Errorf("save session %s: %w", s.name, err)
	}
	return nil
}

// Load replaces the environment with a fresh one holding the stored
// knowledge base. It reports whether a snapshot was found; when none is
// found the environment is left unchanged.
func (s *Session) Load() (bool, error) {
	if s.store == nil || s.persistMode == PersistNever {
		return false, nil
	}
	snap, err := s.store.Get(s.name)
	if err != nil {
		return false, fmt.Errorf("load session %s: %w", s.name, err)
	}
	if snap == nil {
		return false, nil
	}
	env := eval.NewEnvironment()
	env.Restore(snap.Facts, snap.Rules, snap.FactCounter)
	s.env = env
	s.logf("loaded session %s: %d facts, %d rules", s.name, len(snap.Facts), len(snap.Rules))
	return true, nil
}

// Forget deletes the session's stored knowledge base. The environment
// is left unchanged. It is a no-op without a store or in PersistNever mode.
func (s *Session) Forget() error {
	if s.store == nil || s.persistMode == PersistNever {
		return nil
	}
	if err := s.store.Delete(s.name); err != nil {
		return fmt.Errorf("forget session %s: %w", s.name, err)
	}
	return nil
}

// Sessions lists the session names held by the store.
func (s *Session) Sessions() ([]string, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.Names()
}

// Close releases resources. A store passed with WithStore is shared and
// is closed only when the session opened it.
func (s *Session) Close() error {
	if s.store != nil && s.ownsStore {
		return s.store.Close()
	}
	return nil
}

func (s *Session) autoSave() {
	if err := s.Save(); err != nil {
		s.logger.Printf("clips: %v", err)
	}
}

func (s *Session) logf(format string, args ...any) {
	if s.debug {
		s.logger.Printf("clips: "+format, args...)
	}
}

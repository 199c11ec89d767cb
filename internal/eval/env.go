// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package eval implements the clips evaluator.
package eval

import "strconv"

// Fact is an asserted fact as listed: its id (without the f- prefix)
// and its text.
type Fact struct {
	ID   string
	Text string
}

// Rule is a defined rule and its stored source text.
type Rule struct {
	Name        string
	Description string
}

// Binding is a variable and its current value.
type Binding struct {
	Name  string
	Value Value
}

// table is a string-keyed map that iterates in insertion order.
// Re-setting an existing key keeps its position.
type table[V any] struct {
	keys []string
	data map[string]V
}

func newTable[V any]() *table[V] {
	return &table[V]{data: make(map[string]V)}
}

func (t *table[V]) get(k string) (V, bool) {
	v, ok := t.data[k]
	return v, ok
}

func (t *table[V]) set(k string, v V) {
	if _, ok := t.data[k]; !ok {
		t.keys = append(t.keys, k)
	}
	t.data[k] = v
}

func (t *table[V]) delete(k string) bool {
	if _, ok := t.data[k]; !ok {
		return false
	}
	delete(t.data, k)
	for i, key := range t.keys {
		if key == k {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
	return true
}

func (t *table[V]) len() int { return len(t.keys) }

// Environment is the mutable state of one session: variable bindings,
// facts, rules and the fact counter. It is not safe for concurrent use.
type Environment struct {
	variables   *table[Value]
	facts       *table[string]
	rules       *table[string]
	factCounter int
}

// NewEnvironment creates an environment holding only the built-in
// variables TRUE, FALSE and nil.
func NewEnvironment() *Environment {
	env := &Environment{}
	env.Reset()
	return env
}

// Reset empties facts and rules, zeroes the fact counter and drops every
// variable except the built-ins.
func (env *Environment) Reset() {
	env.variables = newTable[Value]()
	env.variables.set("TRUE", Bool(true))
	env.variables.set("FALSE", Bool(false))
	env.variables.set("nil", Nil{})
	env.facts = newTable[string]()
	env.rules = newTable[string]()
	env.factCounter = 0
}

// IsBuiltinVariable reports whether name is one of the seeded variables.
func IsBuiltinVariable(name string) bool {
	switch name {
	case "TRUE", "FALSE", "nil":
		return true
	}
	return false
}

// Lookup returns the value bound to name.
func (env *Environment) Lookup(name string) (Value, bool) {
	return env.variables.get(name)
}

// Bind sets name to v, overwriting any previous binding.
func (env *Environment) Bind(name string, v Value) {
	env.variables.set(name, v)
}

// Variables returns every binding, built-ins included, in binding order.
func (env *Environment) Variables() []Binding {
	out := make([]Binding, 0, env.variables.len())
	for _, k := range env.variables.keys {
		out = append(out, Binding{Name: k, Value: env.variables.data[k]})
	}
	return out
}

// Assert stores text under the next fact id and returns that id.
func (env *Environment) Assert(text string) string {
	env.factCounter++
	id := strconv.Itoa(env.factCounter)
	env.facts.set(id, text)
	return id
}

// Retract removes the fact with the given id. Ids are never reused
// until Reset.
func (env *Environment) Retract(id string) bool {
	return env.facts.delete(id)
}

// Facts returns the asserted facts in assertion order.
func (env *Environment) Facts() []Fact {
	out := make([]Fact, 0, env.facts.len())
	for _, k := range env.facts.keys {
		out = append(out, Fact{ID: k, Text: env.facts.data[k]})
	}
	return out
}

// FactCounter returns the id of the most recently asserted fact.
func (env *Environment) FactCounter() int {
	return env.factCounter
}

// HasRule reports whether a rule named name exists.
func (env *Environment) HasRule(name string) bool {
	_, ok := env.rules.get(name)
	return ok
}

// DefineRule stores a rule's source text under name.
func (env *Environment) DefineRule(name, description string) {
	env.rules.set(name, description)
}

// Rules returns the defined rules in definition order.
func (env *Environment) Rules() []Rule {
	out := make([]Rule, 0, env.rules.len())
	for _, k := range env.rules.keys {
		out = append(out, Rule{Name: k, Description: env.rules.data[k]})
	}
	return out
}

// Restore replaces the knowledge base (facts, rules and fact counter)
// with the given contents. Variables are left untouched.
func (env *Environment) Restore(facts []Fact, rules []Rule, factCounter int) {
	env.facts = newTable[string]()
	for _, f := range facts {
		env.facts.set(f.ID, f.Text)
	}
	env.rules = newTable[string]()
	for _, r := range rules {
		env.rules.set(r.Name, r.Description)
	}
	env.factCounter = factCounter
}

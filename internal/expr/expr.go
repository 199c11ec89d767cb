// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package expr defines the clips syntax tree.
package expr

import (
	"strings"
)

// Node is the interface all syntax tree nodes implement.
type Node interface {
	// String returns the canonical source form of the node.
	String() string
	// Type returns the node type name used in diagnostics.
	Type() string
}

// Program is the ordered sequence of top-level expressions.
type Program struct {
	Children []Node
}

func (p *Program) Type() string { return "Program" }

func (p *Program) String() string {
	parts := make([]string, len(p.Children))
	for i, c := range p.Children {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Expression is a parenthesized form. Children[0] is the designator.
type Expression struct {
	Children []Node
}

func (e *Expression) Type() string { return "Expression" }

func (e *Expression) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, c := range e.Children {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(c.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Designator returns the first child, or nil for an empty expression.
func (e *Expression) Designator() Node {
	if len(e.Children) == 0 {
		return nil
	}
	return e.Children[0]
}

// Args returns the children after the designator.
func (e *Expression) Args() []Node {
	if len(e.Children) == 0 {
		return nil
	}
	return e.Children[1:]
}

// Literal is a number or string fixed at parse time.
type Literal struct {
	Num      float64
	Str      string
	IsString bool
}

// NewNumber creates a numeric literal.
func NewNumber(n float64) *Literal {
	return &Literal{Num: n}
}

// NewString creates a string literal.
func NewString(s string) *Literal {
	return &Literal{Str: s, IsString: true}
}

func (l *Literal) Type() string { return "Literal" }

func (l *Literal) String() string {
	if l.IsString {
		return `"` + l.Str + `"`
	}
	return FormatNumber(l.Num)
}

// Variable is a ?name reference resolved at evaluation time.
type Variable struct {
	Name string // includes the leading '?'
}

func (v *Variable) Type() string   { return "Variable" }
func (v *Variable) String() string { return v.Name }

// Identifier is a bare name that is not an operator.
type Identifier struct {
	Name string
}

func (i *Identifier) Type() string   { return "Identifier" }
func (i *Identifier) String() string { return i.Name }

// Symbol is an operator name from the fixed set.
type Symbol struct {
	Name string
}

func (s *Symbol) Type() string   { return "Symbol" }
func (s *Symbol) String() string { return s.Name }

// IsKeyword reports whether n is an Identifier spelled exactly word.
func IsKeyword(n Node, word string) bool {
	id, ok := n.(*Identifier)
	return ok && id.Name == word
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines clips token kinds and the fixed operator set.
package token

import "fmt"

// Kind represents a clips token kind.
type Kind int

const (
	LPAREN Kind = iota
	RPAREN
	IDENTIFIER
	VARIABLE
	NUMBER
	STRING
	SYMBOL // operator name from the fixed set
)

// String returns the string representation of a token kind.
func (k Kind) String() string {
	switch k {
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case IDENTIFIER:
		return "IDENTIFIER"
	case VARIABLE:
		return "VARIABLE"
	case NUMBER:
		return "NUMBER"
	case STRING:
		return "STRING"
	case SYMBOL:
		return "SYMBOL"
	}
	return "UNKNOWN"
}

// Token is a scanned token with its text and starting position.
type Token struct {
	Kind Kind
	Text string
	Pos  int // rune offset into the input
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Text, t.Pos)
}

// operators is the fixed set of names classified as SYMBOL.
var operators = map[string]bool{
	"+": true, "-": true, "*": true, "/": true,
	">": true, "<": true, "=": true, ">=": true, "<=": true, "!=": true,
	"eq": true, "neq": true,
}

// IsOperator returns true if name is one of the fixed operator names.
func IsOperator(name string) bool {
	return operators[name]
}

// Lookup classifies an identifier run as SYMBOL or IDENTIFIER.
func Lookup(name string) Kind {
	if IsOperator(name) {
		return SYMBOL
	}
	return IDENTIFIER
}

// IsNameStart reports whether r may begin an identifier or operator run.
func IsNameStart(r rune) bool {
	return isASCIILetter(r) || r == '_' || isOperatorChar(r)
}

// IsNameChar reports whether r may continue an identifier or operator run.
func IsNameChar(r rune) bool {
	return IsNameStart(r) || IsDigit(r) || r == '$'
}

// IsVariableChar reports whether r may continue a ?variable reference.
func IsVariableChar(r rune) bool {
	return isASCIILetter(r) || IsDigit(r) || r == '_'
}

// IsDigit reports whether r is an ASCII decimal digit.
func IsDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isOperatorChar(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '>', '=', '<', '!':
		return true
	}
	return false
}

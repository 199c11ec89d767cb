// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner provides the clips tokenizer.
package scanner

import (
	"fmt"
	"io"
	"unicode"

	"nickandperla.net/clips/internal/token"
)

// Error reports a character the scanner cannot start a token with.
type Error struct {
	Char rune
	Pos  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("Unexpected character: %c at position %d", e.Char, e.Pos)
}

// Scanner tokenizes clips input in a single left-to-right pass.
type Scanner struct {
	input []rune
	pos   int
}

// NewFromString creates a new Scanner from a string.
func NewFromString(s string) *Scanner {
	return &Scanner{input: []rune(s)}
}

// Next returns the next token, or io.EOF when the input is exhausted.
func (s *Scanner) Next() (*token.Token, error) {
	s.skipWhitespace()
	if s.pos >= len(s.input) {
		return nil, io.EOF
	}

	start := s.pos
	r := s.input[s.pos]

	switch {
	case r == '(':
		s.pos++
		return &token.Token{Kind: token.LPAREN, Text: "(", Pos: start}, nil

	case r == ')':
		s.pos++
		return &token.Token{Kind: token.RPAREN, Text: ")", Pos: start}, nil

	case r == '"':
		return s.scanString(), nil

	case token.IsDigit(r) || (r == '-' && token.IsDigit(s.at(s.pos+1))):
		return s.scanNumber(), nil

	case r == '?':
		s.pos++
		s.consumeWhile(token.IsVariableChar)
		return &token.Token{Kind: token.VARIABLE, Text: string(s.input[start:s.pos]), Pos: start}, nil

	case token.IsNameStart(r):
		s.pos++
		s.consumeWhile(token.IsNameChar)
		name := string(s.input[start:s.pos])
		return &token.Token{Kind: token.Lookup(name), Text: name, Pos: start}, nil
	}

	return nil, &Error{Char: r, Pos: start}
}

// scanString consumes a string literal. There is no escape processing;
// an unterminated string runs to the end of input.
func (s *Scanner) scanString() *token.Token {
	start := s.pos
	s.pos++ // opening quote
	body := s.pos
	for s.pos < len(s.input) && s.input[s.pos] != '"' {
		s.pos++
	}
	text := string(s.input[body:s.pos])
	if s.pos < len(s.input) {
		s.pos++ // closing quote
	}
	return &token.Token{Kind: token.STRING, Text: text, Pos: start}
}

// scanNumber consumes an optional leading minus followed by digits and dots.
func (s *Scanner) scanNumber() *token.Token {
	start := s.pos
	s.pos++
	s.consumeWhile(func(r rune) bool { return token.IsDigit(r) || r == '.' })
	return &token.Token{Kind: token.NUMBER, Text: string(s.input[start:s.pos]), Pos: start}
}

func (s *Scanner) consumeWhile(pred func(rune) bool) {
	for s.pos < len(s.input) && pred(s.input[s.pos]) {
		s.pos++
	}
}

func (s *Scanner) skipWhitespace() {
	s.consumeWhile(unicode.IsSpace)
}

// at returns the rune at i, or 0 past the end of input.
func (s *Scanner) at(i int) rune {
	if i < len(s.input) {
		return s.input[i]
	}
	return 0
}

// Tokenize scans the whole input. On a lex error no tokens are returned.
func Tokenize(input string) ([]token.Token, error) {
	s := NewFromString(input)
	var toks []token.Token
	for {
		tok, err := s.Next()
		if err == io.EOF {
			return toks, nil
		}
		if err != nil {
			return nil, err
		}
		toks = append(toks, *tok)
	}
}

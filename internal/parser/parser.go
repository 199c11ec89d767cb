// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package parser builds clips syntax trees from token sequences.
package parser

import (
	"fmt"

	"nickandperla.net/clips/internal/expr"
	"nickandperla.net/clips/internal/scanner"
	"nickandperla.net/clips/internal/token"
)

// Error reports structurally malformed input.
type Error struct {
	Msg string
	Pos int // position of the offending token, -1 at end of input
}

func (e *Error) Error() string { return e.Msg }

// Parser is a recursive-descent parser over a token slice.
type Parser struct {
	toks []token.Token
	pos  int
}

// New creates a parser over toks.
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse consumes every token and returns the resulting program.
func Parse(toks []token.Token) (*expr.Program, error) {
	return New(toks).ParseProgram()
}

// ParseString tokenizes and parses input.
func ParseString(input string) (*expr.Program, error) {
	toks, err := scanner.Tokenize(input)
	if err != nil {
		return nil, err
	}
	return Parse(toks)
}

// ParseProgram parses top-level forms until the tokens run out.
func (p *Parser) ParseProgram() (*expr.Program, error) {
	prog := &expr.Program{}
	for p.pos < len(p.toks) {
		n, err := p.parseExpression(false)
		if err != nil {
			return nil, err
		}
		prog.Children = append(prog.Children, n)
	}
	return prog, nil
}

func (p *Parser) peek() *token.Token {
	if p.pos < len(p.toks) {
		return &p.toks[p.pos]
	}
	return nil
}

func (p *Parser) errorf(tok *token.Token, format string, args ...any) *Error {
	pos := -1
	if tok != nil {
		pos = tok.Pos
	}
	return &Error{Msg: fmt.Sprintf(format, args...), Pos: pos}
}

// parseExpression parses a parenthesized form, or a bare atom. A nested
// form may also be headed by a ?variable, as in (loop-for-count (?i 1 3) ...);
// evaluating such a form as a call fails at run time.
func (p *Parser) parseExpression(nested bool) (expr.Node, error) {
	tok := p.peek()
	if tok == nil {
		return nil, p.errorf(nil, "Unexpected end of input")
	}
	if tok.Kind != token.LPAREN {
		return p.parseAtom()
	}
	p.pos++ // (

	designator := p.peek()
	if designator == nil {
		return nil, p.errorf(nil, "Unexpected end of input after '('")
	}
	if !isDesignator(designator.Kind, nested) {
		return nil, p.errorf(designator, "Expected identifier or symbol, got %s", designator.Kind)
	}

	e := &expr.Expression{}
	for p.pos < len(p.toks) && p.peek().Kind != token.RPAREN {
		n, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		e.Children = append(e.Children, n)
	}

	if p.peek() == nil {
		return nil, p.errorf(nil, "Expected closing parenthesis")
	}
	p.pos++ // )
	return e, nil
}

// parseAtom parses a single argument, recursing into nested forms.
func (p *Parser) parseAtom() (expr.Node, error) {
	tok := p.peek()
	if tok == nil {
		return nil, p.errorf(nil, "Unexpected end of input")
	}

	switch tok.Kind {
	case token.LPAREN:
		return p.parseExpression(true)
	case token.NUMBER:
		p.pos++
		return expr.NewNumber(expr.ParseNumber(tok.Text)), nil
	case token.STRING:
		p.pos++
		return expr.NewString(tok.Text), nil
	case token.VARIABLE:
		p.pos++
		return &expr.Variable{Name: tok.Text}, nil
	case token.IDENTIFIER:
		p.pos++
		return &expr.Identifier{Name: tok.Text}, nil
	case token.SYMBOL:
		p.pos++
		return &expr.Symbol{Name: tok.Text}, nil
	}
	return nil, p.errorf(tok, "Unexpected token type: %s", tok.Kind)
}

func isDesignator(k token.Kind, nested bool) bool {
	switch k {
	case token.IDENTIFIER, token.SYMBOL:
		return true
	case token.VARIABLE:
		return nested
	}
	return false
}

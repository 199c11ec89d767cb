// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"nickandperla.net/clips/internal/expr"
	"nickandperla.net/clips/internal/parser"
)

// Interpret evaluates n against env. Side effects on env performed
// before an error are kept.
func Interpret(n expr.Node, env *Environment) (Value, error) {
	switch n := n.(type) {
	case *expr.Program:
		var last Value = Nil{}
		for _, child := range n.Children {
			v, err := Interpret(child, env)
			if err != nil {
				return nil, err
			}
			last = v
		}
		return last, nil

	case *expr.Expression:
		designator := n.Designator()
		if designator == nil {
			return nil, errorf(ErrInvalidOperator, "Empty expression")
		}
		switch d := designator.(type) {
		case *expr.Identifier:
			return evalFunction(d.Name, n.Args(), env)
		case *expr.Symbol:
			return evalOperator(d.Name, n.Args(), env)
		}
		return nil, errorf(ErrInvalidOperator, "Invalid operator type: %s", designator.Type())

	case *expr.Literal:
		return FromLiteral(n), nil

	case *expr.Variable:
		if v, ok := env.Lookup(n.Name); ok {
			return v, nil
		}
		return nil, errorf(ErrUndefinedVariable, "Variable not defined: %s", n.Name)

	case *expr.Identifier:
		return String(n.Name), nil

	case *expr.Symbol:
		return String(n.Name), nil
	}
	return nil, errorf(ErrInvalidOperator, "Unknown node type: %s", n.Type())
}

// Eval tokenizes, parses and interprets input.
func Eval(input string, env *Environment) (Value, error) {
	prog, err := parser.ParseString(input)
	if err != nil {
		return nil, err
	}
	return Interpret(prog, env)
}

// evalAll evaluates nodes left to right.
func evalAll(nodes []expr.Node, env *Environment) ([]Value, error) {
	out := make([]Value, len(nodes))
	for i, n := range nodes {
		v, err := Interpret(n, env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// evalSequence evaluates nodes in order and returns the last result,
// or Nil when nodes is empty.
func evalSequence(nodes []expr.Node, env *Environment) (Value, error) {
	var last Value = Nil{}
	for _, n := range nodes {
		v, err := Interpret(n, env)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"nickandperla.net/clips/internal/expr"
)

// evalOperator applies an arithmetic or comparison operator. All
// arguments are evaluated first, left to right.
func evalOperator(op string, args []expr.Node, env *Environment) (Value, error) {
	vals, err := evalAll(args, env)
	if err != nil {
		return nil, err
	}

	switch op {
	case "+":
		sum := 0.0
		for _, v := range vals {
			n, ok := v.(Number)
			if !ok {
				return nil, errorf(ErrType, "Addition requires numeric operands")
			}
			sum += float64(n)
		}
		return Number(sum), nil

	case "-":
		switch len(vals) {
		case 0:
			return Number(0), nil
		case 1:
			n, ok := vals[0].(Number)
			if !ok {
				return nil, errorf(ErrType, "Negation requires a numeric operand")
			}
			return -n, nil
		}
		return fold(vals, "Subtraction", func(acc, n Number) (Number, error) {
			return acc - n, nil
		})

	case "*":
		product := 1.0
		for _, v := range vals {
			n, ok := v.(Number)
			if !ok {
				return nil, errorf(ErrType, "Multiplication requires numeric operands")
			}
			product *= float64(n)
		}
		return Number(product), nil

	case "/":
		if len(vals) == 0 {
			return nil, errorf(ErrArity, "Division requires operands")
		}
		return fold(vals, "Division", func(acc, n Number) (Number, error) {
			if n == 0 {
				return 0, errorf(ErrDivisionByZero, "Division by zero")
			}
			return acc / n, nil
		})

	case ">", "<", "=", ">=", "<=", "!=":
		if len(vals) != 2 {
			return nil, errorf(ErrArity, "Comparison requires exactly two operands")
		}
		return Bool(compare(op, vals[0], vals[1])), nil

	case "eq", "neq":
		if len(vals) != 2 {
			return nil, errorf(ErrArity, "%s requires exactly two operands", op)
		}
		same := Equal(vals[0], vals[1])
		if op == "neq" {
			return Bool(!same), nil
		}
		return Bool(same), nil
	}
	return nil, errorf(ErrInvalidOperator, "Unknown operator: %s", op)
}

// fold left-folds vals[1:] into vals[0]. Every operand must be a number.
func fold(vals []Value, name string, step func(acc, n Number) (Number, error)) (Value, error) {
	acc, ok := vals[0].(Number)
	if !ok {
		return nil, errorf(ErrType, "%s requires numeric operands", name)
	}
	for _, v := range vals[1:] {
		n, ok := v.(Number)
		if !ok {
			return nil, errorf(ErrType, "%s requires numeric operands", name)
		}
		var err error
		if acc, err = step(acc, n); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// compare orders two numbers numerically; any other pair is compared
// lexicographically by raw text.
func compare(op string, a, b Value) bool {
	an, aok := a.(Number)
	bn, bok := b.(Number)
	if aok && bok {
		switch op {
		case ">":
			return an > bn
		case "<":
			return an < bn
		case "=":
			return an == bn
		case ">=":
			return an >= bn
		case "<=":
			return an <= bn
		default:
			return an != bn
		}
	}

	as, bs := Text(a), Text(b)
	switch op {
	case ">":
		return as > bs
	case "<":
		return as < bs
	case "=":
		return as == bs
	case ">=":
		return as >= bs
	case "<=":
		return as <= bs
	default:
		return as != bs
	}
}

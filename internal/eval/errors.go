// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"errors"
	"fmt"
)

// Runtime error kinds. Every *Error unwraps to exactly one of these.
var (
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrType              = errors.New("type error")
	ErrDivisionByZero    = errors.New("division by zero")
	ErrArity             = errors.New("wrong number of arguments")
	ErrInvalidOperator   = errors.New("invalid operator")
	ErrUnknownFunction   = errors.New("unknown function")
	ErrDuplicateRule     = errors.New("duplicate rule")
	ErrFactNotFound      = errors.New("fact not found")
	ErrMissingThen       = errors.New("missing then")
)

// Error is a runtime error raised while evaluating a command.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func errorf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

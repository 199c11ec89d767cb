// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"strings"

	"nickandperla.net/clips/internal/expr"
)

// Value is a runtime value. The set of implementations is closed:
// Nil, Bool, Number, String and List.
type Value interface {
	// String returns the display form: nil, TRUE/FALSE, (a b c).
	String() string
	value()
}

// Nil is the absent value.
type Nil struct{}

// Bool is a boolean value.
type Bool bool

// Number is a numeric value.
type Number float64

// String is a string value.
type String string

// List is an ordered multifield value.
type List []Value

func (Nil) value()    {}
func (Bool) value()   {}
func (Number) value() {}
func (String) value() {}
func (List) value()   {}

func (Nil) String() string { return "nil" }

func (b Bool) String() string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func (n Number) String() string { return expr.FormatNumber(float64(n)) }
func (s String) String() string { return string(s) }

func (l List) String() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Format renders v in display form, treating a nil interface as Nil.
func Format(v Value) string {
	if v == nil {
		return Nil{}.String()
	}
	return v.String()
}

// Text returns the raw textual form of v. It differs from the display
// form for nil (null), booleans (true/false) and lists (comma-joined);
// it is used for lexicographic comparison and for stringified facts,
// fact ids and loop output.
func Text(v Value) string {
	switch v := v.(type) {
	case nil, Nil:
		return "null"
	case Bool:
		if v {
			return "true"
		}
		return "false"
	case List:
		parts := make([]string, len(v))
		for i, item := range v {
			if _, ok := item.(Nil); ok {
				parts[i] = ""
				continue
			}
			parts[i] = Text(item)
		}
		return strings.Join(parts, ",")
	}
	return v.String()
}

// Truthy reports whether v selects the then-branch of an if:
// only nil and FALSE are false.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case nil, Nil:
		return false
	case Bool:
		return bool(v)
	}
	return true
}

// Equal is strict equality: same kind and same value, no coercion.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case nil, Nil:
		switch b.(type) {
		case nil, Nil:
			return true
		}
		return false
	case Bool:
		bv, ok := b.(Bool)
		return ok && a == bv
	case Number:
		bv, ok := b.(Number)
		return ok && a == bv
	case String:
		bv, ok := b.(String)
		return ok && a == bv
	case List:
		bv, ok := b.(List)
		if !ok || len(a) != len(bv) {
			return false
		}
		for i := range a {
			if !Equal(a[i], bv[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// FromLiteral converts a parse-time literal to a value.
func FromLiteral(l *expr.Literal) Value {
	if l.IsString {
		return String(l.Str)
	}
	return Number(l.Num)
}

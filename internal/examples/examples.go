// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package examples holds the example command catalog.
package examples

import (
	_ "embed"
	"strings"
)

//go:embed examples.md
var Markdown string

// Example is one catalog command and the section it is listed under.
type Example struct {
	Group   string
	Command string
}

// All returns the catalog commands in document order. Commands are the
// backquoted text of "- `...`" list items; "## " headings name groups.
func All() []Example {
	var (
		out   []Example
		group string
	)
	for _, line := range strings.Split(Markdown, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "## "):
			group = strings.TrimSpace(strings.TrimPrefix(line, "## "))
		case strings.HasPrefix(line, "- `") && strings.HasSuffix(line, "`"):
			cmd := strings.TrimSuffix(strings.TrimPrefix(line, "- `"), "`")
			out = append(out, Example{Group: group, Command: cmd})
		}
	}
	return out
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"nickandperla.net/clips/internal/config"
	"nickandperla.net/clips/internal/examples"
	"nickandperla.net/clips/pkg/clips"
)

func printBanner(w io.Writer, eol string) {
	fmt.Fprint(w, "clips REPL (Ctrl+D to exit, :help for commands)", eol, eol)
}

const helpText = `:facts     list facts
:rules     list rules
:vars      list variable bindings
:examples  list example commands
:sessions  list stored sessions
:save      save the knowledge base
:load      load the knowledge base
:forget    delete the saved knowledge base
:reset     clear the session
:quit      exit`

func runREPL(sess *clips.Session, cfg config.Config, out io.Writer) {
	printBanner(out, "\n")

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		runBasicREPL(sess, os.Stdin, out, cfg.Prompt)
		return
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	runLineREPL(sess, ln, newHistory(ln, cfg.HistorySize), cfg.Prompt, out)
}

// runScript executes input line by line with no prompt. It reports
// whether any command failed.
func runScript(sess *clips.Session, in io.Reader, out io.Writer) bool {
	failed := false
	readCommands(in, func(cmd string) bool {
		if strings.HasPrefix(strings.TrimSpace(cmd), ";") {
			return true
		}
		handled, quit := runMeta(sess, cmd, out, "\n")
		if handled {
			return !quit
		}
		if printLines(out, sess.Execute(cmd), "\n") {
			failed = true
		}
		return true
	}, nil)
	return failed
}

// runBasicREPL handles non-TTY input.
func runBasicREPL(sess *clips.Session, in io.Reader, out io.Writer, prompt string) {
	readCommands(in, func(cmd string) bool {
		handled, quit := runMeta(sess, cmd, out, "\n")
		if !handled {
			printLines(out, sess.Execute(cmd), "\n")
		}
		return !quit
	}, func(continued bool) {
		if continued {
			fmt.Fprint(out, "... ")
		} else {
			fmt.Fprint(out, prompt)
		}
	})
	fmt.Fprintln(out)
}

// readCommands splits in into commands. A line ending in a backslash
// continues on the next line; blank commands are skipped. Reading stops
// at EOF or when fn returns false.
func readCommands(in io.Reader, fn func(cmd string) bool, prompt func(continued bool)) {
	reader := bufio.NewReader(in)
	var multiline strings.Builder
	inMultiline := false

	for {
		if prompt != nil {
			prompt(inMultiline)
		}
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		line = strings.TrimRight(line, "\r\n")

		if strings.HasSuffix(line, "\\") {
			multiline.WriteString(strings.TrimSuffix(line, "\\"))
			multiline.WriteString("\n")
			inMultiline = true
			continue
		}

		input := line
		if inMultiline {
			multiline.WriteString(line)
			input = multiline.String()
			multiline.Reset()
			inMultiline = false
		}

		if strings.TrimSpace(input) != "" && !fn(input) {
			return
		}
		if err != nil {
			return
		}
	}
}

// prompter reads one edited line. *liner.State implements it.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// readLine reads a command from p, following backslash continuations.
// Ctrl+C abandons the partial command and returns an empty one.
func readLine(p prompter, prompt string) (string, error) {
	var b strings.Builder
	for {
		cur := prompt
		if b.Len() > 0 {
			cur = "... "
		}
		line, err := p.Prompt(cur)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		if strings.HasSuffix(line, "\\") {
			b.WriteString(strings.TrimSuffix(line, "\\"))
			b.WriteString("\n")
			continue
		}
		b.WriteString(line)
		return b.String(), nil
	}
}

// runLineREPL handles TTY input with line editing and history.
func runLineREPL(sess *clips.Session, p prompter, h *history, prompt string, out io.Writer) {
	for {
		input, err := readLine(p, prompt)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintf(out, "Error: %v\n", err)
			}
			fmt.Fprintln(out)
			return
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		h.add(strings.ReplaceAll(input, "\n", " "))

		handled, quit := runMeta(sess, input, out, "\n")
		if quit {
			return
		}
		if !handled {
			printLines(out, sess.Execute(input), "\n")
		}
	}
}

// runMeta handles REPL commands starting with a colon. It reports
// whether line was one and whether the REPL should exit.
func runMeta(sess *clips.Session, line string, out io.Writer, eol string) (handled, quit bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, ":") {
		return false, false
	}
	switch line {
	case ":quit", ":q":
		return true, true
	case ":help":
		printLines(out, strings.Split(helpText, "\n"), eol)
	case ":facts":
		printLines(out, orNone(sess.Facts(), "No facts in the system"), eol)
	case ":rules":
		printLines(out, orNone(sess.Rules(), "No rules in the system"), eol)
	case ":vars":
		printLines(out, orNone(sess.Variables(), "No variables bound"), eol)
	case ":examples":
		group := ""
		for _, ex := range examples.All() {
			if ex.Group != group {
				group = ex.Group
				fmt.Fprint(out, group+":", eol)
			}
			fmt.Fprint(out, "  ", ex.Command, eol)
		}
	case ":sessions":
		names, err := sess.Sessions()
		if err != nil {
			fmt.Fprint(out, "Error: ", err, eol)
			break
		}
		printLines(out, orNone(names, "No stored sessions"), eol)
	case ":save":
		if err := sess.Save(); err != nil {
			fmt.Fprint(out, "Error: ", err, eol)
			break
		}
		fmt.Fprintf(out, "Session %s saved%s", sess.Name(), eol)
	case ":load":
		found, err := sess.Load()
		switch {
		case err != nil:
			fmt.Fprint(out, "Error: ", err, eol)
		case !found:
			fmt.Fprintf(out, "No saved session %s%s", sess.Name(), eol)
		default:
			fmt.Fprintf(out, "Session %s loaded%s", sess.Name(), eol)
		}
	case ":forget":
		if err := sess.Forget(); err != nil {
			fmt.Fprint(out, "Error: ", err, eol)
			break
		}
		fmt.Fprintf(out, "Session %s forgotten%s", sess.Name(), eol)
	case ":reset":
		sess.Clear()
		fmt.Fprint(out, "CLIPS system cleared", eol)
	default:
		fmt.Fprintf(out, "Unknown REPL command: %s (try :help)%s", line, eol)
	}
	return true, false
}

func orNone(lines []string, none string) []string {
	if len(lines) == 0 {
		return []string{none}
	}
	return lines
}

// historyStore is the part of *liner.State that holds history.
type historyStore interface {
	AppendHistory(item string)
	ClearHistory()
}

// history caps the line editor's history at max entries, dropping the
// oldest first. Repeating the previous line is not recorded.
type history struct {
	store   historyStore
	entries []string
	max     int
}

func newHistory(store historyStore, max int) *history {
	return &history{store: store, max: max}
}

func (h *history) add(line string) {
	if h.max <= 0 {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return
	}
	h.entries = append(h.entries, line)
	if len(h.entries) <= h.max {
		h.store.AppendHistory(line)
		return
	}
	h.entries = h.entries[len(h.entries)-h.max:]
	h.store.ClearHistory()
	for _, e := range h.entries {
		h.store.AppendHistory(e)
	}
}

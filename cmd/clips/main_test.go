// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestEvalFlag(t *testing.T) {
	out, errOut, code := runCLI(t, "", "-store", "memory", "-e", "(+ 3 3)")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, errOut)
	}
	if out != "6\n" {
		t.Errorf("output = %q, want %q", out, "6\n")
	}
}

func TestEvalFlagError(t *testing.T) {
	out, _, code := runCLI(t, "", "-store", "memory", "-e", "(/ 10 0)")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if out != "Error: Division by zero\n" {
		t.Errorf("output = %q", out)
	}
}

func TestScriptFromStdin(t *testing.T) {
	script := `; comment lines are skipped
(bind ?x 10)
(assert (person (name "John")))
(printout t "x is " ?x)
(if (> ?x 5) \
    then (printout t "big") \
    else (printout t "small"))
(facts)
`
	out, errOut, code := runCLI(t, script, "-store", "memory")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, errOut)
	}
	want := "10\nf-1\nx is 10\nbig\nFacts:\nf-1: (person (name \"John\"))\n"
	if out != want {
		t.Errorf("output =\n%s\nwant\n%s", out, want)
	}
}

func TestFileFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.clp")
	content := "(defrule r1 (a) => (b))\n(run)\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, errOut, code := runCLI(t, "", "-store", "memory", "-f", path)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, errOut)
	}
	want := "Rule 'r1' defined\nExecuting rules:\nActivated rule: r1\nRun complete. 1 rule(s) activated.\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestMissingFile(t *testing.T) {
	_, errOut, code := runCLI(t, "", "-store", "memory", "-f", filepath.Join(t.TempDir(), "nope.clp"))
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut, "Error loading file") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestPersistAlwaysAcrossRuns(t *testing.T) {
	for _, kind := range []string{"sqlite", "bolt"} {
		t.Run(kind, func(t *testing.T) {
			db := filepath.Join(t.TempDir(), "clips."+kind)
			args := []string{"-store", kind, "-db", db, "-persist-mode", "always"}

			if _, errOut, code := runCLI(t, "", append(args, "-e", "(assert (color red))")...); code != 0 {
				t.Fatalf("first run: exit %d, stderr: %s", code, errOut)
			}
			out, errOut, code := runCLI(t, "", append(args, "-e", "(facts)")...)
			if code != 0 {
				t.Fatalf("second run: exit %d, stderr: %s", code, errOut)
			}
			if out != "Facts:\nf-1: (color red)\n" {
				t.Errorf("second run output = %q", out)
			}
		})
	}
}

func TestOnDemandDoesNotPersist(t *testing.T) {
	db := filepath.Join(t.TempDir(), "clips.db")
	args := []string{"-store", "sqlite", "-db", db}
	runCLI(t, "", append(args, "-e", "(assert (a))")...)
	out, _, _ := runCLI(t, "", append(args, "-e", "(facts)")...)
	if out != "No facts in the system\n" {
		t.Errorf("output = %q", out)
	}
}

func TestSaveAndLoadMetaCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "clips.db")
	args := []string{"-store", "sqlite", "-db", db, "-session", "work"}

	out, _, code := runCLI(t, "(assert (a))\n:save\n", args...)
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if out != "f-1\nSession work saved\n" {
		t.Errorf("save output = %q", out)
	}

	out, _, _ = runCLI(t, ":load\n(assert (b))\n:facts\n:sessions\n", args...)
	want := "Session work loaded\nf-2\nf-1: (a)\nf-2: (b)\nwork\n"
	if out != want {
		t.Errorf("load output = %q, want %q", out, want)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clips.yaml")
	cfg := "store: memory\nprelude: (bind ?greeting \"hello\")\n"
	if err := os.WriteFile(path, []byte(cfg), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, errOut, code := runCLI(t, "", "-config", path, "-e", "?greeting")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, errOut)
	}
	if out != "hello\n" {
		t.Errorf("output = %q", out)
	}

	out, _, _ = runCLI(t, "", "-config", path, "-no-prelude", "-e", "?greeting")
	if out != "Error: Variable not defined: ?greeting\n" {
		t.Errorf("no-prelude output = %q", out)
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clips.yaml")
	if err := os.WriteFile(path, []byte("store: bogus\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, code := runCLI(t, "", "-config", path, "-e", "(+ 1 1)"); code != 1 {
		t.Errorf("invalid config: exit code = %d, want 1", code)
	}

	if err := os.WriteFile(path, []byte("store: sqlite\npersist_mode: never\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, errOut, code := runCLI(t, "", "-config", path, "-store", "memory", "-e", "(+ 1 1)")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, errOut)
	}
	if out != "2\n" {
		t.Errorf("output = %q", out)
	}
}

func TestBadPersistModeFlag(t *testing.T) {
	_, errOut, code := runCLI(t, "", "-store", "memory", "-persist-mode", "sometimes", "-e", "(+ 1 1)")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut, "unknown persist mode") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestForgetMetaCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "clips.db")
	args := []string{"-store", "bolt", "-db", db, "-session", "scratch"}

	runCLI(t, "(assert (a))\n:save\n", args...)
	out, _, _ := runCLI(t, ":sessions\n:forget\n:sessions\n:load\n", args...)
	want := "scratch\nSession scratch forgotten\nNo stored sessions\nNo saved session scratch\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

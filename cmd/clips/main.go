// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Command clips is the clips command interpreter CLI.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"nickandperla.net/clips/internal/config"
	"nickandperla.net/clips/internal/server"
	"nickandperla.net/clips/internal/store"
	"nickandperla.net/clips/pkg/clips"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("clips", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		evalStr     = fs.String("e", "", "Execute a command string")
		file        = fs.String("f", "", "Execute commands from a file")
		cfgPath     = fs.String("config", "", "YAML configuration file")
		storeKind   = fs.String("store", "", "Store: memory, sqlite or bolt")
		dbPath      = fs.String("db", "", "Database path for sqlite or bolt")
		session     = fs.String("session", "", "Session name to save and load under")
		persistMode = fs.String("persist-mode", "", "Persistence mode: on_demand, always, or never")
		serve       = fs.Bool("serve", false, "Serve the WebSocket interface instead of running a REPL")
		listen      = fs.String("listen", "", "Listen address for -serve")
		debug       = fs.Bool("debug", false, "Log every command")
		noPrelude   = fs.Bool("no-prelude", false, "Skip the configured prelude")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			fmt.Fprintf(stderr, "Error loading config: %v\n", err)
			return 1
		}
	}

	// Explicit flags override the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "store":
			cfg.Store = *storeKind
		case "db":
			cfg.DB = *dbPath
		case "session":
			cfg.Session = *session
		case "persist-mode":
			cfg.PersistMode = *persistMode
		case "listen":
			cfg.Listen = *listen
		case "debug":
			cfg.Debug = *debug
		}
	})
	if *noPrelude {
		cfg.Prelude = ""
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	mode, _ := clips.ParsePersistMode(cfg.PersistMode)

	logger := log.New(stderr, "", log.LstdFlags)

	st, err := store.Open(cfg.Store, cfg.DB)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening store: %v\n", err)
		return 1
	}
	defer st.Close()

	newSession := func(name string) *clips.Session {
		return clips.New(
			clips.WithStore(st),
			clips.WithSessionName(name),
			clips.WithPersistMode(mode),
			clips.WithPrelude(cfg.Prelude),
			clips.WithLogger(logger),
			clips.WithDebug(cfg.Debug),
		)
	}

	if *serve {
		srv := server.New(newSession, logger)
		logger.Printf("listening on %s", cfg.Listen)
		if err := http.ListenAndServe(cfg.Listen, srv.Handler()); err != nil {
			logger.Printf("serve: %v", err)
			return 1
		}
		return 0
	}

	sess := newSession(cfg.Session)
	defer sess.Close()

	failed := false
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading file: %v\n", err)
			return 1
		}
		failed = runScript(sess, f, stdout)
		f.Close()
	}

	if *evalStr != "" {
		if printLines(stdout, sess.Execute(*evalStr), "\n") {
			failed = true
		}
	}

	switch {
	case *file != "" || *evalStr != "":
	case !isTerminal(stdin):
		failed = runScript(sess, stdin, stdout)
	default:
		runREPL(sess, cfg, stdout)
	}

	if failed {
		return 1
	}
	return 0
}

// printLines writes each line followed by eol and reports whether any
// line was an error.
func printLines(w io.Writer, lines []string, eol string) bool {
	failed := false
	for _, line := range lines {
		if strings.HasPrefix(line, "Error: ") {
			failed = true
		}
		fmt.Fprint(w, line, eol)
	}
	return failed
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package config loads clips CLI configuration from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config holds the settings the CLI accepts from a file. Command-line
// flags that are set explicitly take precedence.
type Config struct {
	Store       string `yaml:"store"`        // memory, sqlite or bolt
	DB          string `yaml:"db"`           // database path for sqlite/bolt
	Session     string `yaml:"session"`      // snapshot key
	PersistMode string `yaml:"persist_mode"` // on_demand, always or never
	Listen      string `yaml:"listen"`       // address for -serve
	Prompt      string `yaml:"prompt"`
	HistorySize int    `yaml:"history_size"`
	Prelude     string `yaml:"prelude"` // commands run at session start
	Debug       bool   `yaml:"debug"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Store:       "sqlite",
		DB:          "clips.db",
		Session:     "default",
		PersistMode: "on_demand",
		Listen:      "localhost:8080",
		Prompt:      "CLIPS> ",
		HistorySize: 100,
	}
}

// Load reads path over the defaults. A missing file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	switch c.Store {
	case "memory", "sqlite", "bolt":
	default:
		return fmt.Errorf("unknown store: %s (use memory, sqlite or bolt)", c.Store)
	}
	switch c.PersistMode {
	case "on_demand", "always", "never":
	default:
		return fmt.Errorf("unknown persist mode: %s (use on_demand, always, or never)", c.PersistMode)
	}
	if c.HistorySize < 0 {
		return fmt.Errorf("history_size must not be negative")
	}
	return nil
}

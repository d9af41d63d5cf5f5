package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds prompt-mode preferences, loaded from ~/.golox.toml when the
// file exists.
type Config struct {
	Prompt  string `toml:"prompt"`
	History string `toml:"history"` // relative paths resolve under $HOME
	Color   bool   `toml:"color"`
}

// DefaultConfig returns the built-in preferences.
func DefaultConfig() *Config {
	return &Config{
		Prompt:  "> ",
		History: ".golox_history",
		Color:   true,
	}
}

// LoadConfig reads ~/.golox.toml, falling back to defaults when the file is
// missing or unreadable. Fields left out of the file keep their defaults.
func LoadConfig() *Config {
	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg
	}
	path := filepath.Join(home, ".golox.toml")
	if _, err := os.Stat(path); err != nil {
		return cfg
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return DefaultConfig()
	}
	if cfg.Prompt == "" {
		cfg.Prompt = "> "
	}
	if cfg.History == "" {
		cfg.History = ".golox_history"
	}
	return cfg
}

// Package config handles lox.toml interpreter configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "lox.toml"

// Config represents a lox.toml configuration.
type Config struct {
	REPL  REPL  `toml:"repl"`
	Debug Debug `toml:"debug"`
	Log   Log   `toml:"log"`

	// Path is the file the configuration was read from (set at load time).
	Path string `toml:"-"`
}

// REPL configures the interactive loop.
type REPL struct {
	Prompt string `toml:"prompt"`
}

// Debug toggles compiler and VM introspection output.
type Debug struct {
	Trace       bool `toml:"trace"`
	Disassemble bool `toml:"disassemble"`
	Tokens      bool `toml:"tokens"`
}

// Log configures the commonlog backend.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Default returns the configuration used when no lox.toml exists.
func Default() *Config {
	return &Config{
		REPL: REPL{Prompt: "> "},
	}
}

// Load parses the configuration file at path on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	cfg.Path = abs
	return cfg, nil
}

// FindAndLoad walks up from startDir looking for lox.toml. It returns
// the defaults when no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// Package config holds all deckhand configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all deckhand configuration. Durations are written as strings
// ("30s", "3m") and validated on load.
type Config struct {
	// Store configuration
	Store StoreConfig `yaml:"store"`

	// Render script configuration
	Scripts ScriptConfig `yaml:"scripts"`

	// Lookup / disambiguation configuration
	Lookup LookupConfig `yaml:"lookup"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig configures the SQLite card store.
type StoreConfig struct {
	// Path to the cards database. The file must already exist and be
	// populated (see `deckhand import`).
	Path string `yaml:"path"`

	// Connection pool cap. The store is a shared, bounded resource.
	MaxConnections int `yaml:"max_connections"`

	// Upper bound on candidates fetched per prefix query.
	CandidateLimit int `yaml:"candidate_limit"`
}

// ScriptConfig configures the render script engine.
type ScriptConfig struct {
	// Directory holding one render script per game.
	Dir string `yaml:"dir"`

	// Wall-clock bound on a single script invocation. "0" disables the
	// bound; a misbehaving script then holds its worker until shutdown.
	Timeout string `yaml:"timeout"`
}

// LookupConfig configures resolution and disambiguation.
type LookupConfig struct {
	// How long an interactive disambiguation prompt waits for a selection.
	ChoiceTimeout string `yaml:"choice_timeout"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Debug bool `yaml:"debug"`
	JSON  bool `yaml:"json"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path:           "data/cards.sqlite",
			MaxConnections: 5,
			CandidateLimit: 10,
		},
		Scripts: ScriptConfig{
			Dir:     "games",
			Timeout: "30s",
		},
		Lookup: LookupConfig{
			ChoiceTimeout: "180s",
		},
	}
}

// Load reads the YAML config at path, falling back to defaults when the file
// does not exist, then applies environment overrides and validates.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ScriptTimeout returns the parsed script invocation bound. Load has already
// validated the string form.
func (c *Config) ScriptTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Scripts.Timeout)
	return d
}

// ChoiceTimeout returns the parsed disambiguation wait bound.
func (c *Config) ChoiceTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Lookup.ChoiceTimeout)
	return d
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DECKHAND_DB"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("DECKHAND_SCRIPTS"); v != "" {
		c.Scripts.Dir = v
	}
	if v := os.Getenv("DECKHAND_DEBUG"); v != "" {
		c.Logging.Debug = v == "1" || v == "true"
	}
}

func (c *Config) validate() error {
	if c.Store.MaxConnections <= 0 {
		return fmt.Errorf("store.max_connections must be positive, got %d", c.Store.MaxConnections)
	}
	if c.Store.CandidateLimit <= 0 {
		return fmt.Errorf("store.candidate_limit must be positive, got %d", c.Store.CandidateLimit)
	}
	scriptTimeout, err := time.ParseDuration(c.Scripts.Timeout)
	if err != nil {
		return fmt.Errorf("scripts.timeout: %w", err)
	}
	if scriptTimeout < 0 {
		return fmt.Errorf("scripts.timeout must not be negative, got %s", scriptTimeout)
	}
	choiceTimeout, err := time.ParseDuration(c.Lookup.ChoiceTimeout)
	if err != nil {
		return fmt.Errorf("lookup.choice_timeout: %w", err)
	}
	if choiceTimeout <= 0 {
		return fmt.Errorf("lookup.choice_timeout must be positive, got %s", choiceTimeout)
	}
	return nil
}

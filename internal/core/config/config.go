// Package config handles configuration loading and validation for worklog.
package config

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Theme    string         `yaml:"theme"`
	Database DatabaseConfig `yaml:"database"`
	Rules    []Rule         `yaml:"rules"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// DatabaseConfig holds SQLite connection tuning.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// Rule supplies per-repository creation defaults. Pattern is a glob matched
// against the repository remote (for example "github.com/acme/*"); the first
// matching rule wins.
type Rule struct {
	Pattern      string `yaml:"pattern"`
	Kind         string `yaml:"kind"`          // default kind for new items
	InitialState string `yaml:"initial_state"` // default creation state
}

// Matches reports whether the rule's pattern matches the given remote.
// An empty pattern matches nothing.
func (r Rule) Matches(remote string) bool {
	if r.Pattern == "" {
		return false
	}
	ok, err := doublestar.Match(r.Pattern, remote)
	return err == nil && ok
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Theme: "tokyo-night",
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5000,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// RuleFor returns the first rule whose pattern matches the remote.
func (c *Config) RuleFor(remote string) (Rule, bool) {
	for _, rule := range c.Rules {
		if rule.Matches(remote) {
			return rule, true
		}
	}
	return Rule{}, false
}

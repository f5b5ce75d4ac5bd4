package config

import (
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/toml"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// Default values.
const (
	DefaultTickInterval = "250ms"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// Config holds the full configuration for todotui.
type Config struct {
	// Home is the directory holding .todo_tui. Empty when unresolved.
	Home string `toml:"-"`

	// Control loop refresh interval, as a Go duration string.
	Tick         string        `toml:"tick_interval"`
	TickInterval time.Duration `toml:"-"`

	// Create .todo_tui on save when it does not exist yet.
	CreateDir bool `toml:"create_dir"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	LogFile       string `toml:"log_file"`

	// File is the config file that was loaded, if any.
	File string `toml:"-"`
	// Sources records where each key's value came from.
	Sources map[string]ConfigSource `toml:"-"`
	// Warnings collects non-fatal problems such as unknown keys.
	Warnings []string `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"home",
		"tick_interval",
		"create_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"log_file",
	}
}

// Source returns where the value of key came from.
func (c *Config) Source(key string) ConfigSource {
	if src, ok := c.Sources[key]; ok {
		return src
	}
	return SourceDefault
}

// WriteTOML writes the persisted fields of the config as TOML.
func (c *Config) WriteTOML(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

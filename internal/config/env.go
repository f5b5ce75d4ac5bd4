package config

import (
	"os"
	"strings"
)

// resolveHome sets cfg.Home from --home, falling back to $HOME.
func resolveHome(cfg *Config, flags *flagValues) {
	if flags.set["home"] {
		cfg.Home = flags.home
		cfg.Sources["home"] = SourceFlag
		return
	}
	if v, ok := os.LookupEnv("HOME"); ok && v != "" {
		cfg.Home = v
		cfg.Sources["home"] = SourceEnv
	}
}

// loadFromEnv overrides config from TODO_TUI_* environment variables.
func loadFromEnv(cfg *Config) {
	setEnv := func(field string) {
		cfg.Sources[field] = SourceEnv
	}

	if v := os.Getenv("TODO_TUI_TICK"); v != "" {
		cfg.Tick = v
		setEnv("tick_interval")
	}
	if v := os.Getenv("TODO_TUI_CREATE_DIR"); v != "" {
		cfg.CreateDir = boolFromString(v)
		setEnv("create_dir")
	}
	if v := os.Getenv("TODO_TUI_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		setEnv("log_level")
	}
	if v := os.Getenv("TODO_TUI_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		setEnv("log_format")
	}
	if v := os.Getenv("TODO_TUI_LOG_FILE"); v != "" {
		cfg.LogFile = v
		setEnv("log_file")
	}
}

func boolFromString(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

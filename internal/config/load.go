package config

import (
	"flag"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.todo_tui/config.toml or OS-specific config dir)
// 3. Environment variables
// 4. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{Sources: make(map[string]ConfigSource)}

	// 1. Set defaults
	setDefaults(cfg)

	// Flags are parsed up front so --home can pick the user config file,
	// but they are applied last.
	flags, err := parseFlags(fs, args)
	if err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	resolveHome(cfg, flags)

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(cfg.Home); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	// 3. Override from environment
	loadFromEnv(cfg)

	// 4. CLI flags override everything
	flags.apply(cfg)

	// 5. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cfg, nil
}

// loadConfigFile decodes TOML from path on top of cfg and records which
// keys the file set.
func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}

	cfg.File = path
	for _, field := range configFields() {
		if md.IsDefined(field) {
			cfg.Sources[field] = SourceUserFile
		}
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("%s: unknown keys: %s", path, strings.Join(keys, ", ")))
	}
	return nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.Tick = DefaultTickInterval
	cfg.CreateDir = false
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false
	cfg.LogFile = ""

	if cfg.Sources == nil {
		cfg.Sources = make(map[string]ConfigSource)
	}
	for _, field := range configFields() {
		cfg.Sources[field] = SourceDefault
	}
}

// finalizeConfig computes derived values and validates settings.
func finalizeConfig(cfg *Config) error {
	tick, err := time.ParseDuration(strings.TrimSpace(cfg.Tick))
	if err != nil {
		return fmt.Errorf("invalid tick_interval %q: %w", cfg.Tick, err)
	}
	if tick <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", cfg.Tick)
	}
	cfg.TickInterval = tick

	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	switch cfg.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log_format %q (expected text, json or logfmt)", cfg.LogFormat)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFile = expandPath(cfg.LogFile, cfg.Home)

	return nil
}

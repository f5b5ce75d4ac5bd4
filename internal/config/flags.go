package config

import "flag"

// flagValues holds parsed global flags until they are applied.
type flagValues struct {
	home          string
	tick          string
	createDir     bool
	logLevel      string
	logFormat     string
	logFile       string
	logTimestamps bool
	logCaller     bool

	set map[string]bool
}

// flagToSource maps flag names to config keys.
var flagToSource = map[string]string{
	"home":           "home",
	"tick":           "tick_interval",
	"create-dir":     "create_dir",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-file":       "log_file",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines and parses the global CLI flags.
func parseFlags(fs *flag.FlagSet, args []string) (*flagValues, error) {
	if fs == nil {
		fs = flag.NewFlagSet("todotui", flag.ContinueOnError)
	}

	v := &flagValues{set: make(map[string]bool)}
	fs.StringVar(&v.home, "home", "", "Home directory holding .todo_tui (default $HOME)")
	fs.StringVar(&v.tick, "tick", DefaultTickInterval, "UI refresh interval")
	fs.BoolVar(&v.createDir, "create-dir", false, "Create ~/.todo_tui on save if missing")
	fs.StringVar(&v.logLevel, "log-level", DefaultLogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&v.logFormat, "log-format", DefaultLogFormat, "Log format (text, json, logfmt)")
	fs.StringVar(&v.logFile, "log-file", "", "Write logs to this file")
	fs.BoolVar(&v.logTimestamps, "log-timestamps", false, "Show timestamps in logs")
	fs.BoolVar(&v.logCaller, "log-caller", false, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		v.set[f.Name] = true
	})
	return v, nil
}

// apply copies explicitly set flags onto cfg.
func (v *flagValues) apply(cfg *Config) {
	for name := range v.set {
		if field, ok := flagToSource[name]; ok {
			cfg.Sources[field] = SourceFlag
		}
	}

	if v.set["tick"] {
		cfg.Tick = v.tick
	}
	if v.set["create-dir"] {
		cfg.CreateDir = v.createDir
	}
	if v.set["log-level"] {
		cfg.LogLevel = v.logLevel
	}
	if v.set["log-format"] {
		cfg.LogFormat = v.logFormat
	}
	if v.set["log-file"] {
		cfg.LogFile = v.logFile
	}
	if v.set["log-timestamps"] {
		cfg.LogTimestamps = v.logTimestamps
	}
	if v.set["log-caller"] {
		cfg.LogCaller = v.logCaller
	}
}

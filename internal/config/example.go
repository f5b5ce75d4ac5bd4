package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todotui configuration file
# Place at ~/.todo_tui/config.toml. Values can be overridden by
# TODO_TUI_* environment variables or CLI flags.

# How often the item list is refreshed (Go duration)
tick_interval = "250ms"

# Create ~/.todo_tui on save when it does not exist.
# Off by default: saving fails until the directory exists.
create_dir = false

# Logging
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false

# Log file (supports ~). Empty discards logs while the TUI is running.
# log_file = "~/todotui.log"
`
}

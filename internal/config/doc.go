// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.todo_tui/config.toml or OS-specific config directory)
// 3. Environment variables (TODO_TUI_*)
// 4. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// The home directory is resolved first, from --home or $HOME, because the
// items file and the user config file both live under it. When neither is
// set Home stays empty and persistence reports the home as unresolved.
//
// User-level config locations:
// - ~/.todo_tui/config.toml (preferred)
// - Windows: %APPDATA%\todo_tui\config.toml
// - macOS: ~/Library/Application Support/todo_tui/config.toml
// - Linux/BSD: $XDG_CONFIG_HOME/todo_tui/config.toml or ~/.config/todo_tui/config.toml
package config

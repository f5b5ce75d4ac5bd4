package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/nibzard/todo-tui/internal/tododir"
)

// findUserConfigFile looks for a user-level config file.
// Checks ~/.todo_tui/config.toml first, then falls back to OS-specific
// config directories.
func findUserConfigFile(home string) string {
	if home != "" {
		userConfigPath := tododir.ConfigPath(home)
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	if cfgDir := osUserConfigDir(home); cfgDir != "" {
		userConfigPath := filepath.Join(cfgDir, "todo_tui", tododir.DefaultConfigFile)
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir(home string) string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		if home != "" {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		if home != "" {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// expandPath expands ~ against home and environment variables in p.
// A leading ~ is left alone when home is empty.
func expandPath(p, home string) string {
	if p == "" {
		return p
	}

	expanded := os.ExpandEnv(p)
	if home == "" {
		return expanded
	}
	if expanded == "~" {
		return home
	}
	if strings.HasPrefix(expanded, "~/") || (runtime.GOOS == "windows" && strings.HasPrefix(expanded, "~\\")) {
		return filepath.Join(home, expanded[2:])
	}
	return expanded
}

// Package tododir provides constants and utilities for the .todo_tui directory structure.
package tododir

import "path/filepath"

const (
	// Dir is the name of the state directory inside the home directory.
	Dir = ".todo_tui"

	// DefaultItemsFile is the items file name (inside .todo_tui).
	DefaultItemsFile = "items.json"

	// DefaultConfigFile is the user config file name (inside .todo_tui).
	DefaultConfigFile = "config.toml"
)

// ItemsPath returns the full path to the items file under home.
// It returns an empty string when home is empty.
func ItemsPath(home string) string {
	return joinPath(home, DefaultItemsFile)
}

// ConfigPath returns the full path to the user config file under home.
func ConfigPath(home string) string {
	return joinPath(home, DefaultConfigFile)
}

// DirPath returns the full path to the .todo_tui directory under home.
func DirPath(home string) string {
	if home == "" {
		return ""
	}
	return filepath.Join(home, Dir)
}

func joinPath(home, file string) string {
	if home == "" {
		return ""
	}
	return filepath.Join(home, Dir, file)
}

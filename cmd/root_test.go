// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/todo-tui/internal/todo"
)

// isolateEnv gives the test its own HOME containing .todo_tui and clears
// TODO_TUI_* overrides.
func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range []string{
		"TODO_TUI_TICK",
		"TODO_TUI_CREATE_DIR",
		"TODO_TUI_LOG_LEVEL",
		"TODO_TUI_LOG_FORMAT",
		"TODO_TUI_LOG_FILE",
	} {
		t.Setenv(key, "")
	}
	if err := os.Mkdir(filepath.Join(home, ".todo_tui"), 0755); err != nil {
		t.Fatal(err)
	}
	return home
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, errOut, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("%v: %v\nstderr: %s", args, err, errOut)
	}
	return out
}

func itemsFile(home string) string {
	return filepath.Join(home, ".todo_tui", "items.json")
}

func TestRun(t *testing.T) {
	isolateEnv(t)

	for _, args := range [][]string{{"--help"}, {"-h"}, {"help"}} {
		out := mustRun(t, args...)
		if !strings.Contains(out, "Usage:") {
			t.Errorf("%v: missing usage:\n%s", args, out)
		}
	}

	for _, args := range [][]string{{"--version"}, {"-v"}, {"version"}} {
		out := mustRun(t, args...)
		if !strings.Contains(out, "todotui version dev") {
			t.Errorf("%v: got %q", args, out)
		}
	}

	t.Run("unknown command returns error", func(t *testing.T) {
		_, errOut, err := runCLI(t, "unknown-command")
		if err == nil || !strings.Contains(err.Error(), "unknown command") {
			t.Errorf("expected unknown command error, got %v", err)
		}
		if !strings.Contains(errOut, "Unknown command: unknown-command") {
			t.Errorf("stderr: %s", errOut)
		}
	})

	t.Run("bad flag returns error", func(t *testing.T) {
		if _, _, err := runCLI(t, "--no-such-flag"); err == nil {
			t.Error("expected error for unknown flag")
		}
	})
}

func TestItemCommands(t *testing.T) {
	home := isolateEnv(t)

	if out := mustRun(t, "ls"); !strings.Contains(out, "No items.") {
		t.Errorf("ls on empty: %q", out)
	}

	if out := mustRun(t, "add", "Buy", "milk"); !strings.Contains(out, `Added "Buy milk" as #0`) {
		t.Errorf("add: %q", out)
	}
	mustRun(t, "add", "Walk dog")
	if out := mustRun(t, "sub", "0", "Oat milk"); !strings.Contains(out, `under #0`) {
		t.Errorf("sub: %q", out)
	}

	want := "  0. [ ] Buy milk\n     - [ ] Oat milk\n  1. [ ] Walk dog\n"
	if out := mustRun(t, "ls"); out != want {
		t.Errorf("ls:\ngot:\n%s\nwant:\n%s", out, want)
	}

	mustRun(t, "done", "0")
	want = "  0. [x] Buy milk\n     - [x] Oat milk\n  1. [ ] Walk dog\n"
	if out := mustRun(t, "ls"); out != want {
		t.Errorf("ls after done:\ngot:\n%s\nwant:\n%s", out, want)
	}
	if out := mustRun(t, "ls", "-pending"); out != "  1. [ ] Walk dog\n" {
		t.Errorf("ls -pending: %q", out)
	}

	mustRun(t, "undo", "0")
	if out := mustRun(t, "ls"); strings.Contains(out, "[x]") {
		t.Errorf("undo did not cascade:\n%s", out)
	}

	if out := mustRun(t, "rm", "0"); !strings.Contains(out, `Removed "Buy milk"`) {
		t.Errorf("rm: %q", out)
	}

	store := todo.NewStore(home)
	if err := store.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if store.Len() != 1 || store.Items()[0].Title() != "Walk dog" {
		t.Errorf("saved items: len=%d", store.Len())
	}
}

func TestItemCommandErrors(t *testing.T) {
	isolateEnv(t)
	mustRun(t, "add", "Only")

	tests := []struct {
		name string
		args []string
		is   error
		msg  string
	}{
		{"rm out of range", []string{"rm", "3"}, todo.ErrIndexOutOfRange, ""},
		{"rm negative", []string{"rm", "-1"}, todo.ErrIndexOutOfRange, ""},
		{"done out of range", []string{"done", "1"}, todo.ErrIndexOutOfRange, ""},
		{"sub out of range", []string{"sub", "5", "child"}, todo.ErrIndexOutOfRange, ""},
		{"rm bad index", []string{"rm", "first"}, nil, "invalid index"},
		{"rm no index", []string{"rm"}, nil, "exactly one item index"},
		{"add empty", []string{"add", "  "}, nil, "title cannot be empty"},
		{"sub missing title", []string{"sub", "0"}, nil, "usage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("expected %v, got %v", tt.is, err)
			}
			if tt.msg != "" && !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("expected %q in %v", tt.msg, err)
			}
		})
	}

	if out := mustRun(t, "ls"); out != "  0. [ ] Only\n" {
		t.Errorf("failed commands changed items: %q", out)
	}
}

func TestCorruptFileIsNotOverwritten(t *testing.T) {
	home := isolateEnv(t)
	corrupt := []byte(`[{"title":"x"}]`)
	if err := os.WriteFile(itemsFile(home), corrupt, 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := runCLI(t, "add", "New")
	var de *todo.DeserializeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DeserializeError, got %v", err)
	}

	data, err := os.ReadFile(itemsFile(home))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, corrupt) {
		t.Errorf("file was rewritten: %s", data)
	}
}

func TestMissingStateDirectory(t *testing.T) {
	home := t.TempDir()
	isolateEnv(t)

	_, _, err := runCLI(t, "--home", home, "add", "First")
	var ioErr *todo.IOError
	if !errors.As(err, &ioErr) || ioErr.Op != "write" {
		t.Fatalf("expected write IOError, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".todo_tui")); !os.IsNotExist(err) {
		t.Error("state directory was created without create-dir")
	}

	mustRun(t, "--home", home, "--create-dir", "add", "First")
	if _, err := os.Stat(itemsFile(home)); err != nil {
		t.Errorf("items file not written: %v", err)
	}
}

func TestHomeUnresolved(t *testing.T) {
	isolateEnv(t)
	t.Setenv("HOME", "")

	_, _, err := runCLI(t, "add", "First")
	if !errors.Is(err, todo.ErrHomeUnresolved) {
		t.Errorf("add: expected ErrHomeUnresolved, got %v", err)
	}

	out, _, err := runCLI(t, "doctor")
	if err == nil {
		t.Error("doctor: expected error")
	}
	if !strings.Contains(out, "HOME is not set") {
		t.Errorf("doctor output:\n%s", out)
	}
}

func TestDoctorCommand(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		isolateEnv(t)
		mustRun(t, "add", "First")
		mustRun(t, "sub", "0", "Child")

		out := mustRun(t, "doctor", "-v")
		for _, want := range []string{"✅ Valid", "1 root, 2 total", "All checks passed."} {
			if !strings.Contains(out, want) {
				t.Errorf("missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("missing file is fine", func(t *testing.T) {
		isolateEnv(t)
		out := mustRun(t, "doctor")
		if !strings.Contains(out, "Not found (nothing saved yet)") {
			t.Errorf("output:\n%s", out)
		}
	})

	t.Run("invalid file", func(t *testing.T) {
		home := isolateEnv(t)
		data := `[{"title":"a","completed":"no","sub_items":[]},{"title":"b","completed":false}]`
		if err := os.WriteFile(itemsFile(home), []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
		out, _, err := runCLI(t, "doctor")
		if err == nil {
			t.Error("expected error")
		}
		if !strings.Contains(out, "Validation failed") {
			t.Errorf("output:\n%s", out)
		}
		if !strings.Contains(out, "[0].completed") || !strings.Contains(out, "[1]") {
			t.Errorf("expected both problems reported:\n%s", out)
		}
	})
}

func TestConfigCommand(t *testing.T) {
	home := isolateEnv(t)
	t.Setenv("TODO_TUI_TICK", "1s")

	out := mustRun(t, "config", "-sources")
	for _, want := range []string{
		`tick_interval = "1s"`,
		"# tick_interval: environment",
		"# log_level: default",
		filepath.Join(home, ".todo_tui", "items.json"),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}

	if out := mustRun(t, "config", "-example"); !strings.Contains(out, "tick_interval") {
		t.Errorf("example:\n%s", out)
	}
}

func TestConfigWarningsArePrinted(t *testing.T) {
	home := isolateEnv(t)
	path := filepath.Join(home, ".todo_tui", "config.toml")
	if err := os.WriteFile(path, []byte("colour = \"blue\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, errOut, err := runCLI(t, "ls")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(errOut, "unknown keys: colour") {
		t.Errorf("stderr: %s", errOut)
	}
}

func TestTailCommand(t *testing.T) {
	home := isolateEnv(t)

	if out := mustRun(t, "tail"); !strings.Contains(out, "No log file configured") {
		t.Errorf("tail without log file: %q", out)
	}

	logFile := filepath.Join(home, "logs", "todotui.log")
	if out := mustRun(t, "--log-file", logFile, "tail"); !strings.Contains(out, "does not exist yet") {
		t.Errorf("tail before logging: %q", out)
	}

	mustRun(t, "--log-file", logFile, "add", "First")
	mustRun(t, "--log-file", logFile, "add", "Second")

	out := mustRun(t, "--log-file", logFile, "tail", "-n", "1")
	if strings.Count(out, "\n") != 1 || !strings.Contains(out, "saved items") {
		t.Errorf("tail -n 1: %q", out)
	}
	if !strings.Contains(out, "count=2") {
		t.Errorf("expected last save in tail: %q", out)
	}
}

func TestCLILogsGoToStderr(t *testing.T) {
	isolateEnv(t)
	out, errOut, err := runCLI(t, "--log-level", "debug", "add", "First")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "saved items") {
		t.Errorf("log line on stdout: %q", out)
	}
	if !strings.Contains(errOut, "saved items") {
		t.Errorf("stderr: %q", errOut)
	}
}

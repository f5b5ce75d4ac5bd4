// Package cmd implements the CLI command structure for todotui.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-tui/internal/config"
	"github.com/nibzard/todo-tui/internal/logging"
	"github.com/nibzard/todo-tui/internal/todo"
	"github.com/nibzard/todo-tui/internal/tododir"
	"github.com/nibzard/todo-tui/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the todotui CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

// cli carries what every subcommand needs.
type cli struct {
	cfg    *config.Config
	store  *todo.Store
	logger *log.Logger
	out    io.Writer
	errOut io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todotui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}
	for _, w := range cfg.Warnings {
		fmt.Fprintf(stderr, "warning: %s\n", w)
	}

	// Determine the subcommand; "tui" when none is given
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	c := &cli{cfg: cfg, out: stdout, errOut: stderr}

	// Commands that never touch the store
	switch subcommand {
	case "version":
		return versionCommand(stdout)
	case "help":
		printUsage(fs, stdout)
		return nil
	case "config":
		return c.configCommand(remainingArgs)
	case "tail":
		return c.tailCommand(ctx, remainingArgs)
	}

	logOut := stderr
	if subcommand == "tui" {
		logOut = io.Discard
	}
	closeLog, err := c.setupLogger(logOut)
	if err != nil {
		return err
	}
	defer closeLog()

	c.store = todo.NewStore(cfg.Home,
		todo.WithCreateDir(cfg.CreateDir),
		todo.WithLogger(c.logger),
	)

	// Execute the subcommand
	switch subcommand {
	case "tui":
		return c.tuiCommand(ctx, remainingArgs)
	case "ls":
		return c.lsCommand(remainingArgs)
	case "add":
		return c.addCommand(remainingArgs)
	case "sub":
		return c.subCommand(remainingArgs)
	case "rm":
		return c.rmCommand(remainingArgs)
	case "done":
		return c.setCompletedCommand(remainingArgs, true)
	case "undo":
		return c.setCompletedCommand(remainingArgs, false)
	case "doctor":
		return c.doctorCommand(remainingArgs)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// setupLogger builds the command logger. A configured log file takes
// precedence over fallback.
func (c *cli) setupLogger(fallback io.Writer) (func(), error) {
	opts, err := logging.ParseOptions(c.cfg.LogLevel, c.cfg.LogFormat, c.cfg.LogTimestamps, c.cfg.LogCaller)
	if err != nil {
		return nil, err
	}

	if c.cfg.LogFile == "" {
		c.logger = logging.New(fallback, opts)
		return func() {}, nil
	}

	file, err := logging.OpenFile(c.cfg.LogFile)
	if err != nil {
		return nil, err
	}
	c.logger = logging.New(file, opts)
	return func() { _ = file.Close() }, nil
}

// tuiCommand launches the TUI.
func (c *cli) tuiCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todotui tui", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	noRestore := fs.Bool("no-restore", false, "Start with an empty list instead of loading saved items")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	app := &ui.App{
		Store:        c.store,
		Logger:       c.logger,
		TickInterval: c.cfg.TickInterval,
	}
	return ui.RunTUI(ctx, app, ui.WithRestore(!*noRestore))
}

// load restores saved items. A missing file is an empty list.
func (c *cli) load() error {
	err := c.store.Restore()
	if err == nil || todo.IsNotExist(err) {
		return nil
	}
	return fmt.Errorf("restoring items: %w", err)
}

// lsCommand prints every item as a tree with root indices.
func (c *cli) lsCommand(args []string) error {
	fs := flag.NewFlagSet("todotui ls", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	pending := fs.Bool("pending", false, "Only show root items that are not completed")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if err := c.load(); err != nil {
		return err
	}

	items := c.store.Items()
	if len(items) == 0 {
		fmt.Fprintln(c.out, "No items.")
		return nil
	}

	for i, root := range items {
		if *pending && root.IsCompleted() {
			continue
		}
		root.Walk(func(depth int, it *todo.Item) {
			prefix := fmt.Sprintf("%3d. ", i)
			if depth > 0 {
				prefix = "     " + strings.Repeat("  ", depth-1) + "- "
			}
			fmt.Fprintf(c.out, "%s%s %s\n", prefix, marker(it.IsCompleted()), it.Title())
		})
	}
	return nil
}

func marker(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// addCommand appends a root item and saves.
func (c *cli) addCommand(args []string) error {
	title, err := titleArg(args)
	if err != nil {
		return err
	}
	if err := c.load(); err != nil {
		return err
	}

	c.store.AddItem(title)
	if err := c.store.Save(); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Added %q as #%d\n", title, c.store.Len()-1)
	return nil
}

// subCommand attaches a sub-item to a root item and saves.
func (c *cli) subCommand(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: todotui sub <index> <title>")
	}
	index, err := indexArg(args[:1])
	if err != nil {
		return err
	}
	title, err := titleArg(args[1:])
	if err != nil {
		return err
	}
	if err := c.load(); err != nil {
		return err
	}

	if err := c.store.AddChildAt(index, title); err != nil {
		return err
	}
	if err := c.store.Save(); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Added %q under #%d\n", title, index)
	return nil
}

// rmCommand removes a root item and saves.
func (c *cli) rmCommand(args []string) error {
	index, err := indexArg(args)
	if err != nil {
		return err
	}
	if err := c.load(); err != nil {
		return err
	}

	it, err := c.store.ItemAt(index)
	if err != nil {
		return err
	}
	if err := c.store.RemoveItemAt(index); err != nil {
		return err
	}
	if err := c.store.Save(); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Removed %q\n", it.Title())
	return nil
}

// setCompletedCommand marks a root item and its sub-items and saves.
func (c *cli) setCompletedCommand(args []string, done bool) error {
	index, err := indexArg(args)
	if err != nil {
		return err
	}
	if err := c.load(); err != nil {
		return err
	}

	if err := c.store.SetCompletedAt(index, done); err != nil {
		return err
	}
	if err := c.store.Save(); err != nil {
		return err
	}
	it, _ := c.store.ItemAt(index)
	fmt.Fprintf(c.out, "%s %s\n", marker(done), it.Title())
	return nil
}

func titleArg(args []string) (string, error) {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return "", errors.New("title cannot be empty")
	}
	return title, nil
}

func indexArg(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("expected exactly one item index")
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: %w", args[0], err)
	}
	return index, nil
}

// doctorCommand checks the home directory, the state directory and the
// items file.
func (c *cli) doctorCommand(args []string) error {
	fs := flag.NewFlagSet("todotui doctor", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	w := c.out
	fmt.Fprintln(w, "todotui doctor")
	fmt.Fprintln(w, "==============")
	fmt.Fprintln(w)

	path, err := c.store.Path()
	if err != nil {
		fmt.Fprintln(w, "Home: (unset)")
		fmt.Fprintln(w, "  ❌ HOME is not set; pass --home")
		return errors.New("doctor found problems")
	}
	allOK := true

	fmt.Fprintf(w, "Home: %s\n", c.cfg.Home)
	if info, err := os.Stat(c.cfg.Home); err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	} else if !info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is not a directory")
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	dir := tododir.DirPath(c.cfg.Home)
	fmt.Fprintf(w, "State directory: %s\n", dir)
	if info, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			if c.cfg.CreateDir {
				fmt.Fprintln(w, "  ⚠️  Not found (will be created on save)")
			} else {
				fmt.Fprintln(w, "  ⚠️  Not found (save will fail; create it or set create_dir = true)")
			}
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is not a directory")
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Items file: %s\n", path)
	if ok := checkItemsFile(w, path, *verbose); !ok {
		allOK = false
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Config file: %s\n", displayPath(c.cfg.File))
	for _, warn := range c.cfg.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warn)
	}
	fmt.Fprintln(w)

	if !allOK {
		return errors.New("doctor found problems")
	}
	fmt.Fprintln(w, "All checks passed.")
	return nil
}

func checkItemsFile(w io.Writer, path string, verbose bool) bool {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  Not found (nothing saved yet)")
			return true
		}
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	}
	if info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		return false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	}
	if errs := todo.Check(data); len(errs) > 0 {
		fmt.Fprintln(w, "  ❌ Validation failed:")
		for _, e := range errs {
			fmt.Fprintf(w, "     - %v\n", e)
		}
		return false
	}
	fmt.Fprintln(w, "  ✅ Valid")

	if verbose {
		items, err := todo.Decode(data)
		if err != nil {
			fmt.Fprintf(w, "  ❌ Decode error: %v\n", err)
			return false
		}
		total, done := 0, 0
		for _, root := range items {
			root.Walk(func(_ int, it *todo.Item) {
				total++
				if it.IsCompleted() {
					done++
				}
			})
		}
		fmt.Fprintf(w, "  Items: %d root, %d total, %d completed\n", len(items), total, done)
	}
	return true
}

func displayPath(p string) string {
	if p == "" {
		return "(none)"
	}
	return p
}

// configCommand prints the effective configuration.
func (c *cli) configCommand(args []string) error {
	fs := flag.NewFlagSet("todotui config", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	example := fs.Bool("example", false, "Print an example config file")
	sources := fs.Bool("sources", false, "Show where each value came from")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *example {
		fmt.Fprint(c.out, config.ExampleConfig())
		return nil
	}

	fmt.Fprintf(c.out, "# config file: %s\n", displayPath(c.cfg.File))
	fmt.Fprintf(c.out, "# items file: %s\n", displayPath(tododir.ItemsPath(c.cfg.Home)))
	if *sources {
		for _, key := range []string{"home", "tick_interval", "create_dir", "log_level", "log_format", "log_timestamps", "log_caller", "log_file"} {
			fmt.Fprintf(c.out, "# %s: %s\n", key, c.cfg.Source(key))
		}
	}
	return c.cfg.WriteTOML(c.out)
}

// tailCommand prints the configured log file.
func (c *cli) tailCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todotui tail", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if c.cfg.LogFile == "" {
		fmt.Fprintln(c.out, "No log file configured (set log_file or --log-file).")
		return nil
	}
	if _, err := os.Stat(c.cfg.LogFile); os.IsNotExist(err) {
		fmt.Fprintf(c.out, "Log file %s does not exist yet.\n", c.cfg.LogFile)
		return nil
	}

	if *follow {
		fmt.Fprintf(c.errOut, "Tailing: %s (Ctrl+C to stop)\n", c.cfg.LogFile)
	}
	return logging.TailLog(ctx, c.out, c.cfg.LogFile, *n, *follow)
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "todotui version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todotui - A terminal to-do list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todotui [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                  Launch terminal UI (default command)")
	fmt.Fprintln(w, "  ls                   List items with their indices")
	fmt.Fprintln(w, "  add <title>          Add an item")
	fmt.Fprintln(w, "  sub <index> <title>  Add a sub-item to an item")
	fmt.Fprintln(w, "  rm <index>           Remove an item")
	fmt.Fprintln(w, "  done <index>         Mark an item and its sub-items completed")
	fmt.Fprintln(w, "  undo <index>         Mark an item and its sub-items not completed")
	fmt.Fprintln(w, "  doctor               Check the state directory and items file")
	fmt.Fprintln(w, "  config               Show the effective configuration")
	fmt.Fprintln(w, "  tail                 Print the log file")
	fmt.Fprintln(w, "  version              Show version information")
	fmt.Fprintln(w, "  help                 Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tui Options (use with 'tui' command):")
	fmt.Fprintln(w, "  -no-restore")
	fmt.Fprintln(w, "        Start with an empty list instead of loading saved items")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -pending")
	fmt.Fprintln(w, "        Only show root items that are not completed")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options (use with 'config' command):")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example config file")
	fmt.Fprintln(w, "  -sources")
	fmt.Fprintln(w, "        Show where each value came from")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options (use with 'tail' command):")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
}

// Package ui provides the terminal interface for the item list.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-tui/internal/todo"
)

// App holds the state shared by the control loop and the view for the
// lifetime of the process.
type App struct {
	Store        *todo.Store
	Logger       *log.Logger
	TickInterval time.Duration
}

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	restore bool
}

// WithRestore controls whether saved items are loaded on startup.
func WithRestore(enabled bool) TUIOption {
	return func(c *tuiConfig) {
		c.restore = enabled
	}
}

// RunTUI starts the TUI and blocks until the user quits or ctx is done.
func RunTUI(ctx context.Context, app *App, opts ...TUIOption) error {
	c := &tuiConfig{
		restore: true,
	}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(app, c.restore)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type inputMode int

const (
	modeList inputMode = iota
	modeAdd
	modeAddChild
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	boxStyle      = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("15")).Foreground(lipgloss.Color("0"))
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
)

const highlightSymbol = "->"

// viewItem is the rendered form of a root item, rebuilt on every tick.
type viewItem struct {
	title     string
	completed bool
	children  int
	childDone int
}

type tuiModel struct {
	app       *App
	items     []viewItem
	list      selection
	mode      inputMode
	input     textinput.Model
	status    string
	statusErr bool
	dirty     bool
	showHelp  bool
	width     int
}

type tickMsg time.Time

func newTUIModel(app *App, restore bool) *tuiModel {
	if app.Logger == nil {
		app.Logger = log.New(io.Discard)
	}
	if app.TickInterval <= 0 {
		app.TickInterval = 250 * time.Millisecond
	}

	ti := textinput.New()
	ti.Placeholder = "Item title"
	ti.CharLimit = 256
	ti.Width = 40

	m := &tuiModel{
		app:   app,
		list:  newSelection(),
		input: ti,
	}

	if restore {
		m.restoreOnStartup()
	}
	m.refresh()
	return m
}

// restoreOnStartup loads saved items. Failure leaves the store as it was.
func (m *tuiModel) restoreOnStartup() {
	err := m.app.Store.Restore()
	switch {
	case err == nil:
		m.setStatus(fmt.Sprintf("Restored %d items", m.app.Store.Len()))
	case todo.IsNotExist(err):
		m.setStatus("No saved items yet")
	default:
		m.app.Logger.Warn("startup restore failed", "err", err)
		m.setError("Failed to restore item state", err)
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return tickCmd(m.app.TickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.mode != modeList {
			return m.updateInput(msg)
		}
		return m.updateList(msg.String())
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > 10 {
			m.input.Width = msg.Width - 10
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.app.TickInterval)
	}

	return m, nil
}

func (m *tuiModel) updateList(key string) (tea.Model, tea.Cmd) {
	m.app.Logger.Debug("key", "key", key)

	switch key {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.list.prev(len(m.items))
	case "down", "j":
		m.list.next(len(m.items))
	case "a":
		return m, m.startInput(modeAdd)
	case "A":
		if _, ok := m.list.selected(); !ok {
			m.setStatus("Select an item to add a sub-item")
			return m, nil
		}
		return m, m.startInput(modeAddChild)
	case " ", "space", "x", "enter":
		m.toggleSelected()
	case "d", "delete":
		m.removeSelected()
	case "s":
		m.save()
	case "r":
		m.restore()
	case "h", "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *tuiModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.stopInput()
		m.setStatus("Cancelled")
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.input.Value())
		if title == "" {
			m.setStatus("Title cannot be empty")
			return m, nil
		}
		m.addItem(title)
		m.stopInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *tuiModel) startInput(mode inputMode) tea.Cmd {
	m.mode = mode
	m.input.SetValue("")
	m.input.Focus()
	return textinput.Blink
}

func (m *tuiModel) stopInput() {
	m.mode = modeList
	m.input.SetValue("")
	m.input.Blur()
}

func (m *tuiModel) addItem(title string) {
	store := m.app.Store
	if m.mode == modeAddChild {
		idx, _ := m.list.selected()
		if err := store.AddChildAt(idx, title); err != nil {
			m.setError("Add sub-item failed", err)
			return
		}
		m.dirty = true
		m.refresh()
		m.setStatus(fmt.Sprintf("Added sub-item %q", title))
		return
	}

	store.AddItem(title)
	m.dirty = true
	m.refresh()
	m.list.selectIndex(len(m.items)-1, len(m.items))
	m.setStatus(fmt.Sprintf("Added %q", title))
}

func (m *tuiModel) toggleSelected() {
	idx, ok := m.list.selected()
	if !ok {
		return
	}
	if err := m.app.Store.ToggleAt(idx); err != nil {
		m.setError("Toggle failed", err)
		return
	}
	m.dirty = true
	m.refresh()
}

func (m *tuiModel) removeSelected() {
	idx, ok := m.list.selected()
	if !ok {
		m.setStatus("Nothing selected")
		return
	}
	title := m.items[idx].title
	if err := m.app.Store.RemoveItemAt(idx); err != nil {
		m.setError("Remove failed", err)
		return
	}
	m.dirty = true
	m.refresh()
	m.setStatus(fmt.Sprintf("Removed %q", title))
}

func (m *tuiModel) save() {
	if err := m.app.Store.Save(); err != nil {
		m.setError("Failed to save items", err)
		return
	}
	m.dirty = false
	m.setStatus(fmt.Sprintf("Saved %d items", m.app.Store.Len()))
}

func (m *tuiModel) restore() {
	if err := m.app.Store.Restore(); err != nil {
		m.setError("Failed to restore items", err)
		return
	}
	m.dirty = false
	m.refresh()
	m.setStatus(fmt.Sprintf("Restored %d items", m.app.Store.Len()))
}

func (m *tuiModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *tuiModel) setError(prefix string, err error) {
	m.status = prefix + ": " + describeError(err)
	m.statusErr = true
}

// describeError adds a hint for errors the user can fix.
func describeError(err error) string {
	var ioErr *todo.IOError
	switch {
	case errors.Is(err, todo.ErrHomeUnresolved):
		return "HOME is not set (use --home)"
	case errors.As(err, &ioErr) && ioErr.Op == "write" && errors.Is(err, os.ErrNotExist):
		return err.Error() + " (create ~/.todo_tui or set create_dir = true)"
	default:
		return err.Error()
	}
}

// refresh rebuilds the visible list from the store, keeping the selection.
func (m *tuiModel) refresh() {
	items := m.app.Store.Items()
	m.items = m.items[:0]
	for _, it := range items {
		m.items = append(m.items, viewItem{
			title:     it.Title(),
			completed: it.IsCompleted(),
			children:  it.ChildCount(),
			childDone: it.CompletedCount(),
		})
	}
	m.list.clamp(len(m.items))
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.app.TickInterval, m.dirty)
		return b.String()
	}

	writeItems(&b, m.items, m.list, m.width)
	writeInput(&b, m)
	writeKeybinds(&b)
	writeStatus(&b, m.status, m.statusErr)
	writeFooter(&b, m.app.TickInterval, m.dirty)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func writeTitle(b *strings.Builder) {
	b.WriteString(titleStyle.Render("todotui") + "\n\n")
}

func writeItems(b *strings.Builder, items []viewItem, list selection, width int) {
	var rows []string
	rows = append(rows, titleStyle.Render("ToDo Items"), "")
	if len(items) == 0 {
		rows = append(rows, dimStyle.Render("No items. Press a to add one."))
	}
	selected, _ := list.selected()
	for i, it := range items {
		rows = append(rows, formatRow(it, i == selected))
	}

	box := boxStyle
	if width > 4 {
		box = box.Width(width - 2)
	}
	b.WriteString(box.Render(strings.Join(rows, "\n")))
	b.WriteString("\n")
}

func formatRow(it viewItem, selected bool) string {
	marker := "[ ]"
	if it.completed {
		marker = "[x]"
	}
	line := marker + " " + it.title
	if it.children > 0 {
		line += fmt.Sprintf(" (%d/%d)", it.childDone, it.children)
	}

	if selected {
		return selectedStyle.Render(highlightSymbol + " " + line)
	}
	if it.completed {
		return "   " + doneStyle.Render(line)
	}
	return "   " + line
}

func writeInput(b *strings.Builder, m *tuiModel) {
	switch m.mode {
	case modeAdd:
		b.WriteString("New item: " + m.input.View() + "\n")
	case modeAddChild:
		parent := ""
		if idx, ok := m.list.selected(); ok {
			parent = m.items[idx].title
		}
		b.WriteString(fmt.Sprintf("New sub-item for %q: %s\n", parent, m.input.View()))
	}
}

func writeKeybinds(b *strings.Builder) {
	b.WriteString(dimStyle.Render("↑/k ↓/j move • a add • A sub-item • space toggle • d delete • s save • r restore • ? help • q quit"))
	b.WriteString("\n")
}

func writeStatus(b *strings.Builder, status string, isErr bool) {
	if status == "" {
		return
	}
	if isErr {
		b.WriteString(errorStyle.Render(status) + "\n")
		return
	}
	b.WriteString(successStyle.Render(status) + "\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c     Quit\n")
	b.WriteString("  up, k         Previous item (wraps)\n")
	b.WriteString("  down, j       Next item (wraps)\n")
	b.WriteString("  a             Add item\n")
	b.WriteString("  A             Add sub-item to selection\n")
	b.WriteString("  space, x      Toggle completion (applies to sub-items)\n")
	b.WriteString("  d, delete     Remove selection\n")
	b.WriteString("  s             Save to ~/.todo_tui/items.json\n")
	b.WriteString("  r             Restore from ~/.todo_tui/items.json\n")
	b.WriteString("  h, ?          Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder, interval time.Duration, dirty bool) {
	modified := ""
	if dirty {
		modified = " | modified"
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("Refreshing every %s%s", interval, modified)) + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

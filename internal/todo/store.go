package todo

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-tui/internal/tododir"
)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCreateDir makes Save create the .todo_tui directory when it is missing.
// By default a missing directory fails the save.
func WithCreateDir(enabled bool) StoreOption {
	return func(s *Store) {
		s.createDir = enabled
	}
}

// WithLogger sets the logger used to report persistence outcomes.
func WithLogger(logger *log.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store owns the root-level items and persists the whole tree to
// {home}/.todo_tui/items.json.
//
// A Store is not safe for concurrent use.
type Store struct {
	home      string
	createDir bool
	logger    *log.Logger
	items     []*Item
}

// NewStore returns an empty store that persists under home.
func NewStore(home string, opts ...StoreOption) *Store {
	s := &Store{
		home:   home,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddItem appends a new root item.
func (s *Store) AddItem(title string) {
	s.items = append(s.items, NewItem(title))
}

// RemoveItemAt removes the root item at index. Later items shift down by one.
func (s *Store) RemoveItemAt(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	return nil
}

// ItemAt returns the root item at index.
func (s *Store) ItemAt(index int) (*Item, error) {
	if err := s.checkIndex(index); err != nil {
		return nil, err
	}
	return s.items[index], nil
}

// AddChildAt appends a new sub-item to the root item at index.
func (s *Store) AddChildAt(index int, title string) error {
	item, err := s.ItemAt(index)
	if err != nil {
		return err
	}
	item.AddChild(NewItem(title))
	return nil
}

// SetCompletedAt sets the completion state of the root item at index and
// its descendants.
func (s *Store) SetCompletedAt(index int, done bool) error {
	item, err := s.ItemAt(index)
	if err != nil {
		return err
	}
	item.SetCompleted(done)
	return nil
}

// ToggleAt flips the completion state of the root item at index.
func (s *Store) ToggleAt(index int) error {
	item, err := s.ItemAt(index)
	if err != nil {
		return err
	}
	item.Toggle()
	return nil
}

// Items returns the root items in display order. The slice is a copy.
func (s *Store) Items() []*Item {
	out := make([]*Item, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of root items.
func (s *Store) Len() int {
	return len(s.items)
}

// Path returns the items file location.
func (s *Store) Path() (string, error) {
	if s.home == "" {
		return "", ErrHomeUnresolved
	}
	return tododir.ItemsPath(s.home), nil
}

// Save writes the full tree, replacing any existing file.
// The write is not atomic.
func (s *Store) Save() error {
	path, err := s.Path()
	if err != nil {
		return err
	}

	data, err := Encode(s.items)
	if err != nil {
		return &IOError{Op: "encode", Path: path, Err: err}
	}

	if s.createDir {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			s.logger.Error("save failed", "path", path, "err", err)
			return &IOError{Op: "write", Path: path, Err: err}
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		s.logger.Error("save failed", "path", path, "err", err)
		return &IOError{Op: "write", Path: path, Err: err}
	}

	s.logger.Info("saved items", "path", path, "count", len(s.items))
	return nil
}

// Restore replaces the tree with the file contents. On any error the
// current items are left untouched.
func (s *Store) Restore() error {
	path, err := s.Path()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("no saved items", "path", path)
		} else {
			s.logger.Warn("restore failed", "path", path, "err", err)
		}
		return &IOError{Op: "read", Path: path, Err: err}
	}

	items, err := Decode(data)
	if err != nil {
		s.logger.Warn("restore failed", "path", path, "err", err)
		return err
	}

	s.items = items
	s.logger.Info("restored items", "path", path, "count", len(items))
	return nil
}

// IsNotExist reports whether err means the items file does not exist yet.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.items) {
		return indexError(index, len(s.items))
	}
	return nil
}

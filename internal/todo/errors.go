package todo

import (
	"errors"
	"fmt"
)

var (
	// ErrHomeUnresolved is returned when no home directory is configured,
	// so the items path cannot be built.
	ErrHomeUnresolved = errors.New("home directory is not set")

	// ErrIndexOutOfRange is returned when an index does not address a root item.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// IOError reports a failed open, read, write or encode step on the items file.
type IOError struct {
	Op   string // "read", "write" or "encode"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s items: %s", e.Op, e.Err)
	}
	return fmt.Sprintf("%s items %s: %s", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// DeserializeError reports content that is not valid JSON or does not match
// the items file shape.
type DeserializeError struct {
	Path string // JSON path to the error location, empty for the document itself
	Err  error
}

func (e *DeserializeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("decode items: %s: %s", e.Path, e.Err)
	}
	return fmt.Sprintf("decode items: %s", e.Err)
}

// Unwrap returns the underlying error.
func (e *DeserializeError) Unwrap() error {
	return e.Err
}

func indexError(index, length int) error {
	return fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, index, length)
}

package buffer

import (
	"errors"
	"fmt"
	"io/fs"
)

// Errors returned by buffer operations.
var (
	// ErrIO indicates a file could not be read or written.
	ErrIO = errors.New("buffer i/o failed")

	// ErrNoPath indicates a save of a buffer that is not bound to a file.
	ErrNoPath = errors.New("buffer has no file path")

	// ErrReadOnly indicates an edit or save of a read-only buffer.
	ErrReadOnly = fmt.Errorf("buffer is read-only: %w", fs.ErrPermission)

	// ErrGroupOpen indicates undo or redo while an edit group is open.
	ErrGroupOpen = errors.New("edit group is open")

	// ErrBufferNotFound indicates an unknown buffer ID.
	ErrBufferNotFound = errors.New("buffer not found")
)

// ioError wraps err with ErrIO and the failing operation.
func ioError(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrIO, op, path, err)
}

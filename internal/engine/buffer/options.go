package buffer

import (
	"github.com/dshills/quill/internal/engine/history"
	"github.com/dshills/quill/internal/engine/piecetable"
	"github.com/dshills/quill/internal/logging"
	"github.com/dshills/quill/internal/project/vfs"
)

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithFS sets the file system the buffer reads and writes.
// The default is the OS file system.
func WithFS(fsys vfs.VFS) Option {
	return func(b *Buffer) {
		if fsys != nil {
			b.fs = fsys
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(b *Buffer) {
		if log != nil {
			b.log = log
		}
	}
}

// WithReadOnly marks the buffer read-only.
func WithReadOnly(readOnly bool) Option {
	return func(b *Buffer) {
		b.readOnly = readOnly
	}
}

// WithID sets the buffer ID. Registries assign IDs this way.
func WithID(id ID) Option {
	return func(b *Buffer) {
		b.id = id
	}
}

// WithPieceTableOptions sets the options used whenever the buffer builds
// its piece table.
func WithPieceTableOptions(opts ...piecetable.Option) Option {
	return func(b *Buffer) {
		b.tableOpts = append(b.tableOpts, opts...)
	}
}

// WithHistoryOptions sets the options used whenever the buffer builds its
// undo tree.
func WithHistoryOptions(opts ...history.Option) Option {
	return func(b *Buffer) {
		b.historyOpts = append(b.historyOpts, opts...)
	}
}

// WithAtomicSave selects between writing a temporary file and renaming it
// over the target (the default) and writing the target directly.
func WithAtomicSave(atomic bool) Option {
	return func(b *Buffer) {
		b.atomicSave = atomic
	}
}

// WithLineEnding sets the line ending of a new buffer.
// Opened buffers use the line ending found in the file.
func WithLineEnding(le vfs.LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// WithLanguage overrides language detection.
func WithLanguage(lang string) Option {
	return func(b *Buffer) {
		b.language = lang
	}
}

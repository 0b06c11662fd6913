package buffer

import (
	"time"

	"github.com/dshills/quill/internal/engine/cursor"
	"github.com/dshills/quill/internal/engine/history"
	"github.com/dshills/quill/internal/engine/piecetable"
	"github.com/dshills/quill/internal/logging"
	"github.com/dshills/quill/internal/project/vfs"
)

// ID identifies a buffer within a Registry.
type ID uint64

// Buffer is a document: a piece table, its undo tree, and the file it is
// bound to.
type Buffer struct {
	id   ID
	path string
	name string

	fs  vfs.VFS
	log *logging.Logger

	table       *piecetable.PieceTable
	history     *history.Tree
	tableOpts   []piecetable.Option
	historyOpts []history.Option

	// savePoint is the history node that matches the file on disk.
	savePoint history.NodeID
	revision  uint64

	language   string
	lineEnding vfs.LineEnding
	encoding   vfs.Encoding
	readOnly   bool
	atomicSave bool

	// fileReadOnly mirrors the file's write permission at the last load.
	fileReadOnly bool

	modTime  time.Time
	checksum uint64

	cursor cursor.Position
}

// newBuffer returns a buffer with defaults and opts applied but no table.
func newBuffer(opts []Option) *Buffer {
	b := &Buffer{
		fs:         vfs.OS{},
		log:        logging.Nop(),
		lineEnding: vfs.LineEndingLF,
		encoding:   vfs.EncodingUTF8,
		atomicSave: true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// New creates an empty buffer that is not bound to a file.
// The name is used for display and language detection.
func New(name string, opts ...Option) *Buffer {
	b := newBuffer(opts)
	b.name = name
	b.reset(nil)
	if b.language == "" {
		b.language = DetectLanguage(name, nil)
	}
	return b
}

// NewFromString creates an unbound buffer holding text.
func NewFromString(name, text string, opts ...Option) *Buffer {
	b := newBuffer(opts)
	b.name = name
	b.reset([]byte(text))
	if b.language == "" {
		b.language = DetectLanguage(name, []byte(text))
	}
	return b
}

// reset replaces the table and history together. The new state is the
// save point.
func (b *Buffer) reset(text []byte) {
	b.table = piecetable.New(text, b.tableOpts...)
	b.history = history.New(b.historyOpts...)
	b.savePoint = b.history.Current()
	b.revision++
	b.cursor = cursor.Position{}
}

// ID returns the buffer ID.
func (b *Buffer) ID() ID {
	return b.id
}

// Path returns the file path, or "" for an unbound buffer.
func (b *Buffer) Path() string {
	return b.path
}

// Name returns the display name.
func (b *Buffer) Name() string {
	return b.name
}

// Language returns the detected language, e.g. "go" or "plaintext".
func (b *Buffer) Language() string {
	return b.language
}

// SetLanguage overrides the detected language.
func (b *Buffer) SetLanguage(lang string) {
	b.language = lang
}

// LineEnding returns the line ending found when the file was loaded.
func (b *Buffer) LineEnding() vfs.LineEnding {
	return b.lineEnding
}

// Encoding returns the file encoding. Text in the buffer is always UTF-8.
func (b *Buffer) Encoding() vfs.Encoding {
	return b.encoding
}

// SetEncoding sets the encoding used by the next save.
func (b *Buffer) SetEncoding(enc vfs.Encoding) {
	b.encoding = enc
}

// ReadOnly returns true if edits and saves are refused, either because the
// buffer was marked read-only or because its file was not writable when it
// was last loaded.
func (b *Buffer) ReadOnly() bool {
	return b.readOnly || b.fileReadOnly
}

// SetReadOnly sets the read-only flag. It does not override a file that
// is not writable; reloading the file rechecks that.
func (b *Buffer) SetReadOnly(readOnly bool) {
	b.readOnly = readOnly
}

// Modified returns true if the text differs from the last load or save,
// as judged by position in the undo tree. Undoing back to the save point
// clears it.
func (b *Buffer) Modified() bool {
	return b.history.Content(b.history.Current()) != b.history.Content(b.savePoint)
}

// Revision returns a counter that changes on every change of the text.
func (b *Buffer) Revision() uint64 {
	return b.revision
}

// ModTime returns the file modification time seen at the last load or save.
func (b *Buffer) ModTime() time.Time {
	return b.modTime
}

// Len returns the length of the text in bytes.
func (b *Buffer) Len() int {
	return b.table.Len()
}

// IsEmpty returns true if the buffer holds no text.
func (b *Buffer) IsEmpty() bool {
	return b.table.Len() == 0
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	return b.table.LineCount()
}

// Line returns a copy of line without its newline.
func (b *Buffer) Line(line int) []byte {
	return b.table.Line(line)
}

// LineLength returns the byte length of line without its newline.
func (b *Buffer) LineLength(line int) int {
	return b.table.LineLength(line)
}

// Text returns a copy of the whole text.
func (b *Buffer) Text() string {
	return b.table.String()
}

// Bytes returns a copy of the whole text.
func (b *Buffer) Bytes() []byte {
	return b.table.Bytes()
}

// TextRange returns a copy of the text in r.
func (b *Buffer) TextRange(r cursor.Range) []byte {
	start, end := b.offsets(r)
	return b.table.Text(start, end-start)
}

// OffsetToPosition converts a byte offset to a position.
func (b *Buffer) OffsetToPosition(offset int) cursor.Position {
	return b.table.OffsetToPosition(offset)
}

// PositionToOffset converts a position to a byte offset, clamping it to the
// document.
func (b *Buffer) PositionToOffset(p cursor.Position) int {
	return b.table.PositionToOffset(p)
}

// Cursor returns the cursor position.
func (b *Buffer) Cursor() cursor.Position {
	return b.cursor
}

// SetCursor moves the cursor, clamped to the document.
func (b *Buffer) SetCursor(p cursor.Position) {
	b.cursor = b.table.OffsetToPosition(b.table.PositionToOffset(p))
}

// offsets returns the normalized offsets of r.
func (b *Buffer) offsets(r cursor.Range) (int, int) {
	start := b.table.PositionToOffset(r.Start)
	end := b.table.PositionToOffset(r.End)
	if end < start {
		start, end = end, start
	}
	return start, end
}

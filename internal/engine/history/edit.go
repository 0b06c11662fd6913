package history

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dshills/quill/internal/engine/cursor"
)

// Kind identifies the type of an Edit.
type Kind uint8

const (
	Insert Kind = iota
	Delete
	Replace
	GroupStart
	GroupEnd
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	case Replace:
		return "replace"
	case GroupStart:
		return "group-start"
	case GroupEnd:
		return "group-end"
	default:
		return "unknown"
	}
}

// IsMarker reports whether k is a group boundary.
func (k Kind) IsMarker() bool {
	return k == GroupStart || k == GroupEnd
}

// Edit is a single reversible change.
//
// Offset is where the change starts. OldLength bytes (OldText) were removed
// there and NewLength bytes (NewText) inserted in their place.
type Edit struct {
	Kind      Kind
	Offset    int
	OldLength int
	NewLength int
	OldText   []byte
	NewText   []byte

	// Cursor state for restore
	CursorBefore cursor.Position
	CursorAfter  cursor.Position

	Timestamp time.Time
}

// Inverse returns the edit that undoes e.
// Inserts and deletes swap roles, group markers swap, and cursors swap.
func (e Edit) Inverse() Edit {
	inv := Edit{
		Kind:         e.Kind,
		Offset:       e.Offset,
		OldLength:    e.NewLength,
		NewLength:    e.OldLength,
		OldText:      e.NewText,
		NewText:      e.OldText,
		CursorBefore: e.CursorAfter,
		CursorAfter:  e.CursorBefore,
		Timestamp:    e.Timestamp,
	}
	switch e.Kind {
	case Insert:
		inv.Kind = Delete
	case Delete:
		inv.Kind = Insert
	case GroupStart:
		inv.Kind = GroupEnd
	case GroupEnd:
		inv.Kind = GroupStart
	}
	return inv
}

// BytesDelta returns the change in document length.
func (e Edit) BytesDelta() int {
	return e.NewLength - e.OldLength
}

// Description returns a human-readable description.
func (e Edit) Description() string {
	switch e.Kind {
	case Insert:
		switch string(e.NewText) {
		case "\n":
			return "Insert newline"
		case "\t":
			return "Insert tab"
		}
		if utf8.RuneCount(e.NewText) <= 20 {
			return fmt.Sprintf("Insert %q", e.NewText)
		}
		return fmt.Sprintf("Insert %d bytes", e.NewLength)
	case Delete:
		if e.OldLength == 1 {
			return "Delete"
		}
		return fmt.Sprintf("Delete %d bytes", e.OldLength)
	case Replace:
		return fmt.Sprintf("Replace %d bytes with %d", e.OldLength, e.NewLength)
	case GroupStart:
		return "Begin group"
	case GroupEnd:
		return "End group"
	default:
		return "Unknown edit"
	}
}

// Info provides read-only info about a recorded edit.
// Used for displaying history to users.
type Info struct {
	Kind        Kind
	Description string
	Timestamp   time.Time
	BytesDelta  int
}

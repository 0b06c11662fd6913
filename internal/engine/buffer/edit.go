package buffer

import (
	"errors"
	"fmt"

	"github.com/dshills/quill/internal/engine/cursor"
	"github.com/dshills/quill/internal/engine/history"
)

// Insert inserts text at pos and records the edit. The cursor moves to the
// end of the inserted text. Inserting empty text does nothing.
//
// On error the text and history are unchanged.
func (b *Buffer) Insert(pos cursor.Position, text []byte) error {
	if b.ReadOnly() {
		return ErrReadOnly
	}
	if len(text) == 0 {
		return nil
	}

	offset := b.table.PositionToOffset(pos)
	e := history.Edit{
		Kind:         history.Insert,
		Offset:       offset,
		NewLength:    len(text),
		NewText:      text,
		CursorBefore: b.table.OffsetToPosition(offset),
	}
	if err := b.history.Reserve(e); err != nil {
		return fmt.Errorf("record insert: %w", err)
	}
	if err := b.table.Insert(offset, text); err != nil {
		return fmt.Errorf("insert at %s: %w", pos, err)
	}
	e.CursorAfter = b.table.OffsetToPosition(offset + len(text))

	if err := b.history.Record(e); err != nil {
		// The inserted piece lies on piece boundaries, so removing it
		// needs no split.
		if rerr := b.table.Delete(offset, len(text)); rerr != nil {
			err = errors.Join(err, rerr)
		}
		return fmt.Errorf("record insert: %w", err)
	}

	b.cursor = e.CursorAfter
	b.revision++
	return nil
}

// InsertString inserts s at pos.
func (b *Buffer) InsertString(pos cursor.Position, s string) error {
	return b.Insert(pos, []byte(s))
}

// Delete removes the text in r and records the edit. A range whose end is
// not after its start deletes nothing. The cursor moves to the start of the
// range.
//
// On error the text and history are unchanged.
func (b *Buffer) Delete(r cursor.Range) error {
	if b.ReadOnly() {
		return ErrReadOnly
	}
	start := b.table.PositionToOffset(r.Start)
	end := b.table.PositionToOffset(r.End)
	if start >= end {
		return nil
	}

	old := b.table.Text(start, end-start)
	e := history.Edit{
		Kind:         history.Delete,
		Offset:       start,
		OldLength:    len(old),
		OldText:      old,
		CursorBefore: b.table.OffsetToPosition(end),
		CursorAfter:  b.table.OffsetToPosition(start),
	}
	if err := b.history.Reserve(e); err != nil {
		return fmt.Errorf("record delete: %w", err)
	}
	if err := b.table.Delete(start, len(old)); err != nil {
		return fmt.Errorf("delete %s: %w", r, err)
	}

	if err := b.history.Record(e); err != nil {
		if rerr := b.table.Insert(start, old); rerr != nil {
			err = errors.Join(err, rerr)
		}
		return fmt.Errorf("record delete: %w", err)
	}

	b.cursor = e.CursorAfter
	b.revision++
	return nil
}

// Replace replaces the text in r with text as a single undo step.
// The range is normalized first.
//
// On error the text is unchanged. A replace that does not fit the history
// or table limits fails before anything is changed; edits already made by
// a replace that fails later are undone and stay in the history as a branch.
func (b *Buffer) Replace(r cursor.Range, text []byte) error {
	if b.ReadOnly() {
		return ErrReadOnly
	}
	r = r.Normalize()
	from := b.table.PositionToOffset(r.Start)
	to := b.table.PositionToOffset(r.End)
	start := b.table.OffsetToPosition(from)
	if err := b.reserveReplace(from, to, text); err != nil {
		return fmt.Errorf("replace %s: %w", r, err)
	}

	before := b.history.Current()
	if err := b.history.BeginGroup(); err != nil {
		return fmt.Errorf("replace %s: %w", r, err)
	}
	err := b.Delete(r)
	if err == nil {
		err = b.Insert(start, text)
	}
	if gerr := b.history.EndGroup(); gerr != nil && err == nil {
		err = gerr
	}
	if err != nil {
		if rerr := b.rewind(before); rerr != nil {
			err = errors.Join(err, rerr)
		}
		return fmt.Errorf("replace %s: %w", r, err)
	}
	return nil
}

// reserveReplace checks that replacing [from, to) with text fits both the
// history and the piece table. A delete splits at most one piece and an
// insert at most one more besides its own.
func (b *Buffer) reserveReplace(from, to int, text []byte) error {
	var edits []history.Edit
	pieces := 0
	if from < to {
		edits = append(edits, history.Edit{Kind: history.Delete, OldText: b.table.Text(from, to-from)})
		pieces++
	}
	if len(text) > 0 {
		edits = append(edits, history.Edit{Kind: history.Insert, NewText: text})
		pieces += 2
	}
	if b.history.GroupDepth() == 0 {
		edits = append(edits, history.Edit{Kind: history.GroupStart})
		if pieces > 0 {
			edits = append(edits, history.Edit{Kind: history.GroupEnd})
		}
	}
	if err := b.history.Reserve(edits...); err != nil {
		return err
	}
	return b.table.Reserve(pieces, len(text))
}

// ReplaceString replaces the text in r with s.
func (b *Buffer) ReplaceString(r cursor.Range, s string) error {
	return b.Replace(r, []byte(s))
}

// BeginGroup starts a group of edits that undo and redo as one step.
// Groups nest; only the outermost one forms the step.
func (b *Buffer) BeginGroup() error {
	return b.history.BeginGroup()
}

// EndGroup closes the innermost open group.
func (b *Buffer) EndGroup() error {
	return b.history.EndGroup()
}

// apply performs e on the table without recording it.
func (b *Buffer) apply(e history.Edit) error {
	switch e.Kind {
	case history.Insert:
		return b.table.Insert(e.Offset, e.NewText)
	case history.Delete:
		return b.table.Delete(e.Offset, e.OldLength)
	case history.Replace:
		if err := b.table.Delete(e.Offset, e.OldLength); err != nil {
			return err
		}
		if err := b.table.Insert(e.Offset, e.NewText); err != nil {
			if rerr := b.table.Insert(e.Offset, e.OldText); rerr != nil {
				return errors.Join(err, rerr)
			}
			return err
		}
	}
	return nil
}

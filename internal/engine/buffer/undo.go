package buffer

import (
	"errors"
	"fmt"

	"github.com/dshills/quill/internal/engine/cursor"
	"github.com/dshills/quill/internal/engine/history"
)

// Undo reverts the last edit, or the last group of edits as a whole, and
// moves the cursor to where it was before. It returns false when there is
// nothing to undo.
//
// If an edit cannot be reverted the buffer is returned to its state before
// the call.
func (b *Buffer) Undo() (bool, error) {
	if b.ReadOnly() {
		return false, ErrReadOnly
	}
	if b.history.GroupDepth() > 0 {
		return false, ErrGroupOpen
	}

	e, ok := b.history.Undo()
	if !ok {
		return false, nil
	}

	var pos *cursor.Position
	steps := 0
	depth := 0
	for {
		switch e.Kind {
		case history.GroupEnd:
			depth++
		case history.GroupStart:
			depth--
		default:
			if err := b.apply(e.Inverse()); err != nil {
				// Back onto the edit that failed, then replay the rest.
				b.history.Redo()
				if rerr := b.replay(steps, b.history.Redo, false); rerr != nil {
					err = errors.Join(err, rerr)
				}
				return false, fmt.Errorf("undo %s: %w", e.Kind, err)
			}
			p := e.CursorBefore
			pos = &p
		}
		steps++
		if depth <= 0 {
			break
		}
		if e, ok = b.history.Undo(); !ok {
			break
		}
	}

	b.finishStep(pos)
	return true, nil
}

// Redo re-applies the edit, or group of edits, on the active branch below
// the current position and moves the cursor to where it was after. It
// returns false when there is nothing to redo.
//
// If an edit cannot be applied the buffer is returned to its state before
// the call.
func (b *Buffer) Redo() (bool, error) {
	if b.ReadOnly() {
		return false, ErrReadOnly
	}
	if b.history.GroupDepth() > 0 {
		return false, ErrGroupOpen
	}

	e, ok := b.history.Redo()
	if !ok {
		return false, nil
	}

	var pos *cursor.Position
	steps := 0
	depth := 0
	for {
		switch e.Kind {
		case history.GroupStart:
			depth++
		case history.GroupEnd:
			depth--
		default:
			if err := b.apply(e); err != nil {
				b.history.Undo()
				if rerr := b.replay(steps, b.history.Undo, true); rerr != nil {
					err = errors.Join(err, rerr)
				}
				return false, fmt.Errorf("redo %s: %w", e.Kind, err)
			}
			p := e.CursorAfter
			pos = &p
		}
		steps++
		if depth <= 0 {
			break
		}
		if e, ok = b.history.Redo(); !ok {
			break
		}
	}

	b.finishStep(pos)
	return true, nil
}

// replay moves n steps through the tree with move, applying each edit, or
// its inverse when inverse is set.
func (b *Buffer) replay(n int, move func() (history.Edit, bool), inverse bool) error {
	var errs []error
	for range n {
		e, ok := move()
		if !ok {
			break
		}
		if inverse {
			e = e.Inverse()
		}
		if err := b.apply(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// rewind undoes single steps until the history is back at node.
func (b *Buffer) rewind(node history.NodeID) error {
	for b.history.Current() != node {
		e, ok := b.history.Undo()
		if !ok {
			break
		}
		if err := b.apply(e.Inverse()); err != nil {
			return err
		}
	}
	return nil
}

func (b *Buffer) finishStep(pos *cursor.Position) {
	if pos == nil {
		return
	}
	b.SetCursor(*pos)
	b.revision++
}

// CanUndo returns true if there is an edit to undo.
func (b *Buffer) CanUndo() bool {
	return b.history.CanUndo()
}

// CanRedo returns true if there is an edit to redo.
func (b *Buffer) CanRedo() bool {
	return b.history.CanRedo()
}

// BranchCount returns the number of redo branches at the current position.
func (b *Buffer) BranchCount() int {
	return b.history.BranchCount()
}

// ActiveBranch returns the index of the branch Redo follows.
func (b *Buffer) ActiveBranch() int {
	return b.history.ActiveBranch()
}

// SwitchBranch selects the branch Redo follows.
func (b *Buffer) SwitchBranch(i int) error {
	return b.history.SwitchBranch(i)
}

// UndoHistory describes the edits from the oldest to the current one.
func (b *Buffer) UndoHistory() []history.Info {
	return b.history.UndoInfo()
}

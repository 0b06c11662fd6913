// Package history provides branching undo/redo for the text editor engine.
//
// History is kept as a tree rather than a pair of stacks, so no edit is ever
// lost: recording after an undo starts a new branch next to the old one.
//
// # Edits
//
// An Edit describes one change to a document by byte offset. It carries the
// removed and inserted text and the cursor positions on either side, so it
// can be reversed without reading the document:
//
//	e := history.Edit{Kind: history.Insert, Offset: 4, NewLength: 3, NewText: []byte("abc")}
//	inv := e.Inverse() // Delete of the same span
//
// # Tree
//
// Tree records edits as nodes below a sentinel root. Undo walks to the
// parent and returns the edit the caller must invert. Redo follows the
// active child and returns the edit the caller must re-apply:
//
//	t := history.New()
//	t.Record(e)
//	e, ok := t.Undo()
//	e, ok = t.Redo()
//
// A node with several children is a branch point. SwitchBranch picks the
// child the next Redo follows.
//
// # Groups
//
// BeginGroup and EndGroup bracket edits that form one user operation with
// GroupStart and GroupEnd marker nodes. Only the outermost pair is recorded
// and a group with no edits leaves nothing behind. The tree itself still
// undoes one node at a time; the caller loops across the markers.
//
// # Memory
//
// Nodes live in an arena and edit text is copied into a byte arena owned by
// the tree. Neither is freed before the tree is discarded.
package history

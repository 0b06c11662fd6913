package history

import (
	"errors"
	"fmt"
	"time"

	"github.com/dshills/quill/internal/engine/arena"
)

// Errors returned by the undo tree.
var (
	// ErrOutOfMemory indicates the node or text arena is full.
	ErrOutOfMemory = arena.ErrOutOfMemory

	// ErrBranchOutOfRange indicates a branch index with no matching child.
	ErrBranchOutOfRange = errors.New("branch index out of range")
)

// NodeID identifies a node in a Tree. The zero value is never a valid node.
type NodeID uint32

type ref = arena.Pointer[node]

// node is one recorded edit. The root node carries no edit.
type node struct {
	edit     Edit
	parent   ref
	index    int // position in the parent's children
	children []ref
	active   int
}

// Tree is a branching undo history.
//
// A Tree is not safe for concurrent use. All methods may be called on a nil
// Tree and behave as on an empty one.
type Tree struct {
	nodes *arena.Arena[node]
	text  *arena.Bytes

	maxNodes int
	maxText  int

	root    ref
	current ref
	count   int

	// Outermost open group.
	groupDepth      int
	groupStart      ref
	groupEdits      int
	groupPrevActive int
}

// New creates an empty tree positioned at its root.
func New(opts ...Option) *Tree {
	t := &Tree{}
	for _, opt := range opts {
		opt(t)
	}

	limit := 0
	if t.maxNodes > 0 {
		limit = t.maxNodes + 1
	}
	t.nodes = arena.New[node](arena.WithLimit(limit))
	t.text = arena.NewBytes(arena.WithByteLimit(t.maxText))

	t.root, _ = t.nodes.New(node{})
	t.current = t.root
	return t
}

func (t *Tree) at(r ref) *node {
	return t.nodes.At(r)
}

// Record stores e as a child of the current node and makes it current.
// The edit's text is copied, so the caller may reuse its slices. A zero
// Timestamp is set to the current time.
//
// Recording never discards history: if the current node already has
// children the new node becomes another branch, and the active one.
// On ErrOutOfMemory the tree is left unchanged.
func (t *Tree) Record(e Edit) error {
	if t == nil {
		return nil
	}
	if err := t.record(e); err != nil {
		return err
	}
	if t.groupDepth > 0 && !e.Kind.IsMarker() {
		t.groupEdits++
	}
	return nil
}

// Reserve reports whether the edits could all be recorded now, without
// recording anything. It fails with ErrOutOfMemory when the node or text
// limit would be exceeded.
func (t *Tree) Reserve(edits ...Edit) error {
	if t == nil {
		return nil
	}
	if err := t.nodes.Reserve(len(edits)); err != nil {
		return err
	}
	need := 0
	for _, e := range edits {
		need += len(e.OldText) + len(e.NewText)
	}
	if t.maxText > 0 && t.text.Size()+need > t.maxText {
		return fmt.Errorf("%w: edit text needs %d bytes, %d of %d in use", ErrOutOfMemory, need, t.text.Size(), t.maxText)
	}
	return nil
}

func (t *Tree) record(e Edit) error {
	if err := t.Reserve(e); err != nil {
		return err
	}

	var err error
	if e.OldText, err = t.text.Copy(e.OldText); err != nil {
		return err
	}
	if e.NewText, err = t.text.Copy(e.NewText); err != nil {
		return err
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	parent := t.at(t.current)
	r, err := t.nodes.New(node{
		edit:   e,
		parent: t.current,
		index:  len(parent.children),
	})
	if err != nil {
		return err
	}
	parent.children = append(parent.children, r)
	parent.active = len(parent.children) - 1
	t.current = r
	t.count++
	return nil
}

// Undo moves to the parent of the current node and returns the edit that
// was stored there. The caller applies its inverse. It returns false at the
// root.
//
// The parent's active child becomes the undone node, so the next Redo
// replays the same edit. The returned slices are owned by the tree and must
// not be modified.
func (t *Tree) Undo() (Edit, bool) {
	if t == nil || t.current == t.root {
		return Edit{}, false
	}
	n := t.at(t.current)
	t.at(n.parent).active = n.index
	t.current = n.parent
	return n.edit, true
}

// Redo moves to the active child of the current node and returns its edit.
// The caller re-applies it. It returns false when there is nothing to redo.
// An out-of-range active index falls back to the last child.
func (t *Tree) Redo() (Edit, bool) {
	if t == nil {
		return Edit{}, false
	}
	n := t.at(t.current)
	if len(n.children) == 0 {
		return Edit{}, false
	}
	i := n.active
	if i < 0 || i >= len(n.children) {
		i = len(n.children) - 1
	}
	t.current = n.children[i]
	return t.at(t.current).edit, true
}

// CanUndo returns true if undo is available.
func (t *Tree) CanUndo() bool {
	return t != nil && t.current != t.root
}

// CanRedo returns true if redo is available.
func (t *Tree) CanRedo() bool {
	return t.BranchCount() > 0
}

// BranchCount returns the number of children of the current node.
func (t *Tree) BranchCount() int {
	if t == nil {
		return 0
	}
	return len(t.at(t.current).children)
}

// ActiveBranch returns the child index the next Redo follows.
func (t *Tree) ActiveBranch() int {
	if t == nil {
		return 0
	}
	return t.at(t.current).active
}

// SwitchBranch selects the child the next Redo follows.
func (t *Tree) SwitchBranch(i int) error {
	n := t.BranchCount()
	if i < 0 || i >= n {
		return fmt.Errorf("%w: %d of %d", ErrBranchOutOfRange, i, n)
	}
	t.at(t.current).active = i
	return nil
}

// NodeCount returns the number of edits in the tree, including group markers.
func (t *Tree) NodeCount() int {
	if t == nil {
		return 0
	}
	return t.count
}

// Depth returns the distance of the current node from the root.
func (t *Tree) Depth() int {
	if t == nil {
		return 0
	}
	d := 0
	for r := t.current; r != t.root; r = t.at(r).parent {
		d++
	}
	return d
}

// Current identifies the current node.
// It is stable for the lifetime of the tree and can be compared later.
func (t *Tree) Current() NodeID {
	if t == nil {
		return 0
	}
	return NodeID(t.current)
}

// Content returns the nearest node at or above id that is not a group
// marker. Markers leave the text alone, so nodes with the same Content
// hold the same text. Nodes dropped from an empty group still resolve to
// their former parent.
func (t *Tree) Content(id NodeID) NodeID {
	if t == nil || id == 0 {
		return id
	}
	r := ref(id)
	for r != t.root && t.at(r).edit.Kind.IsMarker() {
		r = t.at(r).parent
	}
	return NodeID(r)
}

// Root identifies the root node.
func (t *Tree) Root() NodeID {
	if t == nil {
		return 0
	}
	return NodeID(t.root)
}

// TextSize returns the bytes of edit text held by the tree.
func (t *Tree) TextSize() int {
	if t == nil {
		return 0
	}
	return t.text.Size()
}

// UndoInfo describes the edits between the root and the current node,
// oldest first.
func (t *Tree) UndoInfo() []Info {
	if t == nil {
		return nil
	}
	var out []Info
	for r := t.current; r != t.root; r = t.at(r).parent {
		e := t.at(r).edit
		out = append(out, Info{
			Kind:        e.Kind,
			Description: e.Description(),
			Timestamp:   e.Timestamp,
			BytesDelta:  e.BytesDelta(),
		})
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

package history

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func insertEdit(offset int, text string) Edit {
	return Edit{Kind: Insert, Offset: offset, NewLength: len(text), NewText: []byte(text)}
}

func deleteEdit(offset int, text string) Edit {
	return Edit{Kind: Delete, Offset: offset, OldLength: len(text), OldText: []byte(text)}
}

func mustRecord(t *testing.T, tr *Tree, e Edit) {
	t.Helper()
	if err := tr.Record(e); err != nil {
		t.Fatalf("Record(%v) error = %v", e.Kind, err)
	}
}

func TestNewTree(t *testing.T) {
	tr := New()

	if tr.CanUndo() {
		t.Error("new tree should not undo")
	}
	if tr.CanRedo() {
		t.Error("new tree should not redo")
	}
	if tr.NodeCount() != 0 || tr.Depth() != 0 {
		t.Errorf("NodeCount() = %d, Depth() = %d", tr.NodeCount(), tr.Depth())
	}
	if tr.Current() != tr.Root() {
		t.Error("current should be the root")
	}
	if _, ok := tr.Undo(); ok {
		t.Error("Undo at root should fail")
	}
	if _, ok := tr.Redo(); ok {
		t.Error("Redo without children should fail")
	}
}

func TestRecordUndoRedo(t *testing.T) {
	tr := New()
	mustRecord(t, tr, insertEdit(0, "a"))
	mustRecord(t, tr, insertEdit(1, "b"))

	if tr.Depth() != 2 || tr.NodeCount() != 2 {
		t.Fatalf("Depth() = %d, NodeCount() = %d", tr.Depth(), tr.NodeCount())
	}

	e, ok := tr.Undo()
	if !ok || string(e.NewText) != "b" {
		t.Fatalf("Undo() = %q, %v", e.NewText, ok)
	}
	e, ok = tr.Undo()
	if !ok || string(e.NewText) != "a" {
		t.Fatalf("Undo() = %q, %v", e.NewText, ok)
	}
	if tr.CanUndo() {
		t.Error("should be at root")
	}

	e, ok = tr.Redo()
	if !ok || string(e.NewText) != "a" {
		t.Fatalf("Redo() = %q, %v", e.NewText, ok)
	}
	e, ok = tr.Redo()
	if !ok || string(e.NewText) != "b" {
		t.Fatalf("Redo() = %q, %v", e.NewText, ok)
	}
	if tr.CanRedo() {
		t.Error("should be at the tip")
	}
}

func TestRecordCopiesText(t *testing.T) {
	tr := New()
	text := []byte("hello")
	mustRecord(t, tr, Edit{Kind: Insert, NewLength: 5, NewText: text})
	copy(text, "HELLO")

	e, _ := tr.Undo()
	if string(e.NewText) != "hello" {
		t.Errorf("tree aliases caller text: %q", e.NewText)
	}
	if tr.TextSize() != 5 {
		t.Errorf("TextSize() = %d, want 5", tr.TextSize())
	}
}

func TestRecordTimestamp(t *testing.T) {
	tr := New()
	mustRecord(t, tr, insertEdit(0, "a"))
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	e := insertEdit(1, "b")
	e.Timestamp = fixed
	mustRecord(t, tr, e)

	got, _ := tr.Undo()
	if !got.Timestamp.Equal(fixed) {
		t.Errorf("explicit timestamp overwritten: %v", got.Timestamp)
	}
	got, _ = tr.Undo()
	if got.Timestamp.IsZero() {
		t.Error("zero timestamp not filled in")
	}
}

func TestBranching(t *testing.T) {
	tr := New()
	mustRecord(t, tr, insertEdit(0, "E1"))
	tr.Undo()
	mustRecord(t, tr, insertEdit(0, "E2"))
	tr.Undo()

	if tr.BranchCount() != 2 {
		t.Fatalf("BranchCount() = %d, want 2", tr.BranchCount())
	}
	if tr.ActiveBranch() != 1 {
		t.Errorf("ActiveBranch() = %d, want 1", tr.ActiveBranch())
	}
	if tr.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2 (nothing pruned)", tr.NodeCount())
	}

	if err := tr.SwitchBranch(0); err != nil {
		t.Fatal(err)
	}
	e, ok := tr.Redo()
	if !ok || string(e.NewText) != "E1" {
		t.Errorf("Redo() after SwitchBranch(0) = %q, want E1", e.NewText)
	}

	tr.Undo()
	if tr.ActiveBranch() != 0 {
		t.Errorf("ActiveBranch() after undo = %d, want 0", tr.ActiveBranch())
	}
	if err := tr.SwitchBranch(1); err != nil {
		t.Fatal(err)
	}
	e, _ = tr.Redo()
	if string(e.NewText) != "E2" {
		t.Errorf("Redo() after SwitchBranch(1) = %q, want E2", e.NewText)
	}
}

func TestUndoSetsActiveChild(t *testing.T) {
	tr := New()
	mustRecord(t, tr, insertEdit(0, "first"))
	tr.Undo()
	mustRecord(t, tr, insertEdit(0, "second"))
	tr.Undo()
	_ = tr.SwitchBranch(0)
	tr.Redo()
	tr.Undo()

	// The undone node stays active even though it is not the newest child.
	e, _ := tr.Redo()
	if string(e.NewText) != "first" {
		t.Errorf("Redo() = %q, want first", e.NewText)
	}
}

func TestSwitchBranchOutOfRange(t *testing.T) {
	tr := New()
	mustRecord(t, tr, insertEdit(0, "a"))
	tr.Undo()

	for _, i := range []int{-1, 1, 5} {
		err := tr.SwitchBranch(i)
		if !errors.Is(err, ErrBranchOutOfRange) {
			t.Errorf("SwitchBranch(%d) error = %v, want ErrBranchOutOfRange", i, err)
		}
	}
	if tr.ActiveBranch() != 0 {
		t.Errorf("ActiveBranch() changed to %d", tr.ActiveBranch())
	}
}

func TestGroups(t *testing.T) {
	tr := New()
	if err := tr.BeginGroup(); err != nil {
		t.Fatal(err)
	}
	mustRecord(t, tr, deleteEdit(0, "abc"))
	_ = tr.BeginGroup()
	if tr.GroupDepth() != 2 {
		t.Errorf("GroupDepth() = %d, want 2", tr.GroupDepth())
	}
	mustRecord(t, tr, insertEdit(0, "xyz"))
	_ = tr.EndGroup()
	if err := tr.EndGroup(); err != nil {
		t.Fatal(err)
	}
	if tr.GroupDepth() != 0 {
		t.Errorf("GroupDepth() = %d, want 0", tr.GroupDepth())
	}

	var kinds []Kind
	for tr.CanUndo() {
		e, _ := tr.Undo()
		kinds = append(kinds, e.Kind)
	}
	want := []Kind{GroupEnd, Insert, Delete, GroupStart}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("undo order mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyGroupLeavesNoHistory(t *testing.T) {
	tr := New()
	mustRecord(t, tr, insertEdit(0, "a"))
	tr.Undo()
	mustRecord(t, tr, insertEdit(0, "b"))
	tr.Undo()
	_ = tr.SwitchBranch(0)
	before := tr.Current()

	_ = tr.BeginGroup()
	_ = tr.BeginGroup()
	_ = tr.EndGroup()
	_ = tr.EndGroup()

	if tr.Current() != before {
		t.Error("current moved")
	}
	if tr.NodeCount() != 2 || tr.BranchCount() != 2 {
		t.Errorf("NodeCount() = %d, BranchCount() = %d", tr.NodeCount(), tr.BranchCount())
	}
	if tr.ActiveBranch() != 0 {
		t.Errorf("ActiveBranch() = %d, want 0", tr.ActiveBranch())
	}
}

func TestEndGroupWithoutBegin(t *testing.T) {
	tr := New()
	if err := tr.EndGroup(); err != nil {
		t.Errorf("EndGroup() error = %v", err)
	}
	if tr.NodeCount() != 0 {
		t.Error("EndGroup without BeginGroup recorded a node")
	}
}

func TestRecordOutOfMemory(t *testing.T) {
	t.Run("nodes", func(t *testing.T) {
		tr := New(WithMaxNodes(2))
		mustRecord(t, tr, insertEdit(0, "a"))
		mustRecord(t, tr, insertEdit(1, "b"))
		cur := tr.Current()

		err := tr.Record(insertEdit(2, "c"))
		if !errors.Is(err, ErrOutOfMemory) {
			t.Fatalf("error = %v, want ErrOutOfMemory", err)
		}
		if tr.Current() != cur || tr.NodeCount() != 2 || tr.TextSize() != 2 {
			t.Error("tree changed after failed record")
		}
	})

	t.Run("text", func(t *testing.T) {
		tr := New(WithMaxTextBytes(4))
		mustRecord(t, tr, insertEdit(0, "abc"))

		err := tr.Record(Edit{Kind: Replace, OldLength: 1, NewLength: 1, OldText: []byte("x"), NewText: []byte("y")})
		if !errors.Is(err, ErrOutOfMemory) {
			t.Fatalf("error = %v, want ErrOutOfMemory", err)
		}
		if tr.NodeCount() != 1 || tr.TextSize() != 3 {
			t.Errorf("tree changed: NodeCount() = %d, TextSize() = %d", tr.NodeCount(), tr.TextSize())
		}
	})

	t.Run("group marker", func(t *testing.T) {
		tr := New(WithMaxNodes(1))
		mustRecord(t, tr, insertEdit(0, "a"))

		if err := tr.BeginGroup(); !errors.Is(err, ErrOutOfMemory) {
			t.Fatalf("BeginGroup() error = %v, want ErrOutOfMemory", err)
		}
		if tr.GroupDepth() != 0 {
			t.Errorf("GroupDepth() = %d after failed BeginGroup", tr.GroupDepth())
		}
	})

	t.Run("group end marker", func(t *testing.T) {
		tr := New(WithMaxNodes(2))
		if err := tr.BeginGroup(); err != nil {
			t.Fatal(err)
		}
		mustRecord(t, tr, insertEdit(0, "a"))

		if err := tr.EndGroup(); !errors.Is(err, ErrOutOfMemory) {
			t.Fatalf("EndGroup() error = %v, want ErrOutOfMemory", err)
		}
		if tr.GroupDepth() != 0 {
			t.Errorf("GroupDepth() = %d after failed EndGroup", tr.GroupDepth())
		}
		if tr.NodeCount() != 2 {
			t.Errorf("NodeCount() = %d, want 2", tr.NodeCount())
		}
	})
}

func TestUndoInfo(t *testing.T) {
	tr := New()
	mustRecord(t, tr, insertEdit(0, "hi"))
	mustRecord(t, tr, deleteEdit(0, "h"))
	mustRecord(t, tr, insertEdit(0, "zz"))
	tr.Undo()

	info := tr.UndoInfo()
	if len(info) != 2 {
		t.Fatalf("len(UndoInfo()) = %d, want 2", len(info))
	}
	if info[0].Description != `Insert "hi"` || info[0].BytesDelta != 2 {
		t.Errorf("info[0] = %+v", info[0])
	}
	if info[1].Kind != Delete || info[1].BytesDelta != -1 {
		t.Errorf("info[1] = %+v", info[1])
	}
}

func TestNilTree(t *testing.T) {
	var tr *Tree

	if err := tr.Record(insertEdit(0, "a")); err != nil {
		t.Errorf("Record on nil tree error = %v", err)
	}
	if _, ok := tr.Undo(); ok {
		t.Error("Undo on nil tree should fail")
	}
	if _, ok := tr.Redo(); ok {
		t.Error("Redo on nil tree should fail")
	}
	if tr.CanUndo() || tr.CanRedo() || tr.BranchCount() != 0 || tr.NodeCount() != 0 || tr.Depth() != 0 {
		t.Error("nil tree should report empty state")
	}
	if err := tr.SwitchBranch(0); !errors.Is(err, ErrBranchOutOfRange) {
		t.Errorf("SwitchBranch on nil tree error = %v", err)
	}
	if tr.BeginGroup() != nil || tr.EndGroup() != nil || tr.GroupDepth() != 0 {
		t.Error("group calls on nil tree should do nothing")
	}
	if tr.UndoInfo() != nil {
		t.Error("UndoInfo on nil tree should be nil")
	}
}

func TestReserve(t *testing.T) {
	tr := New(WithMaxNodes(3), WithMaxTextBytes(4))
	mustRecord(t, tr, insertEdit(0, "ab"))

	tests := []struct {
		name  string
		edits []Edit
		ok    bool
	}{
		{"none", nil, true},
		{"one fits", []Edit{insertEdit(2, "cd")}, true},
		{"markers fit", []Edit{{Kind: GroupStart}, {Kind: GroupEnd}}, true},
		{"too many nodes", []Edit{{Kind: GroupStart}, insertEdit(2, "c"), {Kind: GroupEnd}}, false},
		{"too much text", []Edit{insertEdit(2, "c"), insertEdit(3, "de")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tr.Reserve(tt.edits...)
			if tt.ok && err != nil {
				t.Errorf("Reserve() error = %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrOutOfMemory) {
				t.Errorf("Reserve() error = %v, want ErrOutOfMemory", err)
			}
		})
	}
	if tr.NodeCount() != 1 || tr.TextSize() != 2 {
		t.Errorf("Reserve changed the tree: NodeCount() = %d, TextSize() = %d", tr.NodeCount(), tr.TextSize())
	}
}

func TestContent(t *testing.T) {
	tr := New()
	if got := tr.Content(tr.Root()); got != tr.Root() {
		t.Errorf("Content(root) = %d, want %d", got, tr.Root())
	}

	mustRecord(t, tr, insertEdit(0, "a"))
	first := tr.Current()
	if err := tr.BeginGroup(); err != nil {
		t.Fatal(err)
	}
	start := tr.Current()
	mustRecord(t, tr, insertEdit(1, "b"))
	second := tr.Current()
	if err := tr.EndGroup(); err != nil {
		t.Fatal(err)
	}
	end := tr.Current()

	tests := []struct {
		name string
		id   NodeID
		want NodeID
	}{
		{"edit", first, first},
		{"group start", start, first},
		{"grouped edit", second, second},
		{"group end", end, second},
	}
	for _, tt := range tests {
		if got := tr.Content(tt.id); got != tt.want {
			t.Errorf("%s: Content() = %d, want %d", tt.name, got, tt.want)
		}
	}

	if err := tr.BeginGroup(); err != nil {
		t.Fatal(err)
	}
	dropped := tr.Current()
	if err := tr.EndGroup(); err != nil {
		t.Fatal(err)
	}
	if got := tr.Content(dropped); got != second {
		t.Errorf("Content(dropped group start) = %d, want %d", got, second)
	}
}

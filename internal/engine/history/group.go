package history

// BeginGroup opens a group of edits that form one user operation.
// Groups nest; only the outermost one records a GroupStart marker.
func (t *Tree) BeginGroup() error {
	if t == nil {
		return nil
	}
	if t.groupDepth > 0 {
		t.groupDepth++
		return nil
	}

	prevActive := t.at(t.current).active
	if err := t.record(Edit{Kind: GroupStart}); err != nil {
		return err
	}
	t.groupDepth = 1
	t.groupStart = t.current
	t.groupEdits = 0
	t.groupPrevActive = prevActive
	return nil
}

// EndGroup closes the innermost open group. Closing the outermost group
// records a GroupEnd marker, unless no edit was recorded inside it: then
// the GroupStart marker is dropped and the group leaves no history.
// It does nothing when no group is open.
//
// The group is closed even if the marker cannot be recorded. Its edits
// then undo one at a time.
func (t *Tree) EndGroup() error {
	if t == nil || t.groupDepth == 0 {
		return nil
	}
	if t.groupDepth > 1 {
		t.groupDepth--
		return nil
	}

	var err error
	if t.groupEdits == 0 && t.current == t.groupStart {
		t.discardGroupStart()
	} else {
		err = t.record(Edit{Kind: GroupEnd})
	}
	t.groupDepth = 0
	t.groupStart = 0
	t.groupEdits = 0
	return err
}

// discardGroupStart unlinks the current GroupStart marker, which has no
// children and is the last child of its parent. The node stays in the arena.
func (t *Tree) discardGroupStart() {
	n := t.at(t.current)
	parent := t.at(n.parent)
	parent.children = parent.children[:len(parent.children)-1]
	parent.active = t.groupPrevActive
	if parent.active >= len(parent.children) {
		parent.active = max(len(parent.children)-1, 0)
	}
	t.current = n.parent
	t.count--
}

// GroupDepth returns the nesting depth of open groups.
func (t *Tree) GroupDepth() int {
	if t == nil {
		return 0
	}
	return t.groupDepth
}

package cursor

// Selection represents a range of selected text.
// Anchor is where the selection started; Head is where typing occurs.
// When Anchor == Head the selection is just a cursor.
type Selection struct {
	Anchor Position
	Head   Position
}

// NewSelection creates a selection from anchor to head.
func NewSelection(anchor, head Position) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// Caret creates a selection with no extent at p.
func Caret(p Position) Selection {
	return Selection{Anchor: p, Head: p}
}

// IsEmpty returns true if the selection has no extent.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Range returns the selection as a normalized range.
func (s Selection) Range() Range {
	return Range{Start: s.Anchor, End: s.Head}.Normalize()
}

// IsForward returns true if the head is at or after the anchor.
func (s Selection) IsForward() bool {
	return !s.Head.Before(s.Anchor)
}

// MoveTo collapses the selection to a caret at p.
func (s Selection) MoveTo(p Position) Selection {
	return Caret(p)
}

// Extend keeps the anchor and moves the head to p.
func (s Selection) Extend(p Position) Selection {
	return Selection{Anchor: s.Anchor, Head: p}
}

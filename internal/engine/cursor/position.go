package cursor

import "fmt"

// Position is a line and column in a document.
// Both are zero-based; Column is a byte offset within the line.
type Position struct {
	Line   int
	Column int
}

// Pos is shorthand for Position{Line: line, Column: col}.
func Pos(line, col int) Position {
	return Position{Line: line, Column: col}
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// IsZero returns true if this is the zero position (0:0).
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

// Clamp returns p with negative components raised to zero.
func (p Position) Clamp() Position {
	if p.Line < 0 {
		p.Line = 0
	}
	if p.Column < 0 {
		p.Column = 0
	}
	return p
}

// Range is a span between two positions.
// Start is inclusive, End is exclusive. The type does not enforce
// Start <= End; callers normalize when they need to.
type Range struct {
	Start Position
	End   Position
}

// NewRange creates a Range from start and end positions.
func NewRange(start, end Position) Range {
	return Range{Start: start, End: end}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%s-%s)", r.Start, r.End)
}

// IsEmpty returns true if start equals end.
func (r Range) IsEmpty() bool {
	return r.Start.Compare(r.End) == 0
}

// IsValid returns true if start <= end.
func (r Range) IsValid() bool {
	return r.Start.Compare(r.End) <= 0
}

// Normalize returns the range with Start <= End.
func (r Range) Normalize() Range {
	if r.End.Before(r.Start) {
		return Range{Start: r.End, End: r.Start}
	}
	return r
}

// Contains returns true if p lies within the normalized range.
func (r Range) Contains(p Position) bool {
	n := r.Normalize()
	return p.Compare(n.Start) >= 0 && p.Compare(n.End) < 0
}

// IsSingleLine returns true if the range spans only one line.
func (r Range) IsSingleLine() bool {
	return r.Start.Line == r.End.Line
}

package piecetable

import (
	"bytes"

	"github.com/dshills/quill/internal/engine/arena"
)

// Source identifies the buffer a piece references.
type Source uint8

const (
	Original Source = iota // immutable content loaded at creation
	Added                  // append-only buffer of inserted text
)

// String returns the name of the source.
func (s Source) String() string {
	switch s {
	case Original:
		return "original"
	case Added:
		return "added"
	default:
		return "unknown"
	}
}

// piece is one span of the document. Pieces are linked by arena index.
type piece struct {
	source Source
	start  int
	length int
	lines  int // number of '\n' in the span
	prev   ref
	next   ref
}

type ref = arena.Pointer[piece]

// Piece is a read-only description of a piece, for diagnostics.
type Piece struct {
	Source Source
	Start  int
	Length int
	Lines  int
}

func countNewlines(b []byte) int {
	return bytes.Count(b, []byte{'\n'})
}

// at dereferences a piece handle.
func (pt *PieceTable) at(r ref) *piece {
	return pt.pieces.At(r)
}

// span returns the bytes a piece references.
func (pt *PieceTable) span(p *piece) []byte {
	buf := pt.original
	if p.source == Added {
		buf = pt.add
	}
	return buf[p.start : p.start+p.length]
}

// recount refreshes the cached newline count of p and returns the change.
func (pt *PieceTable) recount(p *piece) int {
	old := p.lines
	p.lines = countNewlines(pt.span(p))
	return p.lines - old
}

// linkBefore links n immediately before at.
func (pt *PieceTable) linkBefore(at, n ref) {
	a, p := pt.at(at), pt.at(n)
	p.next = at
	p.prev = a.prev
	if a.prev.Nil() {
		pt.head = n
	} else {
		pt.at(a.prev).next = n
	}
	a.prev = n
	pt.count++
}

// linkAfter links n immediately after at.
func (pt *PieceTable) linkAfter(at, n ref) {
	a, p := pt.at(at), pt.at(n)
	p.prev = at
	p.next = a.next
	if a.next.Nil() {
		pt.tail = n
	} else {
		pt.at(a.next).prev = n
	}
	a.next = n
	pt.count++
}

// unlink removes r from the list. The piece itself stays in the arena.
func (pt *PieceTable) unlink(r ref) {
	p := pt.at(r)
	if p.prev.Nil() {
		pt.head = p.next
	} else {
		pt.at(p.prev).next = p.next
	}
	if p.next.Nil() {
		pt.tail = p.prev
	} else {
		pt.at(p.next).prev = p.prev
	}
	p.prev, p.next = 0, 0
	pt.count--
}

// find returns the piece containing offset and the offset within it.
// It returns a nil ref when offset is at or beyond the end.
func (pt *PieceTable) find(offset int) (ref, int) {
	pos := 0
	for r := pt.head; !r.Nil(); {
		p := pt.at(r)
		if offset < pos+p.length {
			return r, offset - pos
		}
		pos += p.length
		r = p.next
	}
	return 0, 0
}

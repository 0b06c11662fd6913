package piecetable

import (
	"bytes"
	"fmt"

	"github.com/dshills/quill/internal/engine/arena"
)

// PieceTable is an editable byte sequence.
type PieceTable struct {
	original []byte
	add      []byte

	addMin    int
	addMax    int
	maxPieces int

	pieces *arena.Arena[piece]
	head   ref
	tail   ref
	count  int

	length   int
	newlines int
}

// New creates a piece table holding a copy of initial.
func New(initial []byte, opts ...Option) *PieceTable {
	pt := &PieceTable{addMin: DefaultAddCapacity}
	for _, opt := range opts {
		opt(pt)
	}

	pt.pieces = arena.New[piece](arena.WithLimit(pt.maxPieces))
	pt.original = bytes.Clone(initial)

	if len(pt.original) > 0 {
		// The limit is at least one, so the first allocation cannot fail.
		r, _ := pt.pieces.New(piece{
			source: Original,
			length: len(pt.original),
			lines:  countNewlines(pt.original),
		})
		pt.head, pt.tail = r, r
		pt.count = 1
		pt.length = len(pt.original)
		pt.newlines = pt.at(r).lines
	}

	return pt
}

// FromString creates a piece table holding s.
func FromString(s string, opts ...Option) *PieceTable {
	return New([]byte(s), opts...)
}

// Insert inserts text at offset. The offset is clamped to [0, Len()].
// Inserting empty text does nothing.
//
// On ErrOutOfMemory the table is left unchanged.
func (pt *PieceTable) Insert(offset int, text []byte) error {
	if pt == nil {
		return fmt.Errorf("%w: nil piece table", ErrInvalidArgument)
	}
	if len(text) == 0 {
		return nil
	}
	offset = clamp(offset, 0, pt.length)

	var target ref
	var local int
	needed := 1
	if offset > 0 && offset < pt.length {
		target, local = pt.find(offset)
		if local > 0 {
			needed = 2
		}
	}
	if err := pt.pieces.Reserve(needed); err != nil {
		return err
	}

	start, err := pt.appendAdd(text)
	if err != nil {
		return err
	}
	n, _ := pt.pieces.New(piece{
		source: Added,
		start:  start,
		length: len(text),
		lines:  countNewlines(text),
	})

	switch {
	case pt.head.Nil():
		pt.head, pt.tail = n, n
		pt.count = 1
	case offset == 0:
		pt.linkBefore(pt.head, n)
	case offset == pt.length:
		pt.linkAfter(pt.tail, n)
	case local == 0:
		pt.linkBefore(target, n)
	default:
		left := pt.at(target)
		right := piece{
			source: left.source,
			start:  left.start + local,
			length: left.length - local,
		}
		right.lines = countNewlines(pt.span(&right))
		left.length = local
		pt.recount(left)

		r, _ := pt.pieces.New(right)
		pt.linkAfter(target, n)
		pt.linkAfter(n, r)
	}

	pt.length += len(text)
	pt.newlines += pt.at(n).lines
	return nil
}

// InsertString inserts s at offset.
func (pt *PieceTable) InsertString(offset int, s string) error {
	return pt.Insert(offset, []byte(s))
}

// Delete removes length bytes starting at offset.
// The length is clamped so the range stays inside the document. Deleting
// zero bytes does nothing.
//
// On error the table is left unchanged.
func (pt *PieceTable) Delete(offset, length int) error {
	if pt == nil {
		return fmt.Errorf("%w: nil piece table", ErrInvalidArgument)
	}
	if length == 0 {
		return nil
	}
	if offset < 0 || length < 0 {
		return fmt.Errorf("%w: delete %d bytes at %d", ErrInvalidArgument, length, offset)
	}
	if offset >= pt.length {
		return fmt.Errorf("%w: offset %d at or beyond end %d", ErrInvalidArgument, offset, pt.length)
	}
	if length > pt.length-offset {
		length = pt.length - offset
	}

	cur, local := pt.find(offset)
	p := pt.at(cur)

	// Deletion strictly inside one piece: keep the left part in place and
	// add a right remainder.
	if local > 0 && local+length < p.length {
		if err := pt.pieces.Reserve(1); err != nil {
			return err
		}
		right := piece{
			source: p.source,
			start:  p.start + local + length,
			length: p.length - local - length,
		}
		right.lines = countNewlines(pt.span(&right))
		oldLines := p.lines
		p.length = local
		pt.recount(p)

		r, _ := pt.pieces.New(right)
		pt.linkAfter(cur, r)

		pt.newlines -= oldLines - p.lines - right.lines
		pt.length -= length
		return nil
	}

	remaining := length
	if local > 0 {
		remaining -= p.length - local
		p.length = local
		pt.newlines += pt.recount(p)
		cur = p.next
	}

	for remaining > 0 && !cur.Nil() {
		p := pt.at(cur)
		next := p.next
		if remaining >= p.length {
			pt.unlink(cur)
			pt.newlines -= p.lines
			remaining -= p.length
		} else {
			p.start += remaining
			p.length -= remaining
			pt.newlines += pt.recount(p)
			remaining = 0
		}
		cur = next
	}

	pt.length -= length
	return nil
}

// Reserve reports whether the given number of new pieces and add buffer
// bytes still fit the table's limits. It changes nothing.
func (pt *PieceTable) Reserve(pieces, addBytes int) error {
	if pt == nil {
		return fmt.Errorf("%w: nil piece table", ErrInvalidArgument)
	}
	if err := pt.pieces.Reserve(pieces); err != nil {
		return err
	}
	if need := len(pt.add) + addBytes; pt.addMax > 0 && need > pt.addMax {
		return fmt.Errorf("%w: add buffer needs %d bytes, limit is %d", ErrOutOfMemory, need, pt.addMax)
	}
	return nil
}

// appendAdd appends text to the add buffer and returns where it starts.
// Capacity doubles, starting at the configured minimum.
func (pt *PieceTable) appendAdd(text []byte) (int, error) {
	need := len(pt.add) + len(text)
	if pt.addMax > 0 && need > pt.addMax {
		return 0, fmt.Errorf("%w: add buffer needs %d bytes, limit is %d", ErrOutOfMemory, need, pt.addMax)
	}

	if need > cap(pt.add) {
		newCap := cap(pt.add) * 2
		if newCap < pt.addMin {
			newCap = pt.addMin
		}
		for newCap < need {
			newCap *= 2
		}
		if pt.addMax > 0 && newCap > pt.addMax {
			newCap = pt.addMax
		}
		grown := make([]byte, len(pt.add), newCap)
		copy(grown, pt.add)
		pt.add = grown
	}

	start := len(pt.add)
	pt.add = append(pt.add, text...)
	return start, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

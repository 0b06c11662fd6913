package piecetable

import (
	"bytes"
	"io"

	"github.com/dshills/quill/internal/engine/cursor"
)

// Queries never fail. Invalid input, including a nil table, yields a zero
// value.

// Len returns the document length in bytes.
func (pt *PieceTable) Len() int {
	if pt == nil {
		return 0
	}
	return pt.length
}

// LineCount returns the number of lines. An empty document has one line.
func (pt *PieceTable) LineCount() int {
	if pt == nil {
		return 0
	}
	return pt.newlines + 1
}

// PieceCount returns the number of pieces currently linked.
func (pt *PieceTable) PieceCount() int {
	if pt == nil {
		return 0
	}
	return pt.count
}

// Pieces returns a description of every linked piece in document order.
func (pt *PieceTable) Pieces() []Piece {
	if pt == nil {
		return nil
	}
	out := make([]Piece, 0, pt.count)
	for r := pt.head; !r.Nil(); r = pt.at(r).next {
		p := pt.at(r)
		out = append(out, Piece{Source: p.source, Start: p.start, Length: p.length, Lines: p.lines})
	}
	return out
}

// ByteAt returns the byte at offset.
func (pt *PieceTable) ByteAt(offset int) (byte, bool) {
	if pt == nil || offset < 0 || offset >= pt.length {
		return 0, false
	}
	r, local := pt.find(offset)
	return pt.span(pt.at(r))[local], true
}

// CopyText copies document bytes starting at offset into dst and returns
// the number of bytes copied. Piece boundaries are crossed transparently.
func (pt *PieceTable) CopyText(dst []byte, offset int) int {
	if pt == nil || offset < 0 || offset >= pt.length || len(dst) == 0 {
		return 0
	}

	r, local := pt.find(offset)
	n := 0
	for !r.Nil() && n < len(dst) {
		p := pt.at(r)
		n += copy(dst[n:], pt.span(p)[local:])
		local = 0
		r = p.next
	}
	return n
}

// Text returns a copy of length bytes starting at offset, clamped to the
// document.
func (pt *PieceTable) Text(offset, length int) []byte {
	if pt == nil || offset < 0 || length <= 0 || offset >= pt.length {
		return []byte{}
	}
	if length > pt.length-offset {
		length = pt.length - offset
	}
	out := make([]byte, length)
	pt.CopyText(out, offset)
	return out
}

// Bytes returns a copy of the whole document.
func (pt *PieceTable) Bytes() []byte {
	return pt.Text(0, pt.Len())
}

// String returns the whole document as a string.
func (pt *PieceTable) String() string {
	return string(pt.Bytes())
}

// WriteTo writes the document to w piece by piece.
func (pt *PieceTable) WriteTo(w io.Writer) (int64, error) {
	if pt == nil {
		return 0, nil
	}
	var total int64
	for r := pt.head; !r.Nil(); r = pt.at(r).next {
		n, err := w.Write(pt.span(pt.at(r)))
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// newlineOffset returns the offset of the k-th newline (1-based), or -1.
// Pieces are skipped using their cached newline counts.
func (pt *PieceTable) newlineOffset(k int) int {
	if k <= 0 || k > pt.newlines {
		return -1
	}
	seen := 0
	pos := 0
	for r := pt.head; !r.Nil(); r = pt.at(r).next {
		p := pt.at(r)
		if seen+p.lines < k {
			seen += p.lines
			pos += p.length
			continue
		}
		span := pt.span(p)
		for i := 0; i < len(span); i++ {
			if span[i] != '\n' {
				continue
			}
			seen++
			if seen == k {
				return pos + i
			}
		}
	}
	return -1
}

// LineStart returns the offset of the first byte of line.
// Lines outside the document yield 0.
func (pt *PieceTable) LineStart(line int) int {
	if pt == nil || line <= 0 || line >= pt.LineCount() {
		return 0
	}
	return pt.newlineOffset(line) + 1
}

// lineEnd returns the offset of the newline ending line, or Len() for the
// last line.
func (pt *PieceTable) lineEnd(line int) int {
	if line >= pt.newlines {
		return pt.length
	}
	return pt.newlineOffset(line + 1)
}

// LineLength returns the length of line in bytes, excluding its newline.
// Lines outside the document yield 0.
func (pt *PieceTable) LineLength(line int) int {
	if pt == nil || line < 0 || line >= pt.LineCount() {
		return 0
	}
	return pt.lineEnd(line) - pt.LineStart(line)
}

// Line returns a copy of line without its newline.
// Lines outside the document yield an empty slice.
func (pt *PieceTable) Line(line int) []byte {
	if pt == nil || line < 0 || line >= pt.LineCount() {
		return []byte{}
	}
	start := pt.LineStart(line)
	return pt.Text(start, pt.lineEnd(line)-start)
}

// OffsetToPosition converts a byte offset to a line and byte column.
// The offset is clamped to [0, Len()].
func (pt *PieceTable) OffsetToPosition(offset int) cursor.Position {
	if pt == nil || offset <= 0 {
		return cursor.Position{}
	}
	offset = clamp(offset, 0, pt.length)

	line := 0
	lineStart := 0
	pos := 0
	for r := pt.head; !r.Nil() && pos < offset; r = pt.at(r).next {
		p := pt.at(r)
		span := pt.span(p)
		if pos+p.length > offset {
			span = span[:offset-pos]
			if n := countNewlines(span); n > 0 {
				line += n
				lineStart = pos + bytes.LastIndexByte(span, '\n') + 1
			}
			break
		}
		if p.lines > 0 {
			line += p.lines
			lineStart = pos + bytes.LastIndexByte(span, '\n') + 1
		}
		pos += p.length
	}

	return cursor.Position{Line: line, Column: offset - lineStart}
}

// PositionToOffset converts a line and byte column to an offset.
// The line is clamped to the document and the column to the line length.
func (pt *PieceTable) PositionToOffset(p cursor.Position) int {
	if pt == nil {
		return 0
	}
	line := clamp(p.Line, 0, pt.LineCount()-1)
	start := pt.LineStart(line)
	col := clamp(p.Column, 0, pt.lineEnd(line)-start)
	return start + col
}

// Package piecetable provides the document model of the editor: a piece
// table built from an immutable original buffer and an append-only add
// buffer.
//
// The current text is a doubly linked list of pieces. Each piece references
// a span of one of the two buffers and caches the number of newlines in
// that span. Neither buffer is ever modified in place, so a piece stays
// valid for the lifetime of the table no matter what is inserted later.
//
// # Insertion
//
// Inserted text is appended to the add buffer and described by a single new
// piece. When the insertion point falls strictly inside a piece, that piece
// is split in two and the new piece is linked between the halves:
//
//	+---------------+         +---------+   +-----+   +-----+
//	| existing text |   -->   | existing|-->|demo |-->| text|
//	+---------------+         +---------+   +-----+   +-----+
//
// At a piece boundary the new piece is linked next to its neighbour and
// nothing is split.
//
// # Deletion
//
// A deletion walks the pieces it overlaps. Fully covered pieces are
// unlinked, partially covered pieces are shrunk from the front or the back,
// and a deletion strictly inside one piece splits it into two remainders.
//
// # Cost
//
// Every mutation and query is linear in the number of pieces it touches,
// never in the document size. Pieces live in an arena and reference each
// other by index, so list surgery never invalidates other pieces.
//
// Offsets are byte offsets. Line and column are derived: a line ends at
// '\n', and a column is a byte offset within its line.
//
// A PieceTable is not safe for concurrent use.
package piecetable

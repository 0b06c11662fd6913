package piecetable

// DefaultAddCapacity is the minimum capacity of the add buffer once it grows.
const DefaultAddCapacity = 4096

// Option configures a PieceTable during creation.
type Option func(*PieceTable)

// WithAddCapacity sets the minimum capacity the add buffer grows to.
func WithAddCapacity(n int) Option {
	return func(pt *PieceTable) {
		if n > 0 {
			pt.addMin = n
		}
	}
}

// WithMaxAddBytes caps the size of the add buffer.
// Inserts that would exceed it fail with ErrOutOfMemory.
func WithMaxAddBytes(n int) Option {
	return func(pt *PieceTable) {
		if n > 0 {
			pt.addMax = n
		}
	}
}

// WithMaxPieces caps the number of pieces ever allocated by the table.
// Unlinked pieces still count, since the arena never frees them.
func WithMaxPieces(n int) Option {
	return func(pt *PieceTable) {
		if n > 0 {
			pt.maxPieces = n
		}
	}
}

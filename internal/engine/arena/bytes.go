package arena

import "fmt"

// DefaultChunkSize is the size of a Bytes chunk unless configured otherwise.
const DefaultChunkSize = 4096

// Bytes is a chunked bump allocator for byte slices.
//
// Copies are carved out of fixed-size chunks. A request larger than the
// chunk size gets a dedicated chunk. Returned slices have their capacity
// clipped so appending to one can never overwrite a neighbour.
type Bytes struct {
	chunks    [][]byte
	chunkSize int
	size      int
	limit     int
}

// BytesOption configures a Bytes arena.
type BytesOption func(*Bytes)

// WithChunkSize sets the chunk size.
func WithChunkSize(n int) BytesOption {
	return func(b *Bytes) {
		if n > 0 {
			b.chunkSize = n
		}
	}
}

// WithByteLimit caps the total number of bytes the arena may hand out.
func WithByteLimit(n int) BytesOption {
	return func(b *Bytes) {
		if n > 0 {
			b.limit = n
		}
	}
}

// NewBytes creates a byte arena.
func NewBytes(opts ...BytesOption) *Bytes {
	b := &Bytes{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Size returns the number of bytes handed out so far.
func (b *Bytes) Size() int {
	return b.size
}

// Chunks returns the number of chunks allocated.
func (b *Bytes) Chunks() int {
	return len(b.chunks)
}

// Copy stores a copy of p in the arena and returns it.
// A nil or empty p yields a nil slice and allocates nothing.
func (b *Bytes) Copy(p []byte) ([]byte, error) {
	n := len(p)
	if n == 0 {
		return nil, nil
	}
	if b.limit > 0 && b.size+n > b.limit {
		return nil, fmt.Errorf("%w: %d of %d bytes in use, %d requested", ErrOutOfMemory, b.size, b.limit, n)
	}

	if b.chunkSize <= 0 {
		b.chunkSize = DefaultChunkSize
	}

	var dst []byte
	if n > b.chunkSize {
		// Oversized copies get their own chunk, kept ahead of the current
		// chunk so its free space is not wasted.
		dst = make([]byte, n)
		if len(b.chunks) == 0 {
			b.chunks = append(b.chunks, dst)
		} else {
			last := len(b.chunks) - 1
			b.chunks = append(b.chunks, b.chunks[last])
			b.chunks[last] = dst
		}
	} else {
		if len(b.chunks) == 0 || cap(b.chunks[len(b.chunks)-1])-len(b.chunks[len(b.chunks)-1]) < n {
			b.chunks = append(b.chunks, make([]byte, 0, b.chunkSize))
		}
		last := &b.chunks[len(b.chunks)-1]
		start := len(*last)
		*last = (*last)[:start+n]
		dst = (*last)[start : start+n : start+n]
	}

	copy(dst, p)
	b.size += n
	return dst, nil
}

// Reset drops every chunk. Slices returned by Copy stay readable but are no
// longer owned by the arena.
func (b *Bytes) Reset() {
	b.chunks = nil
	b.size = 0
}

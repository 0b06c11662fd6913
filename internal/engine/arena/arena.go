package arena

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrOutOfMemory is returned when an allocation would exceed the arena limit.
var ErrOutOfMemory = errors.New("arena: out of memory")

// slabMinLenShift is the log2 of the size of the first slab.
const (
	slabMinLenShift = 4
	slabMinLen      = 1 << slabMinLenShift
)

// Pointer is a compressed handle to a value in an Arena.
//
// The value of a pointer is one plus the number of values allocated before
// it. The zero value is nil.
type Pointer[T any] uint32

// Nil returns whether this pointer is nil.
func (p Pointer[T]) Nil() bool {
	return p == 0
}

// String implements fmt.Stringer.
func (p Pointer[T]) String() string {
	if p.Nil() {
		return "<nil>"
	}
	return fmt.Sprintf("#%d", uint32(p))
}

// Arena is a slice of T whose elements never move.
//
// Storage is a table of slabs where every slab doubles the capacity of the
// previous one, mimicking the growth of an ordinary slice without copying.
// Lookup is O(1).
//
// A zero Arena is empty, unlimited and ready to use.
type Arena[T any] struct {
	// cap(table[0]) == slabMinLen, cap(table[n]) == 2*cap(table[n-1]) and
	// every slab but the last is full.
	table [][]T
	count int
	limit int
}

// Option configures an Arena.
type Option func(*config)

type config struct {
	limit int
}

// WithLimit caps the number of values the arena may hold.
// A limit <= 0 means unlimited.
func WithLimit(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.limit = n
		}
	}
}

// New creates an arena with the given options.
func New[T any](opts ...Option) *Arena[T] {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	return &Arena[T]{limit: c.limit}
}

// Len returns the number of values allocated.
func (a *Arena[T]) Len() int {
	return a.count
}

// Limit returns the allocation limit, or 0 when unlimited.
func (a *Arena[T]) Limit() int {
	return a.limit
}

// Reserve reports whether n more values can be allocated.
// It allocates nothing.
func (a *Arena[T]) Reserve(n int) error {
	if a.limit > 0 && a.count+n > a.limit {
		return fmt.Errorf("%w: %d of %d values in use, %d requested", ErrOutOfMemory, a.count, a.limit, n)
	}
	return nil
}

// New allocates value on the arena and returns its handle.
func (a *Arena[T]) New(value T) (Pointer[T], error) {
	if err := a.Reserve(1); err != nil {
		return 0, err
	}

	if a.table == nil {
		a.table = [][]T{make([]T, 0, slabMinLen)}
	}

	last := &a.table[len(a.table)-1]
	if len(*last) == cap(*last) {
		a.table = append(a.table, make([]T, 0, 2*cap(*last)))
		last = &a.table[len(a.table)-1]
	}

	*last = append(*last, value)
	a.count++
	return Pointer[T](a.count), nil
}

// At returns the value p points to, or nil if p is nil or out of range.
func (a *Arena[T]) At(p Pointer[T]) *T {
	if p.Nil() || int(p) > a.count {
		return nil
	}

	idx := int(p) - 1
	slab, off := locate(idx)
	return &a.table[slab][off]
}

// Reset drops every value. All previously returned pointers become invalid.
func (a *Arena[T]) Reset() {
	a.table = nil
	a.count = 0
}

// locate maps a zero-based index onto a slab and an offset in it.
//
// Slab n holds indices [slabMinLen*(2^n - 1), slabMinLen*(2^(n+1) - 1)).
func locate(idx int) (slab, off int) {
	slab = bits.Len(uint(idx/slabMinLen+1)) - 1
	start := slabMinLen * ((1 << slab) - 1)
	return slab, idx - start
}

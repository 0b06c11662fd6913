package history

// Option configures a Tree during creation.
type Option func(*Tree)

// WithMaxNodes caps the number of edits the tree can record.
// Recording beyond it fails with ErrOutOfMemory.
func WithMaxNodes(n int) Option {
	return func(t *Tree) {
		if n > 0 {
			t.maxNodes = n
		}
	}
}

// WithMaxTextBytes caps the total edit text the tree can hold.
func WithMaxTextBytes(n int) Option {
	return func(t *Tree) {
		if n > 0 {
			t.maxText = n
		}
	}
}

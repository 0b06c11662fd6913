// Package arena provides the bump allocators backing the piece table and the
// undo tree.
//
// Two allocators are provided:
//
//   - Arena[T]: a typed slab arena handing out compressed, 1-based index
//     handles (Pointer[T]). Values never move once allocated, so a *T
//     obtained from At stays valid until Reset.
//   - Bytes: a chunked byte allocator used to hold owned copies of text.
//
// Neither allocator frees individual values. The whole arena is released at
// once, together with the structure that owns it. Both accept an optional
// limit; allocations beyond it fail with ErrOutOfMemory instead of growing,
// which lets callers exercise their all-or-nothing error paths.
//
// Arenas are not safe for concurrent use.
package arena

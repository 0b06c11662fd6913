// Package cursor provides the position types shared by the piece table, the
// buffer and the views that paint it.
//
//   - Position: a zero-based line and a byte column within that line
//   - Range: a pair of positions, not normalized by the type itself
//   - Selection: an anchor/head pair whose Range is always normalized
//
// Columns are byte offsets, not code points. A multi-byte UTF-8 sequence
// spans several columns. Views that need terminal cells convert with
// DisplayColumn and ByteColumn, which measure grapheme clusters.
//
// All types are immutable values.
package cursor

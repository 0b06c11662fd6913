// Package buffer ties a piece table and an undo tree to a file.
//
// A Buffer owns exactly one piece table and one undo tree. They are created
// together when the buffer is created or opened and discarded together on
// reload or close, so history never refers to text of a different document.
//
// Basic usage:
//
//	b, err := buffer.Open("main.go")
//	if err != nil {
//	    // b is still usable: an empty buffer bound to the path
//	}
//
//	b.Insert(cursor.Pos(0, 0), []byte("// hello\n"))
//	b.Delete(cursor.NewRange(cursor.Pos(0, 3), cursor.Pos(0, 8)))
//	b.Undo()
//	b.Save()
//
// # Positions
//
// Edits are addressed by cursor.Position, a zero-based line and byte
// column. Positions past the end of a line or the document are clamped.
//
// # Undo
//
// Undo and Redo walk the buffer's undo tree. Editing after an undo starts a
// new branch instead of discarding the undone edits; BranchCount and
// SwitchBranch choose which branch Redo follows. Edits made between
// BeginGroup and EndGroup, including the two halves of a Replace, undo and
// redo as one step.
//
// # Files
//
// Open detects the language, line ending and encoding of the file. UTF-16
// and Latin-1 files are decoded to UTF-8 and encoded back on save. Save
// writes through a temporary file and a rename unless atomic saves are
// disabled. HasExternalChanges compares the file on disk with what was last
// loaded or saved.
//
// A Buffer is not safe for concurrent use. The Registry is.
package buffer

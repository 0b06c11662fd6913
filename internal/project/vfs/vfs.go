// Package vfs is the file storage buffers load from and save to.
//
// OS serves real files. MemFS keeps files in memory for tests and can mark
// files read-only to exercise permission failures.
package vfs

import "io/fs"

// VFS is the set of file operations a buffer needs. Paths are in the
// implementation's own syntax, so path handling goes through it too.
type VFS interface {
	ReadFile(name string) ([]byte, error)

	// WriteFile creates or truncates name. perm applies to new files.
	WriteFile(name string, data []byte, perm fs.FileMode) error

	Stat(name string) (fs.FileInfo, error)

	// Rename moves from onto to, replacing to if it exists.
	Rename(from, to string) error
	Remove(name string) error

	Abs(name string) (string, error)
	Join(elem ...string) string
	Dir(name string) string
	Base(name string) string
}

// Writable reports whether the owner may write the file described by info.
func Writable(info fs.FileInfo) bool {
	return info.Mode().Perm()&0o200 != 0
}

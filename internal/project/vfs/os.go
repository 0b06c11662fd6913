package vfs

import (
	"io/fs"
	"os"
	"path/filepath"
)

// OS is the operating system's file system.
type OS struct{}

var _ VFS = OS{}

func (OS) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

func (OS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (OS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }
func (OS) Rename(from, to string) error { return os.Rename(from, to) }
func (OS) Remove(name string) error { return os.Remove(name) }
func (OS) Abs(name string) (string, error) { return filepath.Abs(name) }
func (OS) Join(elem ...string) string { return filepath.Join(elem...) }
func (OS) Dir(name string) string { return filepath.Dir(name) }
func (OS) Base(name string) string { return filepath.Base(name) }

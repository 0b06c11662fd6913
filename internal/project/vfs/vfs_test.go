package vfs

import (
	"errors"
	"io/fs"
	"testing"
)

// TestVFSInterface runs the same operations against OS and MemFS.
func TestVFSInterface(t *testing.T) {
	t.Run("MemFS", func(t *testing.T) {
		testVFSOperations(t, NewMemFS(), "/")
	})

	t.Run("OS", func(t *testing.T) {
		testVFSOperations(t, OS{}, t.TempDir())
	})
}

func exists(vfs VFS, path string) bool {
	_, err := vfs.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

func testVFSOperations(t *testing.T, vfs VFS, root string) {
	t.Run("WriteFile_ReadFile", func(t *testing.T) {
		path := vfs.Join(root, "test.txt")
		content := []byte("hello world")

		if err := vfs.WriteFile(path, content, 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}

		got, err := vfs.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		if string(got) != string(content) {
			t.Errorf("content mismatch: got %q, want %q", got, content)
		}
	})

	t.Run("Stat", func(t *testing.T) {
		path := vfs.Join(root, "stat_test.txt")
		if err := vfs.WriteFile(path, []byte("test content"), 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}

		info, err := vfs.Stat(path)
		if err != nil {
			t.Fatalf("Stat failed: %v", err)
		}
		if info.Name() != "stat_test.txt" {
			t.Errorf("Name() = %q", info.Name())
		}
		if info.Size() != 12 {
			t.Errorf("Size() = %d, want 12", info.Size())
		}
		if info.IsDir() || !info.Mode().IsRegular() {
			t.Error("expected a regular file")
		}
		if !Writable(info) {
			t.Error("expected a writable file")
		}
		if info.ModTime().IsZero() {
			t.Error("ModTime() is zero")
		}
	})

	t.Run("Missing", func(t *testing.T) {
		path := vfs.Join(root, "missing.txt")
		if exists(vfs, path) {
			t.Error("missing file reported as existing")
		}
		if _, err := vfs.ReadFile(path); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("ReadFile error = %v, want fs.ErrNotExist", err)
		}
		if _, err := vfs.Stat(path); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Stat error = %v, want fs.ErrNotExist", err)
		}
	})

	t.Run("Rename", func(t *testing.T) {
		oldPath := vfs.Join(root, "old.txt")
		newPath := vfs.Join(root, "new.txt")
		_ = vfs.WriteFile(newPath, []byte("replaced"), 0o644)
		if err := vfs.WriteFile(oldPath, []byte("content"), 0o644); err != nil {
			t.Fatal(err)
		}

		if err := vfs.Rename(oldPath, newPath); err != nil {
			t.Fatalf("Rename failed: %v", err)
		}
		if exists(vfs, oldPath) {
			t.Error("old path still exists")
		}
		got, _ := vfs.ReadFile(newPath)
		if string(got) != "content" {
			t.Errorf("new path content = %q", got)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		path := vfs.Join(root, "remove.txt")
		_ = vfs.WriteFile(path, []byte("x"), 0o644)

		if err := vfs.Remove(path); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		if exists(vfs, path) {
			t.Error("file still exists")
		}
	})

	t.Run("Paths", func(t *testing.T) {
		path := vfs.Join(root, "dir", "file.go")
		if vfs.Base(path) != "file.go" {
			t.Errorf("Base() = %q", vfs.Base(path))
		}
		if vfs.Dir(path) != vfs.Join(root, "dir") {
			t.Errorf("Dir() = %q", vfs.Dir(path))
		}
		abs, err := vfs.Abs(path)
		if err != nil || abs == "" {
			t.Errorf("Abs() = %q, %v", abs, err)
		}
	})
}

package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T, opts ...Option) *FileWatcher {
	t.Helper()
	w, err := NewFileWatcher(opts...)
	if err != nil {
		t.Fatalf("NewFileWatcher error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestFileWatcher_WatchUnwatch(t *testing.T) {
	w := newTestWatcher(t)
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")

	if err := w.Watch(a); err != nil {
		t.Fatalf("Watch error = %v", err)
	}
	if err := w.Watch(b); err != nil {
		t.Fatalf("Watch error = %v", err)
	}
	if err := w.Watch(a); !errors.Is(err, ErrAlreadyWatching) {
		t.Errorf("Watch again error = %v, want ErrAlreadyWatching", err)
	}
	if !w.IsWatching(a) || w.dirs[dir] != 2 {
		t.Errorf("IsWatching = %v, dir refs = %d", w.IsWatching(a), w.dirs[dir])
	}
	if paths := w.WatchedPaths(); len(paths) != 2 || paths[0] != a || paths[1] != b {
		t.Errorf("WatchedPaths() = %v", paths)
	}

	if err := w.Unwatch(a); err != nil {
		t.Fatalf("Unwatch error = %v", err)
	}
	if w.dirs[dir] != 1 {
		t.Errorf("dir refs = %d, want 1", w.dirs[dir])
	}
	if err := w.Unwatch(a); !errors.Is(err, ErrNotWatching) {
		t.Errorf("Unwatch again error = %v, want ErrNotWatching", err)
	}
	if err := w.Unwatch(b); err != nil {
		t.Fatalf("Unwatch error = %v", err)
	}
	if _, ok := w.dirs[dir]; ok {
		t.Error("directory should no longer be watched")
	}
}

func TestFileWatcher_MissingDirectory(t *testing.T) {
	w := newTestWatcher(t)
	err := w.Watch(filepath.Join(t.TempDir(), "nope", "file.txt"))
	if !errors.Is(err, ErrPathNotExist) {
		t.Errorf("error = %v, want ErrPathNotExist", err)
	}
}

func TestFileWatcher_MaxWatches(t *testing.T) {
	w := newTestWatcher(t, WithMaxWatches(1))
	dir := t.TempDir()

	if err := w.Watch(filepath.Join(dir, "a")); err != nil {
		t.Fatal(err)
	}
	if err := w.Watch(filepath.Join(dir, "b")); err == nil {
		t.Error("expected watch limit error")
	}
}

func TestFileWatcher_Events(t *testing.T) {
	w := newTestWatcher(t)
	dir := t.TempDir()
	watched := filepath.Join(dir, "watched.txt")
	other := filepath.Join(dir, "other.txt")

	if err := w.Watch(watched); err != nil {
		t.Fatal(err)
	}

	// The watched file does not exist yet; its creation is reported.
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(watched, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := nextEvent(t, w)
	if e.Path != watched {
		t.Errorf("event path = %q, want %q (other files are filtered)", e.Path, watched)
	}
	if !e.Op.Has(OpCreate) && !e.Op.Has(OpWrite) {
		t.Errorf("event op = %v", e.Op)
	}
}

func TestFileWatcher_ReplaceByRename(t *testing.T) {
	w := newTestWatcher(t)
	dir := t.TempDir()
	target := filepath.Join(dir, "file.txt")
	tmp := filepath.Join(dir, "file.txt.tmp")
	if err := os.WriteFile(target, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := w.Watch(target); err != nil {
		t.Fatal(err)
	}

	_ = os.WriteFile(tmp, []byte("v2"), 0o644)
	if err := os.Rename(tmp, target); err != nil {
		t.Fatal(err)
	}

	if e := nextEvent(t, w); e.Path != target {
		t.Errorf("event path = %q, want %q", e.Path, target)
	}
}

func TestFileWatcher_Close(t *testing.T) {
	w, err := NewFileWatcher()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close error = %v", err)
	}
	if err := w.Watch(filepath.Join(t.TempDir(), "x")); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Watch after Close error = %v, want ErrWatcherClosed", err)
	}
	if _, ok := <-w.Events(); ok {
		t.Error("events channel should be closed")
	}
}

func nextEvent(t *testing.T, w Watcher) Event {
	t.Helper()
	select {
	case e := <-w.Events():
		return e
	case err := <-w.Errors():
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for event")
	}
	return Event{}
}

package buffer

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/dshills/quill/internal/logging"
	"github.com/dshills/quill/internal/project/vfs"
	"github.com/dshills/quill/internal/project/watcher"
)

// Registry tracks the open buffers of an editor session and assigns their
// IDs. IDs start at 1 and are never reused.
//
// Registry methods are safe for concurrent use. The buffers it returns are
// not.
type Registry struct {
	mu      sync.RWMutex
	nextID  ID
	buffers map[ID]*Buffer
	stale   map[ID]bool

	opts    []Option
	fs      vfs.VFS
	log     *logging.Logger
	watcher watcher.Watcher
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithBufferOptions sets options applied to every buffer the registry
// creates or opens.
func WithBufferOptions(opts ...Option) RegistryOption {
	return func(r *Registry) {
		r.opts = append(r.opts, opts...)
	}
}

// WithWatcher makes the registry watch the file of every buffer it opens.
// Events from w are passed to HandleEvent by the caller.
func WithWatcher(w watcher.Watcher) RegistryOption {
	return func(r *Registry) {
		r.watcher = w
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		nextID:  1,
		buffers: make(map[ID]*Buffer),
		stale:   make(map[ID]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	defaults := newBuffer(r.opts)
	r.fs = defaults.fs
	r.log = defaults.log.WithComponent("registry")
	return r
}

// allocID returns the next ID. The caller holds mu.
func (r *Registry) allocID() ID {
	id := r.nextID
	r.nextID++
	return id
}

// Create adds a new empty buffer that is not bound to a file.
func (r *Registry) Create(name string) *Buffer {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := New(name, r.bufferOptions(r.allocID())...)
	r.buffers[b.id] = b
	r.log.Debug("created buffer %d (%s)", b.id, name)
	return b
}

// Open returns the buffer bound to path, opening it if no buffer is.
//
// As with the package level Open, a read failure still adds the bound
// empty buffer and returns it with the error.
func (r *Registry) Open(path string) (*Buffer, error) {
	if abs, err := r.fs.Abs(path); err == nil {
		path = abs
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if b := r.findByPath(path); b != nil {
		return b, nil
	}

	b, err := Open(path, r.bufferOptions(r.allocID())...)
	r.buffers[b.id] = b
	if r.watcher != nil {
		if werr := r.watcher.Watch(b.path); werr != nil && !errors.Is(werr, watcher.ErrAlreadyWatching) {
			r.log.Warn("watch %s: %v", b.path, werr)
		}
	}
	return b, err
}

func (r *Registry) bufferOptions(id ID) []Option {
	opts := make([]Option, 0, len(r.opts)+1)
	opts = append(opts, r.opts...)
	return append(opts, WithID(id))
}

// Get returns the buffer with the given ID.
func (r *Registry) Get(id ID) (*Buffer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.buffers[id]
	return b, ok
}

// FindByPath returns the buffer bound to path.
func (r *Registry) FindByPath(path string) (*Buffer, bool) {
	if abs, err := r.fs.Abs(path); err == nil {
		path = abs
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	b := r.findByPath(path)
	return b, b != nil
}

func (r *Registry) findByPath(path string) *Buffer {
	for _, b := range r.buffers {
		if b.path == path {
			return b
		}
	}
	return nil
}

// List returns the open buffers in ID order.
func (r *Registry) List() []*Buffer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*Buffer, 0, len(r.buffers))
	for _, b := range r.buffers {
		list = append(list, b)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].id < list[j].id })
	return list
}

// Len returns the number of open buffers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.buffers)
}

// Close removes the buffer. Its table and history are released with it.
func (r *Registry) Close(id ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buffers[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrBufferNotFound, id)
	}
	delete(r.buffers, id)
	delete(r.stale, id)

	if r.watcher != nil && b.path != "" && r.findByPath(b.path) == nil {
		if err := r.watcher.Unwatch(b.path); err != nil && !errors.Is(err, watcher.ErrNotWatching) {
			r.log.Warn("unwatch %s: %v", b.path, err)
		}
	}
	r.log.Debug("closed buffer %d", id)
	return nil
}

// MarkExternalChange flags the buffer bound to path as stale if the file
// on disk no longer matches it. It returns the buffer and whether it was
// flagged.
func (r *Registry) MarkExternalChange(path string) (*Buffer, bool) {
	if abs, err := r.fs.Abs(path); err == nil {
		path = abs
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.findByPath(path)
	if b == nil {
		return nil, false
	}
	changed, err := b.HasExternalChanges()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.log.Warn("check %s: %v", path, err)
		}
		return b, false
	}
	if changed {
		r.stale[b.id] = true
		r.log.Info("%s changed on disk", path)
	}
	return b, changed
}

// HandleEvent applies a file watcher event. Call it on the goroutine that
// owns the buffers.
func (r *Registry) HandleEvent(ev watcher.Event) (*Buffer, bool) {
	return r.MarkExternalChange(ev.Path)
}

// IsStale returns true if the buffer was flagged by MarkExternalChange and
// not reloaded since.
func (r *Registry) IsStale(id ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stale[id]
}

// Stale returns the IDs of flagged buffers in ascending order.
func (r *Registry) Stale() []ID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]ID, 0, len(r.stale))
	for id := range r.stale {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Reload reloads the buffer from disk and clears its stale flag.
func (r *Registry) Reload(id ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buffers[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrBufferNotFound, id)
	}
	if err := b.Reload(); err != nil {
		return err
	}
	delete(r.stale, id)
	return nil
}

// ClearStale drops the stale flag without reloading, e.g. after the user
// chose to keep the buffer's version.
func (r *Registry) ClearStale(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stale, id)
}

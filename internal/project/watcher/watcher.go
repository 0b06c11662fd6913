// Package watcher notifies buffers about changes made to their files by
// other programs.
//
// Files are watched through their parent directory, so a file that is
// replaced by rename (as most editors and our own atomic save do) keeps
// being watched, and a file that does not exist yet can be watched for its
// creation. Rapid bursts of events can be coalesced with DebouncedWatcher.
package watcher

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Common errors returned by watcher operations.
var (
	ErrWatcherClosed   = errors.New("watcher is closed")
	ErrAlreadyWatching = errors.New("path is already being watched")
	ErrNotWatching     = errors.New("path is not being watched")
	ErrPathNotExist    = errors.New("path does not exist")
)

// Op represents the type of file system operation.
type Op uint32

const (
	// OpCreate indicates a file was created.
	OpCreate Op = 1 << iota
	// OpWrite indicates a file was written to.
	OpWrite
	// OpRemove indicates a file was removed.
	OpRemove
	// OpRename indicates a file was renamed away.
	OpRename
)

// String returns a human-readable representation of the operation.
// Combined operations are joined with '|'.
func (op Op) String() string {
	if op == 0 {
		return "NONE"
	}
	var parts []string
	for _, o := range []struct {
		op   Op
		name string
	}{
		{OpCreate, "CREATE"},
		{OpWrite, "WRITE"},
		{OpRemove, "REMOVE"},
		{OpRename, "RENAME"},
	} {
		if op.Has(o.op) {
			parts = append(parts, o.name)
		}
	}
	if len(parts) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(parts, "|")
}

// Has returns true if the operation includes the given op.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Event represents a change to a watched file.
type Event struct {
	// Path is the absolute path of the affected file.
	Path string

	// Op is the operation that occurred.
	Op Op

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Watcher monitors individual files.
type Watcher interface {
	// Watch starts watching a file. The file need not exist, but its
	// directory must. Returns ErrAlreadyWatching if the file is already
	// being watched.
	Watch(path string) error

	// Unwatch stops watching a file.
	// Returns ErrNotWatching if the file isn't being watched.
	Unwatch(path string) error

	// Events returns the channel of file change events.
	// The channel is closed when the watcher is closed.
	Events() <-chan Event

	// Errors returns the channel of watcher errors.
	// The channel is closed when the watcher is closed.
	Errors() <-chan error

	// Close stops the watcher and releases resources.
	Close() error

	// IsWatching returns true if the file is being watched.
	IsWatching(path string) bool

	// WatchedPaths returns all files being watched.
	WatchedPaths() []string
}

// Handler is a function that handles file events.
type Handler func(event Event)

// ErrorHandler is a function that handles watcher errors.
type ErrorHandler func(err error)

// Config holds watcher configuration options.
type Config struct {
	// BufferSize is the size of the event and error channels.
	// Default: 100
	BufferSize int

	// MaxWatches is the maximum number of files to watch.
	// 0 means unlimited.
	MaxWatches int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BufferSize: 100,
	}
}

// Option configures a watcher.
type Option func(*Config)

// WithBufferSize sets the channel buffer size.
func WithBufferSize(size int) Option {
	return func(c *Config) {
		c.BufferSize = size
	}
}

// WithMaxWatches sets the maximum number of watched files.
func WithMaxWatches(max int) Option {
	return func(c *Config) {
		c.MaxWatches = max
	}
}

// EventDispatcher manages event handlers and dispatches events.
type EventDispatcher struct {
	handlers      []Handler
	errorHandlers []ErrorHandler
}

// NewEventDispatcher creates a new event dispatcher.
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{}
}

// OnEvent registers a handler for file events.
func (d *EventDispatcher) OnEvent(handler Handler) {
	d.handlers = append(d.handlers, handler)
}

// OnError registers a handler for errors.
func (d *EventDispatcher) OnError(handler ErrorHandler) {
	d.errorHandlers = append(d.errorHandlers, handler)
}

// Dispatch sends an event to all handlers.
func (d *EventDispatcher) Dispatch(event Event) {
	for _, handler := range d.handlers {
		handler(event)
	}
}

// DispatchError sends an error to all error handlers.
func (d *EventDispatcher) DispatchError(err error) {
	for _, handler := range d.errorHandlers {
		handler(err)
	}
}

// Run dispatches events from w until ctx is cancelled or w is closed.
// Handlers run on the calling goroutine.
func (d *EventDispatcher) Run(ctx context.Context, w Watcher) {
	events, errs := w.Events(), w.Errors()
	for events != nil || errs != nil {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			d.Dispatch(event)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			d.DispatchError(err)
		}
	}
}

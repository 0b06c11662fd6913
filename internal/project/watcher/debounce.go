package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDelay is used when NewDebouncedWatcher gets no delay.
const DefaultDebounceDelay = 100 * time.Millisecond

// DebouncedWatcher wraps a Watcher with event debouncing.
// Rapid changes to the same file are coalesced into one event carrying the
// union of their operations, delivered once the file has been quiet for the
// delay.
type DebouncedWatcher struct {
	inner Watcher
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*pendingEvent
	events  chan Event
	errors  chan error
	closed  bool
	closeCh chan struct{}
	loopWg  sync.WaitGroup
	fireWg  sync.WaitGroup
}

type pendingEvent struct {
	event Event
	timer *time.Timer
}

// NewDebouncedWatcher creates a debounced watcher wrapper.
func NewDebouncedWatcher(inner Watcher, delay time.Duration) *DebouncedWatcher {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}

	dw := &DebouncedWatcher{
		inner:   inner,
		delay:   delay,
		pending: make(map[string]*pendingEvent),
		events:  make(chan Event, 100),
		errors:  make(chan error, 100),
		closeCh: make(chan struct{}),
	}

	dw.loopWg.Add(1)
	go dw.processLoop()

	return dw
}

// Watch starts watching a file.
func (dw *DebouncedWatcher) Watch(path string) error {
	return dw.inner.Watch(path)
}

// Unwatch stops watching a file. A pending event for it is dropped.
func (dw *DebouncedWatcher) Unwatch(path string) error {
	if err := dw.inner.Unwatch(path); err != nil {
		return err
	}
	dw.mu.Lock()
	if p, ok := dw.pending[path]; ok {
		if p.timer.Stop() {
			dw.fireWg.Done()
		}
		delete(dw.pending, path)
	}
	dw.mu.Unlock()
	return nil
}

// Events returns the debounced event channel.
func (dw *DebouncedWatcher) Events() <-chan Event {
	return dw.events
}

// Errors returns the error channel.
func (dw *DebouncedWatcher) Errors() <-chan error {
	return dw.errors
}

// IsWatching returns true if the file is being watched.
func (dw *DebouncedWatcher) IsWatching(path string) bool {
	return dw.inner.IsWatching(path)
}

// WatchedPaths returns all watched files.
func (dw *DebouncedWatcher) WatchedPaths() []string {
	return dw.inner.WatchedPaths()
}

// Close stops the debounced watcher and the watcher it wraps.
// Pending events are discarded.
func (dw *DebouncedWatcher) Close() error {
	dw.mu.Lock()
	if dw.closed {
		dw.mu.Unlock()
		return nil
	}
	dw.closed = true
	close(dw.closeCh)
	for path, p := range dw.pending {
		if p.timer.Stop() {
			dw.fireWg.Done()
		}
		delete(dw.pending, path)
	}
	dw.mu.Unlock()

	dw.loopWg.Wait()
	dw.fireWg.Wait()

	close(dw.events)
	close(dw.errors)

	return dw.inner.Close()
}

// PendingCount returns the number of files with an undelivered event.
func (dw *DebouncedWatcher) PendingCount() int {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	return len(dw.pending)
}

// Flush immediately delivers all pending events.
func (dw *DebouncedWatcher) Flush() {
	dw.mu.Lock()
	paths := make([]string, 0, len(dw.pending))
	for path, p := range dw.pending {
		if p.timer.Stop() {
			dw.fireWg.Done()
		}
		paths = append(paths, path)
	}
	dw.mu.Unlock()

	for _, path := range paths {
		dw.fire(path)
	}
}

func (dw *DebouncedWatcher) processLoop() {
	defer dw.loopWg.Done()

	for {
		select {
		case <-dw.closeCh:
			return

		case event, ok := <-dw.inner.Events():
			if !ok {
				return
			}
			dw.add(event)

		case err, ok := <-dw.inner.Errors():
			if !ok {
				return
			}
			select {
			case dw.errors <- err:
			default:
				// Channel full, drop error
			}
		}
	}
}

// add merges event into the pending event for its path and restarts the
// quiet period.
func (dw *DebouncedWatcher) add(event Event) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if dw.closed {
		return
	}

	if p, ok := dw.pending[event.Path]; ok {
		p.event.Op |= event.Op
		p.event.Timestamp = event.Timestamp
		if p.timer.Stop() {
			dw.fireWg.Done()
		}
		dw.fireWg.Add(1)
		p.timer.Reset(dw.delay)
		return
	}

	path := event.Path
	dw.fireWg.Add(1)
	dw.pending[path] = &pendingEvent{
		event: event,
		timer: time.AfterFunc(dw.delay, func() {
			defer dw.fireWg.Done()
			dw.fire(path)
		}),
	}
}

// fire delivers the pending event for path, if any.
func (dw *DebouncedWatcher) fire(path string) {
	dw.mu.Lock()
	p, ok := dw.pending[path]
	if !ok || dw.closed {
		dw.mu.Unlock()
		return
	}
	delete(dw.pending, path)
	dw.mu.Unlock()

	select {
	case dw.events <- p.event:
	case <-dw.closeCh:
	}
}

// Ensure DebouncedWatcher implements Watcher.
var _ Watcher = (*DebouncedWatcher)(nil)

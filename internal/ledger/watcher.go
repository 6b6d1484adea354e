package ledger

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/event"
)

// watchDebounce coalesces the rename-plus-chmod bursts a snapshot swap
// produces into a single notification.
const watchDebounce = 100 * time.Millisecond

// Watcher observes the ledger snapshot file and publishes a
// LedgerChangedEvent whenever another process replaces it. Read-only
// consumers (dashboards, status reporters) subscribe to the bus instead of
// polling the file.
type Watcher struct {
	watcher *fsnotify.Watcher
	bus     *event.Bus
	path    string
	stopCh  chan struct{}
}

// NewWatcher creates a Watcher for the given FileStore's snapshot file.
// fsnotify watches the containing directory because atomic renames replace
// the file's inode.
func NewWatcher(store *FileStore, bus *event.Bus) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	path := store.Path()
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch ledger directory: %w", err)
	}

	return &Watcher{
		watcher: fsw,
		bus:     bus,
		path:    path,
		stopCh:  make(chan struct{}),
	}, nil
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Stop stops the watcher and releases its OS resources.
func (w *Watcher) Stop() {
	close(w.stopCh)
	_ = w.watcher.Close()
}

// watchLoop processes filesystem events for the snapshot file.
func (w *Watcher) watchLoop() {
	targetFile := filepath.Base(w.path)
	debounceTimer := time.NewTimer(0)
	<-debounceTimer.C // drain initial timer

	for {
		select {
		case <-w.stopCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != targetFile {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounceTimer.Reset(watchDebounce)

		case <-debounceTimer.C:
			w.bus.Publish(event.NewLedgerChangedEvent(w.path))

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are not fatal; the next event still arrives
			// or the consumer falls back to reading the snapshot.
		}
	}
}

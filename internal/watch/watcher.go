// Package watch notifies read-only consumers when the shared store changes.
//
// The writer commits a snapshot and the file change is the notification;
// readers re-read the whole snapshot on every change.
package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/iksnae/water-eject/internal"
)

// DefaultDebounce batches the burst of events one SQLite commit produces
const DefaultDebounce = 250 * time.Millisecond

// ChangeFunc receives each freshly read snapshot
type ChangeFunc func(snap internal.Snapshot, updatedAt time.Time)

// Stats tracks watcher activity
type Stats struct {
	Events        int
	Notifications int
	ReadErrors    int
	LastEventTime time.Time
}

// Watcher watches the directory holding a shared store file
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	store    *internal.SharedStore
	onChange ChangeFunc
	debounce time.Duration
	dirty    bool
	lastEvt  time.Time
	stats    Stats

	// updatedAt of the last delivered snapshot
	delivered time.Time
}

// New creates a watcher for store. A non-positive debounce uses DefaultDebounce.
func New(store *internal.SharedStore, debounce time.Duration, onChange ChangeFunc) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("watch: onChange is required")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  fw,
		store:    store,
		onChange: onChange,
		debounce: debounce,
	}, nil
}

// Run blocks until ctx is done, delivering a snapshot after each settled
// change. The underlying watcher is closed on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	dir := filepath.Dir(w.store.Path())
	if err := os.MkdirAll(dir, 0755); err != nil {
		internal.LogWarn("Watcher: failed to create %s: %v", dir, err)
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	internal.LogDebug("Watcher: watching %s", dir)

	tick := w.debounce / 4
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			internal.LogWarn("Watcher error: %v", err)

		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

// isStoreFile matches the store file and the journals a commit writes.
// The -shm index is skipped since readers touch it too.
func isStoreFile(name, base string) bool {
	switch filepath.Base(name) {
	case base, base + "-wal", base + "-journal":
		return true
	}
	return false
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !isStoreFile(event.Name, filepath.Base(w.store.Path())) {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}

	w.mu.Lock()
	w.dirty = true
	w.lastEvt = time.Now()
	w.stats.Events++
	w.stats.LastEventTime = w.lastEvt
	w.mu.Unlock()
}

func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	if !w.dirty || time.Since(w.lastEvt) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.dirty = false
	w.mu.Unlock()

	snap, updatedAt, found, err := w.store.ReadSnapshot(ctx)
	if err != nil || !found {
		// Mid-write or not yet created; the next event retries.
		w.mu.Lock()
		w.stats.ReadErrors++
		w.mu.Unlock()
		if err != nil {
			internal.LogDebug("Watcher: read failed: %v", err)
		}
		return
	}

	// Reader connections also touch the journal files; only a new commit
	// carries a new updatedAt.
	w.mu.Lock()
	if updatedAt.Equal(w.delivered) {
		w.mu.Unlock()
		return
	}
	w.delivered = updatedAt
	w.stats.Notifications++
	w.mu.Unlock()
	w.onChange(snap, updatedAt)
}

// Stats returns a copy of the activity counters
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

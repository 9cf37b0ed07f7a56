package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/iksnae/water-eject/internal"
	"go.uber.org/goleak"
)

// TestMain ensures the watcher loop never outlives its context.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNew_RequiresCallback(t *testing.T) {
	store := internal.NewSharedStore(filepath.Join(t.TempDir(), "shared.db"))
	if _, err := New(store, 0, nil); err == nil {
		t.Error("New() with nil callback should fail")
	}
}

func TestWatcher_NotifiesOnWrite(t *testing.T) {
	store := internal.NewSharedStore(filepath.Join(t.TempDir(), "shared.db"))

	got := make(chan internal.Snapshot, 1)
	w, err := New(store, 20*time.Millisecond, func(snap internal.Snapshot, _ time.Time) {
		select {
		case got <- snap:
		default:
		}
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run() error = %v", err)
		}
	}()

	// The watch is registered asynchronously, so keep writing until one lands.
	var snap internal.Snapshot
	received := false
	for attempt := 1; attempt <= 25 && !received; attempt++ {
		want := internal.Snapshot{TotalSessions: attempt, WeeklySessions: 1, CompletionRate: 1}
		if err := store.WriteSnapshot(context.Background(), want, time.Now()); err != nil {
			t.Fatalf("WriteSnapshot() error = %v", err)
		}
		select {
		case snap = <-got:
			received = true
		case <-time.After(200 * time.Millisecond):
		}
	}

	if !received {
		t.Fatal("watcher never delivered a snapshot")
	}
	if snap.TotalSessions < 1 || snap.WeeklySessions != 1 {
		t.Errorf("delivered snapshot = %+v", snap)
	}
	if w.Stats().Notifications == 0 {
		t.Error("Stats().Notifications = 0, want > 0")
	}
}

func TestWatcher_OneWriteOneNotification(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.db")
	store := internal.NewSharedStore(path)

	var calls atomic.Int32
	first := make(chan struct{}, 1)
	w, err := New(store, 20*time.Millisecond, func(internal.Snapshot, time.Time) {
		calls.Add(1)
		select {
		case first <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run() error = %v", err)
		}
	}()

	// Recreate an empty store file until the watch is registered. An empty
	// database holds no snapshot, so these events never notify.
	deadline := time.Now().Add(5 * time.Second)
	for w.Stats().Events == 0 {
		if time.Now().After(deadline) {
			t.Fatal("watcher never saw the store file")
		}
		_ = os.Remove(path)
		if err := os.WriteFile(path, nil, 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Fatalf("notifications before any write = %d, want 0", n)
	}

	snap := internal.Snapshot{TotalSessions: 1, WeeklySessions: 1, CompletionRate: 1}
	if err := store.WriteSnapshot(context.Background(), snap, time.Now()); err != nil {
		t.Fatalf("WriteSnapshot() error = %v", err)
	}

	select {
	case <-first:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never delivered the snapshot")
	}

	// Let any follow-up events from reader connections settle.
	time.Sleep(500 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("one write produced %d notifications, want 1 (stats %+v)", n, w.Stats())
	}
}

func TestIsStoreFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: "/group/shared.db", want: true},
		{name: "/group/shared.db-wal", want: true},
		{name: "/group/shared.db-journal", want: true},
		{name: "/group/shared.db-shm", want: false},
		{name: "/group/shared.db.bak", want: false},
		{name: "/group/other.db", want: false},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.name), func(t *testing.T) {
			if got := isStoreFile(tt.name, "shared.db"); got != tt.want {
				t.Errorf("isStoreFile(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestWatcher_StopsOnCancel(t *testing.T) {
	store := internal.NewSharedStore(filepath.Join(t.TempDir(), "shared.db"))
	w, err := New(store, 0, func(internal.Snapshot, time.Time) {})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

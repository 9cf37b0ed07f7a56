package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Shared store keys. These are the whole contract with the widget and watch
// readers; the main process writes them, readers never do.
const (
	KeyTotalSessions   = "totalSessions"
	KeyWeeklySessions  = "weeklySessions"
	KeyCompletionRate  = "completionRate"
	KeyAverageDuration = "averageDuration"
	KeyLastSessionDate = "lastSessionDate"
	KeyIsPremium       = "isPremium"
	KeyUpdatedAt       = "updatedAt"
)

// SharedStore is the group-scoped key/value file read by other processes
type SharedStore struct {
	path string
}

// NewSharedStore returns a store backed by the SQLite file at path
func NewSharedStore(path string) *SharedStore {
	return &SharedStore{path: path}
}

// Path returns the backing file path
func (s *SharedStore) Path() string {
	return s.path
}

// Exists reports whether the store file has been created
func (s *SharedStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// WriteSnapshot replaces every key in one transaction, so readers see either
// the previous snapshot or this one and never a mix.
func (s *SharedStore) WriteSnapshot(ctx context.Context, snap Snapshot, updatedAt time.Time) error {
	db, err := OpenWritableDatabase(s.path)
	if err != nil {
		return unavailable(s.path, "open", err)
	}
	defer db.Close()

	if err := EnsureSharedSchema(db); err != nil {
		return unavailable(s.path, "migrate", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable(s.path, "write", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, "INSERT OR REPLACE INTO shared_kv (key, value) VALUES (?, ?)")
	if err != nil {
		return unavailable(s.path, "write", err)
	}
	defer stmt.Close()

	for _, pair := range encodeSnapshot(snap, updatedAt) {
		if _, err := stmt.ExecContext(ctx, pair.Key, pair.Value); err != nil {
			return unavailable(s.path, "write", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return unavailable(s.path, "write", err)
	}
	return nil
}

// ReadSnapshot loads the published snapshot. found is false when the store
// has never been written.
func (s *SharedStore) ReadSnapshot(ctx context.Context) (snap Snapshot, updatedAt time.Time, found bool, err error) {
	if !s.Exists() {
		return Snapshot{}, time.Time{}, false, nil
	}

	db, err := OpenDatabase(s.path)
	if err != nil {
		return Snapshot{}, time.Time{}, false, unavailable(s.path, "open", err)
	}
	defer db.Close()

	if err := ctx.Err(); err != nil {
		return Snapshot{}, time.Time{}, false, err
	}

	ok, err := HasTable(db, "shared_kv")
	if err != nil {
		return Snapshot{}, time.Time{}, false, unavailable(s.path, "read", err)
	}
	if !ok {
		return Snapshot{}, time.Time{}, false, nil
	}

	pairs, err := QuerySharedKV(db)
	if err != nil {
		return Snapshot{}, time.Time{}, false, unavailable(s.path, "read", err)
	}
	return decodeSnapshot(pairs)
}

func encodeSnapshot(snap Snapshot, updatedAt time.Time) []KeyValuePair {
	last := ""
	if !snap.LastSessionDate.IsZero() {
		last = snap.LastSessionDate.UTC().Format(time.RFC3339Nano)
	}
	return []KeyValuePair{
		{Key: KeyTotalSessions, Value: strconv.Itoa(snap.TotalSessions)},
		{Key: KeyWeeklySessions, Value: strconv.Itoa(snap.WeeklySessions)},
		{Key: KeyCompletionRate, Value: strconv.FormatFloat(snap.CompletionRate, 'g', -1, 64)},
		{Key: KeyAverageDuration, Value: strconv.FormatFloat(snap.AverageDuration, 'g', -1, 64)},
		{Key: KeyLastSessionDate, Value: last},
		{Key: KeyIsPremium, Value: strconv.FormatBool(snap.IsPremium)},
		{Key: KeyUpdatedAt, Value: updatedAt.UTC().Format(time.RFC3339Nano)},
	}
}

func decodeSnapshot(pairs []KeyValuePair) (Snapshot, time.Time, bool, error) {
	var (
		snap      Snapshot
		updatedAt time.Time
		found     bool
		errs      []error
	)
	for _, pair := range pairs {
		var err error
		switch pair.Key {
		case KeyTotalSessions:
			found = true
			snap.TotalSessions, err = strconv.Atoi(pair.Value)
		case KeyWeeklySessions:
			snap.WeeklySessions, err = strconv.Atoi(pair.Value)
		case KeyCompletionRate:
			snap.CompletionRate, err = strconv.ParseFloat(pair.Value, 64)
		case KeyAverageDuration:
			snap.AverageDuration, err = strconv.ParseFloat(pair.Value, 64)
		case KeyLastSessionDate:
			if pair.Value != "" {
				snap.LastSessionDate, err = time.Parse(time.RFC3339Nano, pair.Value)
			}
		case KeyIsPremium:
			snap.IsPremium, err = strconv.ParseBool(pair.Value)
		case KeyUpdatedAt:
			updatedAt, err = time.Parse(time.RFC3339Nano, pair.Value)
		default:
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("key %s: %w", pair.Key, err))
		}
	}
	if len(errs) > 0 {
		return Snapshot{}, time.Time{}, false, fmt.Errorf("failed to decode shared snapshot: %w", errors.Join(errs...))
	}
	return snap, updatedAt, found, nil
}

package internal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/iksnae/water-eject/testutil"
)

var storeNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newFixtureStore(t *testing.T) *SQLiteSessionStore {
	t.Helper()
	db := testutil.CreateSessionDB(t)
	testutil.InsertSessions(t, db,
		testutil.SessionRow{ID: "a", Device: "phone", Intensity: "high", StartedAt: storeNow.Add(-1 * time.Hour), Completed: true, ActualDuration: 118},
		testutil.SessionRow{ID: "b", Device: "watch", Intensity: "low", StartedAt: storeNow.Add(-2 * time.Hour)},
		testutil.SessionRow{ID: "c", Device: "phone", Intensity: "low", StartedAt: storeNow.Add(-3 * 24 * time.Hour), Completed: true, ActualDuration: 30},
		testutil.SessionRow{ID: "d", Device: "laptop", Intensity: "medium", StartedAt: storeNow.Add(-10 * 24 * time.Hour), Completed: true, ActualDuration: 45.5},
		testutil.SessionRow{ID: "e", Device: "phone", Intensity: "emergency", StartedAt: storeNow.Add(-20 * 24 * time.Hour)},
	)
	store, err := NewSQLiteSessionStore(db)
	if err != nil {
		t.Fatalf("NewSQLiteSessionStore() error = %v", err)
	}
	return store
}

func ids(sessions []EjectionSession) []string {
	out := make([]string, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.ID)
	}
	return out
}

func TestSQLiteSessionStore_Query(t *testing.T) {
	store := newFixtureStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter HistoryFilter
		want   []string
	}{
		{name: "all", filter: HistoryFilter{}, want: []string{"a", "b", "c", "d", "e"}},
		{name: "completed", filter: HistoryFilter{Status: StatusCompleted}, want: []string{"a", "c", "d"}},
		{name: "incomplete", filter: HistoryFilter{Status: StatusIncomplete}, want: []string{"b", "e"}},
		{name: "since week", filter: HistoryFilter{Since: storeNow.Add(-WeekWindow)}, want: []string{"a", "b", "c"}},
		{name: "window", filter: HistoryFilter{Since: storeNow.Add(-15 * 24 * time.Hour), Until: storeNow.Add(-2 * time.Hour)}, want: []string{"c", "d"}},
		{name: "device", filter: HistoryFilter{Device: DevicePhone}, want: []string{"a", "c", "e"}},
		{name: "intensity", filter: HistoryFilter{Intensity: IntensityLow}, want: []string{"b", "c"}},
		{name: "limit", filter: HistoryFilter{Limit: 2}, want: []string{"a", "b"}},
		{name: "combined", filter: HistoryFilter{Status: StatusCompleted, Device: DevicePhone, Limit: 1}, want: []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("Query() ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSQLiteSessionStore_InsertGet(t *testing.T) {
	db := testutil.CreateTestDB(t)
	store, err := NewSQLiteSessionStore(db)
	if err != nil {
		t.Fatalf("NewSQLiteSessionStore() error = %v", err)
	}
	ctx := context.Background()

	want := EjectionSession{
		ID:             "x",
		DeviceType:     DeviceEarbuds,
		IntensityLevel: IntensityRealtime,
		StartedAt:      storeNow,
	}
	if err := store.Insert(ctx, want); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := store.Insert(ctx, want); err == nil {
		t.Error("Insert() with duplicate id should fail")
	}

	got, err := store.Get(ctx, "x")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrUnknownSession) {
		t.Errorf("Get(missing) error = %v, want ErrUnknownSession", err)
	}
}

func TestSQLiteSessionStore_MarkCompleted(t *testing.T) {
	store := newFixtureStore(t)
	ctx := context.Background()
	at := storeNow.Add(-2*time.Hour + 25*time.Second)

	if err := store.MarkCompleted(ctx, "b", 25, at); err != nil {
		t.Fatalf("MarkCompleted() error = %v", err)
	}
	got, err := store.Get(ctx, "b")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.Completed || got.ActualDuration != 25 || !got.CompletedAt.Equal(at) {
		t.Errorf("after MarkCompleted() = %+v", got)
	}

	if err := store.MarkCompleted(ctx, "b", 99, storeNow); !errors.Is(err, ErrAlreadyCompleted) {
		t.Errorf("second MarkCompleted() error = %v, want ErrAlreadyCompleted", err)
	}
	again, _ := store.Get(ctx, "b")
	if again.ActualDuration != 25 {
		t.Errorf("second MarkCompleted() changed duration to %v", again.ActualDuration)
	}

	if err := store.MarkCompleted(ctx, "nope", 1, storeNow); !errors.Is(err, ErrUnknownSession) {
		t.Errorf("MarkCompleted(unknown) error = %v, want ErrUnknownSession", err)
	}
}

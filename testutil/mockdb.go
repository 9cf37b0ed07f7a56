package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

const sessionTableSQL = `
CREATE TABLE IF NOT EXISTS ejection_sessions (
	id              TEXT PRIMARY KEY,
	device_type     TEXT NOT NULL,
	intensity_level TEXT NOT NULL,
	started_at      INTEGER NOT NULL,
	completed       INTEGER NOT NULL DEFAULT 0,
	actual_duration REAL NOT NULL DEFAULT 0,
	completed_at    INTEGER
)`

// CreateTestDB opens a fresh file-backed SQLite database that is closed when
// the test ends. A file is used instead of :memory: so every pooled
// connection sees the same data.
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// CreateSessionDB creates a test database with the session table
func CreateSessionDB(t *testing.T) *sql.DB {
	t.Helper()
	db := CreateTestDB(t)
	if _, err := db.Exec(sessionTableSQL); err != nil {
		t.Fatalf("Failed to create ejection_sessions table: %v", err)
	}
	return db
}

// SessionRow is a raw session record for fixtures
type SessionRow struct {
	ID             string
	Device         string
	Intensity      string
	StartedAt      time.Time
	Completed      bool
	ActualDuration float64
}

// InsertSessions inserts raw session rows
func InsertSessions(t *testing.T, db *sql.DB, rows ...SessionRow) {
	t.Helper()
	stmt, err := db.Prepare(`INSERT INTO ejection_sessions
		(id, device_type, intensity_level, started_at, completed, actual_duration, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		t.Fatalf("Failed to prepare insert statement: %v", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		completed := 0
		var completedAt interface{}
		if r.Completed {
			completed = 1
			completedAt = r.StartedAt.Add(time.Duration(r.ActualDuration * float64(time.Second))).UnixMilli()
		}
		if _, err := stmt.Exec(r.ID, r.Device, r.Intensity, r.StartedAt.UnixMilli(), completed, r.ActualDuration, completedAt); err != nil {
			t.Fatalf("Failed to insert session %s: %v", r.ID, err)
		}
	}
}

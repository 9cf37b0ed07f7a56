package internal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	writablePragmas = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

	// The driver only hands URI parameters such as mode to SQLite when the
	// DSN carries the file: prefix.
	readOnlyParams = "?mode=ro&_pragma=busy_timeout(5000)"
)

// OpenDatabase opens a SQLite database in read-only mode
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+readOnlyParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}

// OpenWritableDatabase opens (creating if needed) a SQLite database for the
// single writer process. WAL mode lets reader processes run alongside it.
func OpenWritableDatabase(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+writablePragmas)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps writes strictly ordered.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}

const sessionSchema = `
CREATE TABLE IF NOT EXISTS ejection_sessions (
	id              TEXT PRIMARY KEY,
	device_type     TEXT NOT NULL,
	intensity_level TEXT NOT NULL,
	started_at      INTEGER NOT NULL,
	completed       INTEGER NOT NULL DEFAULT 0,
	actual_duration REAL NOT NULL DEFAULT 0,
	completed_at    INTEGER
);
CREATE INDEX IF NOT EXISTS idx_ejection_sessions_started_at ON ejection_sessions(started_at);`

const sharedSchema = `
CREATE TABLE IF NOT EXISTS shared_kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// EnsureSessionSchema creates the session table if it does not exist
func EnsureSessionSchema(db *sql.DB) error {
	if _, err := db.Exec(sessionSchema); err != nil {
		return fmt.Errorf("failed to create session schema: %w", err)
	}
	return nil
}

// EnsureSharedSchema creates the shared key/value table if it does not exist
func EnsureSharedSchema(db *sql.DB) error {
	if _, err := db.Exec(sharedSchema); err != nil {
		return fmt.Errorf("failed to create shared schema: %w", err)
	}
	return nil
}

// HasTable reports whether the named table exists
func HasTable(db *sql.DB, name string) (bool, error) {
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name = ?", name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to look up table %s: %w", name, err)
	}
	return n > 0, nil
}

// QuerySharedKV returns every key/value pair in the shared table
func QuerySharedKV(db *sql.DB) ([]KeyValuePair, error) {
	rows, err := db.Query("SELECT key, value FROM shared_kv")
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var pairs []KeyValuePair
	for rows.Next() {
		var pair KeyValuePair
		if err := rows.Scan(&pair.Key, &pair.Value); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		pairs = append(pairs, pair)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return pairs, nil
}

// KeyValuePair represents a key-value pair from shared_kv
type KeyValuePair struct {
	Key   string
	Value string
}

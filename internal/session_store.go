package internal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// HistoryStatus selects sessions by completion state
type HistoryStatus string

const (
	StatusAll        HistoryStatus = "all"
	StatusCompleted  HistoryStatus = "completed"
	StatusIncomplete HistoryStatus = "incomplete"
)

// HistoryFilter narrows a history query. Zero values match everything.
type HistoryFilter struct {
	Status    HistoryStatus
	Since     time.Time // inclusive
	Until     time.Time // exclusive
	Device    DeviceType
	Intensity IntensityLevel
	Limit     int
}

// SessionStore is a durable record store with query-by-filter.
type SessionStore interface {
	Insert(ctx context.Context, s EjectionSession) error
	Get(ctx context.Context, id string) (EjectionSession, error)
	// MarkCompleted sets completed, duration and completion time at most once.
	MarkCompleted(ctx context.Context, id string, actualSeconds float64, at time.Time) error
	// Query returns matching sessions ordered by StartedAt descending.
	Query(ctx context.Context, f HistoryFilter) ([]EjectionSession, error)
}

// SQLiteSessionStore keeps sessions in the ejection_sessions table
type SQLiteSessionStore struct {
	db *sql.DB
}

// NewSQLiteSessionStore wraps db, creating the schema if needed
func NewSQLiteSessionStore(db *sql.DB) (*SQLiteSessionStore, error) {
	if err := EnsureSessionSchema(db); err != nil {
		return nil, err
	}
	return &SQLiteSessionStore{db: db}, nil
}

// Insert stores a new session
func (s *SQLiteSessionStore) Insert(ctx context.Context, session EjectionSession) error {
	var completedAt sql.NullInt64
	if session.Completed && !session.CompletedAt.IsZero() {
		completedAt = sql.NullInt64{Int64: session.CompletedAt.UnixMilli(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ejection_sessions (id, device_type, intensity_level, started_at, completed, actual_duration, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		string(session.DeviceType),
		string(session.IntensityLevel),
		session.StartedAt.UnixMilli(),
		boolToInt(session.Completed),
		session.ActualDuration,
		completedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// Get loads one session by id
func (s *SQLiteSessionStore) Get(ctx context.Context, id string) (EjectionSession, error) {
	row := s.db.QueryRowContext(ctx, selectSessions+" WHERE id = ?", id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return EjectionSession{}, ErrUnknownSession
	}
	if err != nil {
		return EjectionSession{}, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

// MarkCompleted completes an open session inside a single transaction
func (s *SQLiteSessionStore) MarkCompleted(ctx context.Context, id string, actualSeconds float64, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var completed int
	err = tx.QueryRowContext(ctx, "SELECT completed FROM ejection_sessions WHERE id = ?", id).Scan(&completed)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUnknownSession
	}
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if completed != 0 {
		return ErrAlreadyCompleted
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE ejection_sessions SET completed = 1, actual_duration = ?, completed_at = ? WHERE id = ? AND completed = 0",
		actualSeconds, at.UnixMilli(), id,
	); err != nil {
		return fmt.Errorf("failed to complete session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit completion: %w", err)
	}
	return nil
}

// Query runs a filtered history query
func (s *SQLiteSessionStore) Query(ctx context.Context, f HistoryFilter) ([]EjectionSession, error) {
	query, args := buildHistoryQuery(f)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var sessions []EjectionSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return sessions, nil
}

const selectSessions = `SELECT id, device_type, intensity_level, started_at, completed, actual_duration, completed_at FROM ejection_sessions`

func buildHistoryQuery(f HistoryFilter) (string, []interface{}) {
	var where []string
	var args []interface{}

	switch f.Status {
	case StatusCompleted:
		where = append(where, "completed = 1")
	case StatusIncomplete:
		where = append(where, "completed = 0")
	}
	if !f.Since.IsZero() {
		where = append(where, "started_at >= ?")
		args = append(args, f.Since.UnixMilli())
	}
	if !f.Until.IsZero() {
		where = append(where, "started_at < ?")
		args = append(args, f.Until.UnixMilli())
	}
	if f.Device != "" {
		where = append(where, "device_type = ?")
		args = append(args, string(f.Device))
	}
	if f.Intensity != "" {
		where = append(where, "intensity_level = ?")
		args = append(args, string(f.Intensity))
	}

	query := selectSessions
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY started_at DESC, rowid DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}
	return query, args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (EjectionSession, error) {
	var (
		session     EjectionSession
		device      string
		intensity   string
		startedAt   int64
		completed   int
		completedAt sql.NullInt64
	)
	if err := row.Scan(&session.ID, &device, &intensity, &startedAt, &completed, &session.ActualDuration, &completedAt); err != nil {
		return EjectionSession{}, err
	}
	session.DeviceType = DeviceType(device)
	session.IntensityLevel = IntensityLevel(intensity)
	session.StartedAt = time.UnixMilli(startedAt).UTC()
	session.Completed = completed != 0
	if completedAt.Valid {
		session.CompletedAt = time.UnixMilli(completedAt.Int64).UTC()
	}
	return session, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/iksnae/water-eject/internal"
)

// app wires the recorder to the publisher for commands that write history.
type app struct {
	db        *sql.DB
	store     *internal.SQLiteSessionStore
	shared    *internal.SharedStore
	publisher *internal.Publisher
	recorder  *internal.Recorder
}

func openApp() (*app, error) {
	paths := cfg.Paths()
	db, err := internal.OpenWritableDatabase(paths.SessionDBPath())
	if err != nil {
		return nil, &internal.StorageError{Path: paths.SessionDBPath(), Op: "open", Err: err}
	}
	store, err := internal.NewSQLiteSessionStore(db)
	if err != nil {
		_ = db.Close()
		return nil, &internal.StorageError{Path: paths.SessionDBPath(), Op: "migrate", Err: err}
	}

	shared := internal.NewSharedStore(paths.SharedDBPath())
	publisher := internal.NewPublisher(store, shared, internal.StaticPremium(cfg.Premium))
	return &app{
		db:        db,
		store:     store,
		shared:    shared,
		publisher: publisher,
		recorder:  internal.NewRecorder(store, publisher),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// warnIfUnpublished reports a completion whose stats did not reach the
// shared store. The next completion or publish writes them.
func (a *app) warnIfUnpublished(out io.Writer) {
	if a.publisher.Pending() {
		internal.PrintWarning(out, "Shared stats not updated; run publish or complete another session to retry")
	}
}

func sharedStore() *internal.SharedStore {
	return internal.NewSharedStore(cfg.Paths().SharedDBPath())
}

// formatWhen renders a timestamp relative to now, like a chat list would.
func formatWhen(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	t = t.Local()
	diff := now.Sub(t)
	switch {
	case diff < 0:
		return t.Format("2006-01-02 15:04")
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func formatSeconds(seconds float64) string {
	return fmt.Sprintf("%.1fs", seconds)
}

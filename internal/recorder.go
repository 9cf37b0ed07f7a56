package internal

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Notifier is told after every successful completion
type Notifier interface {
	Publish(ctx context.Context) error
}

// Recorder owns EjectionSession records.
//
// All mutation is serialized through one mutex. Concurrent Start calls
// without an intervening Complete or Stop produce independent sessions;
// starting a session never cancels another one.
type Recorder struct {
	mu       sync.Mutex
	store    SessionStore
	notifier Notifier
	now      func() time.Time
	newID    func() string
}

// NewRecorder creates a recorder over store. notifier may be nil.
func NewRecorder(store SessionStore, notifier Notifier) *Recorder {
	return &Recorder{
		store:    store,
		notifier: notifier,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Start opens a new session and returns its id
func (r *Recorder) Start(ctx context.Context, device DeviceType, intensity IntensityLevel) (string, error) {
	if !device.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDevice, device)
	}
	if !intensity.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownIntensity, intensity)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session := EjectionSession{
		ID:             r.newID(),
		DeviceType:     device,
		IntensityLevel: intensity,
		StartedAt:      r.now().UTC(),
	}
	if err := r.store.Insert(ctx, session); err != nil {
		return "", err
	}
	LogDebug("Started session %s (%s/%s)", session.ID, device, intensity)
	return session.ID, nil
}

// Complete marks a session finished after it ran for actual.
// Completing an unknown or already completed session fails without
// changing anything.
func (r *Recorder) Complete(ctx context.Context, id string, actual time.Duration) error {
	if actual < 0 {
		return &SessionError{ID: id, Op: "complete", Err: fmt.Errorf("%w: %v", ErrInvalidDuration, actual)}
	}
	return r.finish(ctx, "complete", id, func(EjectionSession, time.Time) time.Duration {
		return actual
	})
}

// Stop ends a session early, recording the time elapsed since it started.
func (r *Recorder) Stop(ctx context.Context, id string) error {
	return r.finish(ctx, "stop", id, func(s EjectionSession, now time.Time) time.Duration {
		return s.Elapsed(now)
	})
}

func (r *Recorder) finish(ctx context.Context, op, id string, duration func(EjectionSession, time.Time) time.Duration) error {
	r.mu.Lock()
	err := r.finishLocked(ctx, op, id, duration)
	r.mu.Unlock()
	if err != nil {
		return err
	}

	r.publish(ctx)
	return nil
}

func (r *Recorder) finishLocked(ctx context.Context, op, id string, duration func(EjectionSession, time.Time) time.Duration) error {
	session, err := r.store.Get(ctx, id)
	if err != nil {
		return &SessionError{ID: id, Op: op, Err: err}
	}
	if session.Completed {
		return &SessionError{ID: id, Op: op, Err: ErrAlreadyCompleted}
	}

	now := r.now().UTC()
	actual := duration(session, now)
	if ceiling := session.IntensityLevel.MaxDuration(); actual > ceiling {
		LogWarn("Session %s reported %v, clamping to %v", id, actual, ceiling)
		actual = ceiling
	}
	seconds := math.Round(actual.Seconds()*1000) / 1000

	if err := r.store.MarkCompleted(ctx, id, seconds, now); err != nil {
		return &SessionError{ID: id, Op: op, Err: err}
	}
	LogDebug("Completed session %s after %.3fs", id, seconds)
	return nil
}

// publish never fails the caller; the shared snapshot is regenerated on the
// next trigger.
func (r *Recorder) publish(ctx context.Context) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.Publish(ctx); err != nil {
		LogWarn("Stats publish failed, will retry on next trigger: %v", err)
	}
}

// Get returns one session
func (r *Recorder) Get(ctx context.Context, id string) (EjectionSession, error) {
	return r.store.Get(ctx, id)
}

// History returns sessions matching f, newest first
func (r *Recorder) History(ctx context.Context, f HistoryFilter) ([]EjectionSession, error) {
	return r.store.Query(ctx, f)
}

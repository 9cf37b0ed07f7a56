package internal

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// PremiumSource supplies the externally managed premium gate
type PremiumSource interface {
	IsPremium(ctx context.Context) bool
}

// StaticPremium is a PremiumSource with a fixed answer
type StaticPremium bool

// IsPremium returns the fixed value
func (p StaticPremium) IsPremium(context.Context) bool {
	return bool(p)
}

// Publisher recomputes the snapshot from the full history and writes it to
// the shared store.
type Publisher struct {
	sessions SessionStore
	shared   *SharedStore
	premium  PremiumSource
	now      func() time.Time

	group singleflight.Group
	// requested counts Publish calls; published is the newest request a
	// finished run has covered.
	requested atomic.Uint64
	published atomic.Uint64
	pending   atomic.Bool
	last      atomic.Pointer[Snapshot]
}

// NewPublisher creates a publisher. premium may be nil (treated as false).
func NewPublisher(sessions SessionStore, shared *SharedStore, premium PremiumSource) *Publisher {
	if premium == nil {
		premium = StaticPremium(false)
	}
	return &Publisher{
		sessions: sessions,
		shared:   shared,
		premium:  premium,
		now:      time.Now,
	}
}

// Publish recomputes and writes the snapshot. Overlapping calls share one
// run, but a call never returns on a run that read history before the call
// was made.
func (p *Publisher) Publish(ctx context.Context) error {
	want := p.requested.Add(1)
	for p.published.Load() < want {
		_, err, _ := p.group.Do("publish", func() (interface{}, error) {
			covers := p.requested.Load()
			if err := p.publish(ctx); err != nil {
				return nil, err
			}
			p.published.Store(covers)
			return nil, nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) publish(ctx context.Context) error {
	sessions, err := p.sessions.Query(ctx, HistoryFilter{})
	if err != nil {
		p.pending.Store(true)
		return fmt.Errorf("failed to load history: %w", err)
	}

	now := p.now().UTC()
	snap := ComputeStats(sessions, now, p.premium.IsPremium(ctx))
	if err := p.shared.WriteSnapshot(ctx, snap, now); err != nil {
		p.pending.Store(true)
		if errors.Is(err, ErrStoreUnavailable) {
			LogWarn("Shared store unavailable, snapshot will be retried: %v", err)
		}
		return err
	}

	p.pending.Store(false)
	p.last.Store(&snap)
	LogDebug("Published snapshot: total=%d weekly=%d rate=%.3f", snap.TotalSessions, snap.WeeklySessions, snap.CompletionRate)
	return nil
}

// Pending reports whether the last publish attempt failed
func (p *Publisher) Pending() bool {
	return p.pending.Load()
}

// Last returns the most recently published snapshot, if any
func (p *Publisher) Last() (Snapshot, bool) {
	snap := p.last.Load()
	if snap == nil {
		return Snapshot{}, false
	}
	return *snap, true
}

package internal

import (
	"context"
	"iter"
	"time"
)

const (
	DefaultTimelineEntries  = 24
	DefaultTimelineInterval = time.Hour
)

// SnapshotReader reads the published snapshot
type SnapshotReader interface {
	ReadSnapshot(ctx context.Context) (Snapshot, time.Time, bool, error)
}

// Entry is one point-in-time widget display
type Entry struct {
	Date        time.Time `json:"date" yaml:"date"`
	Snapshot    Snapshot  `json:"snapshot" yaml:"snapshot"`
	Placeholder bool      `json:"placeholder" yaml:"placeholder"`
	UpdatedAt   time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// Timeline is a finite run of entries plus when to ask for the next one
type Timeline struct {
	entries   []Entry
	RefreshAt time.Time
}

// Entries yields the timeline in date order. It can be ranged over any
// number of times.
func (t Timeline) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range t.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Len returns the number of entries
func (t Timeline) Len() int {
	return len(t.entries)
}

// Provider builds widget timelines from the shared store. It holds no state
// between calls.
type Provider struct {
	reader   SnapshotReader
	count    int
	interval time.Duration
	now      func() time.Time
}

// NewProvider creates a provider. Non-positive count or interval use the
// defaults.
func NewProvider(reader SnapshotReader, count int, interval time.Duration) *Provider {
	if count <= 0 {
		count = DefaultTimelineEntries
	}
	if interval <= 0 {
		interval = DefaultTimelineInterval
	}
	return &Provider{
		reader:   reader,
		count:    count,
		interval: interval,
		now:      time.Now,
	}
}

// Placeholder returns the zero-valued entry shown before any data loads
func (p *Provider) Placeholder() Entry {
	now := p.now()
	return Entry{
		Date:        now,
		Snapshot:    Snapshot{LastSessionDate: now},
		Placeholder: true,
	}
}

// Current reads the store once and returns the entry for now. A missing or
// unreadable store yields the placeholder.
func (p *Provider) Current(ctx context.Context) Entry {
	snap, updatedAt, found, err := p.reader.ReadSnapshot(ctx)
	if err != nil {
		LogDebug("Widget read failed, using defaults: %v", err)
		return p.Placeholder()
	}
	if !found {
		return p.Placeholder()
	}

	now := p.now()
	if snap.LastSessionDate.IsZero() {
		snap.LastSessionDate = now
	}
	return Entry{Date: now, Snapshot: snap, UpdatedAt: updatedAt}
}

// Timeline returns count entries spaced by interval, starting now. The host
// should request a new timeline at RefreshAt.
func (p *Provider) Timeline(ctx context.Context) Timeline {
	current := p.Current(ctx)
	start := current.Date

	entries := make([]Entry, p.count)
	for i := range entries {
		e := current
		e.Date = start.Add(time.Duration(i) * p.interval)
		entries[i] = e
	}
	return Timeline{
		entries:   entries,
		RefreshAt: start.Add(time.Duration(p.count) * p.interval),
	}
}

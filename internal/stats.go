package internal

import "time"

// WeekWindow is the trailing window counted by WeeklySessions
const WeekWindow = 7 * 24 * time.Hour

// Snapshot is the aggregate published to the shared store
type Snapshot struct {
	TotalSessions   int       `json:"totalSessions" yaml:"totalSessions"`
	WeeklySessions  int       `json:"weeklySessions" yaml:"weeklySessions"`
	CompletionRate  float64   `json:"completionRate" yaml:"completionRate"`   // 0..1
	AverageDuration float64   `json:"averageDuration" yaml:"averageDuration"` // seconds
	LastSessionDate time.Time `json:"lastSessionDate" yaml:"lastSessionDate"`
	IsPremium       bool      `json:"isPremium" yaml:"isPremium"`
}

// ComputeStats derives a snapshot from the full session history.
//
// Abandoned (never completed) sessions count toward TotalSessions and so
// lower CompletionRate. Sessions dated after now count toward the total but
// not the week.
func ComputeStats(sessions []EjectionSession, now time.Time, premium bool) Snapshot {
	snap := Snapshot{
		TotalSessions: len(sessions),
		IsPremium:     premium,
	}
	weekStart := now.Add(-WeekWindow)

	var completed int
	var durationSum float64
	for _, s := range sessions {
		if !s.StartedAt.Before(weekStart) && !s.StartedAt.After(now) {
			snap.WeeklySessions++
		}
		if s.Completed {
			completed++
			durationSum += s.ActualDuration
		}
		if s.StartedAt.After(snap.LastSessionDate) {
			snap.LastSessionDate = s.StartedAt
		}
	}

	if snap.TotalSessions > 0 {
		snap.CompletionRate = float64(completed) / float64(snap.TotalSessions)
	}
	if completed > 0 {
		snap.AverageDuration = durationSum / float64(completed)
	}
	return snap
}

// CompletionPercent returns CompletionRate scaled to 0..100 for display
func (s Snapshot) CompletionPercent() float64 {
	return s.CompletionRate * 100
}

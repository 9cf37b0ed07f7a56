package internal

import (
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"
)

var statsNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestComputeStats_Empty(t *testing.T) {
	snap := ComputeStats(nil, statsNow, false)
	if snap.TotalSessions != 0 || snap.WeeklySessions != 0 {
		t.Errorf("ComputeStats(nil) counts = %d/%d, want 0/0", snap.TotalSessions, snap.WeeklySessions)
	}
	if snap.CompletionRate != 0 || snap.AverageDuration != 0 {
		t.Errorf("ComputeStats(nil) rate/avg = %v/%v, want 0/0", snap.CompletionRate, snap.AverageDuration)
	}
	if !snap.LastSessionDate.IsZero() {
		t.Errorf("ComputeStats(nil) LastSessionDate = %v, want zero", snap.LastSessionDate)
	}
}

func TestComputeStats_EightSessions(t *testing.T) {
	var sessions []EjectionSession
	// 3 within the week, 5 older; 5 completed overall.
	offsets := []time.Duration{
		1 * time.Hour, 2 * 24 * time.Hour, 6 * 24 * time.Hour,
		8 * 24 * time.Hour, 10 * 24 * time.Hour, 20 * 24 * time.Hour, 30 * 24 * time.Hour, 90 * 24 * time.Hour,
	}
	for i, off := range offsets {
		sessions = append(sessions, EjectionSession{
			ID:             fmt.Sprintf("s%d", i),
			DeviceType:     DevicePhone,
			IntensityLevel: IntensityMedium,
			StartedAt:      statsNow.Add(-off),
			Completed:      i < 5,
			ActualDuration: float64(10 * (i + 1)),
		})
	}

	snap := ComputeStats(sessions, statsNow, true)
	if snap.TotalSessions != 8 {
		t.Errorf("TotalSessions = %d, want 8", snap.TotalSessions)
	}
	if snap.WeeklySessions != 3 {
		t.Errorf("WeeklySessions = %d, want 3", snap.WeeklySessions)
	}
	if snap.CompletionRate != 0.625 {
		t.Errorf("CompletionRate = %v, want 0.625", snap.CompletionRate)
	}
	// completed durations 10,20,30,40,50
	if snap.AverageDuration != 30 {
		t.Errorf("AverageDuration = %v, want 30", snap.AverageDuration)
	}
	if !snap.LastSessionDate.Equal(statsNow.Add(-time.Hour)) {
		t.Errorf("LastSessionDate = %v, want %v", snap.LastSessionDate, statsNow.Add(-time.Hour))
	}
	if !snap.IsPremium {
		t.Error("IsPremium = false, want true")
	}
	if snap.CompletionPercent() != 62.5 {
		t.Errorf("CompletionPercent() = %v, want 62.5", snap.CompletionPercent())
	}
}

func TestComputeStats_WeekBoundary(t *testing.T) {
	sessions := []EjectionSession{
		{ID: "edge", StartedAt: statsNow.Add(-WeekWindow)},
		{ID: "outside", StartedAt: statsNow.Add(-WeekWindow - time.Millisecond)},
		{ID: "future", StartedAt: statsNow.Add(time.Hour)},
	}
	snap := ComputeStats(sessions, statsNow, false)
	if snap.WeeklySessions != 1 {
		t.Errorf("WeeklySessions = %d, want 1", snap.WeeklySessions)
	}
	if snap.TotalSessions != 3 {
		t.Errorf("TotalSessions = %d, want 3", snap.TotalSessions)
	}
}

func TestComputeStats_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(40)
		sessions := make([]EjectionSession, n)
		completed := 0
		for i := range sessions {
			sessions[i] = EjectionSession{
				ID:             fmt.Sprintf("%d-%d", trial, i),
				StartedAt:      statsNow.Add(-time.Duration(rng.Int63n(int64(60 * 24 * time.Hour)))),
				Completed:      rng.Intn(2) == 0,
				ActualDuration: rng.Float64() * 120,
			}
			if sessions[i].Completed {
				completed++
			}
		}

		snap := ComputeStats(sessions, statsNow, false)
		if snap.WeeklySessions > snap.TotalSessions {
			t.Fatalf("trial %d: weekly %d > total %d", trial, snap.WeeklySessions, snap.TotalSessions)
		}
		if snap.CompletionRate < 0 || snap.CompletionRate > 1 {
			t.Fatalf("trial %d: completion rate %v out of range", trial, snap.CompletionRate)
		}
		if n > 0 {
			want := float64(completed) / float64(n)
			if math.Abs(snap.CompletionRate-want) > 1e-12 {
				t.Fatalf("trial %d: completion rate %v, want %v", trial, snap.CompletionRate, want)
			}
		}
	}
}

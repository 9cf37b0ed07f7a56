package internal

import (
	"fmt"
	"time"
)

// CreateTestSession creates a completed test session started at startedAt
func CreateTestSession(id string, startedAt time.Time) *EjectionSession {
	return &EjectionSession{
		ID:             id,
		DeviceType:     DevicePhone,
		IntensityLevel: IntensityHigh,
		StartedAt:      startedAt,
		Completed:      true,
		ActualDuration: 118,
		CompletedAt:    startedAt.Add(118 * time.Second),
	}
}

// CreateTestSessions creates n sessions an hour apart, newest first;
// every other session is left open.
func CreateTestSessions(n int, newest time.Time) []*EjectionSession {
	sessions := make([]*EjectionSession, 0, n)
	for i := 0; i < n; i++ {
		s := CreateTestSession(fmt.Sprintf("session-%d", i), newest.Add(-time.Duration(i)*time.Hour))
		if i%2 == 1 {
			s.Completed = false
			s.ActualDuration = 0
			s.CompletedAt = time.Time{}
		}
		sessions = append(sessions, s)
	}
	return sessions
}

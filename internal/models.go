package internal

import (
	"fmt"
	"strings"
	"time"
)

// DeviceType identifies the kind of speaker being cleared
type DeviceType string

const (
	DevicePhone   DeviceType = "phone"
	DeviceTablet  DeviceType = "tablet"
	DeviceLaptop  DeviceType = "laptop"
	DeviceWatch   DeviceType = "watch"
	DeviceEarbuds DeviceType = "earbuds"
	DeviceOther   DeviceType = "other"
)

// deviceTypes is ordered to match the rows of the policy table.
var deviceTypes = [...]DeviceType{
	DevicePhone,
	DeviceTablet,
	DeviceLaptop,
	DeviceWatch,
	DeviceEarbuds,
	DeviceOther,
}

const deviceTypeCount = len(deviceTypes)

// DeviceTypes returns all device types in table order
func DeviceTypes() []DeviceType {
	return append([]DeviceType(nil), deviceTypes[:]...)
}

func (d DeviceType) index() int {
	for i, v := range deviceTypes {
		if v == d {
			return i
		}
	}
	return -1
}

// IsValid reports whether d is a known device type
func (d DeviceType) IsValid() bool {
	return d.index() >= 0
}

// ParseDeviceType parses a device type name, case-insensitively
func ParseDeviceType(s string) (DeviceType, error) {
	d := DeviceType(strings.ToLower(strings.TrimSpace(s)))
	if !d.IsValid() {
		return "", fmt.Errorf("%w: %q (valid: %s)", ErrUnknownDevice, s, joinNames(DeviceTypes()))
	}
	return d, nil
}

// IntensityLevel is a named preset controlling duration and frequency profile
type IntensityLevel string

const (
	IntensityLow       IntensityLevel = "low"
	IntensityMedium    IntensityLevel = "medium"
	IntensityHigh      IntensityLevel = "high"
	IntensityEmergency IntensityLevel = "emergency"
	IntensityRealtime  IntensityLevel = "realtime"
)

// intensityLevels is ordered to match the columns of the policy table.
var intensityLevels = [...]IntensityLevel{
	IntensityLow,
	IntensityMedium,
	IntensityHigh,
	IntensityEmergency,
	IntensityRealtime,
}

const intensityLevelCount = len(intensityLevels)

var nominalDurations = [intensityLevelCount]time.Duration{
	30 * time.Second,
	60 * time.Second,
	120 * time.Second,
	180 * time.Second,
	300 * time.Second,
}

// CompletionTolerance is how far past its nominal duration a session may run
// and still be recorded with its reported duration.
const CompletionTolerance = 2 * time.Second

// IntensityLevels returns all intensity levels in table order
func IntensityLevels() []IntensityLevel {
	return append([]IntensityLevel(nil), intensityLevels[:]...)
}

func (l IntensityLevel) index() int {
	for i, v := range intensityLevels {
		if v == l {
			return i
		}
	}
	return -1
}

// IsValid reports whether l is a known intensity level
func (l IntensityLevel) IsValid() bool {
	return l.index() >= 0
}

// NominalDuration returns the preset playback length for the level.
// Unknown levels return zero.
func (l IntensityLevel) NominalDuration() time.Duration {
	i := l.index()
	if i < 0 {
		return 0
	}
	return nominalDurations[i]
}

// MaxDuration is the nominal duration plus CompletionTolerance.
func (l IntensityLevel) MaxDuration() time.Duration {
	return l.NominalDuration() + CompletionTolerance
}

// ParseIntensityLevel parses an intensity level name, case-insensitively
func ParseIntensityLevel(s string) (IntensityLevel, error) {
	l := IntensityLevel(strings.ToLower(strings.TrimSpace(s)))
	if !l.IsValid() {
		return "", fmt.Errorf("%w: %q (valid: %s)", ErrUnknownIntensity, s, joinNames(IntensityLevels()))
	}
	return l, nil
}

// EjectionSession is one timed playback attempt
type EjectionSession struct {
	ID             string         `json:"id" yaml:"id"`
	DeviceType     DeviceType     `json:"device_type" yaml:"device_type"`
	IntensityLevel IntensityLevel `json:"intensity_level" yaml:"intensity_level"`
	StartedAt      time.Time      `json:"started_at" yaml:"started_at"`
	Completed      bool           `json:"completed" yaml:"completed"`
	ActualDuration float64        `json:"actual_duration" yaml:"actual_duration"` // seconds
	CompletedAt    time.Time      `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// Elapsed returns how long the session has been running at now.
// Completed sessions return their recorded duration.
func (s EjectionSession) Elapsed(now time.Time) time.Duration {
	if s.Completed {
		return secondsToDuration(s.ActualDuration)
	}
	if now.Before(s.StartedAt) {
		return 0
	}
	return now.Sub(s.StartedAt)
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

func joinNames[T ~string](values []T) string {
	names := make([]string, 0, len(values))
	for _, v := range values {
		names = append(names, string(v))
	}
	return strings.Join(names, ", ")
}

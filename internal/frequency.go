package internal

import "time"

// Envelope shapes the amplitude of a tone over its duration
type Envelope struct {
	AttackSeconds  float64 `json:"attack_seconds" yaml:"attack_seconds"`
	ReleaseSeconds float64 `json:"release_seconds" yaml:"release_seconds"`
	Peak           float64 `json:"peak" yaml:"peak"`         // 0..1
	PulseHz        float64 `json:"pulse_hz" yaml:"pulse_hz"` // 0 disables amplitude pulsing
}

// Policy is the playback recipe for one device and intensity
type Policy struct {
	Device    DeviceType     `json:"device" yaml:"device"`
	Intensity IntensityLevel `json:"intensity" yaml:"intensity"`
	Frequency float64        `json:"frequency_hz" yaml:"frequency_hz"`
	Duration  time.Duration  `json:"duration" yaml:"duration"`
	Envelope  Envelope       `json:"envelope" yaml:"envelope"`
}

var (
	envLow       = Envelope{AttackSeconds: 1.0, ReleaseSeconds: 1.0, Peak: 0.6}
	envMedium    = Envelope{AttackSeconds: 0.75, ReleaseSeconds: 1.0, Peak: 0.75}
	envHigh      = Envelope{AttackSeconds: 0.5, ReleaseSeconds: 0.75, Peak: 0.9}
	envEmergency = Envelope{AttackSeconds: 0.25, ReleaseSeconds: 0.5, Peak: 1.0, PulseHz: 2}
	envRealtime  = Envelope{AttackSeconds: 0.5, ReleaseSeconds: 0.5, Peak: 0.8, PulseHz: 0.5}
)

type entry struct {
	hz  float64
	env Envelope
}

// policyTable is indexed [device][intensity] in the order of deviceTypes and
// intensityLevels. Every cell is spelled out.
var policyTable = [deviceTypeCount][intensityLevelCount]entry{
	// phone
	{
		{hz: 165, env: envLow},
		{hz: 165, env: envMedium},
		{hz: 170, env: envHigh},
		{hz: 175, env: envEmergency},
		{hz: 165, env: envRealtime},
	},
	// tablet
	{
		{hz: 150, env: envLow},
		{hz: 150, env: envMedium},
		{hz: 155, env: envHigh},
		{hz: 160, env: envEmergency},
		{hz: 150, env: envRealtime},
	},
	// laptop
	{
		{hz: 200, env: envLow},
		{hz: 200, env: envMedium},
		{hz: 210, env: envHigh},
		{hz: 220, env: envEmergency},
		{hz: 200, env: envRealtime},
	},
	// watch
	{
		{hz: 250, env: envLow},
		{hz: 250, env: envMedium},
		{hz: 260, env: envHigh},
		{hz: 275, env: envEmergency},
		{hz: 250, env: envRealtime},
	},
	// earbuds
	{
		{hz: 300, env: envLow},
		{hz: 300, env: envMedium},
		{hz: 310, env: envHigh},
		{hz: 320, env: envEmergency},
		{hz: 300, env: envRealtime},
	},
	// other
	{
		{hz: 180, env: envLow},
		{hz: 180, env: envMedium},
		{hz: 185, env: envHigh},
		{hz: 190, env: envEmergency},
		{hz: 180, env: envRealtime},
	},
}

// PolicyFor returns the playback policy for a device and intensity.
// Unknown values fall back to DeviceOther and IntensityMedium.
func PolicyFor(device DeviceType, intensity IntensityLevel) Policy {
	d := device.index()
	if d < 0 {
		device, d = DeviceOther, DeviceOther.index()
	}
	i := intensity.index()
	if i < 0 {
		intensity, i = IntensityMedium, IntensityMedium.index()
	}
	e := policyTable[d][i]
	return Policy{
		Device:    device,
		Intensity: intensity,
		Frequency: e.hz,
		Duration:  nominalDurations[i],
		Envelope:  e.env,
	}
}

// FrequencyFor returns the centre frequency in Hz and the duration in seconds.
func FrequencyFor(device DeviceType, intensity IntensityLevel) (hz float64, durationSeconds float64) {
	p := PolicyFor(device, intensity)
	return p.Frequency, p.Duration.Seconds()
}

// Policies returns every table entry, device-major.
func Policies() []Policy {
	out := make([]Policy, 0, deviceTypeCount*intensityLevelCount)
	for _, d := range deviceTypes {
		for _, l := range intensityLevels {
			out = append(out, PolicyFor(d, l))
		}
	}
	return out
}

package internal

import "testing"

func TestFrequencyFor_AllPairsPositive(t *testing.T) {
	for _, d := range DeviceTypes() {
		for _, l := range IntensityLevels() {
			hz, secs := FrequencyFor(d, l)
			if hz <= 0 {
				t.Errorf("FrequencyFor(%s, %s) hz = %v, want > 0", d, l, hz)
			}
			if secs <= 0 {
				t.Errorf("FrequencyFor(%s, %s) duration = %v, want > 0", d, l, secs)
			}
			if secs != l.NominalDuration().Seconds() {
				t.Errorf("FrequencyFor(%s, %s) duration = %v, want nominal %v", d, l, secs, l.NominalDuration().Seconds())
			}
		}
	}
}

func TestPolicyFor_EnvelopeDefined(t *testing.T) {
	for _, p := range Policies() {
		if p.Envelope.Peak <= 0 || p.Envelope.Peak > 1 {
			t.Errorf("%s/%s peak = %v, want (0,1]", p.Device, p.Intensity, p.Envelope.Peak)
		}
		if p.Envelope.AttackSeconds+p.Envelope.ReleaseSeconds >= p.Duration.Seconds() {
			t.Errorf("%s/%s envelope ramps exceed duration", p.Device, p.Intensity)
		}
	}
}

func TestPolicies_Count(t *testing.T) {
	if got := len(Policies()); got != 30 {
		t.Fatalf("Policies() len = %d, want 30", got)
	}
}

func TestFrequencyFor_Known(t *testing.T) {
	hz, secs := FrequencyFor(DevicePhone, IntensityHigh)
	if hz != 170 || secs != 120 {
		t.Errorf("FrequencyFor(phone, high) = (%v, %v), want (170, 120)", hz, secs)
	}
}

func TestPolicyFor_UnknownFallsBack(t *testing.T) {
	p := PolicyFor(DeviceType("toaster"), IntensityLevel("max"))
	if p.Device != DeviceOther || p.Intensity != IntensityMedium {
		t.Errorf("PolicyFor(unknown) = %s/%s, want other/medium", p.Device, p.Intensity)
	}
}

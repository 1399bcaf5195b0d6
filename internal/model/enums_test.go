package model

import "testing"

func TestParseCapsRoundTrip(t *testing.T) {
	for _, c := range CapsModes() {
		parsed, err := ParseCaps(c.String())
		if err != nil {
			t.Fatalf("ParseCaps(%q) failed: %v", c.String(), err)
		}
		if parsed != c {
			t.Fatalf("expected %v, got %v", c, parsed)
		}
	}
	if _, err := ParseCaps("shouting"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestParseSpeedAcceptsUnderscore(t *testing.T) {
	s, err := ParseSpeed("VERY_SLOW")
	if err != nil {
		t.Fatalf("ParseSpeed failed: %v", err)
	}
	if s != SpeedVerySlow {
		t.Fatalf("expected very-slow, got %v", s)
	}
}

func TestSpeedMultipliersDecrease(t *testing.T) {
	speeds := Speeds()
	for i := 1; i < len(speeds); i++ {
		if speeds[i].Multiplier() >= speeds[i-1].Multiplier() {
			t.Fatalf("expected %v to be faster than %v", speeds[i], speeds[i-1])
		}
	}
	if Speed(9).Valid() || Speed(9).Multiplier() != 0 {
		t.Fatalf("expected out-of-range speed to be invalid")
	}
}

func TestStoredSettingsApply(t *testing.T) {
	length := 7
	speed := SpeedFast
	base := Settings{Lang: "de", Length: 5, Caps: CapsSmall, Speed: SpeedMedium, Special: true}
	got := StoredSettings{Length: &length, Speed: &speed}.Apply(base)
	want := Settings{Lang: "de", Length: 7, Caps: CapsSmall, Speed: SpeedFast, Special: true}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

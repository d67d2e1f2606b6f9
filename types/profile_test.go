package types

import "testing"

func TestPressProfileFromMap(t *testing.T) {
	// JSON numbers decode as float64.
	m := map[string]any{
		"rest_deg":   float64(10),
		"press_deg":  float64(80),
		"engage_ms":  float64(450),
		"release_ms": float64(250),
	}
	p := PressProfileFromMap(m)
	if p.RestDeg != 10 || p.PressDeg != 80 {
		t.Fatalf("angles not applied: %+v", p)
	}
	if p.EngageMs != 450 || p.ReleaseMs != 250 {
		t.Fatalf("delays not applied: %+v", p)
	}
	if p.PollMs != 2 || p.SweepSteps != 0 {
		t.Fatalf("defaults lost: %+v", p)
	}
}

func TestPressProfileDefaultsOnNil(t *testing.T) {
	p := PressProfileFromMap(nil)
	if p != DefaultPressProfile() {
		t.Fatalf("nil map should give defaults, got %+v", p)
	}
}

func TestReceiverProfileFromMap(t *testing.T) {
	m := map[string]any{
		"pin":        float64(26),
		"active_low": false,
		"source":     "nec",
	}
	p := ReceiverProfileFromMap(m)
	if p.Pin != 26 || p.ActiveLow || p.Source != SourceModeNEC {
		t.Fatalf("unexpected profile: %+v", p)
	}
	if p.HoldMs != 40 {
		t.Fatalf("hold default lost: %+v", p)
	}
}

func TestFieldHelpersIgnoreWrongTypes(t *testing.T) {
	m := map[string]any{"pin": "not-a-number", "active_low": 1}
	p := ReceiverProfileFromMap(m)
	def := DefaultReceiverProfile()
	if p.Pin != def.Pin || p.ActiveLow != def.ActiveLow {
		t.Fatalf("wrong-typed fields should fall back: %+v", p)
	}
}

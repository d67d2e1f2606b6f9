package types

// Board profile sections. The config service publishes each section as the
// raw decoded JSON value (map[string]any), so every section has a FromMap
// constructor that falls back to defaults for absent or malformed fields.

type PressProfile struct {
	RestDeg    int
	PressDeg   int
	EngageMs   int
	ReleaseMs  int
	PollMs     int
	SweepSteps int // 0 = direct command, >0 = soft sweep step count
}

func DefaultPressProfile() PressProfile {
	return PressProfile{RestDeg: 0, PressDeg: 90, EngageMs: 500, ReleaseMs: 300, PollMs: 2}
}

func PressProfileFromMap(m map[string]any) PressProfile {
	p := DefaultPressProfile()
	p.RestDeg = intField(m, "rest_deg", p.RestDeg)
	p.PressDeg = intField(m, "press_deg", p.PressDeg)
	p.EngageMs = intField(m, "engage_ms", p.EngageMs)
	p.ReleaseMs = intField(m, "release_ms", p.ReleaseMs)
	p.PollMs = intField(m, "poll_ms", p.PollMs)
	p.SweepSteps = intField(m, "sweep_steps", p.SweepSteps)
	return p
}

// Receiver source modes.
const (
	SourceModeRaw = "raw" // polarity-corrected level + hold latch
	SourceModeNEC = "nec" // decoded frames via the irremote driver
)

type ReceiverProfile struct {
	Pin       int
	ActiveLow bool
	HoldMs    int
	Source    string
}

func DefaultReceiverProfile() ReceiverProfile {
	return ReceiverProfile{Pin: -1, ActiveLow: true, HoldMs: 40, Source: SourceModeRaw}
}

func ReceiverProfileFromMap(m map[string]any) ReceiverProfile {
	p := DefaultReceiverProfile()
	p.Pin = intField(m, "pin", p.Pin)
	p.ActiveLow = boolField(m, "active_low", p.ActiveLow)
	p.HoldMs = intField(m, "hold_ms", p.HoldMs)
	p.Source = strField(m, "source", p.Source)
	return p
}

type ServoProfile struct {
	Pin   int
	MinUS int // pulse width at 0 degrees
	MaxUS int // pulse width at 180 degrees
}

func DefaultServoProfile() ServoProfile {
	return ServoProfile{Pin: -1, MinUS: 500, MaxUS: 2500}
}

func ServoProfileFromMap(m map[string]any) ServoProfile {
	p := DefaultServoProfile()
	p.Pin = intField(m, "pin", p.Pin)
	p.MinUS = intField(m, "min_us", p.MinUS)
	p.MaxUS = intField(m, "max_us", p.MaxUS)
	return p
}

type HeartbeatProfile struct {
	IntervalS int
}

func HeartbeatProfileFromMap(m map[string]any) HeartbeatProfile {
	p := HeartbeatProfile{IntervalS: 5}
	p.IntervalS = intField(m, "interval_s", p.IntervalS)
	return p
}

type ConsoleProfile struct {
	Baud int
}

func ConsoleProfileFromMap(m map[string]any) ConsoleProfile {
	p := ConsoleProfile{Baud: 115200}
	p.Baud = intField(m, "baud", p.Baud)
	return p
}

// ---- field helpers ----

func intField(m map[string]any, key string, def int) int {
	if m == nil {
		return def
	}
	switch x := m[key].(type) {
	case float64:
		return int(x)
	case int:
		return x
	case int64:
		return int(x)
	}
	return def
}

func boolField(m map[string]any, key string, def bool) bool {
	if m == nil {
		return def
	}
	if b, ok := m[key].(bool); ok {
		return b
	}
	return def
}

func strField(m map[string]any, key string, def string) string {
	if m == nil {
		return def
	}
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return def
}

package types

// ---- Press service state (retained) ----

// Loop states as published on press/state.
const (
	StateIdle      = "idle"
	StateActuating = "actuating"
)

// Trigger sources.
const (
	SourceIR     = "ir"
	SourceManual = "manual"
)

type PressState struct {
	State      string `json:"state"` // "idle" | "actuating"
	Presses    uint32 `json:"presses"`
	LastSource string `json:"last_source,omitempty"`
	AngleDeg   int    `json:"angle_deg"`
	TS         int64  `json:"ts_ms"`
}

// ---- Press service events (non-retained) ----

type TriggerEvent struct {
	Source string `json:"source"`
	TS     int64  `json:"ts_ms"`
}

type CycleEvent struct {
	Seq    uint32 `json:"seq"`
	Source string `json:"source"`
	TS     int64  `json:"ts_ms"`
}

// ---- Heartbeat (retained) ----

type HeartbeatState struct {
	UptimeS uint32 `json:"uptime_s"`
	TS      int64  `json:"ts_ms"`
}

// ---- Control replies ----

type OKReply struct {
	OK bool `json:"ok"`
}

type ErrReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func Err(code error) ErrReply { return ErrReply{Error: code.Error()} }

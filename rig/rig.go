// Package rig defines the hardware contracts the controller runs against.
// The platform layer assembles a Rig once at startup (real pins on the MCU,
// fakes on the host); the handles then live until power loss. A setup
// failure is fatal before the control loop starts.
package rig

import "context"

// DigitalIn is a polled logic-level input.
type DigitalIn interface {
	Get() bool
	Number() int
}

// Edge selects which level changes fire a line interrupt.
type Edge uint8

const (
	EdgeRising Edge = 1 << iota
	EdgeFalling
)

// IRQLine is a digital input that can report level changes.
// The handler runs in interrupt context: no allocation, no blocking.
type IRQLine interface {
	DigitalIn
	SetIRQ(edge Edge, fn func()) error
	ClearIRQ() error
}

// Receiver is the demodulated IR front end: reports whether a signal is
// currently present. What "present" means is the implementation's business
// (polarity-corrected level, hold latch, decoded frame).
type Receiver interface {
	Active() bool
}

// Servo points the horn at an absolute angle in degrees. Commands are fire
// and forget; there is no position feedback, settle time is the caller's
// problem.
type Servo interface {
	SetAngle(deg int)
}

// StatusLED is the board liveness indicator.
type StatusLED interface {
	Set(on bool)
	Toggle()
}

// Console is the byte transport behind the maintenance console.
// ReadSome returns at least one byte or blocks until ctx is done.
type Console interface {
	ReadSome(ctx context.Context, p []byte) (int, error)
	Write(p []byte) (int, error)
}

// Rig is the assembled hardware set for one board.
type Rig struct {
	Receiver Receiver
	Servo    Servo
	LED      StatusLED
	Console  Console // nil when the board has no console wired
	Board    string  // selects the embedded profile
}

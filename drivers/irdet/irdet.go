// Package irdet turns a demodulated IR receiver line into a boolean
// "signal present" source.
//
// Receiver modules of the TSOP/VS1838 family idle high and pull the line
// low while they see modulated 38 kHz light, so the driver treats the line
// as active-low unless told otherwise. Because the marks inside a frame
// alternate with spaces, a bare level read can land in a gap; with a hold
// window configured, an edge interrupt timestamps line activity and
// Active() stays true for that window after the last observed edge.
//
// Optionally the driver records edge-to-edge pulse durations into a ring
// for diagnostics (remote range testing, protocol eyeballing). Capture is
// never consulted by the press logic.
package irdet

import (
	"sync/atomic"
	"time"

	"pressbot-go/errcode"
	"pressbot-go/rig"
	"pressbot-go/x/pulsering"
)

// Config controls observation behaviour. All fields are optional.
type Config struct {
	// ActiveLow marks the line as idle-high (default for demodulating
	// receiver modules).
	ActiveLow bool
	// Hold keeps Active() true for this long after the last edge.
	// Zero disables the latch and the edge interrupt with it.
	Hold time.Duration
	// Capture sets the pulse ring size (power of two). Zero disables
	// capture.
	Capture int
}

type Device struct {
	line      rig.IRQLine
	activeLow bool
	holdMs    uint32

	lastEdgeMs atomic.Uint32
	edges      atomic.Uint32

	ring *pulsering.Ring
	// edge bookkeeping, touched only by the interrupt handler
	prevUS     uint32
	prevActive bool
	haveEdge   bool
}

func New(line rig.IRQLine) *Device {
	return &Device{line: line}
}

// Configure applies cfg and, when a hold window or capture is requested,
// installs the edge interrupt.
func (d *Device) Configure(cfg Config) error {
	d.activeLow = cfg.ActiveLow
	d.holdMs = uint32(cfg.Hold / time.Millisecond)
	if cfg.Capture > 0 {
		d.ring = pulsering.New(cfg.Capture)
	}
	if d.holdMs > 0 || d.ring != nil {
		if err := d.line.SetIRQ(rig.EdgeRising|rig.EdgeFalling, d.onEdge); err != nil {
			return errcode.Wrap(errcode.HWFailure, "irdet.configure", err)
		}
	}
	return nil
}

// Close removes the edge interrupt.
func (d *Device) Close() error {
	if d.holdMs > 0 || d.ring != nil {
		return d.line.ClearIRQ()
	}
	return nil
}

// Active reports whether a signal is currently present: the raw
// polarity-corrected level, or any edge within the hold window.
func (d *Device) Active() bool {
	if d.line.Get() != d.activeLow {
		return true
	}
	if d.holdMs == 0 || d.edges.Load() == 0 {
		return false
	}
	now := uint32(time.Now().UnixMilli())
	return now-d.lastEdgeMs.Load() <= d.holdMs
}

// Edges reports how many line transitions the interrupt has seen.
func (d *Device) Edges() uint32 { return d.edges.Load() }

// Pulses exposes the capture ring, nil when capture is disabled.
func (d *Device) Pulses() *pulsering.Ring { return d.ring }

// onEdge runs in interrupt context.
func (d *Device) onEdge() {
	now := time.Now()
	ms := uint32(now.UnixMilli())
	active := d.line.Get() != d.activeLow

	d.lastEdgeMs.Store(ms)
	d.edges.Add(1)

	if d.ring != nil {
		us := uint32(now.UnixNano() / 1000)
		if d.haveEdge {
			// the period that just ended carried the previous level
			d.ring.Push(pulsering.Pulse{Mark: d.prevActive, DurUS: us - d.prevUS})
		}
		d.prevUS = us
		d.prevActive = active
		d.haveEdge = true
	}
}

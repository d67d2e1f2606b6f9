package press

import (
	"sync/atomic"

	"pressbot-go/rig"
	"pressbot-go/types"
)

// Monitor is the signal side of the control loop: it answers "is a press
// wanted right now". Hardware triggers come from the receiver; manual
// triggers arrive over the bus and latch until the next poll consumes them.
// There is no debouncing, no edge detection and no payload decoding here:
// any receiver activity counts as a press request.
type Monitor struct {
	receiver rig.Receiver
	manual   atomic.Uint32
	source   atomic.Uint32
}

const (
	srcNone uint32 = iota
	srcIR
	srcManual
)

func NewMonitor(r rig.Receiver) *Monitor {
	return &Monitor{receiver: r}
}

// RequestPress latches one manual trigger. Safe from any goroutine; extra
// requests before the next poll collapse into one.
func (m *Monitor) RequestPress() { m.manual.Store(1) }

// Poll reports whether a trigger is pending. A latched manual request is
// consumed by the call; the receiver read has no side effects.
func (m *Monitor) Poll() bool {
	if m.manual.Swap(0) != 0 {
		m.source.Store(srcManual)
		return true
	}
	if m.receiver != nil && m.receiver.Active() {
		m.source.Store(srcIR)
		return true
	}
	return false
}

// LastSource names the origin of the most recent positive poll,
// empty before the first trigger.
func (m *Monitor) LastSource() string {
	switch m.source.Load() {
	case srcIR:
		return types.SourceIR
	case srcManual:
		return types.SourceManual
	}
	return ""
}

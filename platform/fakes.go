package platform

import (
	"sync"
	"sync/atomic"
	"time"

	"pressbot-go/errcode"
	"pressbot-go/rig"
)

// Host-side fakes. Setup assembles these on non-MCU builds; tests and the
// simulator drive them directly.

// FakeLine is a hand-driven input line with IRQ callbacks.
type FakeLine struct {
	n int

	mu    sync.Mutex
	level bool
	edge  rig.Edge
	fn    func()
}

func NewFakeLine(n int) *FakeLine { return &FakeLine{n: n} }

func (l *FakeLine) Get() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

func (l *FakeLine) Number() int { return l.n }

// SetIRQ claims the line's single handler slot, like a pin interrupt on the
// MCU. A second claim fails until ClearIRQ releases the first.
func (l *FakeLine) SetIRQ(edge rig.Edge, fn func()) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fn != nil {
		return &errcode.E{C: errcode.PinInUse, Op: "platform.line",
			Msg: "irq handler already installed"}
	}
	l.edge, l.fn = edge, fn
	return nil
}

func (l *FakeLine) ClearIRQ() error {
	l.mu.Lock()
	l.edge, l.fn = 0, nil
	l.mu.Unlock()
	return nil
}

// SetLevel drives the line and fires the installed handler on a matching
// edge, the way the pin hardware would.
func (l *FakeLine) SetLevel(v bool) {
	l.mu.Lock()
	prev := l.level
	l.level = v
	edge, fn := l.edge, l.fn
	l.mu.Unlock()

	if fn == nil || prev == v {
		return
	}
	if (v && edge&rig.EdgeRising != 0) || (!v && edge&rig.EdgeFalling != 0) {
		fn()
	}
}

// Burst pulls the line low for d and releases it, like a remote keypress
// seen by an active-low receiver.
func (l *FakeLine) Burst(d time.Duration) {
	l.SetLevel(false)
	time.Sleep(d)
	l.SetLevel(true)
}

// FakeServo records the commanded angle.
type FakeServo struct {
	angle atomic.Int32

	// OnSet, when non-nil, observes every command on the caller's
	// goroutine. Set it before the services start.
	OnSet func(deg int)
}

func (s *FakeServo) SetAngle(deg int) {
	s.angle.Store(int32(deg))
	if s.OnSet != nil {
		s.OnSet(deg)
	}
}

func (s *FakeServo) Angle() int { return int(s.angle.Load()) }

// FakeLED mirrors the status LED state.
type FakeLED struct {
	on atomic.Bool
}

func (l *FakeLED) Set(on bool) { l.on.Store(on) }

func (l *FakeLED) Toggle() {
	for {
		v := l.on.Load()
		if l.on.CompareAndSwap(v, !v) {
			return
		}
	}
}

func (l *FakeLED) On() bool { return l.on.Load() }

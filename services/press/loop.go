package press

import (
	"context"
	"sync/atomic"
	"time"

	"pressbot-go/types"
)

// Source answers whether a trigger is pending. Satisfied by *Monitor.
type Source interface {
	Poll() bool
}

// Cycler runs one complete press. Satisfied by *Actuator.
type Cycler interface {
	PressCycle()
}

// Loop is the control heart. In IDLE it polls the source at a fixed
// cadence; on a trigger it runs exactly one press cycle, blind to further
// input until the cycle completes, then resumes polling. Triggers during a
// cycle are lost, never queued: the rig supports one press at a time.
type Loop struct {
	src      Source
	cycler   Cycler
	interval time.Duration
	sleep    Sleep

	state   atomic.Uint32
	presses atomic.Uint32

	// OnTrigger fires after a positive poll, OnCycle after the cycle
	// completes. Both run on the loop goroutine; either may be nil.
	OnTrigger func()
	OnCycle   func(seq uint32)
}

const (
	stateIdle uint32 = iota
	stateActuating
)

func NewLoop(src Source, cycler Cycler, interval time.Duration, sleep Sleep) *Loop {
	if interval <= 0 {
		interval = 2 * time.Millisecond
	}
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Loop{src: src, cycler: cycler, interval: interval, sleep: sleep}
}

// Step runs one iteration: a single poll, at most one press cycle, then
// the poll-interval sleep. Reports whether a cycle ran.
func (l *Loop) Step() bool {
	fired := false
	if l.src.Poll() {
		l.state.Store(stateActuating)
		if l.OnTrigger != nil {
			l.OnTrigger()
		}
		l.cycler.PressCycle()
		seq := l.presses.Add(1)
		l.state.Store(stateIdle)
		if l.OnCycle != nil {
			l.OnCycle(seq)
		}
		fired = true
	}
	l.sleep(l.interval)
	return fired
}

// Run repeats Step until ctx is cancelled. Cancellation is only checked
// between iterations: a started cycle always runs to completion.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		l.Step()
	}
}

// State reports "idle" or "actuating". Safe from any goroutine.
func (l *Loop) State() string {
	if l.state.Load() == stateActuating {
		return types.StateActuating
	}
	return types.StateIdle
}

// Presses reports how many complete cycles have run.
func (l *Loop) Presses() uint32 { return l.presses.Load() }

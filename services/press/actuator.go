package press

import (
	"sync/atomic"
	"time"

	"pressbot-go/rig"
	"pressbot-go/types"
	"pressbot-go/x/mathx"
	"pressbot-go/x/ramp"
)

// Sleep is the blocking delay primitive. Injectable so tests can record
// waits instead of serving them.
type Sleep func(time.Duration)

// Actuator owns the commanded servo angle. Engage drives the horn to the
// press angle and holds long enough for the button to register; Release
// returns it to rest and waits for the horn to physically get there. The
// servo is fire-and-forget with no position feedback, so the settle delays
// are the whole completion story.
type Actuator struct {
	servo    rig.Servo
	sleep    Sleep
	restDeg  int
	pressDeg int
	engage   time.Duration
	release  time.Duration
	sweep    int // intermediate steps per move, 0 = direct command

	angle atomic.Int32 // last commanded, readable from other goroutines
}

func NewActuator(servo rig.Servo, p types.PressProfile, sleep Sleep) *Actuator {
	if sleep == nil {
		sleep = time.Sleep
	}
	a := &Actuator{
		servo:    servo,
		sleep:    sleep,
		restDeg:  mathx.Clamp(p.RestDeg, 0, 180),
		pressDeg: mathx.Clamp(p.PressDeg, 0, 180),
		engage:   time.Duration(p.EngageMs) * time.Millisecond,
		release:  time.Duration(p.ReleaseMs) * time.Millisecond,
		sweep:    p.SweepSteps,
	}
	a.angle.Store(int32(a.restDeg))
	return a
}

// Engage commands the press angle, then blocks for the engage settle time.
func (a *Actuator) Engage() { a.move(a.pressDeg, a.engage) }

// Release commands the rest angle, then blocks for the release settle time.
func (a *Actuator) Release() { a.move(a.restDeg, a.release) }

// PressCycle performs one full button press: engage, then release. The only
// operation the control loop uses.
func (a *Actuator) PressCycle() {
	a.Engage()
	a.Release()
}

// Park commands the rest angle without a settle wait. Called once at
// startup so the horn begins from a known position.
func (a *Actuator) Park() { a.command(a.restDeg) }

// Nudge commands an arbitrary angle for rig calibration. Maintenance only;
// callers must not use it while a cycle is running.
func (a *Actuator) Nudge(deg int) { a.command(mathx.Clamp(deg, 0, 180)) }

// Angle returns the last commanded angle.
func (a *Actuator) Angle() int { return int(a.angle.Load()) }

// RestDeg and PressDeg expose the tuned endpoints.
func (a *Actuator) RestDeg() int  { return a.restDeg }
func (a *Actuator) PressDeg() int { return a.pressDeg }

func (a *Actuator) move(deg int, settle time.Duration) {
	if a.sweep > 1 {
		// Soft sweep: half the settle budget travelling through
		// intermediate angles, the other half holding the target.
		travel := settle / 2
		ramp.Linear(a.Angle(), deg, travel, a.sweep,
			func(d time.Duration) bool { a.sleep(d); return true },
			a.command)
		a.sleep(settle - travel)
		return
	}
	a.command(deg)
	a.sleep(settle)
}

func (a *Actuator) command(deg int) {
	a.angle.Store(int32(deg))
	a.servo.SetAngle(deg)
}

package press

import (
	"testing"
	"time"

	"pressbot-go/types"
)

type recServo struct {
	angles []int
}

func (r *recServo) SetAngle(deg int) { r.angles = append(r.angles, deg) }

func TestEngageThenRelease(t *testing.T) {
	servo := &recServo{}
	var waits []time.Duration
	act := NewActuator(servo, testProfile(), func(d time.Duration) { waits = append(waits, d) })

	act.PressCycle()

	if len(servo.angles) != 2 || servo.angles[0] != 90 || servo.angles[1] != 0 {
		t.Fatalf("angles %v, want [90 0]", servo.angles)
	}
	if len(waits) != 2 || waits[0] != 500*time.Millisecond || waits[1] != 300*time.Millisecond {
		t.Fatalf("waits %v, want [500ms 300ms]", waits)
	}
	if act.Angle() != 0 {
		t.Fatalf("angle after cycle %d, want rest", act.Angle())
	}
}

func TestCommandPrecedesWait(t *testing.T) {
	log := &callLog{pressDeg: 90, releaseDur: 300 * time.Millisecond}
	act := NewActuator(logServo{log}, testProfile(), log.sleep)

	act.Engage()
	expectLog(t, log.entries, []string{"angle:90", "sleep:500ms"})

	act.Release()
	expectLog(t, log.entries, oneCycle)
}

func TestAnglesClamped(t *testing.T) {
	servo := &recServo{}
	p := types.PressProfile{RestDeg: -20, PressDeg: 270, EngageMs: 1, ReleaseMs: 1}
	act := NewActuator(servo, p, func(time.Duration) {})

	act.PressCycle()
	if servo.angles[0] != 180 || servo.angles[1] != 0 {
		t.Fatalf("clamping failed: %v", servo.angles)
	}
}

func TestParkCommandsRestWithoutWait(t *testing.T) {
	servo := &recServo{}
	waits := 0
	act := NewActuator(servo, testProfile(), func(time.Duration) { waits++ })

	act.Park()
	if len(servo.angles) != 1 || servo.angles[0] != 0 {
		t.Fatalf("park angles %v", servo.angles)
	}
	if waits != 0 {
		t.Fatal("park must not wait")
	}
}

func TestNudgeClamps(t *testing.T) {
	servo := &recServo{}
	act := NewActuator(servo, testProfile(), func(time.Duration) {})

	act.Nudge(45)
	act.Nudge(999)
	if servo.angles[0] != 45 || servo.angles[1] != 180 {
		t.Fatalf("nudge angles %v", servo.angles)
	}
	if act.Angle() != 180 {
		t.Fatalf("angle %d after nudge", act.Angle())
	}
}

func TestSoftSweepReachesTargetWithinBudget(t *testing.T) {
	servo := &recServo{}
	var total time.Duration
	p := testProfile()
	p.SweepSteps = 4
	act := NewActuator(servo, p, func(d time.Duration) { total += d })

	act.Engage()

	if len(servo.angles) < 2 {
		t.Fatalf("sweep should command intermediate angles, got %v", servo.angles)
	}
	if last := servo.angles[len(servo.angles)-1]; last != 90 {
		t.Fatalf("sweep must end at the press angle, got %d (%v)", last, servo.angles)
	}
	for i := 1; i < len(servo.angles); i++ {
		if servo.angles[i] <= servo.angles[i-1] {
			t.Fatalf("sweep not monotonic: %v", servo.angles)
		}
	}
	if total != 500*time.Millisecond {
		t.Fatalf("sweep consumed %v, want the full 500ms settle budget", total)
	}

	act.Release()
	if act.Angle() != 0 {
		t.Fatal("release after sweep must end at rest")
	}
}

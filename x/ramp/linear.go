package ramp

import (
	"time"

	"pressbot-go/x/mathx"
)

// Step applies one intermediate value.
type Step func(v int)

// Tick waits for d between steps and reports whether to continue
// (false => abandoned; the final value is not applied).
type Tick func(d time.Duration) bool

// Linear walks from cur to target in the given number of equal increments
// spread over total, calling set for each intermediate value and finishing
// exactly at target. Integer error accumulation keeps the steps even without
// floats. steps<=1 or total<=0 snaps straight to target.
func Linear(cur, target int, total time.Duration, steps int, tick Tick, set Step) {
	if steps <= 1 || total <= 0 || cur == target {
		set(target)
		return
	}
	delta := target - cur
	// A move shorter than the step count would tick without motion, so cap
	// steps at the distance.
	steps = mathx.Min(steps, mathx.Abs(delta))
	stepDur := total / time.Duration(steps)
	if stepDur <= 0 {
		stepDur = time.Millisecond
	}
	acc := 0
	v := cur
	for i := 1; i < steps; i++ {
		if !tick(stepDur) {
			return
		}
		acc += delta
		inc := acc / steps
		if inc != 0 {
			acc -= inc * steps
			v = mathx.Clamp(v+inc, mathx.Min(cur, target), mathx.Max(cur, target))
			set(v)
		}
	}
	if !tick(stepDur) {
		return
	}
	set(target)
}

package ramp

import (
	"testing"
	"time"
)

func collect(cur, target int, total time.Duration, steps int) (vals []int, waited time.Duration) {
	tick := func(d time.Duration) bool { waited += d; return true }
	set := func(v int) { vals = append(vals, v) }
	Linear(cur, target, total, steps, tick, set)
	return vals, waited
}

func TestLinearEndsExactlyAtTarget(t *testing.T) {
	vals, _ := collect(0, 90, 100*time.Millisecond, 7)
	if len(vals) == 0 || vals[len(vals)-1] != 90 {
		t.Fatalf("ramp must finish at target, got %v", vals)
	}
	for i := 1; i < len(vals); i++ {
		if vals[i] <= vals[i-1] {
			t.Fatalf("ramp not monotonic: %v", vals)
		}
	}
}

func TestLinearDownward(t *testing.T) {
	vals, _ := collect(90, 0, 60*time.Millisecond, 6)
	if vals[len(vals)-1] != 0 {
		t.Fatalf("downward ramp must finish at 0, got %v", vals)
	}
	for i := 1; i < len(vals); i++ {
		if vals[i] >= vals[i-1] {
			t.Fatalf("downward ramp not monotonic: %v", vals)
		}
	}
}

func TestLinearSnapCases(t *testing.T) {
	vals, waited := collect(10, 80, 0, 5)
	if len(vals) != 1 || vals[0] != 80 || waited != 0 {
		t.Fatalf("zero duration should snap: %v waited=%v", vals, waited)
	}
	vals, _ = collect(10, 80, time.Second, 1)
	if len(vals) != 1 || vals[0] != 80 {
		t.Fatalf("single step should snap: %v", vals)
	}
	vals, _ = collect(42, 42, time.Second, 5)
	if len(vals) != 1 || vals[0] != 42 {
		t.Fatalf("no-op ramp should still settle the target: %v", vals)
	}
}

func TestLinearSpreadsDuration(t *testing.T) {
	_, waited := collect(0, 90, 100*time.Millisecond, 5)
	if waited != 100*time.Millisecond {
		t.Fatalf("total wait %v, want 100ms", waited)
	}
}

func TestLinearShortMoveCapsSteps(t *testing.T) {
	vals, waited := collect(0, 3, 90*time.Millisecond, 9)
	if len(vals) != 3 || vals[len(vals)-1] != 3 {
		t.Fatalf("short move should step once per degree, got %v", vals)
	}
	if waited != 90*time.Millisecond {
		t.Fatalf("total wait %v, want 90ms", waited)
	}
}

func TestLinearAbandoned(t *testing.T) {
	var vals []int
	n := 0
	tick := func(d time.Duration) bool { n++; return n <= 2 }
	Linear(0, 90, 100*time.Millisecond, 10, tick, func(v int) { vals = append(vals, v) })
	if len(vals) != 0 && vals[len(vals)-1] == 90 {
		t.Fatalf("abandoned ramp must not settle the target: %v", vals)
	}
}

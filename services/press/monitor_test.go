package press

import (
	"testing"

	"pressbot-go/types"
)

type fakeReceiver struct{ active bool }

func (f *fakeReceiver) Active() bool { return f.active }

func TestPollReadsReceiver(t *testing.T) {
	rcv := &fakeReceiver{}
	m := NewMonitor(rcv)

	if m.Poll() {
		t.Fatal("idle receiver should not trigger")
	}
	rcv.active = true
	if !m.Poll() {
		t.Fatal("active receiver should trigger")
	}
	if m.LastSource() != types.SourceIR {
		t.Fatalf("source %q, want ir", m.LastSource())
	}
	// level-based: stays true while the receiver reports activity
	if !m.Poll() {
		t.Fatal("receiver still active, poll should stay true")
	}
}

func TestManualTriggerIsOneShot(t *testing.T) {
	m := NewMonitor(&fakeReceiver{})

	m.RequestPress()
	if !m.Poll() {
		t.Fatal("latched manual trigger not seen")
	}
	if m.LastSource() != types.SourceManual {
		t.Fatalf("source %q, want manual", m.LastSource())
	}
	if m.Poll() {
		t.Fatal("manual trigger must be consumed by one poll")
	}
}

func TestManualCollapsesToOne(t *testing.T) {
	m := NewMonitor(&fakeReceiver{})

	m.RequestPress()
	m.RequestPress()
	m.RequestPress()
	if !m.Poll() {
		t.Fatal("latched manual trigger not seen")
	}
	if m.Poll() {
		t.Fatal("repeated requests before a poll must collapse into one")
	}
}

func TestManualBeforeReceiver(t *testing.T) {
	rcv := &fakeReceiver{active: true}
	m := NewMonitor(rcv)

	m.RequestPress()
	if !m.Poll() || m.LastSource() != types.SourceManual {
		t.Fatal("manual latch should be consumed first")
	}
	if !m.Poll() || m.LastSource() != types.SourceIR {
		t.Fatal("receiver activity should surface on the next poll")
	}
}

func TestNilReceiver(t *testing.T) {
	m := NewMonitor(nil)
	if m.Poll() {
		t.Fatal("no receiver, no trigger")
	}
	if m.LastSource() != "" {
		t.Fatalf("source %q before any trigger", m.LastSource())
	}
	m.RequestPress()
	if !m.Poll() {
		t.Fatal("manual trigger must work without a receiver")
	}
}

package heartbeat

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"pressbot-go/bus"
	"pressbot-go/types"
)

type fakeLED struct {
	toggles atomic.Uint32
}

func (l *fakeLED) Set(on bool) {}
func (l *fakeLED) Toggle()     { l.toggles.Add(1) }

func waitBeat(t *testing.T, sub *bus.Subscription, timeout time.Duration) types.HeartbeatState {
	t.Helper()
	select {
	case msg := <-sub.Channel():
		hb, ok := msg.Payload.(types.HeartbeatState)
		if !ok {
			t.Fatalf("unexpected payload type %T", msg.Payload)
		}
		return hb
	case <-time.After(timeout):
		t.Fatal("timed out waiting for heartbeat")
	}
	return types.HeartbeatState{}
}

func TestInitialBeat(t *testing.T) {
	b := bus.NewBus(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	testConn := b.NewConnection("test")
	sub := testConn.Subscribe(bus.T("heartbeat", "state"))
	defer testConn.Unsubscribe(sub)

	led := &fakeLED{}
	s := &Service{LED: led}
	if err := s.Start(ctx, b.NewConnection("heartbeat")); err != nil {
		t.Fatalf("start: %v", err)
	}

	hb := waitBeat(t, sub, time.Second)
	if hb.TS <= 0 {
		t.Fatalf("beat has no timestamp: %+v", hb)
	}
	if led.toggles.Load() == 0 {
		t.Fatal("LED never toggled")
	}

	// A late subscriber sees the beat via retention.
	late := testConn.Subscribe(bus.T("heartbeat", "state"))
	defer testConn.Unsubscribe(late)
	waitBeat(t, late, time.Second)
}

func TestIntervalReconfigure(t *testing.T) {
	b := bus.NewBus(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	testConn := b.NewConnection("test")
	sub := testConn.Subscribe(bus.T("heartbeat", "state"))
	defer testConn.Unsubscribe(sub)

	s := &Service{}
	if err := s.Start(ctx, b.NewConnection("heartbeat")); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitBeat(t, sub, time.Second)

	// The default ticker runs at 5s; after reconfiguring to 1s the next
	// beat must land well before that.
	testConn.Publish(testConn.NewMessage(bus.T("config", "heartbeat"),
		map[string]any{"interval_s": float64(1)}, false))
	waitBeat(t, sub, 2500*time.Millisecond)
}

// Bus smoke run: exercises pub/sub, retention, wildcards, queue overflow
// and request/reply without the testing package, so the same binary works
// over an MCU serial console or a host shell.
package main

import (
	"context"
	"os"
	"sort"
	"time"

	"pressbot-go/bus"
)

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func expectPayload(sub *bus.Subscription, want string, timeout time.Duration) bool {
	select {
	case m := <-sub.Channel():
		s, ok := m.Payload.(string)
		return ok && s == want
	case <-time.After(timeout):
		return false
	}
}

func expectNone(sub *bus.Subscription, timeout time.Duration) bool {
	select {
	case <-sub.Channel():
		return false
	case <-time.After(timeout):
		return true
	}
}

func drain(sub *bus.Subscription, n int, deadline time.Time) ([]string, bool) {
	var out []string
	for len(out) < n && time.Now().Before(deadline) {
		select {
		case m := <-sub.Channel():
			if s, ok := m.Payload.(string); ok {
				out = append(out, s)
			}
		case <-time.After(10 * time.Millisecond):
		}
	}
	return out, len(out) == n
}

func sameUnordered(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	sort.Strings(got)
	sort.Strings(want)
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// -----------------------------------------------------------------------------
// Tests
// -----------------------------------------------------------------------------

func testBasicPubSub() bool {
	b := bus.NewBus(4)
	c := b.NewConnection("selftest")
	sub := c.Subscribe(bus.T("press", "state"))
	c.Publish(c.NewMessage(bus.T("press", "state"), "armed", false))
	return expectPayload(sub, "armed", 100*time.Millisecond)
}

func testRetained() bool {
	b := bus.NewBus(4)
	c := b.NewConnection("selftest")
	c.Publish(c.NewMessage(bus.T("config", "press"), "profile", true))
	sub := c.Subscribe(bus.T("config", "press"))
	return expectPayload(sub, "profile", 100*time.Millisecond)
}

func testRetainedClear() bool {
	b := bus.NewBus(4)
	c := b.NewConnection("selftest")
	c.Publish(c.NewMessage(bus.T("config", "press"), "profile", true))
	c.Publish(c.NewMessage(bus.T("config", "press"), nil, true))
	sub := c.Subscribe(bus.T("config", "press"))
	return expectNone(sub, 60*time.Millisecond)
}

func testWildcardOneLevel() bool {
	b := bus.NewBus(8)
	c := b.NewConnection("selftest")
	sub := c.Subscribe(bus.T("press", "control", bus.WildcardOne))
	c.Publish(c.NewMessage(bus.T("press", "control", "press"), "go", false))
	if !expectPayload(sub, "go", 100*time.Millisecond) {
		return false
	}
	c.Publish(c.NewMessage(bus.T("press", "state"), "idle", false))
	return expectNone(sub, 60*time.Millisecond)
}

func testWildcardAll() bool {
	b := bus.NewBus(16)
	c := b.NewConnection("selftest")
	sub := c.Subscribe(bus.T("press", bus.WildcardAll))
	c.Publish(c.NewMessage(bus.T("press"), "p0", false))
	c.Publish(c.NewMessage(bus.T("press", "state"), "p1", false))
	c.Publish(c.NewMessage(bus.T("press", "event", "cycle"), "p2", false))
	got, ok := drain(sub, 3, time.Now().Add(300*time.Millisecond))
	return ok && sameUnordered(got, []string{"p0", "p1", "p2"})
}

func testDropOldest() bool {
	b := bus.NewBus(2)
	c := b.NewConnection("selftest")
	sub := c.Subscribe(bus.T("press", "event", "trigger"))
	for _, s := range []string{"t0", "t1", "t2", "t3", "t4"} {
		c.Publish(c.NewMessage(bus.T("press", "event", "trigger"), s, false))
	}
	got, ok := drain(sub, 2, time.Now().Add(200*time.Millisecond))
	return ok && got[0] == "t3" && got[1] == "t4"
}

func testRequestReply() bool {
	b := bus.NewBus(8)
	req := b.NewConnection("requester")
	resp := b.NewConnection("responder")

	sub := resp.Subscribe(bus.T("press", "control", "status"))
	done := make(chan struct{})
	go func() {
		defer close(done)
		if m, ok := <-sub.Channel(); ok {
			resp.Reply(m, "idle", false)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	reply, err := req.RequestWait(ctx, req.NewMessage(bus.T("press", "control", "status"), nil, false))
	resp.Unsubscribe(sub)
	<-done
	if err != nil {
		return false
	}
	s, ok := reply.Payload.(string)
	return ok && s == "idle"
}

func testRequestTimeout() bool {
	b := bus.NewBus(4)
	req := b.NewConnection("requester")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := req.RequestWait(ctx, req.NewMessage(bus.T("nobody", "home"), nil, false))
	return err != nil
}

// -----------------------------------------------------------------------------
// Runner
// -----------------------------------------------------------------------------

func main() {
	time.Sleep(250 * time.Millisecond) // let a USB serial console enumerate

	tests := []struct {
		name string
		fn   func() bool
	}{
		{"basic_pubsub", testBasicPubSub},
		{"retained", testRetained},
		{"retained_clear", testRetainedClear},
		{"wildcard_one_level", testWildcardOneLevel},
		{"wildcard_all", testWildcardAll},
		{"drop_oldest", testDropOldest},
		{"request_reply", testRequestReply},
		{"request_timeout", testRequestTimeout},
	}

	println("== bus self-test ==")
	failed := 0
	for _, tc := range tests {
		if tc.fn() {
			println("[PASS]", tc.name)
		} else {
			println("[FAIL]", tc.name)
			failed++
		}
		time.Sleep(10 * time.Millisecond)
	}
	println("== done,", len(tests)-failed, "passed,", failed, "failed ==")
	if failed > 0 {
		os.Exit(1)
	}
}

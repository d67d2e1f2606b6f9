package console

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"pressbot-go/bus"
	"pressbot-go/errcode"
	"pressbot-go/types"
)

// pipePort scripts console input chunk by chunk and records everything the
// console writes back.
type pipePort struct {
	in  chan []byte
	mu  sync.Mutex
	out []byte
}

func newPipePort() *pipePort { return &pipePort{in: make(chan []byte, 8)} }

func (p *pipePort) ReadSome(ctx context.Context, b []byte) (int, error) {
	select {
	case chunk := <-p.in:
		return copy(b, chunk), nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (p *pipePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	p.out = append(p.out, b...)
	p.mu.Unlock()
	return len(b), nil
}

func (p *pipePort) send(s string) { p.in <- []byte(s) }

func (p *pipePort) output() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return string(p.out)
}

// fakePress answers the control verbs the way the press service would.
func fakePress(ctx context.Context, conn *bus.Connection, state types.PressState) {
	sub := conn.Subscribe(bus.T("press", "control", bus.WildcardOne))
	go func() {
		defer conn.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-sub.Channel():
				verb, _ := msg.Topic.At(2).(string)
				switch verb {
				case "press":
					conn.Reply(msg, types.OKReply{OK: true}, false)
				case "status":
					conn.Reply(msg, state, false)
				case "angle":
					if _, ok := msg.Payload.(int); !ok {
						conn.Reply(msg, types.Err(errcode.InvalidPayload), false)
						break
					}
					conn.Reply(msg, types.OKReply{OK: true}, false)
				}
			}
		}
	}()
}

func startConsole(t *testing.T) (*pipePort, *bus.Connection, context.Context, context.CancelFunc) {
	t.Helper()
	b := bus.NewBus(16)
	ctx, cancel := context.WithCancel(context.Background())

	port := newPipePort()
	s := &Service{Port: port}
	if err := s.Start(ctx, b.NewConnection("console")); err != nil {
		cancel()
		t.Fatalf("start: %v", err)
	}
	return port, b.NewConnection("test"), ctx, cancel
}

func waitOutput(t *testing.T, p *pipePort, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(p.output(), want) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("output %q never contained %q", p.output(), want)
}

func TestPressCommand(t *testing.T) {
	port, conn, ctx, cancel := startConsole(t)
	defer cancel()
	fakePress(ctx, conn, types.PressState{})

	port.send("press\r\n")
	waitOutput(t, port, "ok")

	// CRLF is one line ending, so one dispatch.
	time.Sleep(50 * time.Millisecond)
	if n := strings.Count(port.output(), "ok"); n != 1 {
		t.Fatalf("dispatched %d times, want 1 (output %q)", n, port.output())
	}
}

func TestStatusCommand(t *testing.T) {
	port, conn, ctx, cancel := startConsole(t)
	defer cancel()
	fakePress(ctx, conn, types.PressState{
		State: types.StateIdle, Presses: 3, LastSource: types.SourceManual,
	})

	port.send("status\r")
	waitOutput(t, port, "state idle, presses 3, angle 0, last manual")
}

func TestAngleCommand(t *testing.T) {
	port, conn, ctx, cancel := startConsole(t)
	defer cancel()
	fakePress(ctx, conn, types.PressState{})

	port.send("angle 45\r")
	waitOutput(t, port, "ok")

	port.send("angle sideways\r")
	waitOutput(t, port, "usage: angle <deg>")
}

func TestUptimeFromRetainedState(t *testing.T) {
	port, conn, _, cancel := startConsole(t)
	defer cancel()

	conn.Publish(conn.NewMessage(bus.T("heartbeat", "state"),
		types.HeartbeatState{UptimeS: 77, TS: 1}, true))

	port.send("uptime\r")
	waitOutput(t, port, "up 77s")
}

func TestSourceCommand(t *testing.T) {
	port, conn, _, cancel := startConsole(t)
	defer cancel()

	conn.Publish(conn.NewMessage(bus.T("config", "receiver"),
		map[string]any{"pin": float64(26), "source": "raw"}, true))

	port.send("source\r")
	waitOutput(t, port, "source raw, pin 26")
}

func TestBackspaceEditing(t *testing.T) {
	port, conn, ctx, cancel := startConsole(t)
	defer cancel()
	fakePress(ctx, conn, types.PressState{})

	port.send("prx\b\bress\r")
	waitOutput(t, port, "ok")
}

func TestUnknownCommand(t *testing.T) {
	port, _, _, cancel := startConsole(t)
	defer cancel()

	port.send("frobnicate\r")
	waitOutput(t, port, "unknown command")
}

func TestNoEchoSuppressesInput(t *testing.T) {
	b := bus.NewBus(16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	port := newPipePort()
	s := &Service{Port: port, NoEcho: true}
	if err := s.Start(ctx, b.NewConnection("console")); err != nil {
		t.Fatalf("start: %v", err)
	}

	port.send("frobnicate\r")
	waitOutput(t, port, "unknown command")
	if strings.Contains(port.output(), "frobnicate") {
		t.Fatalf("input echoed despite NoEcho: %q", port.output())
	}
}

func TestDisabledWithoutPort(t *testing.T) {
	b := bus.NewBus(8)
	s := &Service{}
	if err := s.Start(context.Background(), b.NewConnection("console")); err != nil {
		t.Fatalf("start: %v", err)
	}
}

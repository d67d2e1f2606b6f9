//go:build !rp2040

// pressim runs the full service stack against the fake rig: the console
// reads stdin, servo commands print instead of moving metal, and the extra
// line "fire" injects an IR burst into the fake receiver line.
package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"time"

	"pressbot-go/bus"
	"pressbot-go/platform"
	"pressbot-go/services/config"
	"pressbot-go/services/console"
	"pressbot-go/services/heartbeat"
	"pressbot-go/services/press"
	"pressbot-go/types"
)

func main() {
	println("pressim: host rig simulator")
	println("console commands apply, plus 'fire' to inject an IR burst")

	r, err := platform.Setup()
	if err != nil {
		println("Error: pressim: setup:", err.Error())
		os.Exit(1)
	}
	platform.Servo.OnSet = func(deg int) { println("sim: servo ->", deg, "deg") }

	ctx := context.Background()
	b := bus.NewBus(16)

	if err := config.NewService(r.Board).Start(ctx, b.NewConnection("config")); err != nil {
		println("Error: pressim: config:", err.Error())
		os.Exit(1)
	}
	hb := &heartbeat.Service{LED: r.LED}
	if err := hb.Start(ctx, b.NewConnection("heartbeat")); err != nil {
		println("Error: pressim: heartbeat:", err.Error())
		os.Exit(1)
	}
	if err := press.NewService(r).Start(ctx, b.NewConnection("press")); err != nil {
		println("Error: pressim: press:", err.Error())
		os.Exit(1)
	}

	cons := &console.Service{Port: newStdinPort(platform.Line), NoEcho: true}
	if err := cons.Start(ctx, b.NewConnection("console")); err != nil {
		println("Error: pressim: console:", err.Error())
		os.Exit(1)
	}

	mon := b.NewConnection("sim")
	evt := mon.Subscribe(bus.T("press", "event", bus.WildcardAll))
	go func() {
		for m := range evt.Channel() {
			switch p := m.Payload.(type) {
			case types.TriggerEvent:
				println("sim: trigger from", p.Source)
			case types.CycleEvent:
				println("sim: cycle", p.Seq, "complete")
			}
		}
	}()

	select {}
}

// stdinPort feeds terminal lines to the console service, stealing the
// simulator-only "fire" line before the console sees it.
type stdinPort struct {
	lines chan []byte
	line  *platform.FakeLine
}

func newStdinPort(line *platform.FakeLine) *stdinPort {
	p := &stdinPort{lines: make(chan []byte, 4), line: line}
	go p.pump()
	return p
}

func (p *stdinPort) pump() {
	rd := bufio.NewReader(os.Stdin)
	for {
		s, err := rd.ReadString('\n')
		if s != "" {
			if strings.TrimSpace(s) == "fire" {
				println("sim: IR burst")
				go p.line.Burst(30 * time.Millisecond)
			} else {
				p.lines <- []byte(s)
			}
		}
		if err != nil {
			close(p.lines)
			return
		}
	}
}

func (p *stdinPort) ReadSome(ctx context.Context, b []byte) (int, error) {
	select {
	case chunk, ok := <-p.lines:
		if !ok {
			return 0, io.EOF
		}
		return copy(b, chunk), nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (p *stdinPort) Write(b []byte) (int, error) { return os.Stdout.Write(b) }

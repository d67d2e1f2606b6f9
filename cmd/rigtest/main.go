//go:build rp2040

// Hardware shakedown for a freshly wired rig: sweeps the servo between the
// profile angles, then watches the receiver and dumps captured IR pulse
// timings. Run once after assembly, before flashing the real firmware.
package main

import (
	"io"
	"time"

	"pressbot-go/boards"
	"pressbot-go/drivers/irdet"
	"pressbot-go/platform"
	"pressbot-go/rig"
	"pressbot-go/services/config"
	"pressbot-go/types"
	"pressbot-go/x/conv"
)

const (
	sweepCycles = 3
	watchFor    = 30 * time.Second
	pollEvery   = 10 * time.Millisecond
)

func main() {
	time.Sleep(2 * time.Second)
	println("[rigtest] boot, board", boards.Selected.Name)

	r, err := platform.Setup()
	if err != nil {
		hang("setup: " + err.Error())
	}

	sections, err := config.Load(boards.Selected.Name)
	if err != nil {
		hang("profile: " + err.Error())
	}
	pp := types.PressProfileFromMap(sections["press"])
	rp := types.ReceiverProfileFromMap(sections["receiver"])

	blink(r, 3, 100*time.Millisecond)

	println("[rigtest] servo sweep", pp.RestDeg, "<->", pp.PressDeg)
	for i := 0; i < sweepCycles; i++ {
		r.Servo.SetAngle(pp.PressDeg)
		time.Sleep(time.Duration(pp.EngageMs) * time.Millisecond)
		r.Servo.SetAngle(pp.RestDeg)
		time.Sleep(time.Duration(pp.ReleaseMs) * time.Millisecond)
		println("[rigtest] sweep cycle", i+1, "done")
	}

	// Receiver watch with pulse capture. A pin has one interrupt slot and
	// Setup's receiver holds it, so release that one before claiming a
	// detector with the capture ring enabled.
	if c, ok := r.Receiver.(io.Closer); ok {
		if err := c.Close(); err != nil {
			hang("receiver release: " + err.Error())
		}
	}
	det := irdet.New(platform.IRLine(rp.Pin))
	if err := det.Configure(irdet.Config{
		ActiveLow: rp.ActiveLow,
		Hold:      time.Duration(rp.HoldMs) * time.Millisecond,
		Capture:   64,
	}); err != nil {
		hang("irdet: " + err.Error())
	}

	println("[rigtest] point the remote and press any button ...")
	bursts := 0
	active := false
	deadline := time.Now().Add(watchFor)
	for time.Now().Before(deadline) {
		a := det.Active()
		if a && !active {
			bursts++
			println("[rigtest] burst", bursts)
		}
		if !a && active {
			dumpPulses(det)
		}
		if r.LED != nil {
			r.LED.Set(a)
		}
		active = a
		time.Sleep(pollEvery)
	}

	if bursts == 0 {
		hang("no IR activity seen")
	}
	println("[rigtest] PASS:", bursts, "bursts,", det.Edges(), "edges")
	if r.LED != nil {
		r.LED.Set(true)
	}
	select {}
}

// dumpPulses drains the capture ring after a burst ends: per-pulse timings
// plus a fingerprint of the 50us-quantized durations, stable enough to
// compare keypresses of the same button.
func dumpPulses(det *irdet.Device) {
	ring := det.Pulses()
	var sig uint32
	n := 0
	for {
		p, ok := ring.Pop()
		if !ok {
			break
		}
		n++
		if p.Mark {
			println("  mark ", p.DurUS, "us")
		} else {
			println("  space", p.DurUS, "us")
		}
		sig = (sig<<5 | sig>>27) ^ p.DurUS/50*50
	}
	var hex [8]byte
	println("[rigtest]", n, "pulses, dropped", ring.Drops(), "sig", string(conv.U32Hex(hex[:], sig)))
}

func blink(r rig.Rig, times int, d time.Duration) {
	if r.LED == nil {
		return
	}
	for i := 0; i < times; i++ {
		r.LED.Set(true)
		time.Sleep(d)
		r.LED.Set(false)
		time.Sleep(d)
	}
}

func hang(msg string) {
	for {
		println("[rigtest] FAIL:", msg)
		time.Sleep(2 * time.Second)
	}
}

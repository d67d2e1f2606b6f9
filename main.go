// Firmware entry point: bring up the rig, then wire every service onto
// one shared message bus. On the Pico this is the flashed image; on a
// host build the same wiring runs against the fake rig (see cmd/pressim
// for the interactive variant).
package main

import (
	"context"
	"time"

	"pressbot-go/bus"
	"pressbot-go/platform"
	"pressbot-go/services/config"
	"pressbot-go/services/console"
	"pressbot-go/services/heartbeat"
	"pressbot-go/services/press"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("Info: main: pressbot boot")

	r, err := platform.Setup()
	if err != nil {
		fatal("rig setup: " + err.Error())
	}

	ctx := context.Background()
	b := bus.NewBus(16)

	// Config first so its retained profiles are in place before anyone
	// subscribes, then the consumers in dependency order.
	if err := config.NewService(r.Board).Start(ctx, b.NewConnection("config")); err != nil {
		fatal("config: " + err.Error())
	}
	hb := &heartbeat.Service{LED: r.LED}
	if err := hb.Start(ctx, b.NewConnection("heartbeat")); err != nil {
		fatal("heartbeat: " + err.Error())
	}
	if err := press.NewService(r).Start(ctx, b.NewConnection("press")); err != nil {
		fatal("press: " + err.Error())
	}
	cons := &console.Service{Port: r.Console}
	if err := cons.Start(ctx, b.NewConnection("console")); err != nil {
		fatal("console: " + err.Error())
	}

	println("Info: main: services up on", r.Board)
	select {}
}

// fatal never returns. A crashed boot keeps shouting on the serial port
// instead of leaving a silent board.
func fatal(msg string) {
	for {
		println("Error: main:", msg)
		time.Sleep(2 * time.Second)
	}
}

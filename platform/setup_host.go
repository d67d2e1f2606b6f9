//go:build !rp2040

package platform

import (
	"time"

	"pressbot-go/boards"
	"pressbot-go/drivers/irdet"
	"pressbot-go/rig"
	"pressbot-go/services/config"
	"pressbot-go/types"
)

// Fakes assembled by the last Setup call, exported so the simulator can
// drive them.
var (
	Line  *FakeLine
	Servo *FakeServo
	LED   *FakeLED
)

// Setup assembles a fake rig for host runs. The receiver still goes through
// the real detector driver so host behaviour matches the MCU path.
func Setup() (rig.Rig, error) {
	sections, err := config.Load(boards.Selected.Name)
	if err != nil {
		return rig.Rig{}, err
	}
	rp := types.ReceiverProfileFromMap(sections["receiver"])

	Line = NewFakeLine(rp.Pin)
	Servo = &FakeServo{}
	LED = &FakeLED{}
	if rp.ActiveLow {
		Line.SetLevel(true) // receiver idles high
	}

	det := irdet.New(Line)
	if err := det.Configure(irdet.Config{
		ActiveLow: rp.ActiveLow,
		Hold:      time.Duration(rp.HoldMs) * time.Millisecond,
	}); err != nil {
		return rig.Rig{}, err
	}

	return rig.Rig{
		Receiver: det,
		Servo:    Servo,
		LED:      LED,
		Board:    boards.Selected.Name,
	}, nil
}

//go:build rp2040

package platform

import (
	"context"
	"machine"
	"sync/atomic"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/irremote"
	"tinygo.org/x/drivers/servo"

	"pressbot-go/boards"
	"pressbot-go/drivers/irdet"
	"pressbot-go/errcode"
	"pressbot-go/rig"
	"pressbot-go/services/config"
	"pressbot-go/types"
	"pressbot-go/x/mathx"
	"pressbot-go/x/timex"
)

// Setup claims the rig hardware for this board: receiver input, servo PWM,
// status LED and console UART. Any failure is fatal; the loop never starts
// against a half-built rig.
func Setup() (rig.Rig, error) {
	sections, err := config.Load(boards.Selected.Name)
	if err != nil {
		return rig.Rig{}, err
	}
	rp := types.ReceiverProfileFromMap(sections["receiver"])
	sp := types.ServoProfileFromMap(sections["servo"])
	cp := types.ConsoleProfileFromMap(sections["console"])

	r := rig.Rig{Board: boards.Selected.Name}

	if boards.Selected.LED >= 0 {
		led := machine.Pin(boards.Selected.LED)
		led.Configure(machine.PinConfig{Mode: machine.PinOutput})
		r.LED = &mcuLED{p: led}
	}

	if r.Receiver, err = setupReceiver(rp); err != nil {
		return rig.Rig{}, err
	}
	if r.Servo, err = setupServo(sp); err != nil {
		return rig.Rig{}, err
	}

	if cp.Baud > 0 {
		u := uartx.UART0
		if err := u.Configure(uartx.UARTConfig{
			BaudRate: uint32(cp.Baud),
			TX:       machine.Pin(boards.Selected.UART0TX),
			RX:       machine.Pin(boards.Selected.UART0RX),
		}); err != nil {
			return rig.Rig{}, errcode.Wrap(errcode.HWFailure, "platform.console", err)
		}
		r.Console = &mcuConsole{u: u}
	}

	return r, nil
}

// IRLine exposes a machine pin as an IRQ-capable input line. Shakedown
// tools use it to run their own detector with pulse capture enabled.
func IRLine(pin int) rig.IRQLine {
	p := machine.Pin(pin)
	p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return &mcuLine{p: p}
}

func setupReceiver(rp types.ReceiverProfile) (rig.Receiver, error) {
	if !mathx.Between(rp.Pin, 0, 28) {
		return nil, &errcode.E{C: errcode.UnknownPin, Op: "platform.receiver",
			Msg: "receiver pin not usable"}
	}
	pin := machine.Pin(rp.Pin)
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	if rp.Source == types.SourceModeNEC {
		recv := &necReceiver{pin: pin, holdMs: uint32(rp.HoldMs)}
		ir := irremote.NewReceiver(pin)
		ir.Configure()
		ir.SetCommandHandler(func(d irremote.Data) {
			recv.lastMs.Store(uint32(timex.NowMs()))
			recv.frames.Add(1)
		})
		return recv, nil
	}

	det := irdet.New(&mcuLine{p: pin})
	if err := det.Configure(irdet.Config{
		ActiveLow: rp.ActiveLow,
		Hold:      time.Duration(rp.HoldMs) * time.Millisecond,
	}); err != nil {
		return nil, err
	}
	return det, nil
}

func setupServo(sp types.ServoProfile) (rig.Servo, error) {
	if !mathx.Between(sp.Pin, 0, 28) {
		return nil, &errcode.E{C: errcode.UnknownPin, Op: "platform.servo",
			Msg: "servo pin not usable"}
	}
	pin := machine.Pin(sp.Pin)
	slice, err := machine.PWMPeripheral(pin)
	if err != nil {
		return nil, errcode.Wrap(errcode.Unsupported, "platform.servo", err)
	}
	s, err := servo.New(pwmBySlice(slice), pin)
	if err != nil {
		return nil, errcode.Wrap(errcode.HWFailure, "platform.servo", err)
	}
	return &mcuServo{s: s, minUS: sp.MinUS, maxUS: sp.MaxUS}, nil
}

func pwmBySlice(slice uint8) servo.PWM {
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}

// ---- machine pin adapters ----

type mcuLine struct {
	p machine.Pin
}

func (l *mcuLine) Get() bool   { return l.p.Get() }
func (l *mcuLine) Number() int { return int(l.p) }

func (l *mcuLine) SetIRQ(edge rig.Edge, fn func()) error {
	return l.p.SetInterrupt(toPinChange(edge), func(machine.Pin) { fn() })
}

func (l *mcuLine) ClearIRQ() error {
	var zero machine.PinChange
	return l.p.SetInterrupt(zero, nil)
}

func toPinChange(e rig.Edge) machine.PinChange {
	switch {
	case e&rig.EdgeRising != 0 && e&rig.EdgeFalling != 0:
		return machine.PinToggle
	case e&rig.EdgeRising != 0:
		return machine.PinRising
	case e&rig.EdgeFalling != 0:
		return machine.PinFalling
	default:
		var zero machine.PinChange
		return zero
	}
}

// mcuServo maps degrees onto the profile's pulse-width range and lets the
// PWM driver hold the pulse.
type mcuServo struct {
	s     servo.Servo
	minUS int
	maxUS int
}

func (m *mcuServo) SetAngle(deg int) {
	us := mathx.MapRange(deg, 0, 180, m.minUS, m.maxUS)
	m.s.SetMicroseconds(int16(us))
}

type mcuLED struct {
	p machine.Pin
}

func (l *mcuLED) Set(on bool) { l.p.Set(on) }

func (l *mcuLED) Toggle() {
	if l.p.Get() {
		l.p.Low()
	} else {
		l.p.High()
	}
}

// necReceiver reports Active for a hold window after any decoded frame.
// Address and command are ignored: any valid frame is a trigger.
type necReceiver struct {
	pin    machine.Pin
	lastMs atomic.Uint32
	frames atomic.Uint32
	holdMs uint32
}

func (r *necReceiver) Active() bool {
	if r.frames.Load() == 0 {
		return false
	}
	return uint32(timex.NowMs())-r.lastMs.Load() <= r.holdMs
}

// Close releases the decoder's pin interrupt so another detector can claim
// the pin.
func (r *necReceiver) Close() error {
	var zero machine.PinChange
	return r.pin.SetInterrupt(zero, nil)
}

type mcuConsole struct {
	u *uartx.UART
}

func (c *mcuConsole) ReadSome(ctx context.Context, p []byte) (int, error) {
	return c.u.RecvSomeContext(ctx, p)
}

func (c *mcuConsole) Write(p []byte) (int, error) { return c.u.Write(p) }

package press

import (
	"context"
	"time"

	"pressbot-go/bus"
	"pressbot-go/errcode"
	"pressbot-go/rig"
	"pressbot-go/types"
	"pressbot-go/x/timex"
)

// Service wires the control loop onto the bus: retained state on
// press/state, trigger/cycle events, and the control verbs under
// press/control/+. The loop runs on its own goroutine; control handling
// stays on the service goroutine and only ever talks to the loop through
// atomics and the monitor latch, so the single actuation path is preserved.
type Service struct {
	rig rig.Rig

	mon  *Monitor
	act  *Actuator
	loop *Loop
}

func NewService(r rig.Rig) *Service {
	return &Service{rig: r}
}

// Start launches the service. The press profile is read once from the
// retained config; later config changes do not re-tune a running loop.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	profile := waitProfile(ctx, conn)

	s.mon = NewMonitor(s.rig.Receiver)
	s.act = NewActuator(s.rig.Servo, profile, nil)
	s.act.Park()
	s.loop = NewLoop(s.mon, s.act, time.Duration(profile.PollMs)*time.Millisecond, nil)

	s.loop.OnTrigger = func() {
		src := s.mon.LastSource()
		if s.rig.LED != nil {
			s.rig.LED.Set(true)
		}
		conn.Publish(conn.NewMessage(TopicEventTrigger,
			types.TriggerEvent{Source: src, TS: timex.NowMs()}, false))
		s.publishState(conn)
	}
	s.loop.OnCycle = func(seq uint32) {
		if s.rig.LED != nil {
			s.rig.LED.Set(false)
		}
		conn.Publish(conn.NewMessage(TopicEventCycle,
			types.CycleEvent{Seq: seq, Source: s.mon.LastSource(), TS: timex.NowMs()}, false))
		s.publishState(conn)
	}

	s.publishState(conn)

	ctl := conn.Subscribe(topicControlAll)
	defer conn.Unsubscribe(ctl)

	go s.loop.Run(ctx)
	println("Info: press: ready, rest", s.act.RestDeg(), "press", s.act.PressDeg())

	for {
		select {
		case <-ctx.Done():
			println("Info: press: stopping")
			return
		case msg := <-ctl.Channel():
			s.handleControl(conn, msg)
		}
	}
}

func (s *Service) handleControl(conn *bus.Connection, msg *bus.Message) {
	verb, ok := verbOf(msg.Topic)
	if !ok {
		return
	}
	switch verb {
	case VerbPress:
		s.mon.RequestPress()
		conn.Reply(msg, types.OKReply{OK: true}, false)
	case VerbStatus:
		conn.Reply(msg, s.snapshot(), false)
	case VerbAngle:
		deg, ok := intPayload(msg.Payload)
		if !ok {
			conn.Reply(msg, types.Err(errcode.InvalidPayload), false)
			return
		}
		if s.loop.State() == types.StateActuating {
			conn.Reply(msg, types.Err(errcode.Busy), false)
			return
		}
		s.act.Nudge(deg)
		s.publishState(conn)
		conn.Reply(msg, types.OKReply{OK: true}, false)
	default:
		conn.Reply(msg, types.Err(errcode.UnknownVerb), false)
	}
}

func (s *Service) snapshot() types.PressState {
	return types.PressState{
		State:      s.loop.State(),
		Presses:    s.loop.Presses(),
		LastSource: s.mon.LastSource(),
		AngleDeg:   s.act.Angle(),
		TS:         timex.NowMs(),
	}
}

func (s *Service) publishState(conn *bus.Connection) {
	conn.Publish(conn.NewMessage(TopicState, s.snapshot(), true))
}

// waitProfile blocks briefly for the retained press profile, falling back
// to defaults so a missing config cannot keep the rig from arming.
func waitProfile(ctx context.Context, conn *bus.Connection) types.PressProfile {
	sub := conn.Subscribe(TopicConfig)
	defer conn.Unsubscribe(sub)
	select {
	case msg := <-sub.Channel():
		if m, ok := msg.Payload.(map[string]any); ok {
			return types.PressProfileFromMap(m)
		}
		println("Error: press: malformed profile, using defaults")
	case <-time.After(500 * time.Millisecond):
		println("Info: press: no profile, using defaults")
	case <-ctx.Done():
	}
	return types.DefaultPressProfile()
}

func intPayload(p any) (int, bool) {
	switch v := p.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case map[string]any:
		if d, ok := v["deg"]; ok {
			return intPayload(d)
		}
	}
	return 0, false
}

package heartbeat

import (
	"context"
	"time"

	"pressbot-go/bus"
	"pressbot-go/rig"
	"pressbot-go/types"
	"pressbot-go/x/timex"
)

var (
	topicState  = bus.T("heartbeat", "state")
	topicConfig = bus.T("config", "heartbeat")
)

// Service publishes a retained liveness beat and blinks the status LED.
// The interval follows config/heartbeat and may be re-tuned live.
type Service struct {
	LED rig.StatusLED // optional
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfig)
	defer conn.Unsubscribe(cfgSub)

	tick := time.NewTicker(5 * time.Second)
	defer tick.Stop()

	s.beat(conn)

	for {
		select {
		case <-ctx.Done():
			println("Info: heartbeat: stopping")
			return
		case <-tick.C:
			s.beat(conn)
		case msg := <-cfgSub.Channel():
			m, ok := msg.Payload.(map[string]any)
			if !ok {
				continue
			}
			p := types.HeartbeatProfileFromMap(m)
			if p.IntervalS > 0 {
				tick.Reset(time.Duration(p.IntervalS) * time.Second)
				println("Info: heartbeat: interval set to", p.IntervalS, "s")
			}
		}
	}
}

func (s *Service) beat(conn *bus.Connection) {
	if s.LED != nil {
		s.LED.Toggle()
	}
	up := timex.UptimeS()
	conn.Publish(conn.NewMessage(topicState,
		types.HeartbeatState{UptimeS: up, TS: timex.NowMs()}, true))
	println("Info: heartbeat: uptime", up, "s")
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}

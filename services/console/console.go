// services/console/console.go
package console

import (
	"context"
	"time"

	"github.com/google/shlex"

	"pressbot-go/bus"
	"pressbot-go/rig"
	"pressbot-go/services/press"
	"pressbot-go/types"
	"pressbot-go/x/conv"
)

const (
	maxLine   = 96
	replyWait = time.Second
	stateWait = 200 * time.Millisecond
)

// Service is the line-oriented maintenance console. Commands act through the
// bus only; the console never touches the rig directly. A nil Port disables
// it (boards without the UART wired).
type Service struct {
	Port rig.Console

	// NoEcho suppresses input echo for transports whose terminal already
	// echoes locally (the host simulator's stdin).
	NoEcho bool
}

func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	if s.Port == nil {
		println("Info: console: no port, disabled")
		return nil
	}
	go s.serviceLoop(ctx, conn)
	return nil
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	s.write("\r\npressbot console, 'help' for commands\r\n> ")

	buf := make([]byte, 64)
	line := make([]byte, 0, maxLine)
	var prev byte

	for {
		n, err := s.Port.ReadSome(ctx, buf)
		if err != nil {
			println("Info: console: stopping")
			return
		}
		for _, c := range buf[:n] {
			if c == '\n' && prev == '\r' {
				prev = c
				continue
			}
			prev = c
			switch {
			case c == '\r' || c == '\n':
				if !s.NoEcho {
					s.write("\r\n")
				}
				if len(line) > 0 {
					s.dispatch(ctx, conn, string(line))
					line = line[:0]
				}
				s.write("> ")
			case c == 8 || c == 127:
				if len(line) > 0 {
					line = line[:len(line)-1]
					if !s.NoEcho {
						s.write("\b \b")
					}
				}
			case c >= 32 && c < 127:
				if len(line) < maxLine {
					line = append(line, c)
					if !s.NoEcho {
						s.writeByte(c)
					}
				}
			}
		}
	}
}

// -----------------------------------------------------------------------------
// Commands
// -----------------------------------------------------------------------------

func (s *Service) dispatch(ctx context.Context, conn *bus.Connection, line string) {
	args, err := shlex.Split(line)
	if err != nil {
		s.write("parse error\r\n")
		return
	}
	if len(args) == 0 {
		return
	}
	switch args[0] {
	case "help":
		s.write("commands: help status press angle <deg> uptime source\r\n")
	case "press":
		s.cmdPress(ctx, conn)
	case "status":
		s.cmdStatus(ctx, conn)
	case "angle":
		s.cmdAngle(ctx, conn, args[1:])
	case "uptime":
		s.cmdUptime(ctx, conn)
	case "source":
		s.cmdSource(ctx, conn)
	default:
		s.write("unknown command, try 'help'\r\n")
	}
}

func (s *Service) cmdPress(ctx context.Context, conn *bus.Connection) {
	reply, err := s.request(ctx, conn, press.ControlTopic(press.VerbPress), nil)
	if err != nil {
		s.write("no reply\r\n")
		return
	}
	s.writeReply(reply)
}

func (s *Service) cmdStatus(ctx context.Context, conn *bus.Connection) {
	reply, err := s.request(ctx, conn, press.ControlTopic(press.VerbStatus), nil)
	if err != nil {
		s.write("no reply\r\n")
		return
	}
	st, ok := reply.(types.PressState)
	if !ok {
		s.write("bad reply\r\n")
		return
	}
	s.write("state " + st.State +
		", presses " + conv.UtoaStr(uint64(st.Presses)) +
		", angle " + conv.ItoaStr(int64(st.AngleDeg)))
	if st.LastSource != "" {
		s.write(", last " + st.LastSource)
	}
	s.write("\r\n")
}

func (s *Service) cmdAngle(ctx context.Context, conn *bus.Connection, args []string) {
	if len(args) != 1 {
		s.write("usage: angle <deg>\r\n")
		return
	}
	deg, ok := conv.Atoi(args[0])
	if !ok {
		s.write("usage: angle <deg>\r\n")
		return
	}
	reply, err := s.request(ctx, conn, press.ControlTopic(press.VerbAngle), deg)
	if err != nil {
		s.write("no reply\r\n")
		return
	}
	s.writeReply(reply)
}

func (s *Service) cmdUptime(ctx context.Context, conn *bus.Connection) {
	p, ok := retained(ctx, conn, bus.T("heartbeat", "state"))
	if !ok {
		s.write("no heartbeat\r\n")
		return
	}
	hb, ok := p.(types.HeartbeatState)
	if !ok {
		s.write("bad reply\r\n")
		return
	}
	s.write("up " + conv.UtoaStr(uint64(hb.UptimeS)) + "s\r\n")
}

func (s *Service) cmdSource(ctx context.Context, conn *bus.Connection) {
	p, ok := retained(ctx, conn, bus.T("config", "receiver"))
	if !ok {
		s.write("no receiver config\r\n")
		return
	}
	m, ok := p.(map[string]any)
	if !ok {
		s.write("bad reply\r\n")
		return
	}
	rp := types.ReceiverProfileFromMap(m)
	s.write("source " + rp.Source + ", pin " + conv.ItoaStr(int64(rp.Pin)) + "\r\n")
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func (s *Service) request(ctx context.Context, conn *bus.Connection, topic bus.Topic, payload any) (any, error) {
	rctx, cancel := context.WithTimeout(ctx, replyWait)
	defer cancel()
	reply, err := conn.RequestWait(rctx, conn.NewMessage(topic, payload, false))
	if err != nil {
		return nil, err
	}
	return reply.Payload, nil
}

func (s *Service) writeReply(p any) {
	switch v := p.(type) {
	case types.ErrReply:
		s.write("error: " + v.Error + "\r\n")
	case types.OKReply:
		s.write("ok\r\n")
	default:
		s.write("bad reply\r\n")
	}
}

// retained reads one retained message without keeping the subscription.
func retained(ctx context.Context, conn *bus.Connection, topic bus.Topic) (any, bool) {
	sub := conn.Subscribe(topic)
	defer conn.Unsubscribe(sub)
	t := time.NewTimer(stateWait)
	defer t.Stop()
	select {
	case msg := <-sub.Channel():
		return msg.Payload, true
	case <-t.C:
	case <-ctx.Done():
	}
	return nil, false
}

func (s *Service) write(str string) { _, _ = s.Port.Write([]byte(str)) }

func (s *Service) writeByte(c byte) { _, _ = s.Port.Write([]byte{c}) }

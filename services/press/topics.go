package press

import "pressbot-go/bus"

const serviceName = "press"

// Bus surface.
var (
	TopicState        = bus.T("press", "state")
	TopicEventTrigger = bus.T("press", "event", "trigger")
	TopicEventCycle   = bus.T("press", "event", "cycle")
	TopicConfig       = bus.T("config", "press")

	topicControlAll = bus.T("press", "control", bus.WildcardOne)
)

// Control verbs.
const (
	VerbPress  = "press"  // request one press cycle; replies OKReply
	VerbStatus = "status" // replies the current PressState
	VerbAngle  = "angle"  // calibration nudge; payload degrees
)

// ControlTopic returns the literal topic for one control verb.
func ControlTopic(verb string) bus.Topic { return bus.T("press", "control", verb) }

func verbOf(t bus.Topic) (string, bool) {
	if t.Len() != 3 {
		return "", false
	}
	s, ok := t.At(2).(string)
	return s, ok
}

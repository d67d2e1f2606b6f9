package config

import (
	"context"

	"pressbot-go/bus"
	"pressbot-go/errcode"

	"github.com/andreyvit/tinyjson"
)

const topicPrefix = "config"

// EmbeddedLookup resolves a board name to its embedded profile document.
// Overridable in tests.
var EmbeddedLookup = func(board string) ([]byte, bool) {
	b, ok := embeddedProfiles[board]
	return b, ok
}

// Load parses the embedded profile for a board into its top-level sections.
// The platform layer calls it before the bus exists to map pins; Start calls
// it again to publish. A missing or malformed profile is a boot-stopping
// error: no partial configuration.
func Load(board string) (map[string]map[string]any, error) {
	raw, ok := EmbeddedLookup(board)
	if !ok || len(raw) == 0 {
		return nil, &errcode.E{C: errcode.BadProfile, Op: "config.load",
			Msg: "no embedded profile for board " + board}
	}

	r := tinyjson.Raw(raw)
	val := r.Value()
	r.EnsureEOF()

	doc, ok := val.(map[string]any)
	if !ok {
		return nil, &errcode.E{C: errcode.BadProfile, Op: "config.load",
			Msg: "profile for " + board + " is not a JSON object"}
	}

	sections := make(map[string]map[string]any, len(doc))
	for k, v := range doc {
		sec, ok := v.(map[string]any)
		if !ok {
			return nil, &errcode.E{C: errcode.BadProfile, Op: "config.load",
				Msg: "profile section " + k + " is not a JSON object"}
		}
		sections[k] = sec
	}
	return sections, nil
}

// Service distributes the compile-time board profile: each top-level
// section of the embedded JSON document is published retained under
// config/<section>, where the owning service picks it up.
type Service struct {
	Board string
}

func NewService(board string) *Service {
	return &Service{Board: board}
}

// Start publishes the profile synchronously.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	sections, err := Load(s.Board)
	if err != nil {
		return err
	}
	for k, v := range sections {
		conn.Publish(conn.NewMessage(bus.T(topicPrefix, k), map[string]any(v), true))
	}
	println("Info: config: published", len(sections), "sections for", s.Board)
	return nil
}

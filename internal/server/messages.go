package server

import (
	"fmt"

	"github.com/zeusync/tiltmaze/internal/core/events"
	"github.com/zeusync/tiltmaze/internal/core/game"
	"github.com/zeusync/tiltmaze/internal/core/systems/tilt"
)

// Client message types.
const (
	TypeInput   = "input"
	TypeCommand = "command"
)

// Server message types.
const (
	TypeWelcome = "welcome"
	TypeFrame   = "frame"
	TypeEvent   = "event"
	TypeError   = "error"
)

// ClientMessage is anything a client sends. Keys is set for input
// messages, Command and Level for command messages.
type ClientMessage struct {
	Type    string     `json:"type" msgpack:"type"`
	Keys    *tilt.Keys `json:"keys,omitempty" msgpack:"keys,omitempty"`
	Command string     `json:"command,omitempty" msgpack:"command,omitempty"`
	Level   int        `json:"level,omitempty" msgpack:"level,omitempty"`
}

type ServerMessage struct {
	Type    string        `json:"type" msgpack:"type"`
	Session string        `json:"session,omitempty" msgpack:"session,omitempty"`
	Levels  []string      `json:"levels,omitempty" msgpack:"levels,omitempty"`
	Frame   *game.Frame   `json:"frame,omitempty" msgpack:"frame,omitempty"`
	Event   *events.Event `json:"event,omitempty" msgpack:"event,omitempty"`
	Error   string        `json:"error,omitempty" msgpack:"error,omitempty"`
}

// Validate checks the message shape and, for commands, returns the parsed command.
func (m ClientMessage) Validate() (game.Command, error) {
	switch m.Type {
	case TypeInput:
		if m.Keys == nil {
			return game.Command{}, fmt.Errorf("%w: input without keys", ErrInvalidMessage)
		}
		return game.Command{}, nil
	case TypeCommand:
		kind, err := game.ParseCommandKind(m.Command)
		if err != nil {
			return game.Command{}, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
		}
		return game.Command{Kind: kind, Level: m.Level}, nil
	default:
		return game.Command{}, fmt.Errorf("%w: unknown type %q", ErrInvalidMessage, m.Type)
	}
}

package game

import "fmt"

// State is the game state machine position.
//
//	NotStarted -> Running <-> Paused
//	Running -> Won | Lost
//
// Won and Lost hold until Reset or LoadLevel returns to NotStarted.
type State uint8

const (
	StateNotStarted State = iota
	StateRunning
	StatePaused
	StateWon
	StateLost
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

func (s State) Terminal() bool { return s == StateWon || s == StateLost }

// CommandKind enumerates the discrete inputs.
type CommandKind uint8

const (
	CommandStart CommandKind = iota + 1
	CommandTogglePause
	CommandReset
	CommandLoadLevel
)

func (k CommandKind) String() string {
	switch k {
	case CommandStart:
		return "start"
	case CommandTogglePause:
		return "pause"
	case CommandReset:
		return "reset"
	case CommandLoadLevel:
		return "load_level"
	default:
		return fmt.Sprintf("command(%d)", uint8(k))
	}
}

// ParseCommandKind accepts the wire names produced by CommandKind.String.
func ParseCommandKind(s string) (CommandKind, error) {
	for _, k := range []CommandKind{CommandStart, CommandTogglePause, CommandReset, CommandLoadLevel} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, s)
}

type Command struct {
	Kind  CommandKind
	Level int // CommandLoadLevel only
}

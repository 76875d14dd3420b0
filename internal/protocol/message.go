// Package protocol defines the messages exchanged between the match server and
// its clients and the length-prefixed JSON framing that carries them.
package protocol

import (
	"errors"
	"fmt"

	"github.com/hailam/chessduel/internal/board"
)

// Type names a message on the wire.
type Type string

const (
	TypeAssignColor        Type = "assign_color"
	TypeJoin               Type = "join"
	TypeMakeMove           Type = "make_move"
	TypeGameState          Type = "game_state"
	TypeWaitingForOpponent Type = "waiting_for_opponent"
	TypeGameEnd            Type = "game_end"
	TypeError              Type = "error"
)

// ErrUnknownType is returned when decoding a message whose type is not one of the above.
var ErrUnknownType = errors.New("unknown message type")

// Message is a single frame body. Only the fields belonging to Type are set.
type Message struct {
	Type Type `json:"type"`

	// assign_color
	Color *board.Color `json:"color,omitempty"`

	// make_move
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`

	// game_state
	State *board.Snapshot `json:"state,omitempty"`

	// game_state status line, or error reason
	Text string `json:"message,omitempty"`

	// game_end; nil means no winner (abandoned)
	Winner *board.Color `json:"winner,omitempty"`
}

func AssignColor(c board.Color) Message {
	return Message{Type: TypeAssignColor, Color: &c}
}

func Join() Message {
	return Message{Type: TypeJoin}
}

func MakeMove(source, target string) Message {
	return Message{Type: TypeMakeMove, Source: source, Target: target}
}

func GameState(s board.Snapshot, text string) Message {
	return Message{Type: TypeGameState, State: &s, Text: text}
}

func WaitingForOpponent() Message {
	return Message{Type: TypeWaitingForOpponent}
}

// GameEnd announces the end of a match. A nil winner means the match was abandoned.
func GameEnd(winner *board.Color) Message {
	return Message{Type: TypeGameEnd, Winner: winner}
}

func Error(text string) Message {
	return Message{Type: TypeError, Text: text}
}

// Validate checks that the fields required by m.Type are present. Squares in
// make_move are left to the engine, which reports them as parse errors.
func (m Message) Validate() error {
	switch m.Type {
	case TypeJoin, TypeMakeMove, TypeWaitingForOpponent, TypeGameEnd:
		return nil
	case TypeAssignColor:
		if m.Color == nil {
			return fmt.Errorf("%s: missing color", m.Type)
		}
	case TypeGameState:
		if m.State == nil {
			return fmt.Errorf("%s: missing state", m.Type)
		}
	case TypeError:
		if m.Text == "" {
			return fmt.Errorf("%s: missing message", m.Type)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, m.Type)
	}
	return nil
}

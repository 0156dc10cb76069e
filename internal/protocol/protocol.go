// Package protocol defines the WebSocket messages exchanged with the play UI.
//
// Every frame is an Envelope {"t": type, "p": payload}.
package protocol

import (
	"github.com/goccy/go-json"

	"github.com/robalobadob/typerush/internal/game"
)

// client → server
const (
	MsgStart   = "start"
	MsgRestart = "restart"
	MsgInput   = "input"
	MsgEnd     = "end"
)

// server → client
const (
	MsgWelcome  = "welcome"
	MsgState    = "state"
	MsgClear    = "clear"
	MsgRoundEnd = "round_end"
	MsgError    = "error"
)

type Envelope struct {
	T string          `json:"t" validate:"required,oneof=start restart input end"`
	P json.RawMessage `json:"p,omitempty"`
}

// Start is the payload of start and restart. Unknown difficulties play as medium.
type Start struct {
	Difficulty string `json:"difficulty" validate:"max=16"`
}

// Input carries the whole content of the input box after one input event.
type Input struct {
	Text string `json:"text" validate:"max=64"`
}

type End struct{}

type Welcome struct {
	SessionID    string `json:"sessionId"`
	PlayerID     string `json:"playerId"`
	Name         string `json:"name"`
	RoundSeconds int    `json:"roundSeconds"`
}

type State = game.Update

type RoundEnd = game.Result

type Clear struct{}

type Error struct {
	Message string `json:"message"`
}

package server

import "encoding/json"

// Inbound message types.
const (
	MsgNewGame = "new_game"
	MsgReset   = "reset"
	MsgIntent  = "intent"
)

// Outbound message types.
const (
	MsgGameState = "game_state"
	MsgError     = "error"
)

// InboundMessage is a client-to-server message. Data carries a game.Intent
// for intent messages and is empty otherwise.
type InboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// OutboundMessage is a server-to-client message.
type OutboundMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Data      any    `json:"data,omitempty"`
}

package netplay

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/qballcreative/plunder/internal/game"
)

// MessageType discriminates peer messages.
type MessageType string

const (
	TypeChat       MessageType = "chat"
	TypePing       MessageType = "ping"
	TypePong       MessageType = "pong"
	TypeStart      MessageType = "start"
	TypeRejoinSync MessageType = "rejoin-sync"
	TypeReady      MessageType = "ready"
	TypeAction     MessageType = "action"
	TypeNextRound  MessageType = "next-round"
	TypeGameState  MessageType = "game-state"
)

func (t MessageType) String() string {
	return string(t)
}

// Message is the envelope for everything sent between peers.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ErrMalformed is returned when a payload does not have the expected shape.
var ErrMalformed = errors.New("malformed message")

// NewMessage creates a message with a JSON encoded payload. A nil payload
// is omitted.
func NewMessage(t MessageType, payload any) (Message, error) {
	if payload == nil {
		return Message{Type: t}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal %s payload: %w", t, err)
	}
	return Message{Type: t, Payload: data}, nil
}

// Decode unmarshals the payload into v.
func (m Message) Decode(v any) error {
	if len(m.Payload) == 0 {
		return fmt.Errorf("%w: %s has no payload", ErrMalformed, m.Type)
	}
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, m.Type, err)
	}
	return nil
}

// ChatPayload carries a player's name on connect, or a chat line.
type ChatPayload struct {
	Name string `json:"name,omitempty"`
	Text string `json:"text,omitempty"`
}

// SyncPayload is the body of start, rejoin-sync and game-state messages.
type SyncPayload struct {
	OptionalRules game.OptionalRules `json:"optionalRules"`
	GameState     *game.State        `json:"gameState"`
}

// ActionPayload carries a guest's action intent to the host.
type ActionPayload struct {
	Action game.Action `json:"action"`
}

// ReadyPayload signals that a player is ready to start.
type ReadyPayload struct {
	Ready bool `json:"ready"`
}

package netplay

import (
	"encoding/json"
	"testing"

	"github.com/qballcreative/plunder/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage(TypeChat, ChatPayload{Name: "Anne"})
	require.NoError(t, err)

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"chat","payload":{"name":"Anne"}}`, string(data))

	var p ChatPayload
	require.NoError(t, msg.Decode(&p))
	assert.Equal(t, "Anne", p.Name)
}

func TestNewMessageWithoutPayload(t *testing.T) {
	msg, err := NewMessage(TypeNextRound, nil)
	require.NoError(t, err)

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"next-round"}`, string(data))
}

func TestDecodeMalformed(t *testing.T) {
	var ts int64
	assert.ErrorIs(t, Message{Type: TypePing}.Decode(&ts), ErrMalformed)
	assert.ErrorIs(t, Message{Type: TypePing, Payload: json.RawMessage(`"soon"`)}.Decode(&ts), ErrMalformed)
	assert.NoError(t, Message{Type: TypePing, Payload: json.RawMessage(`1700000000000`)}.Decode(&ts))
	assert.Equal(t, int64(1700000000000), ts)
}

func TestSyncPayloadWireFormat(t *testing.T) {
	state := game.State{Phase: game.PhasePlaying, CurrentPlayerIndex: 1, RoundWins: [2]int{1, 0}}
	msg, err := NewMessage(TypeStart, SyncPayload{
		OptionalRules: game.OptionalRules{StormRule: true},
		GameState:     &state,
	})
	require.NoError(t, err)

	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(msg.Payload, &raw))
	assert.Equal(t, true, raw["optionalRules"]["stormRule"])
	assert.Equal(t, "playing", raw["gameState"]["phase"])
	assert.Equal(t, float64(1), raw["gameState"]["currentPlayerIndex"])
	assert.Equal(t, []any{float64(1), float64(0)}, raw["gameState"]["roundWins"])
}

func TestActionPayloadRoundTrip(t *testing.T) {
	msg, err := NewMessage(TypeAction, ActionPayload{Action: game.ExchangeAction([]string{"a", "b"}, []string{"c", "d"})})
	require.NoError(t, err)

	var p ActionPayload
	require.NoError(t, msg.Decode(&p))
	assert.Equal(t, game.KindExchange, p.Action.Kind)
	assert.Equal(t, []string{"a", "b"}, p.Action.HandIDs)
	assert.Equal(t, []string{"c", "d"}, p.Action.MarketIDs)
}

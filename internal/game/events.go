package game

import "time"

// EventType represents a game event type with type safety
type EventType string

const (
	EventTypeAction     EventType = "action"
	EventTypeStorm      EventType = "storm"
	EventTypeRoundStart EventType = "round_start"
	EventTypeRoundEnd   EventType = "round_end"
	EventTypeGameEnd    EventType = "game_end"
	EventTypeSync       EventType = "sync"
	EventTypeReset      EventType = "reset"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything that happens to a game. Events are published
// after the state change they describe has been fully applied.
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// ActionEvent is published after a player's action resolves.
type ActionEvent struct {
	PlayerIndex int
	Action      LastAction
	timestamp   time.Time
}

func (e ActionEvent) EventType() EventType { return EventTypeAction }
func (e ActionEvent) Timestamp() time.Time { return e.timestamp }

// StormEvent is published when the storm washes market cards away.
type StormEvent struct {
	Discarded []Card
	timestamp time.Time
}

func (e StormEvent) EventType() EventType { return EventTypeStorm }
func (e StormEvent) Timestamp() time.Time { return e.timestamp }

// RoundStartEvent is published when a round is dealt.
type RoundStartEvent struct {
	Round     int
	timestamp time.Time
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }
func (e RoundStartEvent) Timestamp() time.Time { return e.timestamp }

// RoundEndEvent is published when a round finishes. WinnerIndex is -1 for a draw.
type RoundEndEvent struct {
	Round       int
	WinnerIndex int
	Scores      [2]int
	RoundWins   [2]int
	Treasures   []HiddenTreasure
	timestamp   time.Time
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }
func (e RoundEndEvent) Timestamp() time.Time { return e.timestamp }

// GameEndEvent is published when the match is decided. WinnerIndex is -1 for a tie.
type GameEndEvent struct {
	WinnerIndex int
	RoundWins   [2]int
	timestamp   time.Time
}

func (e GameEndEvent) EventType() EventType { return EventTypeGameEnd }
func (e GameEndEvent) Timestamp() time.Time { return e.timestamp }

// SyncEvent is published when a snapshot from the network replaces the state.
type SyncEvent struct {
	timestamp time.Time
}

func (e SyncEvent) EventType() EventType { return EventTypeSync }
func (e SyncEvent) Timestamp() time.Time { return e.timestamp }

// ResetEvent is published when the game returns to the lobby.
type ResetEvent struct {
	timestamp time.Time
}

func (e ResetEvent) EventType() EventType { return EventTypeReset }
func (e ResetEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation. Delivery is
// synchronous, on the goroutine that mutated the game.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}

package tui

import (
	"github.com/qballcreative/plunder/internal/game"
	"github.com/qballcreative/plunder/internal/netplay"
)

// Table is what the terminal client plays at. The local player is always
// Players[0] in GameState. *netplay.Session is a Table.
type Table interface {
	GameState() game.State
	Act(a game.Action) error
	NextRound() error
}

// Chatter is a Table with a chat channel.
type Chatter interface {
	SendChat(text string) error
	Chat() []netplay.ChatLine
}

// Readier is a Table that can signal readiness to a host.
type Readier interface {
	SetReady() error
}

// Notifier is a Table that changes on its own, for example when a peer
// moves.
type Notifier interface {
	Changed() <-chan struct{}
}

// StatusReporter is a Table with a network connection.
type StatusReporter interface {
	Status() netplay.Status
}

// AIDriver is a Table with a local AI opponent whose turns the client
// schedules.
type AIDriver interface {
	IsAITurn() bool
	RunAITurn() error
}

// LocalTable is a single-player game against the AI.
type LocalTable struct {
	game       *game.Game
	name       string
	difficulty game.Difficulty
	rules      game.OptionalRules
}

// NewLocalTable starts a single-player game on g. g must have an agent.
func NewLocalTable(g *game.Game, name string, difficulty game.Difficulty, rules game.OptionalRules) *LocalTable {
	t := &LocalTable{game: g, name: name, difficulty: difficulty, rules: rules}
	g.Start(name, difficulty, rules)
	return t
}

func (t *LocalTable) GameState() game.State {
	return t.game.State()
}

func (t *LocalTable) Act(a game.Action) error {
	return t.game.ApplyFor(0, a)
}

// NextRound deals the next round. Once the match is over it starts a
// rematch with the same settings.
func (t *LocalTable) NextRound() error {
	if t.game.Phase() == game.PhaseGameEnd {
		t.game.Start(t.name, t.difficulty, t.rules)
		return nil
	}
	return t.game.NextRound()
}

func (t *LocalTable) IsAITurn() bool {
	return t.game.IsAITurn()
}

func (t *LocalTable) RunAITurn() error {
	return t.game.RunAITurn()
}

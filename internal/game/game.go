package game

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/qballcreative/plunder/internal/randutil"
)

// Agent chooses actions for an AI-controlled seat. Agents receive a copy of
// the state and must not retain it across calls.
type Agent interface {
	// MakeDecision returns the action to play. ok is false when the agent
	// has nothing to do.
	MakeDecision(state State) (action Action, ok bool)
}

// Game owns one State and is the only thing that mutates it. A Game is not
// safe for concurrent use.
type Game struct {
	state   State
	src     *randutil.Source
	factory *Factory
	bus     EventBus
	agent   Agent
	logger  *log.Logger
	now     func() time.Time
}

// Option configures a Game.
type Option func(*Game)

// WithSource sets the randomness source. The default is randutil.NewSecure.
func WithSource(src *randutil.Source) Option {
	return func(g *Game) { g.src = src }
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(g *Game) { g.logger = logger }
}

// WithAgent registers the agent that plays AI seats.
func WithAgent(agent Agent) Option {
	return func(g *Game) { g.agent = agent }
}

// WithEventBus replaces the default event bus.
func WithEventBus(bus EventBus) Option {
	return func(g *Game) { g.bus = bus }
}

// New creates a game in the lobby.
func New(opts ...Option) *Game {
	g := &Game{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	if g.src == nil {
		g.src = randutil.NewSecure()
	}
	if g.logger == nil {
		g.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if g.bus == nil {
		g.bus = NewEventBus()
	}
	g.logger = g.logger.WithPrefix("game")
	g.factory = NewFactory(g.src)
	g.state = g.lobbyState()
	return g
}

// SetAgent registers the agent that plays AI seats.
func (g *Game) SetAgent(agent Agent) {
	g.agent = agent
}

// Events returns the game's event bus.
func (g *Game) Events() EventBus {
	return g.bus
}

// State returns a deep copy of the current state.
func (g *Game) State() State {
	return g.state.Clone()
}

// Phase returns the current phase.
func (g *Game) Phase() Phase {
	return g.state.Phase
}

// CurrentPlayer returns a copy of the player whose turn it is.
func (g *Game) CurrentPlayer() Player {
	return g.state.CurrentPlayer().clone()
}

// Opponent returns a copy of the player not on turn.
func (g *Game) Opponent() Player {
	return g.state.Opponent().clone()
}

func (g *Game) lobbyState() State {
	return State{
		Phase:       PhaseLobby,
		Market:      []Card{},
		Deck:        []Card{},
		TokenStacks: g.factory.NewTokenStacks(),
		BonusTokens: g.factory.NewBonusPools(),
		Players: [2]Player{
			g.factory.NewPlayer("1", "Player", false),
			g.factory.NewPlayer("2", "Pirate AI", true),
		},
		Round:           1,
		MaxRounds:       MaxRounds,
		Difficulty:      Medium,
		HiddenTreasures: []HiddenTreasure{},
	}
}

// Start begins a single-player game against an AI opponent.
func (g *Game) Start(playerName string, difficulty Difficulty, rules OptionalRules) {
	players := [2]Player{
		g.factory.NewPlayer("1", playerName, false),
		g.factory.NewPlayer("2", g.factory.PirateName(), true),
	}
	g.begin(players, difficulty, rules, false)
}

// StartMultiplayer begins a game on the host. The host is seat 0 and always
// moves first; the guest is seat 1.
func (g *Game) StartMultiplayer(hostName, guestName string, rules OptionalRules) {
	players := [2]Player{
		g.factory.NewPlayer("1", hostName, false),
		g.factory.NewPlayer("2", guestName, false),
	}
	g.begin(players, Medium, rules, true)
}

func (g *Game) begin(players [2]Player, difficulty Difficulty, rules OptionalRules, multiplayer bool) {
	g.state = State{
		Round:         1,
		MaxRounds:     MaxRounds,
		Difficulty:    difficulty,
		OptionalRules: rules,
		IsMultiplayer: multiplayer,
	}
	g.dealRound(players)
	g.logger.Info("Game started",
		"player", players[0].Name,
		"opponent", players[1].Name,
		"difficulty", difficulty,
		"multiplayer", multiplayer,
		"storm", rules.StormRule,
		"raid", rules.PirateRaid,
		"treasure", rules.TreasureChest)
	g.bus.Publish(RoundStartEvent{Round: g.state.Round, timestamp: g.now()})
}

// dealRound resets the per-round state and deals fresh cards and tokens.
func (g *Game) dealRound(players [2]Player) {
	deck := g.factory.NewDeck()
	market, rest := Deal(deck, &players)

	var treasures []HiddenTreasure
	if g.state.OptionalRules.TreasureChest {
		treasures = g.factory.NewHiddenTreasures([]string{players[0].ID, players[1].ID})
	} else {
		treasures = []HiddenTreasure{}
	}

	g.state.Phase = PhasePlaying
	g.state.Deck = rest
	g.state.Market = market
	g.state.Players = players
	g.state.TokenStacks = g.factory.NewTokenStacks()
	g.state.BonusTokens = g.factory.NewBonusPools()
	g.state.CurrentPlayerIndex = 0
	g.state.LastAction = nil
	g.state.TurnCount = 0
	g.state.HiddenTreasures = treasures
}

// NextRound deals the next round, or ends the game if the match is decided.
func (g *Game) NextRound() error {
	if g.state.Phase != PhaseRoundEnd {
		return ErrNotRoundEnd
	}

	s := &g.state
	if s.Round >= s.MaxRounds || s.RoundWins[0] >= RoundsToWin || s.RoundWins[1] >= RoundsToWin {
		s.Phase = PhaseGameEnd
		winner := GameWinnerIndex(s.RoundWins)
		g.logger.Info("Game over", "winner", winner, "roundWins", s.RoundWins)
		g.bus.Publish(GameEndEvent{WinnerIndex: winner, RoundWins: s.RoundWins, timestamp: g.now()})
		return nil
	}

	var players [2]Player
	for i, p := range s.Players {
		players[i] = g.factory.NewPlayer(p.ID, p.Name, p.IsAI)
	}
	s.Round++
	g.dealRound(players)
	g.logger.Info("Round started", "round", s.Round)
	g.bus.Publish(RoundStartEvent{Round: s.Round, timestamp: g.now()})
	return nil
}

// Reset returns the game to the lobby.
func (g *Game) Reset() {
	g.state = g.lobbyState()
	g.bus.Publish(ResetEvent{timestamp: g.now()})
}

// IsRoundOver reports whether the round-end condition holds.
func (g *Game) IsRoundOver() bool {
	return g.state.IsRoundOver()
}

// IsGameOver reports whether the match has been decided.
func (g *Game) IsGameOver() bool {
	s := &g.state
	return s.RoundWins[0] >= RoundsToWin || s.RoundWins[1] >= RoundsToWin || s.Round > s.MaxRounds
}

// RoundWinner returns the winner of the current round on points, or nil
// for a draw.
func (g *Game) RoundWinner() *Player {
	idx := RoundWinnerIndex(g.state.Players)
	if idx < 0 {
		return nil
	}
	p := g.state.Players[idx].clone()
	return &p
}

// Winner returns the match winner by round wins, or nil for a tie.
func (g *Game) Winner() *Player {
	idx := GameWinnerIndex(g.state.RoundWins)
	if idx < 0 {
		return nil
	}
	p := g.state.Players[idx].clone()
	return &p
}

// RevealedTreasures returns the hidden treasures once they may be shown.
func (g *Game) RevealedTreasures() []HiddenTreasure {
	s := &g.state
	if !s.OptionalRules.TreasureChest {
		return nil
	}
	if s.Phase != PhaseRoundEnd && s.Phase != PhaseGameEnd {
		return nil
	}
	return s.Clone().HiddenTreasures
}

// IsAITurn reports whether the seat on turn belongs to the local AI.
func (g *Game) IsAITurn() bool {
	s := &g.state
	return s.Phase == PhasePlaying && !s.IsMultiplayer && s.CurrentPlayer().IsAI
}

// RunAITurn asks the registered agent for a move and plays it. Callers
// decide when to invoke it; the game never schedules AI turns itself.
func (g *Game) RunAITurn() error {
	if !g.IsAITurn() {
		return ErrNotAITurn
	}
	if g.agent == nil {
		return ErrNoAgent
	}

	action, ok := g.agent.MakeDecision(g.State())
	if !ok {
		g.logger.Warn("AI found no legal action", "player", g.state.CurrentPlayer().Name)
		return nil
	}
	return g.Apply(action)
}

// Snapshot returns the serializable state for sending to a peer.
func (g *Game) Snapshot() State {
	return g.state.Clone()
}

// ApplySnapshot replaces the local state with one received from the host.
// With swap set, the players are exchanged so the local player sits at
// index 0, and the current player index and round wins are mirrored.
func (g *Game) ApplySnapshot(state State, swap bool) {
	next := state.Clone()
	if swap {
		next.Players[0], next.Players[1] = next.Players[1], next.Players[0]
		next.CurrentPlayerIndex = 1 - next.CurrentPlayerIndex
		next.RoundWins[0], next.RoundWins[1] = next.RoundWins[1], next.RoundWins[0]
	}
	if next.MaxRounds == 0 {
		next.MaxRounds = MaxRounds
	}
	if next.TokenStacks == nil {
		next.TokenStacks = map[CardType][]Token{}
	}
	next.Difficulty = g.state.Difficulty
	g.state = next
	g.bus.Publish(SyncEvent{timestamp: g.now()})
}

package game

import (
	"fmt"
	"testing"

	"github.com/qballcreative/plunder/internal/randutil"
)

// newTestGame returns a game with a deterministic source.
func newTestGame(t *testing.T, seed int64, opts ...Option) *Game {
	t.Helper()
	opts = append([]Option{WithSource(randutil.New(seed))}, opts...)
	return New(opts...)
}

// makeCards returns n cards of type ct with ids prefix-0, prefix-1, ...
func makeCards(prefix string, ct CardType, n int) []Card {
	out := make([]Card, n)
	for i := range out {
		out[i] = Card{ID: fmt.Sprintf("%s-%d", prefix, i), Type: ct}
	}
	return out
}

func concat(parts ...[]Card) []Card {
	var out []Card
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func ids(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func tokens(ct CardType, values ...int) []Token {
	out := make([]Token, len(values))
	for i, v := range values {
		out[i] = Token{ID: fmt.Sprintf("%s-t%d", ct, i), Type: ct, Value: v}
	}
	return out
}

func bonuses(cardsCount int, values ...int) []BonusToken {
	out := make([]BonusToken, len(values))
	for i, v := range values {
		out[i] = BonusToken{ID: fmt.Sprintf("b%d-%d", cardsCount, i), CardsCount: cardsCount, Value: v}
	}
	return out
}

// playingState builds a minimal mid-round state: a five card market of
// goods, a deck of the given size and two empty players.
func playingState(g *Game, deckSize int) State {
	return State{
		Phase:       PhasePlaying,
		Market:      concat(makeCards("m-rum", Rum, 2), makeCards("m-silk", Silks, 2), makeCards("m-gold", Gold, 1)),
		Deck:        makeCards("d", Cannonballs, deckSize),
		TokenStacks: g.factory.NewTokenStacks(),
		BonusTokens: BonusPools{
			Three: bonuses(3, 2, 1, 3),
			Four:  bonuses(4, 5, 4),
			Five:  bonuses(5, 9, 8),
		},
		Players: [2]Player{
			g.factory.NewPlayer("1", "Anne", false),
			g.factory.NewPlayer("2", "Jack", true),
		},
		Round:           1,
		MaxRounds:       MaxRounds,
		HiddenTreasures: []HiddenTreasure{},
	}
}

// eventRecorder collects published events.
type eventRecorder struct {
	events []GameEvent
}

func (r *eventRecorder) OnEvent(e GameEvent) {
	r.events = append(r.events, e)
}

func (r *eventRecorder) types() []EventType {
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}

// allCardIDs returns every card id in deck, market and both players' zones.
func allCardIDs(s State) []string {
	var out []string
	out = append(out, ids(s.Deck)...)
	out = append(out, ids(s.Market)...)
	for _, p := range s.Players {
		out = append(out, ids(p.Hand)...)
		out = append(out, ids(p.Ships)...)
	}
	return out
}

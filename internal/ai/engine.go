package ai

import (
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/qballcreative/plunder/internal/game"
	"github.com/qballcreative/plunder/internal/randutil"
)

const (
	raidPremium = 5
	topN        = 3
	maxExchange = 3
)

// Candidate is a scored move.
type Candidate struct {
	Action      game.Action
	Score       float64
	Description string
}

// Engine is the heuristic AI opponent. It implements game.Agent.
type Engine struct {
	src       *randutil.Source
	logger    *log.Logger
	overrides *Weights
}

// Option configures an Engine.
type Option func(*Engine)

// WithWeights makes the engine ignore the game's difficulty and always play
// with w.
func WithWeights(w Weights) Option {
	return func(e *Engine) { e.overrides = &w }
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates an engine drawing exploration randomness from src.
func NewEngine(src *randutil.Source, opts ...Option) *Engine {
	e := &Engine{src: src}
	for _, opt := range opts {
		opt(e)
	}
	if e.src == nil {
		e.src = randutil.NewSecure()
	}
	if e.logger == nil {
		e.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	e.logger = e.logger.WithPrefix("ai")
	return e
}

func (e *Engine) weightsFor(state *game.State) Weights {
	if e.overrides != nil {
		return *e.overrides
	}
	return WeightsFor(state.Difficulty)
}

// MakeDecision picks a move for the player on turn.
func (e *Engine) MakeDecision(state game.State) (game.Action, bool) {
	candidates := e.Candidates(state)
	chosen, ok := e.Choose(candidates, e.weightsFor(&state))
	if !ok {
		e.logger.Debug("No candidates", "player", state.CurrentPlayer().Name)
		return game.Action{}, false
	}

	e.logger.Debug("AI decision",
		"player", state.CurrentPlayer().Name,
		"difficulty", state.Difficulty,
		"candidates", len(candidates),
		"chosen", chosen.Description,
		"score", fmt.Sprintf("%.2f", chosen.Score),
		"best", candidates[0].Description)
	return chosen.Action, true
}

// Choose picks the best candidate, or with probability RandomVariance a
// uniformly random one of the top three. candidates must be sorted.
func (e *Engine) Choose(candidates []Candidate, w Weights) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	idx := 0
	if w.RandomVariance > 0 && e.src.Float64() < w.RandomVariance {
		idx = e.src.IntN(min(topN, len(candidates)))
	}
	return candidates[idx], true
}

// Candidates returns every move the engine considers for the player on
// turn, sorted by descending score. Ties keep generation order: raids,
// takes, ships, sales, exchange.
func (e *Engine) Candidates(state game.State) []Candidate {
	if state.Phase != game.PhasePlaying {
		return nil
	}
	ev := newEvaluator(&state, e.weightsFor(&state))

	var out []Candidate
	out = append(out, ev.raids()...)
	out = append(out, ev.takes()...)
	out = append(out, ev.ships()...)
	out = append(out, ev.sales()...)
	out = append(out, ev.exchanges(state.Difficulty)...)

	slices.SortStableFunc(out, func(a, b Candidate) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	return out
}

func (e *evaluator) raids() []Candidate {
	s := e.state
	if !s.OptionalRules.PirateRaid || e.self.HasUsedPirateRaid || len(e.self.Hand) >= game.HandLimit {
		return nil
	}
	var out []Candidate
	for _, c := range e.opp.Hand {
		if c.Type == game.Ships {
			continue
		}
		score := e.takeValue(c.Type)
		if e.opp.CountInHand(c.Type) >= 3 {
			score += 10 * e.weights.Blocking
		}
		if e.self.CountInHand(c.Type) >= 3 {
			score += 8
		}
		out = append(out, Candidate{
			Action:      game.RaidAction(c.ID),
			Score:       score + raidPremium,
			Description: "raid " + c.Type.String(),
		})
	}
	return out
}

func (e *evaluator) takes() []Candidate {
	if len(e.self.Hand) >= game.HandLimit {
		return nil
	}
	var out []Candidate
	for _, c := range e.state.Market {
		if c.Type == game.Ships {
			continue
		}
		out = append(out, Candidate{
			Action:      game.TakeAction(c.ID),
			Score:       e.takeValue(c.Type),
			Description: "take " + c.Type.String(),
		})
	}
	return out
}

func (e *evaluator) ships() []Candidate {
	n := countType(e.state.Market, game.Ships)
	if n == 0 {
		return nil
	}
	score := float64(n * 2)
	if len(e.self.Hand) >= 5 {
		score += 3
	}
	if len(e.self.Ships) >= 5 {
		score -= 2
	}
	return []Candidate{{
		Action:      game.TakeShipsAction(),
		Score:       score,
		Description: fmt.Sprintf("take %d ships", n),
	}}
}

// groupByType groups hand cards by type in order of first appearance.
func groupByType(hand []game.Card) ([]game.CardType, map[game.CardType][]game.Card) {
	var order []game.CardType
	groups := make(map[game.CardType][]game.Card)
	for _, c := range hand {
		if _, ok := groups[c.Type]; !ok {
			order = append(order, c.Type)
		}
		groups[c.Type] = append(groups[c.Type], c)
	}
	return order, groups
}

func (e *evaluator) sales() []Candidate {
	order, groups := groupByType(e.self.Hand)
	var out []Candidate
	for _, t := range order {
		cards := groups[t]
		if len(cards) < t.MinSellCount() {
			continue
		}
		stack := e.stack(t)
		score := 0.0
		for _, tok := range stack[:min(len(cards), len(stack))] {
			score += float64(tok.Value)
		}
		score += e.bonusPotential(len(cards))
		score += e.sellTiming(t, len(cards))
		if len(stack) <= len(cards)+1 {
			score += 5 * e.weights.TokenUrgency
		}

		ids := make([]string, len(cards))
		for i, c := range cards {
			ids[i] = c.ID
		}
		out = append(out, Candidate{
			Action:      game.SellAction(ids),
			Score:       score,
			Description: fmt.Sprintf("sell %d %s", len(cards), t),
		})
	}
	return out
}

// exchanges builds at most one trade: ships and lone low-value goods for
// the market cards the engine would most like to take.
func (e *evaluator) exchanges(d game.Difficulty) []Candidate {
	if d == game.Easy && len(e.self.Ships) < 2 {
		return nil
	}

	var valuable []game.Card
	goodsInMarket := 0
	for _, c := range e.state.Market {
		if c.Type == game.Ships {
			continue
		}
		goodsInMarket++
		if len(valuable) < maxExchange && e.takeValue(c.Type) >= 4 {
			valuable = append(valuable, c)
		}
	}
	if goodsInMarket < 2 || len(valuable) < 2 {
		return nil
	}

	expendable := slices.Clone(e.self.Ships[:min(2, len(e.self.Ships))])
	order, groups := groupByType(e.self.Hand)
	for _, t := range order {
		if len(groups[t]) != 1 {
			continue
		}
		if stack := e.stack(t); len(stack) > 0 && stack[0].Value <= 3 {
			expendable = append(expendable, groups[t][0])
		}
	}
	if len(expendable) < 2 {
		return nil
	}

	n := min(len(expendable), len(valuable), maxExchange)
	give := make([]string, n)
	take := make([]string, n)
	for i := range n {
		give[i] = expendable[i].ID
		take[i] = valuable[i].ID
	}

	score := e.exchange(give, take)
	if score <= 0 {
		return nil
	}
	return []Candidate{{
		Action:      game.ExchangeAction(give, take),
		Score:       score,
		Description: fmt.Sprintf("exchange %d cards", n),
	}}
}

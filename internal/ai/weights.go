package ai

import "github.com/qballcreative/plunder/internal/game"

// Weights tune how the engine scores candidate moves.
type Weights struct {
	// Blocking scales the value of denying the opponent a type they collect.
	Blocking float64
	// BonusPursuit scales the value of building toward 3/4/5 card sales.
	BonusPursuit float64
	// SellPatience scales the penalty for selling small sets early.
	SellPatience float64
	// TokenUrgency scales the value of scarce, still valuable token stacks.
	TokenUrgency float64
	// RandomVariance is the probability of choosing among the top three
	// candidates instead of the best one.
	RandomVariance float64
}

var presets = map[game.Difficulty]Weights{
	game.Easy:   {Blocking: 0, BonusPursuit: 0.5, SellPatience: 0, TokenUrgency: 0.3, RandomVariance: 0.5},
	game.Medium: {Blocking: 0.3, BonusPursuit: 0.8, SellPatience: 0.5, TokenUrgency: 0.6, RandomVariance: 0.25},
	game.Hard:   {Blocking: 0.8, BonusPursuit: 1.2, SellPatience: 1.0, TokenUrgency: 1.0, RandomVariance: 0.1},
}

// WeightsFor returns the preset for d. Unknown difficulties play as medium.
func WeightsFor(d game.Difficulty) Weights {
	if w, ok := presets[d]; ok {
		return w
	}
	return presets[game.Medium]
}

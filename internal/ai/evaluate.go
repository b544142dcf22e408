package ai

import "github.com/qballcreative/plunder/internal/game"

// invalidExchange scores an exchange that cannot be made.
const invalidExchange = -100

// evaluator scores moves for the player on turn in one state.
type evaluator struct {
	state   *game.State
	self    *game.Player
	opp     *game.Player
	weights Weights
}

func newEvaluator(state *game.State, weights Weights) *evaluator {
	return &evaluator{
		state:   state,
		self:    state.CurrentPlayer(),
		opp:     state.Opponent(),
		weights: weights,
	}
}

func (e *evaluator) stack(t game.CardType) []game.Token {
	return e.state.TokenStacks[t]
}

// tokenUrgency is high when a stack is short but its remaining tokens are
// still worth something.
func (e *evaluator) tokenUrgency(t game.CardType) float64 {
	stack := e.stack(t)
	if len(stack) == 0 {
		return 0
	}
	remaining := 0
	for _, tok := range stack[:min(3, len(stack))] {
		remaining += tok.Value
	}
	scarcity := max(0, (5-len(stack))*2)
	return float64(remaining)/3 + float64(scarcity)
}

// blockingValue grows with how many cards of t the opponent holds.
func (e *evaluator) blockingValue(t game.CardType) float64 {
	switch n := e.opp.CountInHand(t); {
	case n >= 3:
		return 8
	case n >= 2:
		return 4
	case n >= 1:
		return 1
	}
	return 0
}

// bonusPotential is the value of the bonus a sale of count cards would draw.
func (e *evaluator) bonusPotential(count int) float64 {
	pools := e.state.BonusTokens
	switch {
	case count >= 5 && len(pools.Five) > 0:
		return float64(pools.Five[0].Value + 4)
	case count >= 4 && len(pools.Four) > 0:
		return float64(pools.Four[0].Value + 2)
	case count >= 3 && len(pools.Three) > 0:
		return float64(pools.Three[0].Value)
	}
	return 0
}

// sellTiming rewards selling into a nearly empty stack and penalizes small
// sales while more of the type is still obtainable.
func (e *evaluator) sellTiming(t game.CardType, count int) float64 {
	stack := e.stack(t)
	if len(stack) <= count {
		return 3
	}
	if count < 3 && e.self.CountInHand(t) < 4 {
		inMarket := 0
		for _, c := range e.state.Market {
			if c.Type == t {
				inMarket++
			}
		}
		if inMarket > 0 || len(stack) > count+2 {
			return -4 * e.weights.SellPatience
		}
	}
	return 0
}

// takeValue scores acquiring one card of type t.
func (e *evaluator) takeValue(t game.CardType) float64 {
	stack := e.stack(t)
	if len(stack) == 0 {
		return -2
	}

	score := float64(stack[0].Value)
	switch e.self.CountInHand(t) {
	case 4:
		score += 10 * e.weights.BonusPursuit
	case 3:
		score += 6 * e.weights.BonusPursuit
	case 2:
		score += 4 * e.weights.BonusPursuit
	case 1:
		score += 2 * e.weights.BonusPursuit
	}
	score += e.tokenUrgency(t) * e.weights.TokenUrgency
	score += e.blockingValue(t) * e.weights.Blocking
	return score
}

// exchange scores giving handIDs (hand cards or ships) for marketIDs.
func (e *evaluator) exchange(handIDs, marketIDs []string) float64 {
	give := make(map[string]bool, len(handIDs))
	for _, id := range handIDs {
		give[id] = true
	}
	take := make(map[string]bool, len(marketIDs))
	for _, id := range marketIDs {
		take[id] = true
	}

	var handCards, shipCards, marketCards []game.Card
	for _, c := range e.self.Hand {
		if give[c.ID] {
			handCards = append(handCards, c)
		}
	}
	for _, c := range e.self.Ships {
		if give[c.ID] {
			shipCards = append(shipCards, c)
		}
	}
	for _, c := range e.state.Market {
		if take[c.ID] {
			marketCards = append(marketCards, c)
		}
	}

	if len(handCards)+len(shipCards) != len(marketCards) || len(marketCards) < 2 {
		return invalidExchange
	}
	incomingGoods := 0
	for _, c := range marketCards {
		if c.Type != game.Ships {
			incomingGoods++
		}
	}
	if len(e.self.Hand)-len(handCards)+incomingGoods > game.HandLimit {
		return invalidExchange
	}

	// Unsold goods are worth half their next token.
	given := 0.0
	for _, c := range handCards {
		if stack := e.stack(c.Type); len(stack) > 0 {
			given += float64(stack[0].Value) * 0.5
		} else {
			given++
		}
	}
	given += float64(len(shipCards)) * 0.5

	gained, bonus := 0.0, 0.0
	for _, c := range marketCards {
		if c.Type == game.Ships {
			continue
		}
		gained += e.takeValue(c.Type)
		future := e.self.CountInHand(c.Type) + countType(marketCards, c.Type) - countType(handCards, c.Type)
		bonus += e.bonusPotential(future)
	}

	return gained - given + bonus*e.weights.BonusPursuit
}

func countType(cards []game.Card, t game.CardType) int {
	n := 0
	for _, c := range cards {
		if c.Type == t {
			n++
		}
	}
	return n
}

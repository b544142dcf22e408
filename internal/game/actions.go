package game

import (
	"fmt"

	"github.com/qballcreative/plunder/internal/randutil"
)

// TakeCard moves one market card to the player on turn and refills the
// market with one card from the deck.
func (g *Game) TakeCard(cardID string) error {
	idx, err := g.validateTake(cardID)
	if err != nil {
		return err
	}

	s := &g.state
	p := s.CurrentPlayer()
	card := s.Market[idx]
	s.Market = append(s.Market[:idx:idx], s.Market[idx+1:]...)
	g.refillMarket(1)

	kind := KindTake
	if card.Type == Ships {
		p.Ships = append(p.Ships, card)
		kind = KindTakeShips
	} else {
		p.Hand = append(p.Hand, card)
	}

	g.endTurn(LastAction{
		Kind:        kind,
		PlayerName:  p.Name,
		Description: fmt.Sprintf("took a %s", card.Type),
		Cards:       []Card{card},
	})
	return nil
}

// TakeAllShips moves every ship in the market to the player on turn and
// refills the market from the deck.
func (g *Game) TakeAllShips() error {
	if err := g.validateTakeShips(); err != nil {
		return err
	}

	s := &g.state
	p := s.CurrentPlayer()
	var ships []Card
	remaining := make([]Card, 0, MarketSize)
	for _, c := range s.Market {
		if c.Type == Ships {
			ships = append(ships, c)
		} else {
			remaining = append(remaining, c)
		}
	}
	s.Market = remaining
	p.Ships = append(p.Ships, ships...)
	g.refillMarket(MarketSize)

	desc := "took 1 ship"
	if len(ships) > 1 {
		desc = fmt.Sprintf("took %d ships", len(ships))
	}
	g.endTurn(LastAction{
		Kind:        KindTakeShips,
		PlayerName:  p.Name,
		Description: desc,
		Cards:       ships,
	})
	return nil
}

// ExchangeCards swaps cards from the player's hand or ship zone with the
// same number of market cards. Ships received go to the ship zone.
func (g *Game) ExchangeCards(handIDs, marketIDs []string) error {
	plan, err := g.validateExchange(handIDs, marketIDs)
	if err != nil {
		return err
	}

	s := &g.state
	p := s.CurrentPlayer()

	var givenHand, givenShips, received []Card
	hand := make([]Card, 0, HandLimit)
	for _, c := range p.Hand {
		if plan.givenHand[c.ID] {
			givenHand = append(givenHand, c)
		} else {
			hand = append(hand, c)
		}
	}
	ships := make([]Card, 0, len(p.Ships))
	for _, c := range p.Ships {
		if plan.givenShips[c.ID] {
			givenShips = append(givenShips, c)
		} else {
			ships = append(ships, c)
		}
	}
	market := make([]Card, 0, len(s.Market))
	for _, c := range s.Market {
		if !plan.taken[c.ID] {
			market = append(market, c)
			continue
		}
		received = append(received, c)
		if c.Type == Ships {
			ships = append(ships, c)
		} else {
			hand = append(hand, c)
		}
	}
	given := append(givenHand, givenShips...)
	market = append(market, given...)

	p.Hand = hand
	p.Ships = ships
	s.Market = market

	g.endTurn(LastAction{
		Kind:          KindExchange,
		PlayerName:    p.Name,
		Description:   fmt.Sprintf("exchanged %d cards", len(received)),
		CardsGiven:    given,
		CardsReceived: received,
	})
	return nil
}

// SellCards sells cards of a single goods type from hand, taking that many
// tokens from the top of the stack and a bonus token for sales of 3 or more.
func (g *Game) SellCards(cardIDs []string) error {
	goods, err := g.validateSell(cardIDs)
	if err != nil {
		return err
	}

	s := &g.state
	p := s.CurrentPlayer()

	selling := make(map[string]bool, len(cardIDs))
	for _, id := range cardIDs {
		selling[id] = true
	}
	var sold []Card
	hand := make([]Card, 0, len(p.Hand))
	for _, c := range p.Hand {
		if selling[c.ID] {
			sold = append(sold, c)
		} else {
			hand = append(hand, c)
		}
	}

	stack := s.TokenStacks[goods]
	n := min(len(sold), len(stack))
	earned := stack[:n:n]
	s.TokenStacks[goods] = stack[n:]
	p.Tokens = append(p.Tokens, earned...)

	tokensValue := 0
	for _, t := range earned {
		tokensValue += t.Value
	}

	bonusValue := 0
	if pool := s.BonusTokens.ForSale(len(sold)); pool != nil && len(*pool) > 0 {
		bonus := (*pool)[0]
		*pool = (*pool)[1:]
		p.BonusTokens = append(p.BonusTokens, bonus)
		bonusValue = bonus.Value
	}

	p.Hand = hand
	g.endTurn(LastAction{
		Kind:         KindSell,
		PlayerName:   p.Name,
		Description:  fmt.Sprintf("sold %d %s", len(sold), goods),
		Cards:        sold,
		TokensEarned: tokensValue,
		BonusEarned:  bonusValue,
	})
	return nil
}

// PirateRaid steals one card from the opponent's hand. Each player may raid
// once per round.
func (g *Game) PirateRaid(targetCardID string) error {
	idx, err := g.validateRaid(targetCardID)
	if err != nil {
		return err
	}

	s := &g.state
	p := s.CurrentPlayer()
	opp := s.Opponent()
	stolen := opp.Hand[idx]
	opp.Hand = append(opp.Hand[:idx:idx], opp.Hand[idx+1:]...)
	p.Hand = append(p.Hand, stolen)
	p.HasUsedPirateRaid = true

	g.endTurn(LastAction{
		Kind:        KindRaid,
		PlayerName:  p.Name,
		Description: fmt.Sprintf("raided %s's %s!", opp.Name, stolen.Type),
		Cards:       []Card{stolen},
	})
	return nil
}

// refillMarket draws up to n cards from the deck without exceeding MarketSize.
func (g *Game) refillMarket(n int) {
	s := &g.state
	n = min(n, MarketSize-len(s.Market), len(s.Deck))
	if n <= 0 {
		return
	}
	s.Market = append(s.Market, s.Deck[:n]...)
	s.Deck = s.Deck[n:]
}

// endTurn closes out a resolved action: it ends the round if the end
// condition holds, otherwise applies the storm and passes the turn.
func (g *Game) endTurn(action LastAction) {
	s := &g.state
	actor := s.CurrentPlayerIndex
	s.TurnCount++
	s.LastAction = &action

	g.logger.Debug("Action", "player", action.PlayerName, "action", action.Kind, "detail", action.Description, "turn", s.TurnCount)
	events := []GameEvent{ActionEvent{PlayerIndex: actor, Action: action, timestamp: g.now()}}

	if s.IsRoundOver() {
		events = append(events, g.finishRound())
		g.publish(events)
		return
	}

	if s.OptionalRules.StormRule && s.TurnCount%StormInterval == 0 && len(s.Market) >= 2 {
		if storm, ok := g.storm(); ok {
			events = append(events, storm)
		}
	}

	s.CurrentPlayerIndex = 1 - s.CurrentPlayerIndex
	g.publish(events)
}

// storm discards up to StormDiscards random non-ship market cards and
// refills the market. It replaces LastAction for display.
func (g *Game) storm() (StormEvent, bool) {
	s := &g.state
	var goods []Card
	for _, c := range s.Market {
		if c.Type != Ships {
			goods = append(goods, c)
		}
	}
	if len(goods) == 0 {
		return StormEvent{}, false
	}

	discard := randutil.Shuffle(g.src, goods)[:min(StormDiscards, len(goods))]
	gone := make(map[string]bool, len(discard))
	for _, c := range discard {
		gone[c.ID] = true
	}
	market := make([]Card, 0, MarketSize)
	for _, c := range s.Market {
		if !gone[c.ID] {
			market = append(market, c)
		}
	}
	s.Market = market
	g.refillMarket(MarketSize)

	s.LastAction = &LastAction{
		Kind:        KindStorm,
		PlayerName:  "Storm",
		Description: fmt.Sprintf("washes away %d cards!", len(discard)),
		Cards:       discard,
	}
	g.logger.Debug("Storm", "discarded", len(discard), "turn", s.TurnCount)
	return StormEvent{Discarded: discard, timestamp: g.now()}, true
}

// finishRound reveals hidden treasures, scores the round and records the
// winner.
func (g *Game) finishRound() RoundEndEvent {
	s := &g.state
	if s.OptionalRules.TreasureChest {
		for _, t := range s.HiddenTreasures {
			for i := range s.Players {
				if s.Players[i].ID == t.PlayerID {
					s.Players[i].BonusTokens = append(s.Players[i].BonusTokens, t.Tokens...)
				}
			}
		}
	}

	winner := RoundWinnerIndex(s.Players)
	if winner >= 0 {
		s.RoundWins[winner]++
	}
	s.Phase = PhaseRoundEnd

	scores := [2]int{Score(s.Players[0]), Score(s.Players[1])}
	g.logger.Info("Round over", "round", s.Round, "winner", winner, "scores", scores, "roundWins", s.RoundWins)
	return RoundEndEvent{
		Round:       s.Round,
		WinnerIndex: winner,
		Scores:      scores,
		RoundWins:   s.RoundWins,
		Treasures:   s.Clone().HiddenTreasures,
		timestamp:   g.now(),
	}
}

func (g *Game) publish(events []GameEvent) {
	for _, e := range events {
		g.bus.Publish(e)
	}
}

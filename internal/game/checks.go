package game

// Legality checks. Each validate function inspects the state without
// mutating it; the action methods call them before changing anything.

func indexOf(cards []Card, id string) int {
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func hasDuplicates(ids []string) bool {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

func (g *Game) validateTake(cardID string) (int, error) {
	s := &g.state
	if s.Phase != PhasePlaying {
		return -1, ErrNotPlaying
	}
	idx := indexOf(s.Market, cardID)
	if idx < 0 {
		return -1, ErrCardNotFound
	}
	if s.Market[idx].Type != Ships && len(s.CurrentPlayer().Hand) >= HandLimit {
		return -1, ErrHandFull
	}
	return idx, nil
}

func (g *Game) validateTakeShips() error {
	s := &g.state
	if s.Phase != PhasePlaying {
		return ErrNotPlaying
	}
	for _, c := range s.Market {
		if c.Type == Ships {
			return nil
		}
	}
	return ErrNoShips
}

// exchangePlan is a validated exchange ready to be applied.
type exchangePlan struct {
	givenHand  map[string]bool
	givenShips map[string]bool
	taken      map[string]bool
}

func (g *Game) validateExchange(handIDs, marketIDs []string) (exchangePlan, error) {
	s := &g.state
	if s.Phase != PhasePlaying {
		return exchangePlan{}, ErrNotPlaying
	}
	if len(handIDs) == 0 || len(marketIDs) == 0 || len(handIDs) != len(marketIDs) {
		return exchangePlan{}, ErrExchangeMismatch
	}
	if len(handIDs) < 2 {
		return exchangePlan{}, ErrExchangeTooSmall
	}
	if hasDuplicates(handIDs) || hasDuplicates(marketIDs) {
		return exchangePlan{}, ErrDuplicateCard
	}

	p := s.CurrentPlayer()
	plan := exchangePlan{
		givenHand:  make(map[string]bool),
		givenShips: make(map[string]bool),
		taken:      make(map[string]bool),
	}
	for _, id := range handIDs {
		switch {
		case indexOf(p.Hand, id) >= 0:
			plan.givenHand[id] = true
		case indexOf(p.Ships, id) >= 0:
			plan.givenShips[id] = true
		default:
			return exchangePlan{}, ErrCardNotFound
		}
	}

	incomingGoods := 0
	for _, id := range marketIDs {
		idx := indexOf(s.Market, id)
		if idx < 0 {
			return exchangePlan{}, ErrCardNotFound
		}
		if s.Market[idx].Type != Ships {
			incomingGoods++
		}
		plan.taken[id] = true
	}

	if len(p.Hand)-len(plan.givenHand)+incomingGoods > HandLimit {
		return exchangePlan{}, ErrHandFull
	}
	return plan, nil
}

func (g *Game) validateSell(cardIDs []string) (CardType, error) {
	s := &g.state
	if s.Phase != PhasePlaying {
		return "", ErrNotPlaying
	}
	if len(cardIDs) == 0 {
		return "", ErrNothingToSell
	}
	if hasDuplicates(cardIDs) {
		return "", ErrDuplicateCard
	}

	p := s.CurrentPlayer()
	var goods CardType
	for i, id := range cardIDs {
		idx := indexOf(p.Hand, id)
		if idx < 0 {
			return "", ErrCardNotFound
		}
		t := p.Hand[idx].Type
		if i == 0 {
			goods = t
		} else if t != goods {
			return "", ErrMixedGoods
		}
	}
	if len(cardIDs) < goods.MinSellCount() {
		return "", ErrSellMinimum
	}
	return goods, nil
}

func (g *Game) validateRaid(targetCardID string) (int, error) {
	s := &g.state
	if err := g.validateRaidAvailable(); err != nil {
		return -1, err
	}
	idx := indexOf(s.Opponent().Hand, targetCardID)
	if idx < 0 {
		return -1, ErrCardNotFound
	}
	return idx, nil
}

func (g *Game) validateRaidAvailable() error {
	s := &g.state
	if s.Phase != PhasePlaying {
		return ErrNotPlaying
	}
	if !s.OptionalRules.PirateRaid {
		return ErrRuleDisabled
	}
	p := s.CurrentPlayer()
	if p.HasUsedPirateRaid {
		return ErrRaidUsed
	}
	if len(p.Hand) >= HandLimit {
		return ErrHandFull
	}
	return nil
}

// CanTakeCard reports whether the player on turn may take cardID.
func (g *Game) CanTakeCard(cardID string) bool {
	_, err := g.validateTake(cardID)
	return err == nil
}

// CanTakeAllShips reports whether there are ships in the market to take.
func (g *Game) CanTakeAllShips() bool {
	return g.validateTakeShips() == nil
}

// CanSellCards reports whether the player on turn may sell cardIDs.
func (g *Game) CanSellCards(cardIDs []string) bool {
	_, err := g.validateSell(cardIDs)
	return err == nil
}

// CanExchange reports whether the player on turn may make this exchange.
func (g *Game) CanExchange(handIDs, marketIDs []string) bool {
	_, err := g.validateExchange(handIDs, marketIDs)
	return err == nil
}

// CanUsePirateRaid reports whether the player on turn may raid at all: the
// rule is on, the raid is unused, their hand has room and the opponent has
// a card to steal.
func (g *Game) CanUsePirateRaid() bool {
	if g.validateRaidAvailable() != nil {
		return false
	}
	return len(g.state.Opponent().Hand) > 0
}

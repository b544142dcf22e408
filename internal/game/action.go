package game

import "fmt"

// Action is a serializable intent to play one move. It is what the AI
// returns and what a guest sends to the host.
type Action struct {
	Kind      ActionKind `json:"kind"`
	CardID    string     `json:"cardId,omitempty"`
	CardIDs   []string   `json:"cardIds,omitempty"`
	HandIDs   []string   `json:"handIds,omitempty"`
	MarketIDs []string   `json:"marketIds,omitempty"`
}

// TakeAction builds an intent to take one market card.
func TakeAction(cardID string) Action { return Action{Kind: KindTake, CardID: cardID} }

// TakeShipsAction builds an intent to take every ship in the market.
func TakeShipsAction() Action { return Action{Kind: KindTakeShips} }

// ExchangeAction builds an intent to swap cards with the market.
func ExchangeAction(handIDs, marketIDs []string) Action {
	return Action{Kind: KindExchange, HandIDs: handIDs, MarketIDs: marketIDs}
}

// SellAction builds an intent to sell cards from hand.
func SellAction(cardIDs []string) Action { return Action{Kind: KindSell, CardIDs: cardIDs} }

// RaidAction builds an intent to steal a card from the opponent's hand.
func RaidAction(targetCardID string) Action { return Action{Kind: KindRaid, CardID: targetCardID} }

func (a Action) String() string {
	switch a.Kind {
	case KindTake, KindRaid:
		return fmt.Sprintf("%s %s", a.Kind, a.CardID)
	case KindSell:
		return fmt.Sprintf("%s %v", a.Kind, a.CardIDs)
	case KindExchange:
		return fmt.Sprintf("%s %v for %v", a.Kind, a.HandIDs, a.MarketIDs)
	}
	return string(a.Kind)
}

// Apply plays an action for the player on turn.
func (g *Game) Apply(a Action) error {
	switch a.Kind {
	case KindTake:
		return g.TakeCard(a.CardID)
	case KindTakeShips:
		return g.TakeAllShips()
	case KindExchange:
		return g.ExchangeCards(a.HandIDs, a.MarketIDs)
	case KindSell:
		return g.SellCards(a.CardIDs)
	case KindRaid:
		return g.PirateRaid(a.CardID)
	}
	return fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
}

// Check reports whether a is legal for the player on turn without playing
// it.
func (g *Game) Check(a Action) error {
	var err error
	switch a.Kind {
	case KindTake:
		_, err = g.validateTake(a.CardID)
	case KindTakeShips:
		err = g.validateTakeShips()
	case KindExchange:
		_, err = g.validateExchange(a.HandIDs, a.MarketIDs)
	case KindSell:
		_, err = g.validateSell(a.CardIDs)
	case KindRaid:
		_, err = g.validateRaid(a.CardID)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
	}
	return err
}

// CheckFor is Check with the seat test of ApplyFor.
func (g *Game) CheckFor(seat int, a Action) error {
	if g.state.Phase != PhasePlaying {
		return ErrNotPlaying
	}
	if g.state.CurrentPlayerIndex != seat {
		return ErrNotYourTurn
	}
	return g.Check(a)
}

// ApplyFor plays an action only if seat is the player on turn. The network
// host uses it to execute a guest's intent.
func (g *Game) ApplyFor(seat int, a Action) error {
	if g.state.Phase != PhasePlaying {
		return ErrNotPlaying
	}
	if g.state.CurrentPlayerIndex != seat {
		return ErrNotYourTurn
	}
	return g.Apply(a)
}

package game

import "github.com/qballcreative/plunder/internal/randutil"

// Factory builds decks, token stacks and players from the static tables.
type Factory struct {
	src *randutil.Source
}

// NewFactory creates a factory drawing randomness from src.
func NewFactory(src *randutil.Source) *Factory {
	return &Factory{src: src}
}

// NewDeck returns a shuffled deck of DeckSize cards with fresh ids.
func (f *Factory) NewDeck() []Card {
	cards := make([]Card, 0, DeckSize)
	for _, e := range deckComposition {
		for i := 0; i < e.Count; i++ {
			cards = append(cards, Card{ID: f.src.ID(), Type: e.Type})
		}
	}
	return randutil.Shuffle(f.src, cards)
}

// NewTokenStacks returns one stack per goods type, highest value first.
// Stacks are never shuffled.
func (f *Factory) NewTokenStacks() map[CardType][]Token {
	stacks := make(map[CardType][]Token, len(GoodsTypes))
	for _, t := range GoodsTypes {
		values := tokenValues[t]
		stack := make([]Token, len(values))
		for i, v := range values {
			stack[i] = Token{ID: f.src.ID(), Type: t, Value: v}
		}
		stacks[t] = stack
	}
	return stacks
}

// NewBonusPools returns the three bonus pools, each shuffled once.
func (f *Factory) NewBonusPools() BonusPools {
	return BonusPools{
		Three: f.bonusPool(3, bonusThreeValues),
		Four:  f.bonusPool(4, bonusFourValues),
		Five:  f.bonusPool(5, bonusFiveValues),
	}
}

func (f *Factory) bonusPool(cardsCount int, values []int) []BonusToken {
	shuffled := randutil.Shuffle(f.src, values)
	pool := make([]BonusToken, len(shuffled))
	for i, v := range shuffled {
		pool[i] = BonusToken{ID: f.src.ID(), CardsCount: cardsCount, Value: v}
	}
	return pool
}

// NewHiddenTreasures assigns one secret three-card bonus per player, cycling
// through the shuffled treasure values if players outnumber them.
func (f *Factory) NewHiddenTreasures(playerIDs []string) []HiddenTreasure {
	values := randutil.Shuffle(f.src, treasureChestValues)
	treasures := make([]HiddenTreasure, len(playerIDs))
	for i, id := range playerIDs {
		treasures[i] = HiddenTreasure{
			PlayerID: id,
			Tokens: []BonusToken{{
				ID:         f.src.ID(),
				CardsCount: 3,
				Value:      values[i%len(values)],
			}},
		}
	}
	return treasures
}

// NewPlayer returns an empty player.
func (f *Factory) NewPlayer(id, name string, isAI bool) Player {
	return Player{
		ID:          id,
		Name:        name,
		Hand:        []Card{},
		Ships:       []Card{},
		Tokens:      []Token{},
		BonusTokens: []BonusToken{},
		IsAI:        isAI,
	}
}

// PirateName picks a random name for an AI opponent.
func (f *Factory) PirateName() string {
	return pirateNames[f.src.IntN(len(pirateNames))]
}

// Deal lays out the opening market and hands from a shuffled deck. The market
// takes the first three ships in the deck plus the next two cards; each
// player then receives five cards alternately, ships going to the ship zone.
// The undealt remainder is returned as the draw deck.
func Deal(deck []Card, players *[2]Player) (market, rest []Card) {
	market = make([]Card, 0, MarketSize)
	rest = make([]Card, 0, len(deck))

	ships := 0
	for _, c := range deck {
		if ships < initialMarketShips && c.Type == Ships {
			market = append(market, c)
			ships++
			continue
		}
		rest = append(rest, c)
	}

	n := min(MarketSize-len(market), len(rest))
	market = append(market, rest[:n]...)
	rest = rest[n:]

	for i := 0; i < initialHandSize; i++ {
		for p := range players {
			if len(rest) == 0 {
				break
			}
			card := rest[0]
			rest = rest[1:]
			if card.Type == Ships {
				players[p].Ships = append(players[p].Ships, card)
			} else {
				players[p].Hand = append(players[p].Hand, card)
			}
		}
	}

	return market, rest
}

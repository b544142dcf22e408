package game

// State is the complete, serializable state of a game. It is what the host
// sends to the guest in start, rejoin-sync and game-state messages.
type State struct {
	Phase              Phase                `json:"phase"`
	Market             []Card               `json:"market"`
	Deck               []Card               `json:"deck"`
	TokenStacks        map[CardType][]Token `json:"tokenStacks"`
	BonusTokens        BonusPools           `json:"bonusTokens"`
	Players            [2]Player            `json:"players"`
	CurrentPlayerIndex int                  `json:"currentPlayerIndex"`
	Round              int                  `json:"round"`
	MaxRounds          int                  `json:"maxRounds"`
	RoundWins          [2]int               `json:"roundWins"`
	LastAction         *LastAction          `json:"lastAction"`
	Difficulty         Difficulty           `json:"-"`
	OptionalRules      OptionalRules        `json:"optionalRules"`
	TurnCount          int                  `json:"turnCount"`
	HiddenTreasures    []HiddenTreasure     `json:"hiddenTreasures"`
	IsMultiplayer      bool                 `json:"isMultiplayer"`
}

// CurrentPlayer returns the player whose turn it is.
func (s *State) CurrentPlayer() *Player {
	return &s.Players[s.CurrentPlayerIndex]
}

// Opponent returns the player waiting for their turn.
func (s *State) Opponent() *Player {
	return &s.Players[1-s.CurrentPlayerIndex]
}

// EmptyStacks counts the goods token stacks with no tokens left.
func (s *State) EmptyStacks() int {
	n := 0
	for _, t := range GoodsTypes {
		if len(s.TokenStacks[t]) == 0 {
			n++
		}
	}
	return n
}

// IsRoundOver reports whether the round has ended: the deck cannot refill
// the market, or enough token stacks are exhausted.
func (s *State) IsRoundOver() bool {
	if len(s.Deck) == 0 && len(s.Market) < MarketSize {
		return true
	}
	return s.EmptyStacks() >= EmptyStacksToEndRound
}

// Clone returns a deep copy that shares no slices or maps with s.
func (s State) Clone() State {
	out := s
	out.Market = cloneSlice(s.Market)
	out.Deck = cloneSlice(s.Deck)
	if s.TokenStacks != nil {
		out.TokenStacks = make(map[CardType][]Token, len(s.TokenStacks))
		for t, stack := range s.TokenStacks {
			out.TokenStacks[t] = cloneSlice(stack)
		}
	}
	out.BonusTokens = BonusPools{
		Three: cloneSlice(s.BonusTokens.Three),
		Four:  cloneSlice(s.BonusTokens.Four),
		Five:  cloneSlice(s.BonusTokens.Five),
	}
	for i := range s.Players {
		out.Players[i] = s.Players[i].clone()
	}
	if s.LastAction != nil {
		la := *s.LastAction
		la.Cards = cloneSlice(la.Cards)
		la.CardsGiven = cloneSlice(la.CardsGiven)
		la.CardsReceived = cloneSlice(la.CardsReceived)
		out.LastAction = &la
	}
	if s.HiddenTreasures != nil {
		out.HiddenTreasures = make([]HiddenTreasure, len(s.HiddenTreasures))
		for i, h := range s.HiddenTreasures {
			out.HiddenTreasures[i] = HiddenTreasure{PlayerID: h.PlayerID, Tokens: cloneSlice(h.Tokens)}
		}
	}
	return out
}

func (p Player) clone() Player {
	out := p
	out.Hand = cloneSlice(p.Hand)
	out.Ships = cloneSlice(p.Ships)
	out.Tokens = cloneSlice(p.Tokens)
	out.BonusTokens = cloneSlice(p.BonusTokens)
	return out
}

// cloneSlice copies s, keeping nil and empty distinct so JSON output is stable.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

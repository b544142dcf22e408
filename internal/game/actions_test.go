package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartGame(t *testing.T) {
	g := newTestGame(t, 1)
	g.Start("Anne", Hard, OptionalRules{TreasureChest: true})

	s := g.State()
	assert.Equal(t, PhasePlaying, s.Phase)
	assert.Equal(t, 1, s.Round)
	assert.Equal(t, 3, s.MaxRounds)
	assert.Equal(t, [2]int{0, 0}, s.RoundWins)
	assert.Equal(t, 0, s.CurrentPlayerIndex)
	assert.Equal(t, Hard, s.Difficulty)
	assert.Len(t, s.Market, MarketSize)
	assert.Len(t, s.Deck, 40)
	assert.Equal(t, "Anne", s.Players[0].Name)
	assert.False(t, s.Players[0].IsAI)
	assert.True(t, s.Players[1].IsAI)
	assert.Contains(t, pirateNames, s.Players[1].Name)
	assert.Len(t, s.HiddenTreasures, 2)
	assert.Len(t, allCardIDs(s), 55)
	assert.False(t, s.IsMultiplayer)
}

func TestStartMultiplayer(t *testing.T) {
	g := newTestGame(t, 1)
	g.StartMultiplayer("Host", "Guest", OptionalRules{StormRule: true})

	s := g.State()
	assert.True(t, s.IsMultiplayer)
	assert.Equal(t, "Host", s.Players[0].Name)
	assert.Equal(t, "Guest", s.Players[1].Name)
	assert.False(t, s.Players[1].IsAI)
	assert.Empty(t, s.HiddenTreasures)
	assert.False(t, g.IsAITurn())
}

func TestSimpleTake(t *testing.T) {
	g := newTestGame(t, 1)
	g.state = playingState(g, 50)
	rum := g.state.Market[0]
	require.Equal(t, Rum, rum.Type)

	require.NoError(t, g.TakeCard(rum.ID))

	s := g.State()
	assert.Equal(t, []Card{rum}, s.Players[0].Hand)
	assert.Len(t, s.Market, 5)
	assert.Len(t, s.Deck, 49)
	assert.Equal(t, 1, s.CurrentPlayerIndex)
	assert.Equal(t, 1, s.TurnCount)
	require.NotNil(t, s.LastAction)
	assert.Equal(t, KindTake, s.LastAction.Kind)
	assert.Equal(t, "took a rum", s.LastAction.Description)
}

func TestTakeCardRejections(t *testing.T) {
	g := newTestGame(t, 1)
	g.state = playingState(g, 10)
	g.state.Players[0].Hand = makeCards("h", Silver, HandLimit)
	g.state.Market[4] = Card{ID: "ship", Type: Ships}
	before := g.State()

	err := g.TakeCard("missing")
	assert.ErrorIs(t, err, ErrCardNotFound)
	assert.ErrorIs(t, err, ErrIllegalAction)

	assert.ErrorIs(t, g.TakeCard(g.state.Market[0].ID), ErrHandFull)
	assert.False(t, g.CanTakeCard(g.state.Market[0].ID))
	assert.Equal(t, before, g.State(), "rejected actions must not change state")

	// Ships bypass the hand limit.
	assert.True(t, g.CanTakeCard("ship"))
	require.NoError(t, g.TakeCard("ship"))
	assert.Len(t, g.state.Players[0].Ships, 1)
	assert.Equal(t, KindTakeShips, g.state.LastAction.Kind)
}

func TestTakeCardWithEmptyDeck(t *testing.T) {
	g := newTestGame(t, 1)
	g.state = playingState(g, 0)

	require.NoError(t, g.TakeCard(g.state.Market[0].ID))
	assert.Len(t, g.state.Market, 4)
	assert.Equal(t, PhaseRoundEnd, g.state.Phase, "empty deck and short market ends the round")
}

func TestTakeAllShips(t *testing.T) {
	g := newTestGame(t, 1)
	g.state = playingState(g, 10)
	g.state.Market[1] = Card{ID: "s1", Type: Ships}
	g.state.Market[3] = Card{ID: "s2", Type: Ships}

	require.True(t, g.CanTakeAllShips())
	require.NoError(t, g.TakeAllShips())

	s := g.State()
	assert.Equal(t, []string{"s1", "s2"}, ids(s.Players[0].Ships))
	assert.Len(t, s.Market, 5)
	assert.Len(t, s.Deck, 8)
	assert.Equal(t, "took 2 ships", s.LastAction.Description)
	assert.Equal(t, 1, s.CurrentPlayerIndex)
}

func TestTakeAllShipsWithoutShips(t *testing.T) {
	g := newTestGame(t, 1)
	g.state = playingState(g, 10)
	before := g.State()

	assert.ErrorIs(t, g.TakeAllShips(), ErrNoShips)
	assert.Equal(t, before, g.State())
}

func TestExchangeCards(t *testing.T) {
	g := newTestGame(t, 1)
	g.state = playingState(g, 10)
	g.state.Players[0].Hand = makeCards("h", Rum, 2)
	g.state.Players[0].Ships = makeCards("s", Ships, 1)
	market := g.State().Market

	hand := []string{"h-0", "s-0"}
	take := []string{market[2].ID, market[4].ID}
	require.True(t, g.CanExchange(hand, take))
	require.NoError(t, g.ExchangeCards(hand, take))

	s := g.State()
	assert.ElementsMatch(t, []string{"h-1", market[2].ID, market[4].ID}, ids(s.Players[0].Hand))
	assert.Empty(t, s.Players[0].Ships)
	assert.Len(t, s.Market, 5)
	assert.Contains(t, ids(s.Market), "h-0")
	assert.Contains(t, ids(s.Market), "s-0")
	assert.Len(t, s.Deck, 10, "exchanges never draw")
	assert.Equal(t, KindExchange, s.LastAction.Kind)
	assert.Len(t, s.LastAction.CardsGiven, 2)
	assert.Len(t, s.LastAction.CardsReceived, 2)
}

func TestExchangeShipFromMarketGoesToShipZone(t *testing.T) {
	g := newTestGame(t, 1)
	g.state = playingState(g, 10)
	g.state.Players[0].Hand = makeCards("h", Rum, 2)
	g.state.Market[0] = Card{ID: "ms", Type: Ships}

	require.NoError(t, g.ExchangeCards([]string{"h-0", "h-1"}, []string{"ms", g.state.Market[1].ID}))
	assert.Equal(t, []string{"ms"}, ids(g.state.Players[0].Ships))
	assert.Len(t, g.state.Players[0].Hand, 1)
}

func TestExchangeRejections(t *testing.T) {
	g := newTestGame(t, 1)
	g.state = playingState(g, 10)
	g.state.Players[0].Hand = makeCards("h", Rum, HandLimit)
	g.state.Players[0].Ships = makeCards("s", Ships, 3)
	m := ids(g.State().Market)
	before := g.State()

	tests := []struct {
		name   string
		hand   []string
		market []string
		want   error
	}{
		{"empty", nil, nil, ErrExchangeMismatch},
		{"unequal", []string{"h-0", "h-1"}, m[:3], ErrExchangeMismatch},
		{"single card", []string{"h-0"}, m[:1], ErrExchangeTooSmall},
		{"duplicate", []string{"h-0", "h-0"}, m[:2], ErrDuplicateCard},
		{"unknown hand card", []string{"h-0", "nope"}, m[:2], ErrCardNotFound},
		{"unknown market card", []string{"h-0", "h-1"}, []string{m[0], "nope"}, ErrCardNotFound},
		{"ships would overflow hand", []string{"s-0", "s-1"}, m[:2], ErrHandFull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, g.ExchangeCards(tt.hand, tt.market), tt.want)
			assert.False(t, g.CanExchange(tt.hand, tt.market))
			assert.Equal(t, before, g.State())
		})
	}

	// Trading goods for goods at the limit keeps the hand at seven.
	require.NoError(t, g.ExchangeCards([]string{"h-0", "h-1"}, m[:2]))
	assert.Len(t, g.state.Players[0].Hand, HandLimit)
}

func TestSellMinimums(t *testing.T) {
	tests := []struct {
		name  string
		hand  []Card
		sell  []string
		want  error
		left  int
		owned int
	}{
		{"one gold", makeCards("g", Gold, 2), []string{"g-0"}, ErrSellMinimum, 2, 0},
		{"two gold", makeCards("g", Gold, 2), []string{"g-0", "g-1"}, nil, 0, 2},
		{"one silver", makeCards("s", Silver, 1), []string{"s-0"}, ErrSellMinimum, 1, 0},
		{"one gemstone", makeCards("j", Gemstones, 3), []string{"j-0"}, ErrSellMinimum, 3, 0},
		{"one rum", makeCards("r", Rum, 3), []string{"r-0"}, nil, 2, 1},
		{"one silk", makeCards("k", Silks, 1), []string{"k-0"}, nil, 0, 1},
		{"mixed", concat(makeCards("r", Rum, 1), makeCards("k", Silks, 1)), []string{"r-0", "k-0"}, ErrMixedGoods, 2, 0},
		{"mixed expensive", concat(makeCards("g", Gold, 1), makeCards("s", Silver, 1)), []string{"g-0", "s-0"}, ErrMixedGoods, 2, 0},
		{"nothing", makeCards("r", Rum, 1), nil, ErrNothingToSell, 1, 0},
		{"not in hand", makeCards("r", Rum, 1), []string{"x"}, ErrCardNotFound, 1, 0},
		{"duplicate", makeCards("r", Rum, 2), []string{"r-0", "r-0"}, ErrDuplicateCard, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, 1)
			g.state = playingState(g, 10)
			g.state.Players[0].Hand = tt.hand

			assert.Equal(t, tt.want == nil, g.CanSellCards(tt.sell))
			err := g.SellCards(tt.sell)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			} else {
				assert.NoError(t, err)
			}
			assert.Len(t, g.state.Players[0].Hand, tt.left)
			assert.Len(t, g.state.Players[0].Tokens, tt.owned)
		})
	}
}

func TestSellTakesTopTokens(t *testing.T) {
	g := newTestGame(t, 1)
	g.state = playingState(g, 10)
	g.state.Players[0].Hand = makeCards("j", Gemstones, 2)

	require.NoError(t, g.SellCards([]string{"j-0", "j-1"}))

	p := g.state.Players[0]
	require.Len(t, p.Tokens, 2)
	assert.Equal(t, 7, p.Tokens[0].Value)
	assert.Equal(t, 7, p.Tokens[1].Value)
	assert.Len(t, g.state.TokenStacks[Gemstones], 3)
	assert.Equal(t, 14, g.state.LastAction.TokensEarned)
	assert.Equal(t, 0, g.state.LastAction.BonusEarned)
	assert.Equal(t, "sold 2 gemstones", g.state.LastAction.Description)
}

func TestSellShortStackGivesFewerTokens(t *testing.T) {
	g := newTestGame(t, 1)
	g.state = playingState(g, 10)
	g.state.TokenStacks[Rum] = tokens(Rum, 1)
	g.state.Players[0].Hand = makeCards("r", Rum, 2)

	require.NoError(t, g.SellCards([]string{"r-0", "r-1"}))
	assert.Len(t, g.state.Players[0].Tokens, 1)
	assert.Empty(t, g.state.TokenStacks[Rum])
}

func TestSellBonusThresholds(t *testing.T) {
	tests := []struct {
		count     int
		wantBonus []int
		pool      func(BonusPools) []BonusToken
		poolLeft  int
	}{
		{1, nil, nil, 0},
		{2, nil, nil, 0},
		{3, []int{2}, func(b BonusPools) []BonusToken { return b.Three }, 2},
		{4, []int{5}, func(b BonusPools) []BonusToken { return b.Four }, 1},
		{5, []int{9}, func(b BonusPools) []BonusToken { return b.Five }, 1},
		{6, []int{9}, func(b BonusPools) []BonusToken { return b.Five }, 1},
	}
	for _, tt := range tests {
		g := newTestGame(t, 1)
		g.state = playingState(g, 10)
		g.state.Players[0].Hand = makeCards("r", Rum, tt.count)

		require.NoError(t, g.SellCards(ids(g.state.Players[0].Hand)))

		var got []int
		for _, b := range g.state.Players[0].BonusTokens {
			got = append(got, b.Value)
		}
		assert.Equal(t, tt.wantBonus, got, "selling %d", tt.count)
		if tt.pool != nil {
			assert.Len(t, tt.pool(g.state.BonusTokens), tt.poolLeft, "selling %d", tt.count)
		}
	}
}

func TestSellEmptyBonusPool(t *testing.T) {
	g := newTestGame(t, 1)
	g.state = playingState(g, 10)
	g.state.BonusTokens.Three = nil
	g.state.Players[0].Hand = makeCards("r", Rum, 3)

	require.NoError(t, g.SellCards(ids(g.state.Players[0].Hand)))
	assert.Empty(t, g.state.Players[0].BonusTokens)
	assert.Len(t, g.state.Players[0].Tokens, 3)
}

func TestPirateRaid(t *testing.T) {
	g := newTestGame(t, 1)
	g.state = playingState(g, 20)
	g.state.OptionalRules.PirateRaid = true
	g.state.Players[1].Hand = makeCards("o", Gold, 3)

	require.True(t, g.CanUsePirateRaid())
	require.NoError(t, g.PirateRaid("o-1"))

	s := g.State()
	assert.Equal(t, []string{"o-1"}, ids(s.Players[0].Hand))
	assert.Equal(t, []string{"o-0", "o-2"}, ids(s.Players[1].Hand))
	assert.True(t, s.Players[0].HasUsedPirateRaid)
	assert.Equal(t, KindRaid, s.LastAction.Kind)
	assert.Equal(t, "raided Jack's gold!", s.LastAction.Description)
	assert.Equal(t, 1, s.CurrentPlayerIndex)
}

func TestPirateRaidIsOneShot(t *testing.T) {
	g := newTestGame(t, 1)
	g.state = playingState(g, 20)
	g.state.OptionalRules.PirateRaid = true
	g.state.Players[1].Hand = makeCards("o", Gold, 3)

	require.NoError(t, g.PirateRaid("o-0"))
	require.NoError(t, g.TakeCard(g.state.Market[0].ID), "opponent takes a turn")
	require.Equal(t, 0, g.state.CurrentPlayerIndex)

	before := g.State()
	assert.False(t, g.CanUsePirateRaid())
	assert.ErrorIs(t, g.PirateRaid("o-1"), ErrRaidUsed)
	assert.Equal(t, before, g.State())
}

func TestPirateRaidRejections(t *testing.T) {
	g := newTestGame(t, 1)
	g.state = playingState(g, 20)
	g.state.Players[1].Hand = makeCards("o", Gold, 3)

	assert.ErrorIs(t, g.PirateRaid("o-0"), ErrRuleDisabled)

	g.state.OptionalRules.PirateRaid = true
	assert.ErrorIs(t, g.PirateRaid("market"), ErrCardNotFound)

	g.state.Players[0].Hand = makeCards("h", Rum, HandLimit)
	assert.ErrorIs(t, g.PirateRaid("o-0"), ErrHandFull)

	g.state.Players[0].Hand = nil
	g.state.Players[1].Hand = nil
	assert.False(t, g.CanUsePirateRaid(), "nothing to steal")
}

func TestActionsRejectedOutsidePlaying(t *testing.T) {
	g := newTestGame(t, 1)
	assert.Equal(t, PhaseLobby, g.Phase())

	assert.ErrorIs(t, g.TakeCard("x"), ErrNotPlaying)
	assert.ErrorIs(t, g.TakeAllShips(), ErrNotPlaying)
	assert.ErrorIs(t, g.SellCards([]string{"x"}), ErrNotPlaying)
	assert.ErrorIs(t, g.ExchangeCards([]string{"a", "b"}, []string{"c", "d"}), ErrNotPlaying)
	assert.ErrorIs(t, g.PirateRaid("x"), ErrNotPlaying)
}

func TestApplyDispatch(t *testing.T) {
	g := newTestGame(t, 1)
	g.state = playingState(g, 20)
	g.state.Players[0].Hand = makeCards("r", Rum, 2)

	assert.ErrorIs(t, g.Apply(Action{Kind: "dance"}), ErrUnknownAction)
	require.NoError(t, g.Apply(SellAction([]string{"r-0"})))
	require.NoError(t, g.Apply(TakeAction(g.state.Market[0].ID)))
	assert.Equal(t, 2, g.state.TurnCount)
}

func TestApplyForChecksSeat(t *testing.T) {
	g := newTestGame(t, 1)
	g.state = playingState(g, 20)

	before := g.State()
	assert.ErrorIs(t, g.ApplyFor(1, TakeAction(g.state.Market[0].ID)), ErrNotYourTurn)
	assert.Equal(t, before, g.State())

	require.NoError(t, g.ApplyFor(0, TakeAction(g.state.Market[0].ID)))
	require.NoError(t, g.ApplyFor(1, TakeAction(g.state.Market[0].ID)))
}

func TestCheckForLeavesStateAlone(t *testing.T) {
	g := newTestGame(t, 1)
	g.state = playingState(g, 20)
	g.state.Players[0].Hand = makeCards("r", Rum, 2)
	before := g.State()

	assert.NoError(t, g.CheckFor(0, TakeAction("m-gold-0")))
	assert.NoError(t, g.CheckFor(0, SellAction([]string{"r-0", "r-1"})))
	assert.ErrorIs(t, g.CheckFor(1, TakeAction("m-gold-0")), ErrNotYourTurn)
	assert.ErrorIs(t, g.CheckFor(0, TakeAction("nope")), ErrCardNotFound)
	assert.ErrorIs(t, g.CheckFor(0, TakeShipsAction()), ErrNoShips)
	assert.ErrorIs(t, g.CheckFor(0, RaidAction("x")), ErrRuleDisabled)
	assert.ErrorIs(t, g.CheckFor(0, ExchangeAction([]string{"r-0"}, []string{"m-rum-0"})), ErrExchangeTooSmall)
	assert.ErrorIs(t, g.Check(Action{Kind: "dance"}), ErrUnknownAction)
	assert.Equal(t, before, g.State())

	g.state.Phase = PhaseRoundEnd
	assert.ErrorIs(t, g.CheckFor(0, TakeAction("m-gold-0")), ErrNotPlaying)
}

package game

// CardType identifies the kind of a card. Ships are not goods.
type CardType string

const (
	Rum         CardType = "rum"
	Cannonballs CardType = "cannonballs"
	Silks       CardType = "silks"
	Silver      CardType = "silver"
	Gold        CardType = "gold"
	Gemstones   CardType = "gemstones"
	Ships       CardType = "ships"
)

// GoodsTypes lists every goods type in a fixed order.
var GoodsTypes = []CardType{Rum, Cannonballs, Silks, Silver, Gold, Gemstones}

// IsGoods reports whether t is one of the six goods types.
func (t CardType) IsGoods() bool {
	switch t {
	case Rum, Cannonballs, Silks, Silver, Gold, Gemstones:
		return true
	}
	return false
}

// IsExpensive reports whether selling t requires at least MinSellExpensive cards.
func (t CardType) IsExpensive() bool {
	return t == Gold || t == Silver || t == Gemstones
}

// MinSellCount returns the fewest cards of type t that may be sold at once.
func (t CardType) MinSellCount() int {
	if t.IsExpensive() {
		return MinSellExpensive
	}
	return 1
}

func (t CardType) String() string {
	return string(t)
}

// Card is a single card. Its ID is preserved as it moves between zones.
type Card struct {
	ID   string   `json:"id"`
	Type CardType `json:"type"`
}

// Token is a goods token awarded when selling.
type Token struct {
	ID    string   `json:"id"`
	Type  CardType `json:"type"`
	Value int      `json:"value"`
}

// BonusToken is awarded for selling 3, 4 or 5+ cards at once.
type BonusToken struct {
	ID         string `json:"id"`
	CardsCount int    `json:"cardsCount"`
	Value      int    `json:"value"`
}

// BonusPools holds the three shuffled bonus token pools. The front of each
// pool is awarded next.
type BonusPools struct {
	Three []BonusToken `json:"three"`
	Four  []BonusToken `json:"four"`
	Five  []BonusToken `json:"five"`
}

// ForSale returns the pool that a sale of count cards draws from, or nil if
// the sale is too small to earn a bonus.
func (b *BonusPools) ForSale(count int) *[]BonusToken {
	switch {
	case count >= 5:
		return &b.Five
	case count == 4:
		return &b.Four
	case count == 3:
		return &b.Three
	}
	return nil
}

// Player is one of the two seats at the table.
type Player struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Hand              []Card       `json:"hand"`
	Ships             []Card       `json:"ships"`
	Tokens            []Token      `json:"tokens"`
	BonusTokens       []BonusToken `json:"bonusTokens"`
	IsAI              bool         `json:"isAI"`
	HasUsedPirateRaid bool         `json:"hasUsedPirateRaid"`
}

// CountInHand returns how many cards of type t the player holds.
func (p Player) CountInHand(t CardType) int {
	n := 0
	for _, c := range p.Hand {
		if c.Type == t {
			n++
		}
	}
	return n
}

// HiddenTreasure is a secret bonus revealed at the end of a round.
type HiddenTreasure struct {
	PlayerID string       `json:"playerId"`
	Tokens   []BonusToken `json:"tokens"`
}

// OptionalRules toggles the variant rules chosen at game start.
type OptionalRules struct {
	StormRule     bool `json:"stormRule"`
	PirateRaid    bool `json:"pirateRaid"`
	TreasureChest bool `json:"treasureChest"`
}

// Phase is the top-level state of a game.
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhasePlaying  Phase = "playing"
	PhaseRoundEnd Phase = "roundEnd"
	PhaseGameEnd  Phase = "gameEnd"
)

// Difficulty selects the AI opponent's weights.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ParseDifficulty converts a user-supplied string to a Difficulty.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(s) {
	case Easy, Medium, Hard:
		return Difficulty(s), true
	}
	return "", false
}

// ActionKind names what a player (or the storm) did.
type ActionKind string

const (
	KindTake      ActionKind = "take"
	KindTakeShips ActionKind = "take-ships"
	KindExchange  ActionKind = "exchange"
	KindSell      ActionKind = "sell"
	KindRaid      ActionKind = "raid"
	KindStorm     ActionKind = "storm"
)

// LastAction describes the most recent thing that happened, for display.
type LastAction struct {
	Kind          ActionKind `json:"type"`
	PlayerName    string     `json:"playerName"`
	Description   string     `json:"description"`
	Cards         []Card     `json:"cardsInvolved,omitempty"`
	CardsGiven    []Card     `json:"cardsGiven,omitempty"`
	CardsReceived []Card     `json:"cardsReceived,omitempty"`
	TokensEarned  int        `json:"tokensEarned,omitempty"`
	BonusEarned   int        `json:"bonusEarned,omitempty"`
}

func (a LastAction) String() string {
	return a.PlayerName + " " + a.Description
}

package game

const (
	HandLimit        = 7
	MarketSize       = 5
	MinSellExpensive = 2
	MaxRounds        = 3
	RoundsToWin      = 2
	ShipBonus        = 5

	// StormInterval is how many turns pass between storms.
	StormInterval = 3
	// StormDiscards is how many market cards a storm washes away.
	StormDiscards = 2

	// EmptyStacksToEndRound ends the round once this many token stacks are gone.
	EmptyStacksToEndRound = 3

	initialMarketShips = 3
	initialHandSize    = 5
)

// deckComposition is ordered so deck construction does not depend on map
// iteration order.
var deckComposition = []struct {
	Type  CardType
	Count int
}{
	{Gemstones, 6},
	{Gold, 6},
	{Silver, 6},
	{Silks, 8},
	{Cannonballs, 8},
	{Rum, 10},
	{Ships, 11},
}

// DeckSize is the total number of cards in a fresh deck.
var DeckSize = func() int {
	n := 0
	for _, e := range deckComposition {
		n += e.Count
	}
	return n
}()

// tokenValues lists each stack from the top down.
var tokenValues = map[CardType][]int{
	Gemstones:   {7, 7, 5, 5, 5},
	Gold:        {6, 6, 5, 5, 5},
	Silver:      {5, 5, 5, 5, 5},
	Silks:       {5, 3, 3, 2, 2, 1, 1},
	Cannonballs: {5, 3, 3, 2, 2, 1, 1},
	Rum:         {4, 3, 2, 1, 1, 1, 1, 1, 1},
}

var (
	bonusThreeValues = []int{1, 1, 2, 2, 2, 3, 3}
	bonusFourValues  = []int{4, 4, 5, 5, 6, 6}
	bonusFiveValues  = []int{8, 8, 9, 10, 10}

	treasureChestValues = []int{2, 3, 4, 5}
)

var pirateNames = []string{
	"Blackbeard the Bold",
	"Captain Crimson",
	"Salty Pete",
	"One-Eyed Jack",
	"Stormy Sally",
	"Red Rackham",
	"Barnacle Bill",
	"Dread Pirate Roberts",
	"Captain Hook",
	"Long John Silver",
	"Anne Bonny",
	"Calico Jack",
	"Mad Dog Morgan",
	"Ironbeard",
	"The Sea Serpent",
	"Captain Cutlass",
	"Jolly Roger",
	"Scurvy Sam",
	"Treasure Tom",
	"Davey Jones",
}

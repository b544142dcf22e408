package game

// Score is the sum of a player's goods tokens and bonus tokens, plus
// ShipBonus if they hold at least one ship.
func Score(p Player) int {
	total := 0
	for _, t := range p.Tokens {
		total += t.Value
	}
	for _, b := range p.BonusTokens {
		total += b.Value
	}
	if len(p.Ships) >= 1 {
		total += ShipBonus
	}
	return total
}

// RoundWinnerIndex decides a round: higher score, then more bonus tokens,
// then more goods tokens. It returns -1 when all three are tied.
func RoundWinnerIndex(players [2]Player) int {
	a, b := players[0], players[1]
	if c := compare(Score(a), Score(b)); c >= 0 {
		return c
	}
	if c := compare(len(a.BonusTokens), len(b.BonusTokens)); c >= 0 {
		return c
	}
	if c := compare(len(a.Tokens), len(b.Tokens)); c >= 0 {
		return c
	}
	return -1
}

// GameWinnerIndex decides the match from round wins. It returns -1 on a tie.
func GameWinnerIndex(roundWins [2]int) int {
	if roundWins[0] >= RoundsToWin {
		return 0
	}
	if roundWins[1] >= RoundsToWin {
		return 1
	}
	return compare(roundWins[0], roundWins[1])
}

// compare returns 0 if a > b, 1 if b > a and -1 if equal.
func compare(a, b int) int {
	switch {
	case a > b:
		return 0
	case b > a:
		return 1
	}
	return -1
}

package statistics

import (
	"fmt"
	"math"
	"slices"
)

// MatchResult is the outcome of one simulated match, seen from player A.
type MatchResult struct {
	Seed      int64   // Source seed for this match (for replay)
	SeatA     int     // Seat player A played (0 moves first)
	Winner    int     // 0 for A, 1 for B, -1 for a tie
	Rounds    int     // Rounds played
	Turns     int     // Turns played across all rounds
	Storms    int     // Storms that hit the market
	Margin    float64 // A's points minus B's points, summed over rounds
	RoundWins [2]int  // Rounds won by A and B
}

// SeatStats tracks results for player A from one seat.
type SeatStats struct {
	Matches int
	Wins    int
}

// Statistics accumulates simulated match results.
type Statistics struct {
	Matches    int
	Wins       [2]int // Matches won by A and B
	Ties       int
	SumMargin  float64
	SumMargin2 float64   // Sum of squares for variance calculation
	Values     []float64 // Every margin, for median and percentiles

	Rounds      int
	DrawnRounds int
	Turns       int
	Storms      int

	// Seat analytics: index is the seat A played
	SeatResults [2]SeatStats
}

// Add incorporates a match result.
func (s *Statistics) Add(result MatchResult) {
	s.Matches++
	switch result.Winner {
	case 0, 1:
		s.Wins[result.Winner]++
	default:
		s.Ties++
	}

	s.SumMargin += result.Margin
	s.SumMargin2 += result.Margin * result.Margin
	s.Values = append(s.Values, result.Margin)

	s.Rounds += result.Rounds
	s.DrawnRounds += result.Rounds - result.RoundWins[0] - result.RoundWins[1]
	s.Turns += result.Turns
	s.Storms += result.Storms

	if seat := result.SeatA; seat == 0 || seat == 1 {
		s.SeatResults[seat].Matches++
		if result.Winner == 0 {
			s.SeatResults[seat].Wins++
		}
	}
}

// Mean returns A's mean point margin per match.
func (s *Statistics) Mean() float64 {
	if s.Matches == 0 {
		return 0
	}
	return s.SumMargin / float64(s.Matches)
}

// Variance returns the sample variance of the margin.
func (s *Statistics) Variance() float64 {
	if s.Matches < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumMargin2 - float64(s.Matches)*mean*mean) / float64(s.Matches-1)
}

// StdDev returns the sample standard deviation of the margin.
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(max(0, s.Variance()))
}

// StdError returns the standard error of the mean margin.
func (s *Statistics) StdError() float64 {
	if s.Matches == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Matches))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
// margin.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median margin.
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the margin at percentile p, from 0.0 to 1.0, with
// linear interpolation between ranks.
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := slices.Clone(s.Values)
	slices.Sort(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// WinRate returns the share of matches won by player (0 for A, 1 for B).
func (s *Statistics) WinRate(player int) float64 {
	if s.Matches == 0 || player < 0 || player > 1 {
		return 0
	}
	return float64(s.Wins[player]) / float64(s.Matches)
}

// SeatWinRate returns A's win rate when A played seat.
func (s *Statistics) SeatWinRate(seat int) float64 {
	if seat < 0 || seat > 1 {
		return 0
	}
	ss := s.SeatResults[seat]
	if ss.Matches == 0 {
		return 0
	}
	return float64(ss.Wins) / float64(ss.Matches)
}

// AvgRounds returns the mean number of rounds per match.
func (s *Statistics) AvgRounds() float64 {
	if s.Matches == 0 {
		return 0
	}
	return float64(s.Rounds) / float64(s.Matches)
}

// AvgTurns returns the mean number of turns per round.
func (s *Statistics) AvgTurns() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Turns) / float64(s.Rounds)
}

// Validate checks that the accumulated counts are consistent.
func (s *Statistics) Validate() error {
	if s.Matches <= 0 {
		return fmt.Errorf("invalid match count: %d", s.Matches)
	}
	if total := s.Wins[0] + s.Wins[1] + s.Ties; total != s.Matches {
		return fmt.Errorf("outcomes (%d) do not match match count (%d)", total, s.Matches)
	}
	if len(s.Values) != s.Matches {
		return fmt.Errorf("values length (%d) does not match match count (%d)", len(s.Values), s.Matches)
	}
	if seats := s.SeatResults[0].Matches + s.SeatResults[1].Matches; seats != s.Matches {
		return fmt.Errorf("seat matches (%d) do not match match count (%d)", seats, s.Matches)
	}
	if s.DrawnRounds < 0 || s.DrawnRounds > s.Rounds {
		return fmt.Errorf("drawn rounds (%d) out of range for %d rounds", s.DrawnRounds, s.Rounds)
	}
	return nil
}

package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/qballcreative/plunder/internal/ai"
	"github.com/qballcreative/plunder/internal/game"
	"github.com/qballcreative/plunder/internal/randutil"
	"github.com/qballcreative/plunder/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// maxTurnsPerRound bounds a round so a stuck engine is reported instead of
// spinning forever.
const maxTurnsPerRound = 1000

// ErrStalled is returned when a simulated round exceeds maxTurnsPerRound or
// an engine finds no move.
var ErrStalled = errors.New("simulated round stalled")

// Config holds configuration for running simulations.
type Config struct {
	Matches     int
	Seed        int64
	Concurrency int
	PlayerA     game.Difficulty
	PlayerB     game.Difficulty
	Rules       game.OptionalRules
	Logger      *log.Logger
}

// Simulator plays AI-vs-AI matches. Every seed is played twice with the
// seats swapped so neither player profits from always moving first.
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a simulator with the given configuration.
func New(config Config) *Simulator {
	if config.Concurrency <= 0 {
		config.Concurrency = runtime.GOMAXPROCS(0)
	}
	if config.PlayerA == "" {
		config.PlayerA = game.Medium
	}
	if config.PlayerB == "" {
		config.PlayerB = game.Medium
	}
	logger := config.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Simulator{config: config, logger: logger.WithPrefix("simulator")}
}

// Run plays every match and returns the accumulated statistics. Results
// are added in seed order, so a run is reproducible regardless of
// scheduling.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	results := make([]statistics.MatchResult, 2*s.config.Matches)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.config.Concurrency)
	for i := range s.config.Matches {
		seed := s.config.Seed + int64(i)
		for seatA := range 2 {
			eg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				result, err := s.PlayMatch(seed, seatA)
				if err != nil {
					return fmt.Errorf("match %d (seed %d, seat %d): %w", i+1, seed, seatA, err)
				}
				results[2*i+seatA] = result
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for _, r := range results {
		stats.Add(r)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	s.logger.Info("Simulation complete",
		"matches", stats.Matches,
		"winsA", stats.Wins[0],
		"winsB", stats.Wins[1],
		"ties", stats.Ties)
	return stats, nil
}

// recorder counts storms and collects round scores from the event bus.
type recorder struct {
	storms int
	scores [][2]int
}

func (r *recorder) OnEvent(e game.GameEvent) {
	switch ev := e.(type) {
	case game.StormEvent:
		r.storms++
	case game.RoundEndEvent:
		r.scores = append(r.scores, ev.Scores)
	}
}

// PlayMatch plays one full match with player A in seatA.
func (s *Simulator) PlayMatch(seed int64, seatA int) (statistics.MatchResult, error) {
	src := randutil.New(seed)
	rec := &recorder{}
	bus := game.NewEventBus()
	bus.Subscribe(rec)
	g := game.New(game.WithSource(src), game.WithEventBus(bus))

	engines := [2]*ai.Engine{}
	difficulties := [2]game.Difficulty{}
	difficulties[seatA], difficulties[1-seatA] = s.config.PlayerA, s.config.PlayerB
	for seat, d := range difficulties {
		engines[seat] = ai.NewEngine(randutil.New(seed*2+int64(seat)), ai.WithWeights(ai.WeightsFor(d)))
	}

	// Exchange limits follow the game difficulty, which is seat 1's.
	g.Start("Seat 1", difficulties[1], s.config.Rules)

	turns := 0
	for g.Phase() != game.PhaseGameEnd {
		roundTurns := 0
		for g.Phase() == game.PhasePlaying {
			if roundTurns >= maxTurnsPerRound {
				return statistics.MatchResult{}, fmt.Errorf("%w: %d turns in round %d", ErrStalled, roundTurns, g.State().Round)
			}
			state := g.State()
			action, ok := engines[state.CurrentPlayerIndex].MakeDecision(state)
			if !ok {
				return statistics.MatchResult{}, fmt.Errorf("%w: no move for seat %d", ErrStalled, state.CurrentPlayerIndex)
			}
			if err := g.Apply(action); err != nil {
				return statistics.MatchResult{}, fmt.Errorf("engine chose illegal %s: %w", action, err)
			}
			roundTurns++
		}
		turns += roundTurns
		if err := g.NextRound(); err != nil {
			return statistics.MatchResult{}, err
		}
	}

	final := g.State()
	result := statistics.MatchResult{
		Seed:      seed,
		SeatA:     seatA,
		Winner:    -1,
		Rounds:    len(rec.scores),
		Turns:     turns,
		Storms:    rec.storms,
		RoundWins: [2]int{final.RoundWins[seatA], final.RoundWins[1-seatA]},
	}
	if w := game.GameWinnerIndex(final.RoundWins); w >= 0 {
		result.Winner = 0
		if w != seatA {
			result.Winner = 1
		}
	}
	for _, sc := range rec.scores {
		result.Margin += float64(sc[seatA] - sc[1-seatA])
	}
	s.logger.Debug("Match finished", "seed", seed, "seatA", seatA, "winner", result.Winner, "rounds", result.Rounds)
	return result, nil
}

// RunSimulation is a convenience function for running a simulation with basic parameters.
func RunSimulation(ctx context.Context, matches int, seed int64, a, b game.Difficulty, logger *log.Logger) (*statistics.Statistics, error) {
	return New(Config{
		Matches: matches,
		Seed:    seed,
		PlayerA: a,
		PlayerB: b,
		Logger:  logger,
	}).Run(ctx)
}

// PrintSummary writes a summary of simulation results to w.
func PrintSummary(w io.Writer, stats *statistics.Statistics, a, b game.Difficulty) {
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== RESULTS: %s (A) vs %s (B) ===\n", a, b)
	fmt.Fprintf(w, "Matches played: %d\n", stats.Matches)
	fmt.Fprintf(w, "A wins: %d (%.1f%%)\n", stats.Wins[0], stats.WinRate(0)*100)
	fmt.Fprintf(w, "B wins: %d (%.1f%%)\n", stats.Wins[1], stats.WinRate(1)*100)
	fmt.Fprintf(w, "Ties: %d\n", stats.Ties)

	fmt.Fprintf(w, "\n=== POINT MARGIN (A - B per match) ===\n")
	fmt.Fprintf(w, "Mean: %.2f\n", stats.Mean())
	fmt.Fprintf(w, "Median: %.2f\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.2f\n", stats.StdDev())
	fmt.Fprintf(w, "95%% CI: [%.2f, %.2f]\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.1f, P25=%.1f, P75=%.1f, P95=%.1f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))

	fmt.Fprintf(w, "\n=== PACE ===\n")
	fmt.Fprintf(w, "Rounds per match: %.2f (%d drawn)\n", stats.AvgRounds(), stats.DrawnRounds)
	fmt.Fprintf(w, "Turns per round: %.1f\n", stats.AvgTurns())
	fmt.Fprintf(w, "Storms: %d\n", stats.Storms)

	fmt.Fprintf(w, "\n=== SEAT ANALYSIS ===\n")
	for seat := range 2 {
		ss := stats.SeatResults[seat]
		if ss.Matches > 0 {
			fmt.Fprintf(w, "A in seat %d: %d matches, %.1f%% won\n", seat+1, ss.Matches, stats.SeatWinRate(seat)*100)
		}
	}
}

package simulator

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/qballcreative/plunder/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestNewAppliesDefaults(t *testing.T) {
	sim := New(Config{Matches: 10})
	assert.Positive(t, sim.config.Concurrency)
	assert.Equal(t, game.Medium, sim.config.PlayerA)
	assert.Equal(t, game.Medium, sim.config.PlayerB)
	assert.NotNil(t, sim.logger)
}

func TestPlayMatch(t *testing.T) {
	sim := New(Config{PlayerA: game.Hard, PlayerB: game.Easy, Rules: game.OptionalRules{StormRule: true, PirateRaid: true}, Logger: testLogger()})

	for seatA := range 2 {
		result, err := sim.PlayMatch(7, seatA)
		require.NoError(t, err)

		assert.Equal(t, int64(7), result.Seed)
		assert.Equal(t, seatA, result.SeatA)
		assert.GreaterOrEqual(t, result.Rounds, game.RoundsToWin)
		assert.LessOrEqual(t, result.Rounds, game.MaxRounds)
		assert.Positive(t, result.Turns)
		assert.LessOrEqual(t, result.RoundWins[0]+result.RoundWins[1], result.Rounds)
		switch result.Winner {
		case 0:
			assert.Greater(t, result.RoundWins[0], result.RoundWins[1])
		case 1:
			assert.Greater(t, result.RoundWins[1], result.RoundWins[0])
		default:
			assert.Equal(t, result.RoundWins[0], result.RoundWins[1])
		}
	}
}

func TestPlayMatchIsDeterministic(t *testing.T) {
	sim := New(Config{Logger: testLogger()})
	first, err := sim.PlayMatch(42, 0)
	require.NoError(t, err)
	second, err := sim.PlayMatch(42, 0)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRun(t *testing.T) {
	sim := New(Config{
		Matches:     4,
		Seed:        100,
		Concurrency: 3,
		PlayerA:     game.Hard,
		PlayerB:     game.Medium,
		Rules:       game.OptionalRules{StormRule: true, TreasureChest: true},
		Logger:      testLogger(),
	})

	stats, err := sim.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, stats.Matches, "every seed is played from both seats")
	assert.Equal(t, 4, stats.SeatResults[0].Matches)
	assert.Equal(t, 4, stats.SeatResults[1].Matches)
	assert.Equal(t, stats.Matches, stats.Wins[0]+stats.Wins[1]+stats.Ties)
	assert.Positive(t, stats.Storms)

	again, err := sim.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stats.Values, again.Values, "runs are reproducible")
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Config{Matches: 5, Logger: testLogger()}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunSimulation(t *testing.T) {
	stats, err := RunSimulation(context.Background(), 2, 1, game.Easy, game.Hard, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Matches)
}

func TestPrintSummary(t *testing.T) {
	stats, err := RunSimulation(context.Background(), 2, 9, game.Medium, game.Easy, testLogger())
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSummary(&buf, stats, game.Medium, game.Easy)
	out := buf.String()
	assert.Contains(t, out, "medium (A) vs easy (B)")
	assert.Contains(t, out, "Matches played: 4")
	assert.Contains(t, out, "A in seat 1: 2 matches")
	assert.Contains(t, out, "A in seat 2: 2 matches")
}

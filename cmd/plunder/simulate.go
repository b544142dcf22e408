package main

import (
	"fmt"
	"os"
	"time"

	"github.com/qballcreative/plunder/cmd/plunder/shared"
	"github.com/qballcreative/plunder/internal/game"
	"github.com/qballcreative/plunder/internal/simulator"
)

type SimulateCmd struct {
	RuleFlags

	Matches     int    `kong:"default='1000',help='Number of seeds to play (each is played from both seats)'"`
	PlayerA     string `kong:"default='hard',enum='easy,medium,hard',help='Difficulty of player A'"`
	PlayerB     string `kong:"default='medium',enum='easy,medium,hard',help='Difficulty of player B'"`
	Seed        *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	Concurrency int    `kong:"short='j',default='0',help='Matches played in parallel (0 for one per CPU)'"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	logger := shared.SetupLogger(g.Debug)

	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	if err := c.RuleFlags.apply(cfg); err != nil {
		return err
	}

	var seed int64
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info("Using deterministic seed", "seed", seed)
	} else {
		seed = time.Now().UnixNano()
		logger.Info("Using random seed", "seed", seed)
	}

	a, _ := game.ParseDifficulty(c.PlayerA)
	b, _ := game.ParseDifficulty(c.PlayerB)
	sim := simulator.New(simulator.Config{
		Matches:     c.Matches,
		Seed:        seed,
		Concurrency: c.Concurrency,
		PlayerA:     a,
		PlayerB:     b,
		Rules:       cfg.OptionalRules(),
		Logger:      logger,
	})

	ctx := shared.SetupSignalHandler(logger)
	start := time.Now()
	stats, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	simulator.PrintSummary(os.Stdout, stats, a, b)
	fmt.Printf("\nCompleted in %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

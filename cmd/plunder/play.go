package main

import (
	"fmt"
	"strings"

	"github.com/qballcreative/plunder/cmd/plunder/shared"
	"github.com/qballcreative/plunder/internal/ai"
	"github.com/qballcreative/plunder/internal/config"
	"github.com/qballcreative/plunder/internal/game"
	"github.com/qballcreative/plunder/internal/randutil"
	"github.com/qballcreative/plunder/internal/tui"
)

// RuleFlags overrides the optional rules from the configuration file.
type RuleFlags struct {
	Rules []string `kong:"sep=',',help='Optional rules to enable: storm, pirate-raid, treasure-chest or none (overrides config)'"`
}

// apply replaces cfg's rule block when any rule flag was given.
func (f RuleFlags) apply(cfg *config.Config) error {
	if len(f.Rules) == 0 {
		return nil
	}
	var rules config.RuleSettings
	for _, r := range f.Rules {
		switch strings.ToLower(strings.TrimSpace(r)) {
		case "storm":
			rules.Storm = true
		case "pirate-raid":
			rules.PirateRaid = true
		case "treasure-chest":
			rules.TreasureChest = true
		case "none":
		default:
			return fmt.Errorf("unknown rule %q", r)
		}
	}
	cfg.Rules = rules
	return nil
}

type PlayCmd struct {
	RuleFlags

	Name       string `kong:"help='Player name (overrides config)'"`
	Difficulty string `kong:"short='d',help='AI difficulty: easy, medium or hard (overrides config)'"`
	Seed       *int64 `kong:"help='Deterministic RNG seed (optional)'"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	if err := c.RuleFlags.apply(cfg); err != nil {
		return err
	}
	if name := strings.TrimSpace(c.Name); name != "" {
		cfg.Player.Name = name
	}
	if c.Difficulty != "" {
		cfg.Player.Difficulty = c.Difficulty
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := shared.SetupFileLogger(g.LogFile, g.Debug)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer closeLog()

	deck, brain := randutil.NewSecure(), randutil.NewSecure()
	if c.Seed != nil {
		logger.Info("Using deterministic seed", "seed", *c.Seed)
		deck, brain = randutil.New(*c.Seed), randutil.New(*c.Seed+1)
	}

	engine := ai.NewEngine(brain, ai.WithLogger(logger))
	gm := game.New(game.WithSource(deck), game.WithLogger(logger), game.WithAgent(engine))
	table := tui.NewLocalTable(gm, cfg.PlayerName(), cfg.Difficulty(), cfg.OptionalRules())

	ctx := shared.SetupSignalHandler(logger)
	return tui.Run(ctx, table, logger)
}

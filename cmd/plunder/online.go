package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/qballcreative/plunder/cmd/plunder/shared"
	"github.com/qballcreative/plunder/internal/config"
	"github.com/qballcreative/plunder/internal/game"
	"github.com/qballcreative/plunder/internal/netplay"
	"github.com/qballcreative/plunder/internal/relay"
	"github.com/qballcreative/plunder/internal/roomcode"
	"github.com/qballcreative/plunder/internal/tui"
)

const (
	superviseInterval = 250 * time.Millisecond
	connectTimeout    = 5 * time.Minute
)

// onlineTable is a network session as seen by the terminal client. The host
// starts a rematch when next is played after the match is over.
type onlineTable struct {
	*netplay.Session
	rules game.OptionalRules
}

func (t *onlineTable) NextRound() error {
	st := t.Status()
	if st.Role == netplay.RoleHost && t.GameState().Phase == game.PhaseGameEnd {
		return t.StartGame(t.rules)
	}
	return t.Session.NextRound()
}

// supervise keeps the session going: the host deals once the guest is
// ready, and a dropped peer is reconnected on the same code.
func supervise(ctx context.Context, t *onlineTable, clock quartz.Clock, logger *log.Logger) {
	ticker := clock.NewTicker(superviseInterval, "supervise")
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		st := t.Status()
		switch {
		case st.State == netplay.StateDisconnected:
			logger.Warn("Peer lost, reconnecting", "code", st.Code)
			rctx, cancel := context.WithTimeout(ctx, connectTimeout)
			if err := t.Reconnect(rctx); err != nil && ctx.Err() == nil {
				logger.Error("Reconnect failed", "error", err)
			}
			cancel()
		case st.State == netplay.StateConnected && st.Role == netplay.RoleHost &&
			st.OpponentReady && t.GameState().Phase == game.PhaseLobby:
			if err := t.StartGame(t.rules); err != nil {
				logger.Error("Failed to start game", "error", err)
			}
		}
	}
}

// playOnline opens the session with connect, then hands the terminal to
// the client until the player quits.
func playOnline(g *Globals, cfg *config.Config, connect func(ctx context.Context, s *netplay.Session) error) error {
	logger, closeLog, err := shared.SetupFileLogger(g.LogFile, g.Debug)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(shared.SetupSignalHandler(logger))
	defer cancel()

	transport := relay.NewTransport(cfg.Network.RelayURL, logger)
	session := netplay.NewSession(transport, nil,
		netplay.WithLogger(logger),
		netplay.WithHeartbeat(cfg.PingInterval(), cfg.Network.MaxMissedPings))
	defer session.Disconnect()

	cctx, ccancel := context.WithTimeout(ctx, connectTimeout)
	err = connect(cctx, session)
	ccancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("no opponent arrived within %s", connectTimeout)
		}
		return err
	}

	table := &onlineTable{Session: session, rules: cfg.OptionalRules()}
	go supervise(ctx, table, quartz.NewReal(), logger)
	return tui.Run(ctx, table, logger)
}

type HostCmd struct {
	RuleFlags

	Name  string `kong:"help='Player name (overrides config)'"`
	Code  string `kong:"help='Room code to host on (generated when empty)'"`
	Relay string `kong:"help='Relay URL (overrides config)'"`
}

func (c *HostCmd) Run(g *Globals) error {
	cfg, err := onlineConfig(g, c.Name, c.Relay)
	if err != nil {
		return err
	}
	if err := c.RuleFlags.apply(cfg); err != nil {
		return err
	}

	code := roomcode.Normalize(c.Code)
	if code == "" {
		code = roomcode.Generate()
	}
	if err := roomcode.Validate(code); err != nil {
		return err
	}
	fmt.Printf("Room code: %s\nWaiting for your opponent to join via %s ...\n", code, cfg.Network.RelayURL)

	return playOnline(g, cfg, func(ctx context.Context, s *netplay.Session) error {
		return s.Host(ctx, cfg.PlayerName(), code)
	})
}

type JoinCmd struct {
	Code  string `kong:"arg,help='Room code shared by the host'"`
	Name  string `kong:"help='Player name (overrides config)'"`
	Relay string `kong:"help='Relay URL (overrides config)'"`
}

func (c *JoinCmd) Run(g *Globals) error {
	cfg, err := onlineConfig(g, c.Name, c.Relay)
	if err != nil {
		return err
	}
	fmt.Printf("Joining %s via %s ...\n", roomcode.Normalize(c.Code), cfg.Network.RelayURL)

	return playOnline(g, cfg, func(ctx context.Context, s *netplay.Session) error {
		return s.Join(ctx, cfg.PlayerName(), c.Code)
	})
}

func onlineConfig(g *Globals, name, relayURL string) (*config.Config, error) {
	cfg, err := g.LoadConfig()
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name != "" {
		cfg.Player.Name = name
	}
	if relayURL = strings.TrimSpace(relayURL); relayURL != "" {
		cfg.Network.RelayURL = relayURL
	}
	return cfg, nil
}

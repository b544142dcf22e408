package main

import (
	"strings"

	"github.com/qballcreative/plunder/cmd/plunder/shared"
	"github.com/qballcreative/plunder/internal/relay"
)

type RelayCmd struct {
	Addr string `kong:"help='Listen address (overrides config)'"`
}

func (c *RelayCmd) Run(g *Globals) error {
	logger := shared.SetupLogger(g.Debug)

	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	addr := cfg.Relay.Address
	if a := strings.TrimSpace(c.Addr); a != "" {
		addr = a
	}

	ctx := shared.SetupSignalHandler(logger)
	return relay.NewServer(addr, logger).ListenAndServe(ctx)
}

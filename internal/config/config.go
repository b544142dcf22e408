// Package config loads plunder's HCL configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/qballcreative/plunder/internal/game"
	"github.com/qballcreative/plunder/internal/netplay"
	"github.com/qballcreative/plunder/internal/sanitize"
)

// Config is the complete client and relay configuration.
type Config struct {
	Player  PlayerSettings
	Rules   RuleSettings
	Network NetworkSettings
	Relay   RelaySettings
}

// PlayerSettings describes the local player.
type PlayerSettings struct {
	Name       string `hcl:"name,optional"`
	Difficulty string `hcl:"difficulty,optional"`
}

// RuleSettings selects the optional rules for games this player starts.
type RuleSettings struct {
	Storm         bool `hcl:"storm,optional"`
	PirateRaid    bool `hcl:"pirate_raid,optional"`
	TreasureChest bool `hcl:"treasure_chest,optional"`
}

// NetworkSettings configures the peer connection.
type NetworkSettings struct {
	RelayURL       string `hcl:"relay_url,optional"`
	PingIntervalMS int    `hcl:"ping_interval_ms,optional"`
	MaxMissedPings int    `hcl:"max_missed_pings,optional"`
}

// RelaySettings configures `plunder relay`.
type RelaySettings struct {
	Address string `hcl:"address,optional"`
}

// file mirrors the HCL layout. Every block is optional; unknown settings
// are rejected by the decoder.
type file struct {
	Player  *PlayerSettings  `hcl:"player,block"`
	Rules   *RuleSettings    `hcl:"rules,block"`
	Network *NetworkSettings `hcl:"network,block"`
	Relay   *RelaySettings   `hcl:"relay,block"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Player: PlayerSettings{
			Name:       sanitize.DefaultPlayerName,
			Difficulty: string(game.Medium),
		},
		Network: NetworkSettings{
			RelayURL:       "http://localhost:8080",
			PingIntervalMS: int(netplay.DefaultPingInterval / time.Millisecond),
			MaxMissedPings: netplay.DefaultMaxMissedPings,
		},
		Relay: RelaySettings{
			Address: ":8080",
		},
	}
}

// Load reads filename. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(f.Body)
}

// Parse decodes configuration from HCL source. filename is only used in
// diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(f.Body)
}

func decode(body hcl.Body) (*Config, error) {
	var raw file
	if diags := gohcl.DecodeBody(body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	cfg := Default()
	if raw.Player != nil {
		if raw.Player.Name != "" {
			cfg.Player.Name = raw.Player.Name
		}
		if raw.Player.Difficulty != "" {
			cfg.Player.Difficulty = raw.Player.Difficulty
		}
	}
	if raw.Rules != nil {
		cfg.Rules = *raw.Rules
	}
	if raw.Network != nil {
		if raw.Network.RelayURL != "" {
			cfg.Network.RelayURL = raw.Network.RelayURL
		}
		if raw.Network.PingIntervalMS != 0 {
			cfg.Network.PingIntervalMS = raw.Network.PingIntervalMS
		}
		if raw.Network.MaxMissedPings != 0 {
			cfg.Network.MaxMissedPings = raw.Network.MaxMissedPings
		}
	}
	if raw.Relay != nil && raw.Relay.Address != "" {
		cfg.Relay.Address = raw.Relay.Address
	}
	return cfg, nil
}

// Validate checks the configuration for values the game cannot use.
func (c *Config) Validate() error {
	if _, ok := game.ParseDifficulty(c.Player.Difficulty); !ok {
		return fmt.Errorf("player: invalid difficulty %q", c.Player.Difficulty)
	}
	if c.Network.PingIntervalMS < 100 {
		return fmt.Errorf("network: ping_interval_ms must be at least 100, got %d", c.Network.PingIntervalMS)
	}
	if c.Network.MaxMissedPings < 1 {
		return fmt.Errorf("network: max_missed_pings must be positive, got %d", c.Network.MaxMissedPings)
	}
	if c.Network.RelayURL == "" {
		return fmt.Errorf("network: relay_url is required")
	}
	if c.Relay.Address == "" {
		return fmt.Errorf("relay: address is required")
	}
	return nil
}

// PlayerName returns the configured name, sanitized.
func (c *Config) PlayerName() string {
	return sanitize.PlayerName(c.Player.Name)
}

// Difficulty returns the configured AI difficulty.
func (c *Config) Difficulty() game.Difficulty {
	d, _ := game.ParseDifficulty(c.Player.Difficulty)
	return d
}

// OptionalRules returns the configured rule variants.
func (c *Config) OptionalRules() game.OptionalRules {
	return game.OptionalRules{
		StormRule:     c.Rules.Storm,
		PirateRaid:    c.Rules.PirateRaid,
		TreasureChest: c.Rules.TreasureChest,
	}
}

// PingInterval returns the heartbeat interval.
func (c *Config) PingInterval() time.Duration {
	return time.Duration(c.Network.PingIntervalMS) * time.Millisecond
}

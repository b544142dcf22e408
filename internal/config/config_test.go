package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/qballcreative/plunder/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "plunder.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2*time.Second, cfg.PingInterval())
	assert.Equal(t, game.Medium, cfg.Difficulty())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plunder.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
player {
  name       = "Anne Bonny"
  difficulty = "hard"
}

rules {
  storm       = true
  pirate_raid = true
}

network {
  relay_url        = "https://relay.example.com"
  ping_interval_ms = 1500
}

relay {
  address = "0.0.0.0:9000"
}
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Anne Bonny", cfg.PlayerName())
	assert.Equal(t, game.Hard, cfg.Difficulty())
	assert.Equal(t, game.OptionalRules{StormRule: true, PirateRaid: true}, cfg.OptionalRules())
	assert.Equal(t, "https://relay.example.com", cfg.Network.RelayURL)
	assert.Equal(t, 1500*time.Millisecond, cfg.PingInterval())
	assert.Equal(t, 3, cfg.Network.MaxMissedPings, "unset values keep their default")
	assert.Equal(t, "0.0.0.0:9000", cfg.Relay.Address)
}

func TestParsePartial(t *testing.T) {
	cfg, err := Parse([]byte(`rules { treasure_chest = true }`), "inline.hcl")
	require.NoError(t, err)
	assert.Equal(t, game.OptionalRules{TreasureChest: true}, cfg.OptionalRules())
	assert.Equal(t, Default().Player, cfg.Player)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"syntax":        `player {`,
		"unknown block": `crew { size = 4 }`,
		"unknown field": `player { parrot = true }`,
		"wrong type":    `network { ping_interval_ms = "soon" }`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src), "bad.hcl")
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"difficulty", func(c *Config) { c.Player.Difficulty = "legendary" }},
		{"ping interval", func(c *Config) { c.Network.PingIntervalMS = 10 }},
		{"missed pings", func(c *Config) { c.Network.MaxMissedPings = -1 }},
		{"relay url", func(c *Config) { c.Network.RelayURL = "" }},
		{"relay address", func(c *Config) { c.Relay.Address = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestPlayerNameIsSanitized(t *testing.T) {
	cfg, err := Parse([]byte(`player { name = "<i>Calico</i> Jack!" }`), "inline.hcl")
	require.NoError(t, err)
	assert.Equal(t, "Calico Jack", cfg.PlayerName())
}

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/qballcreative/plunder/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are the flags shared by every command.
type Globals struct {
	Config  string `kong:"default='plunder.hcl',env='PLUNDER_CONFIG',help='HCL configuration file'"`
	Debug   bool   `kong:"env='PLUNDER_DEBUG',help='Enable debug logging'"`
	LogFile string `kong:"env='PLUNDER_LOG_FILE',help='Log file for the terminal client (discarded when empty)'"`
}

// LoadConfig reads the configured file, falling back to defaults when it is
// missing.
func (g *Globals) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" help:"Play against the AI"`
	Host     HostCmd          `cmd:"" help:"Host an online game and wait for a guest"`
	Join     JoinCmd          `cmd:"" help:"Join an online game by room code"`
	Relay    RelayCmd         `cmd:"" help:"Run the websocket relay that pairs players"`
	Simulate SimulateCmd      `cmd:"" help:"Run AI-vs-AI matches and report statistics"`
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "plunder: loading .env: %v\n", err)
		os.Exit(1)
	}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("plunder"),
		kong.Description("Pirate trading card game for two players"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

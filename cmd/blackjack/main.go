package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are shared by every subcommand. Set flags win over the
// environment.
type Globals struct {
	EnvFile  []string `name:"env-file" help:"Load environment from these .env files (default ./.env)"`
	LogLevel string   `help:"Log level (debug|info|warn|error), overrides LOG_LEVEL"`
	Seed     uint64   `help:"Deterministic shuffle seed, overrides BLACKJACK_SEED (0 = random)"`
}

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Play    PlayCmd          `cmd:"" default:"1" help:"Play blackjack in the terminal"`
	Bot     BotCmd           `cmd:"" help:"Run the Telegram bot"`
	Top     TopCmd           `cmd:"" help:"Show the leaderboard"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Blackjack for the terminal and Telegram"),
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

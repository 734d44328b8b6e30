package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Serve    ServeCmd         `cmd:"" help:"Serve the browser UI and game API"`
	Play     PlayCmd          `cmd:"" help:"Play a game in the terminal"`
	Card     CardCmd          `cmd:"" help:"Print a generated board"`
	Simulate SimulateCmd      `cmd:"" help:"Play many games and report line statistics"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("bingo"),
		kong.Description("Single-player bingo with a web and terminal UI"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Serve    ServeCmd         `cmd:"" help:"Run the WebSocket game server"`
	Validate ValidateCmd      `cmd:"" help:"Validate fixed-layout files"`
	Simulate SimulateCmd      `cmd:"" help:"Play random games and report outcome rates"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("treasuresweep"),
		kong.Description("Minesweeper with buried treasure, served over WebSocket"),
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

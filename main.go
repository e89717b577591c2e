package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/akasprzok/pulse/internal/commands"
)

func main() {
	// Optional .env with PULSE_* settings. Real env vars win.
	_ = godotenv.Load()

	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("pulse"),
		kong.Description("Interactive heart-rate charts in the terminal, as files and over HTTP."),
		kong.UsageOnError(),
	)

	runCtx, closer, err := cli.NewContext(ctx.Command())
	ctx.FatalIfErrorf(err)
	defer closer.Close()

	// Call the Run() method of the selected parsed command.
	err = ctx.Run(runCtx)
	ctx.FatalIfErrorf(err)
}

package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/autobuilder/cmd/autobuilder/commands"
	abErrors "git.home.luguber.info/inful/autobuilder/internal/errors"
	"git.home.luguber.info/inful/autobuilder/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{Stdout: os.Stdout}

	ctx := kong.Parse(cli,
		kong.Name("autobuilder"),
		kong.Description("Dispatch Unity player builds for Windows, Android and WebGL"),
		kong.UsageOnError(),
		kong.Bind(global),
		kong.Vars{"version": version.String()},
	)
	global.Logger = slog.Default()

	if err := ctx.Run(global, cli); err != nil {
		abErrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}

package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/tapsite/cmd/tapsite/commands"
	"git.home.luguber.info/inful/tapsite/internal/foundation/errors"
	"git.home.luguber.info/inful/tapsite/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("tapsite"),
		kong.Description("Generate a static HTML site from DCTAP profile collections."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)

	global := &commands.Global{Logger: slog.Default()}
	if err := parser.Run(global, cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}

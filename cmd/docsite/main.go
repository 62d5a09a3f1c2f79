package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsite/cmd/docsite/commands"
	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("docsite"),
		kong.Description("Build a static documentation website from a source tree."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	if err := parser.Run(&commands.Global{Logger: slog.Default()}, cli); err != nil {
		derrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}

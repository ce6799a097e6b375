package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/snipdoc/cmd/snipdoc/commands"
	"git.home.luguber.info/inful/snipdoc/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("snipdoc"),
		kong.Description("Verified code snippets for Markdown documentation"),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)
	ctx.FatalIfErrorf(ctx.Run(&commands.Global{}, cli))
}

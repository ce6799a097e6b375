package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/snipdoc/internal/build"
	"git.home.luguber.info/inful/snipdoc/internal/config"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory for the rendered site (overrides config)"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	report, err := build.New(cfg).Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Built %d documents (%d snippets) in %s\n",
		report.Documents, report.Snippets, report.Duration.Round(reportPrecision))
	return nil
}

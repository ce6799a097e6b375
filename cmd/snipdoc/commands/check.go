package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/snipdoc/internal/build"
	"git.home.luguber.info/inful/snipdoc/internal/config"
)

const reportPrecision = time.Millisecond

// CheckCmd implements the 'check' command: a build without output,
// suitable for CI.
type CheckCmd struct{}

func (c *CheckCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	report, err := build.New(cfg).Check(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Checked %d documents (%d snippets, %d diagnostics) in %s\n",
		report.Documents, report.Snippets, report.Diagnostics, report.Duration.Round(reportPrecision))
	return nil
}

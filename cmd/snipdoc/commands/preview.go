package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/snipdoc/internal/config"
	"git.home.luguber.info/inful/snipdoc/internal/metrics"
	"git.home.luguber.info/inful/snipdoc/internal/preview"
)

// PreviewCmd serves the rendered site locally, rebuilding on changes.
type PreviewCmd struct {
	Port int `name:"port" help:"Preview server port (overrides config)"`
}

func (p *PreviewCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if p.Port != 0 {
		cfg.Preview.Port = p.Port
	}

	opts := []preview.Option{}
	if cfg.Preview.Metrics {
		rec := metrics.NewPrometheusRecorder(nil)
		opts = append(opts, preview.WithRecorder(rec), preview.WithMetricsHandler(rec.Handler()))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return preview.New(cfg, opts...).Run(ctx)
}

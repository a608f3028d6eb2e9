package cli

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/rileyhilliard/pulse/internal/config"
	"github.com/rileyhilliard/pulse/internal/errors"
	"github.com/rileyhilliard/pulse/internal/exporter"
	"github.com/rileyhilliard/pulse/internal/logger"
)

// serveCommand polls continuously and serves the exporter until ctx is cancelled.
func serveCommand(ctx context.Context, listen string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if listen != "" {
		cfg.Listen = listen
		if err := config.Validate(cfg); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Invalid --listen address "+listen,
				"Use host:port, e.g. --listen 127.0.0.1:9273")
		}
	}

	log := logger.Default()
	exp := exporter.New()

	// Tick spans feed the exporter's duration and panic metrics.
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(exp.SpanProcessor()))
	defer func() { _ = tp.Shutdown(context.WithoutCancel(ctx)) }()

	opts := cfg.ToOptions()
	opts.TracerProvider = tp
	poller, err := newPoller(ctx, opts, log)
	if err != nil {
		return err
	}

	poller.Subscribe(exp.Update)
	poller.Start(ctx)
	defer poller.Stop()

	return exp.Serve(ctx, cfg.Listen, log)
}

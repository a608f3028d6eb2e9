package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rileyhilliard/pulse/internal/logger"
	"github.com/rileyhilliard/pulse/internal/ui"
)

// statusCommand prints the status-indicator line once per tick until ctx is
// cancelled. With once, it prints a single measured line.
func statusCommand(ctx context.Context, w io.Writer, once bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	poller, err := newPoller(ctx, cfg.ToOptions(), logger.Default())
	if err != nil {
		return err
	}
	status := ui.NewStatusIndicator(cfg.DisplayMode(), cfg.ShowSparkline)

	if once {
		snap, err := takeSnapshot(ctx, poller, snapshotTicks)
		if err != nil {
			return err
		}
		_ = status.Update(snap)
		_, err = fmt.Fprintln(w, status.Text())
		return err
	}

	h, updates := poller.SubscribeChan()
	poller.Start(ctx)
	defer func() {
		poller.Unsubscribe(h)
		poller.Stop()
	}()

	// The channel closes when ctx is cancelled and the loop exits.
	for snap := range updates {
		_ = status.Update(snap)
		if _, err := fmt.Fprintln(w, status.Text()); err != nil {
			return err
		}
	}
	return nil
}

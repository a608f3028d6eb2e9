package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rileyhilliard/pulse/internal/logger"
	"github.com/rileyhilliard/pulse/internal/panel"
)

// snapshotCommand takes one measured snapshot and prints it.
func snapshotCommand(ctx context.Context, w io.Writer, asJSON bool) error {
	err := writeSnapshot(ctx, w, asJSON)
	if err != nil && asJSON {
		_ = WriteJSONFromError(w, err)
	}
	return err
}

func writeSnapshot(ctx context.Context, w io.Writer, asJSON bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Logs go to stderr, so stdout stays parseable with --json.
	poller, err := newPoller(ctx, cfg.ToOptions(), logger.Default())
	if err != nil {
		return err
	}

	snap, err := takeSnapshot(ctx, poller, snapshotTicks)
	if err != nil {
		return err
	}

	if asJSON {
		return WriteJSONSuccess(w, snap)
	}
	_, err = fmt.Fprintln(w, panel.Render(snap))
	return err
}

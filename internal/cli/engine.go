package cli

import (
	"context"

	"github.com/rileyhilliard/pulse/internal/config"
	"github.com/rileyhilliard/pulse/internal/errors"
	"github.com/rileyhilliard/pulse/internal/logger"
	"github.com/rileyhilliard/pulse/internal/monitor"
)

// snapshotTicks is how many ticks a one-shot command waits for. The first
// tick only seeds the network counters, so rates need a second.
const snapshotTicks = 2

// newHost supplies the capabilities the poller reads. Tests replace it.
var newHost = monitor.LocalHost

// loadConfig resolves the config file and applies --interval on top.
func loadConfig() (*config.Config, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile, logger.Default())
	if err != nil {
		return nil, err
	}
	if path != "" {
		logger.Default().Debug("config: %s", path)
	}

	d, err := ParseIntervalFlag(intervalFlag)
	if err != nil {
		return nil, err
	}
	if d > 0 {
		cfg.UpdateInterval = d
	}
	return cfg, nil
}

// newPoller wires a stopped poller over newHost.
func newPoller(ctx context.Context, opts monitor.Options, log logger.Logger) (*monitor.Poller, error) {
	return monitor.NewHostPoller(ctx, newHost(), opts, log)
}

// takeSnapshot runs poller for ticks ticks and returns the last snapshot.
// The poller is stopped before returning.
func takeSnapshot(ctx context.Context, poller *monitor.Poller, ticks int) (monitor.Snapshot, error) {
	h, updates := poller.SubscribeChan()
	poller.Start(ctx)
	defer func() {
		poller.Unsubscribe(h)
		poller.Stop()
	}()

	var snap monitor.Snapshot
	for i := 0; i < ticks; i++ {
		select {
		case s, ok := <-updates:
			if !ok {
				return monitor.Snapshot{}, errors.New(errors.ErrSource,
					"Snapshot cancelled before it completed", "")
			}
			snap = s
		case <-ctx.Done():
			return monitor.Snapshot{}, errors.WrapWithCode(ctx.Err(), errors.ErrSource,
				"Snapshot cancelled before it completed", "")
		}
	}
	return snap, nil
}

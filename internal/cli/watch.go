package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/pulse/internal/errors"
	"github.com/rileyhilliard/pulse/internal/logger"
	"github.com/rileyhilliard/pulse/internal/panel"
	"github.com/rileyhilliard/pulse/internal/ui"
)

// debugLogFile receives log output while the panel owns the terminal.
const debugLogFile = "pulse-debug.log"

// watchCommand runs the detail panel until the user quits or ctx is cancelled.
func watchCommand(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Anything written to stderr would tear the alt screen.
	log := logger.Noop()
	if verbose {
		f, err := tea.LogToFile(debugLogFile, "")
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't open "+debugLogFile,
				"Run from a writable directory, or drop --verbose")
		}
		defer f.Close()
		log = logger.NewWriterLogger(f, "", true)
	}

	poller, err := newPoller(ctx, cfg.ToOptions(), log)
	if err != nil {
		return err
	}
	status := ui.NewStatusIndicator(cfg.DisplayMode(), cfg.ShowSparkline)

	poller.Start(ctx)
	defer poller.Stop()

	return panel.Run(ctx, poller, status, tea.WithAltScreen())
}

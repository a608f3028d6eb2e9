// Package panel implements the on-demand detail view: a Bubble Tea program
// that renders every snapshot the poller publishes.
package panel

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/pulse/internal/errors"
	"github.com/rileyhilliard/pulse/internal/monitor"
	"github.com/rileyhilliard/pulse/internal/ui"
)

// Run shows the panel until the user quits, ctx is cancelled, or the
// poller stops. The poller must already be started, or be started by the
// caller after Run subscribes.
func Run(ctx context.Context, poller *monitor.Poller, status *ui.StatusIndicator, opts ...tea.ProgramOption) error {
	h, updates := poller.SubscribeChan()
	defer poller.Unsubscribe(h)

	model := NewModel(updates, status)
	if snap, ok := poller.Latest(); ok {
		model.snap = &snap
		_ = model.status.Update(snap)
	}

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(model, opts...)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return errors.WrapWithCode(err, errors.ErrSource,
			"Detail panel failed",
			"Run pulse from an interactive terminal, or use 'pulse status' instead.")
	}
	return nil
}

package panel

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/pulse/internal/monitor"
	"github.com/rileyhilliard/pulse/internal/ui"
)

// Model is the Bubble Tea model for the detail panel. It renders the
// latest snapshot received on its updates channel.
type Model struct {
	updates <-chan monitor.Snapshot
	snap    *monitor.Snapshot
	status  *ui.StatusIndicator
	keys    keyMap
	help    help.Model
	width   int
	closed  bool
}

// snapshotMsg carries a snapshot from the poller.
type snapshotMsg monitor.Snapshot

// updatesClosedMsg signals that the poller stopped.
type updatesClosedMsg struct{}

// NewModel creates a panel reading from updates. status may be nil.
func NewModel(updates <-chan monitor.Snapshot, status *ui.StatusIndicator) Model {
	if status == nil {
		status = ui.NewStatusIndicator(ui.DisplayCPU, false)
	}
	return Model{
		updates: updates,
		status:  status,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

// Init starts listening for snapshots.
func (m Model) Init() tea.Cmd {
	return waitForSnapshot(m.updates)
}

// waitForSnapshot blocks on the next snapshot. The poll loop never waits on
// this; the channel is backed by an unbounded mailbox.
func waitForSnapshot(updates <-chan monitor.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return updatesClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

// Update handles snapshots, keys, and resizes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		snap := monitor.Snapshot(msg)
		m.snap = &snap
		_ = m.status.Update(snap)
		return m, waitForSnapshot(m.updates)

	case updatesClosedMsg:
		m.closed = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Sparkline):
			m.status.ToggleSparkline()
			return m, nil
		case key.Matches(msg, m.keys.Mode):
			m.status.CycleMode()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	return m, nil
}

// Snapshot returns the snapshot being displayed, if any.
func (m Model) Snapshot() (monitor.Snapshot, bool) {
	if m.snap == nil {
		return monitor.Snapshot{}, false
	}
	return *m.snap, true
}

// Closed reports whether the updates channel has closed.
func (m Model) Closed() bool {
	return m.closed
}

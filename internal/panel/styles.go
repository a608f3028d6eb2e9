package panel

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/pulse/internal/ui"
)

// Layout constants.
const (
	panelWidth     = 48
	labelWidth     = 8
	barWidth       = 28
	procNameWidth  = 24
	sparklineWidth = 30
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ui.ColorSecondary)

	labelStyle = lipgloss.NewStyle().
			Width(labelWidth).
			Foreground(ui.ColorPrimary)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ui.ColorPrimary)

	dimStyle = lipgloss.NewStyle().
			Foreground(ui.ColorMuted)

	separator = dimStyle.Render(strings.Repeat("─", panelWidth))
)

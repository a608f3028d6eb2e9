package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Progress bar block characters.
const (
	progressFilled = '█'
	progressEmpty  = '░'
)

// RenderProgressBar creates a bar of the given width followed by the
// percentage: ████████░░░░  67%
// percent is clamped to 0-100. The bar is colored with LoadColor.
func RenderProgressBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}

	if percent < 0 {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}

	filledCount := int((percent / 100.0) * float64(width))
	emptyCount := width - filledCount

	var sb strings.Builder
	sb.Grow(width * 3)
	for i := 0; i < filledCount; i++ {
		sb.WriteRune(progressFilled)
	}
	for i := 0; i < emptyCount; i++ {
		sb.WriteRune(progressEmpty)
	}

	style := lipgloss.NewStyle().Foreground(LoadColor(percent))
	return style.Render(sb.String()) + fmt.Sprintf(" %3.0f%%", percent)
}

// RenderUnavailableBar renders an empty bar labelled N/A.
func RenderUnavailableBar(width int) string {
	if width <= 0 {
		return ""
	}
	bar := strings.Repeat(string(progressEmpty), width)
	return lipgloss.NewStyle().Foreground(ColorMuted).Render(bar + "  N/A")
}

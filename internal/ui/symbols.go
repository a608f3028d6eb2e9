package ui

import "github.com/charmbracelet/lipgloss"

// Status symbols for command output
const (
	SymbolSuccess = "✓"
	SymbolFail    = "✗"
	SymbolWarning = "⚠"
)

// Success prefixes msg with a green check.
func Success(msg string) string {
	return lipgloss.NewStyle().Foreground(ColorSuccess).Render(SymbolSuccess) + " " + msg
}

// Warning prefixes msg with a yellow warning sign.
func Warning(msg string) string {
	return lipgloss.NewStyle().Foreground(ColorWarning).Render(SymbolWarning) + " " + msg
}

// Package ui renders pulse snapshots as styled terminal text.
//
// # Components Overview
//
//	StatusIndicator - one-line load summary for a status bar or terminal title
//	Progress bars   - percentage bars with color thresholds
//	Sparkline       - mini graphs for rolling history
//
// # Color Scheme
//
// Colors are ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - light load
//	ColorWarning   (yellow) - moderate load
//	ColorError     (red)    - heavy load
//	ColorInfo      (cyan)   - download traffic
//	ColorAccent    (magenta) - upload traffic
//	ColorMuted     (gray)   - labels, unavailable values
//
// Rendering honours the lipgloss color profile, so --no-color output is
// plain text.
package ui

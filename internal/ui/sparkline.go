package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline block characters representing 8 vertical levels (lowest to highest).
const sparklineBlocks = "▁▂▃▄▅▆▇█"

// sparklineBlockRunes provides indexed access to block characters.
var sparklineBlockRunes = []rune(sparklineBlocks)

// RenderSparkline creates a sparkline of percentages from the most recent
// width values. Values are scaled between the window's min and max, and the
// whole line is colored by the last value's threshold (green below 60,
// yellow below 80, red otherwise).
func RenderSparkline(data []float64, width int) string {
	line := sparkline(data, width, 0, false)
	if line == "" {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}
	color := getThresholdColor(data[len(data)-1])
	return lipgloss.NewStyle().Foreground(color).Render(line)
}

// MinRateScale is the smallest peak a rate sparkline scales to (1 KB/s), so
// a near-idle link does not fill the graph with noise.
const MinRateScale = 1024.0

// RenderRateSparkline renders throughput history in a fixed color. Values are
// scaled from zero to the window's peak, or MinRateScale if that is larger.
func RenderRateSparkline(data []float64, width int, color lipgloss.Color) string {
	line := sparkline(data, width, MinRateScale, true)
	if line == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(color).Render(line)
}

// sparkline builds the raw block string. With zeroBased the scale runs from 0
// to max(peak, minPeak); otherwise from the window's min to max.
func sparkline(data []float64, width int, minPeak float64, zeroBased bool) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	// Use only the most recent 'width' data points
	if len(data) > width {
		data = data[len(data)-width:]
	}

	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if zeroBased {
		minVal = 0
		if maxVal < minPeak {
			maxVal = minPeak
		}
	}

	var sb strings.Builder
	sb.Grow(len(data) * 3)

	numLevels := len(sparklineBlockRunes)
	valueRange := maxVal - minVal

	for _, v := range data {
		var level int
		if valueRange == 0 {
			// All values are the same, use middle level
			level = numLevels / 2
		} else {
			normalized := (v - minVal) / valueRange
			level = int(normalized * float64(numLevels-1))
			if level < 0 {
				level = 0
			} else if level >= numLevels {
				level = numLevels - 1
			}
		}
		sb.WriteRune(sparklineBlockRunes[level])
	}

	return sb.String()
}

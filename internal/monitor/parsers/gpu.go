// Package parsers extracts single values from the text output of host tools.
package parsers

import (
	"regexp"
	"strconv"
	"strings"
)

// IORegPatterns are the utilization counter names Apple GPUs report through
// `ioreg -r -d 1 -c AGXAccelerator`, most specific first. Different chip
// generations expose different names; the first one present wins.
var IORegPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"gpu-core-utilization-%"\s*=\s*(\d+)`),
	regexp.MustCompile(`"gpu-utilization-%"\s*=\s*(\d+)`),
	regexp.MustCompile(`"Device Utilization %"\s*=\s*(\d+)`),
}

// ParseIORegUtilization returns the GPU utilization percentage from ioreg
// output, or false if none of IORegPatterns match.
func ParseIORegUtilization(output string) (int, bool) {
	return MatchFirst(output, IORegPatterns)
}

// MatchFirst tries patterns in order and returns the integer captured by the
// first one that matches. Each pattern must have one capture group.
func MatchFirst(output string, patterns []*regexp.Regexp) (int, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(output)
		if len(m) < 2 {
			continue
		}
		v, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return clampPercent(v), true
	}
	return 0, false
}

// ParseNvidiaSMIUtilization parses the first GPU's utilization from
// nvidia-smi --query-gpu=utilization.gpu --format=csv,noheader,nounits.
// Returns false for empty output, error text, or "[N/A]".
func ParseNvidiaSMIUtilization(output string) (int, bool) {
	output = strings.TrimSpace(output)
	if output == "" {
		return 0, false
	}

	lower := strings.ToLower(output)
	if strings.Contains(lower, "no devices") ||
		strings.Contains(lower, "not found") ||
		strings.Contains(lower, "failed") ||
		strings.Contains(lower, "error") {
		return 0, false
	}

	first := strings.TrimSpace(strings.SplitN(output, "\n", 2)[0])
	if first == "[N/A]" {
		return 0, false
	}

	v, err := strconv.ParseFloat(first, 64)
	if err != nil {
		return 0, false
	}
	return clampPercent(int(v + 0.5)), true
}

func clampPercent(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

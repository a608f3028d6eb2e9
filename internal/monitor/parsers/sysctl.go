package parsers

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCount parses a non-negative integer from `sysctl -n` style output.
func ParseCount(output string) (int, error) {
	s := strings.TrimSpace(output)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("failed to parse count '%s': %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %d", n)
	}
	return n, nil
}

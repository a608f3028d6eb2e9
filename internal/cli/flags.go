package cli

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/pulse/internal/config"
	"github.com/rileyhilliard/pulse/internal/errors"
)

// ParseIntervalFlag parses --interval. Returns zero duration if the flag is empty.
func ParseIntervalFlag(flag string) (time.Duration, error) {
	if flag == "" {
		return 0, nil
	}

	d, err := config.ParseInterval(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid interval", flag),
			"Try something like 2s, 500ms, or 5.")
	}
	if d < config.MinUpdateInterval {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("--interval %v is too short", d),
			fmt.Sprintf("Use at least %v.", config.MinUpdateInterval))
	}
	return d, nil
}

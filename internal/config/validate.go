package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/rileyhilliard/pulse/internal/errors"
	"github.com/rileyhilliard/pulse/internal/ui"
)

const (
	// MinUpdateInterval is the shortest interval accepted from configuration.
	MinUpdateInterval = 100 * time.Millisecond
	// MaxHistoryLen caps the sparkline history.
	MaxHistoryLen = 3600
	// MaxTopProcesses caps the process ranking.
	MaxTopProcesses = 100
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but pulse only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest pulse release.")
	}

	checks := []func(*Config) error{
		validateInterval,
		validateSizes,
		validateTimeouts,
		validateDisplay,
		validateListen,
	}
	for _, check := range checks {
		if err := check(cfg); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check your pulse config file.")
		}
	}
	return nil
}

func validateInterval(cfg *Config) error {
	if cfg.UpdateInterval < MinUpdateInterval {
		return fmt.Errorf("update_interval %v is too short - use at least %v", cfg.UpdateInterval, MinUpdateInterval)
	}
	return nil
}

func validateSizes(cfg *Config) error {
	if cfg.HistoryLen < 1 || cfg.HistoryLen > MaxHistoryLen {
		return fmt.Errorf("history_len needs to be 1-%d (got %d)", MaxHistoryLen, cfg.HistoryLen)
	}
	if cfg.TopProcesses < 1 || cfg.TopProcesses > MaxTopProcesses {
		return fmt.Errorf("top_processes needs to be 1-%d (got %d)", MaxTopProcesses, cfg.TopProcesses)
	}
	return nil
}

func validateTimeouts(cfg *Config) error {
	if cfg.GPUTimeout <= 0 {
		return fmt.Errorf("gpu_timeout needs to be positive (got %v)", cfg.GPUTimeout)
	}
	if cfg.CoreLayoutTimeout <= 0 {
		return fmt.Errorf("core_layout_timeout needs to be positive (got %v)", cfg.CoreLayoutTimeout)
	}
	return nil
}

func validateDisplay(cfg *Config) error {
	_, err := ui.ParseDisplayMode(cfg.MenuBarDisplay)
	if err != nil {
		return fmt.Errorf("menu_bar_display: %w", err)
	}
	return nil
}

func validateListen(cfg *Config) error {
	_, port, err := net.SplitHostPort(cfg.Listen)
	if err != nil {
		return fmt.Errorf("listen '%s' isn't a host:port address", cfg.Listen)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("listen '%s' has an invalid port", cfg.Listen)
	}
	return nil
}

package doctor

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/rileyhilliard/pulse/internal/config"
	"github.com/rileyhilliard/pulse/internal/errors"
)

// NewConfigChecks returns the CONFIG checks for an explicit path, or the
// default location when path is empty.
func NewConfigChecks(path string) []Check {
	return []Check{
		&ConfigFileCheck{ConfigPath: path},
		&ConfigSchemaCheck{ConfigPath: path},
	}
}

// ConfigFileCheck reports which config file is in use. Running on defaults
// is only a warning.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return CategoryConfig }

func (c *ConfigFileCheck) Run(context.Context) CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Error finding config: %v", err),
			Suggestion: "Check the --config path, or run 'pulse config init' to create it",
			Fixable:    c.ConfigPath != "",
		}
	}

	if path == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No config file found, using defaults",
			Suggestion: "Run 'pulse config init' to create " + config.DefaultPath(),
			Fixable:    true,
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Config file: %s", path),
	}
}

// Fix writes a default config where one is missing.
func (c *ConfigFileCheck) Fix() error {
	path := c.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	return config.Save(path, config.DefaultConfig())
}

// ConfigSchemaCheck verifies that the config file parses and validates.
type ConfigSchemaCheck struct {
	ConfigPath string
}

func (c *ConfigSchemaCheck) Name() string     { return "config_schema" }
func (c *ConfigSchemaCheck) Category() string { return CategoryConfig }

func (c *ConfigSchemaCheck) Run(context.Context) CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		// ConfigFileCheck reports this
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: "Cannot validate config: file not found",
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Config can't be loaded, pulse will run on defaults",
			Suggestion: errorDetail(err),
		}
	}

	if err := config.Validate(cfg); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Config has invalid values, pulse will run on defaults",
			Suggestion: errorDetail(err),
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Config valid: every %v, showing %s", cfg.UpdateInterval, cfg.MenuBarDisplay),
	}
}

func (c *ConfigSchemaCheck) Fix() error { return nil }

// errorDetail returns the headline of a structured error, or the plain text
// of any other.
func errorDetail(err error) string {
	var pe *errors.Error
	if stderrors.As(err, &pe) {
		return pe.Message
	}
	return err.Error()
}

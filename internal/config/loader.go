package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/pulse/internal/errors"
	"github.com/rileyhilliard/pulse/internal/logger"
)

const (
	// GlobalConfigDir is the directory for the config file, relative to home.
	GlobalConfigDir = ".config/pulse"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. PULSE_UPDATE_INTERVAL.
	EnvPrefix = "PULSE"
)

// DefaultPath returns ~/.config/pulse/config.yaml, or "" if home is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. ~/.config/pulse/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct, or run 'pulse config init' to create it")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	if p := DefaultPath(); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// Load reads config from path with PULSE_* environment overrides applied.
// An empty path loads defaults plus environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Config file not found",
					"Run 'pulse config init' to create a config file, or specify one with --config")
			}
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML")
		}
	}

	return parseConfig(v, path)
}

// LoadOrDefault resolves and loads the config, like Load(Find(explicit)).
// A file that exists but cannot be parsed or validated is logged at Warn and
// replaced by defaults; a missing explicit path is still an error.
func LoadOrDefault(explicit string, log logger.Logger) (*Config, string, error) {
	log = logger.OrNoop(log)

	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	cfg, err := Load(path)
	if err == nil {
		err = Validate(cfg)
	}
	if err != nil {
		log.Warn("ignoring config %s, using defaults: %v", path, err)
		return DefaultConfig(), path, nil
	}
	return cfg, path, nil
}

// Marshal encodes cfg in the on-disk YAML form.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg.toFile())
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig, "Couldn't encode config", "")
	}
	return data, nil
}

// Save writes cfg to path as YAML, creating parent directories.
func Save(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't create config directory "+filepath.Dir(path),
			"Check directory permissions")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't write config file "+path,
			"Check file permissions")
	}
	return nil
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	where := "the config"
	if path != "" {
		where = path
	}

	interval, err := parseInterval(v.Get("update_interval"))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid update_interval",
			"Use a duration like 2s or 500ms, or a number of seconds, in "+where)
	}

	// Bare numbers decode as nanoseconds, so store the parsed value first.
	v.Set("update_interval", interval)

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+where)
	}

	return cfg, nil
}

// setDefaults registers every key so environment overrides apply on Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("update_interval", d.UpdateInterval.String())
	v.SetDefault("history_len", d.HistoryLen)
	v.SetDefault("top_processes", d.TopProcesses)
	v.SetDefault("gpu_timeout", d.GPUTimeout.String())
	v.SetDefault("core_layout_timeout", d.CoreLayoutTimeout.String())
	v.SetDefault("menu_bar_display", d.MenuBarDisplay)
	v.SetDefault("show_sparkline", d.ShowSparkline)
	v.SetDefault("listen", d.Listen)
}

// parseInterval accepts a duration string ("2s") or a bare number of seconds,
// as YAML number or string.
func parseInterval(raw interface{}) (time.Duration, error) {
	switch val := raw.(type) {
	case time.Duration:
		return val, nil
	case int:
		return time.Duration(val) * time.Second, nil
	case int64:
		return time.Duration(val) * time.Second, nil
	case float64:
		return time.Duration(val * float64(time.Second)), nil
	case string:
		s := strings.TrimSpace(val)
		if secs, err := strconv.ParseFloat(s, 64); err == nil {
			return time.Duration(secs * float64(time.Second)), nil
		}
		return time.ParseDuration(s)
	case nil:
		return DefaultConfig().UpdateInterval, nil
	default:
		return 0, fmt.Errorf("unsupported value %v (%T)", raw, raw)
	}
}

// ParseInterval parses an interval given as a duration ("500ms") or a bare
// number of seconds ("2").
func ParseInterval(s string) (time.Duration, error) {
	return parseInterval(s)
}

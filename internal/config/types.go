package config

import (
	"encoding/json"
	"time"

	"github.com/rileyhilliard/pulse/internal/monitor"
	"github.com/rileyhilliard/pulse/internal/ui"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// DefaultListen is the exporter's default listen address.
const DefaultListen = "127.0.0.1:9273"

// Config represents the complete pulse configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// UpdateInterval is the time between poll ticks.
	UpdateInterval time.Duration `yaml:"update_interval" mapstructure:"update_interval"`

	// HistoryLen is the number of network rate samples kept for sparklines.
	HistoryLen int `yaml:"history_len" mapstructure:"history_len"`

	// TopProcesses is how many processes each snapshot ranks.
	TopProcesses int `yaml:"top_processes" mapstructure:"top_processes"`

	// GPUTimeout bounds all GPU probes in one tick.
	GPUTimeout time.Duration `yaml:"gpu_timeout" mapstructure:"gpu_timeout"`

	// CoreLayoutTimeout bounds each P/E core count query at startup.
	CoreLayoutTimeout time.Duration `yaml:"core_layout_timeout" mapstructure:"core_layout_timeout"`

	// MenuBarDisplay selects the status-line metrics: cpu, cpu+mem, cpu+gpu, or all.
	MenuBarDisplay string `yaml:"menu_bar_display" mapstructure:"menu_bar_display"`

	// ShowSparkline appends a CPU sparkline to the status line.
	ShowSparkline bool `yaml:"show_sparkline" mapstructure:"show_sparkline"`

	// Listen is the exporter's host:port.
	Listen string `yaml:"listen" mapstructure:"listen"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	opts := monitor.DefaultOptions()
	return &Config{
		Version:           CurrentConfigVersion,
		UpdateInterval:    opts.Interval,
		HistoryLen:        opts.HistoryLen,
		TopProcesses:      opts.TopProcesses,
		GPUTimeout:        opts.GPUTimeout,
		CoreLayoutTimeout: opts.CoreLayoutTimeout,
		MenuBarDisplay:    string(ui.DisplayCPU),
		ShowSparkline:     false,
		Listen:            DefaultListen,
	}
}

// ToOptions converts the monitoring keys to poller options.
func (c *Config) ToOptions() monitor.Options {
	return monitor.Options{
		Interval:          c.UpdateInterval,
		HistoryLen:        c.HistoryLen,
		TopProcesses:      c.TopProcesses,
		GPUTimeout:        c.GPUTimeout,
		CoreLayoutTimeout: c.CoreLayoutTimeout,
	}
}

// DisplayMode returns the parsed status-line mode, falling back to cpu.
func (c *Config) DisplayMode() ui.DisplayMode {
	m, err := ui.ParseDisplayMode(c.MenuBarDisplay)
	if err != nil {
		return ui.DisplayCPU
	}
	return m
}

// fileConfig is the on-disk and JSON shape. Durations are written as
// strings ("2s") because yaml.v3 would otherwise emit nanoseconds.
type fileConfig struct {
	Version           int    `yaml:"version" json:"version"`
	UpdateInterval    string `yaml:"update_interval" json:"update_interval"`
	HistoryLen        int    `yaml:"history_len" json:"history_len"`
	TopProcesses      int    `yaml:"top_processes" json:"top_processes"`
	GPUTimeout        string `yaml:"gpu_timeout" json:"gpu_timeout"`
	CoreLayoutTimeout string `yaml:"core_layout_timeout" json:"core_layout_timeout"`
	MenuBarDisplay    string `yaml:"menu_bar_display" json:"menu_bar_display"`
	ShowSparkline     bool   `yaml:"show_sparkline" json:"show_sparkline"`
	Listen            string `yaml:"listen" json:"listen"`
}

// MarshalJSON encodes the config with the same keys and duration strings as the file.
func (c *Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.toFile())
}

func (c *Config) toFile() fileConfig {
	return fileConfig{
		Version:           c.Version,
		UpdateInterval:    c.UpdateInterval.String(),
		HistoryLen:        c.HistoryLen,
		TopProcesses:      c.TopProcesses,
		GPUTimeout:        c.GPUTimeout.String(),
		CoreLayoutTimeout: c.CoreLayoutTimeout.String(),
		MenuBarDisplay:    c.MenuBarDisplay,
		ShowSparkline:     c.ShowSparkline,
		Listen:            c.Listen,
	}
}

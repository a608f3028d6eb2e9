package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pulse/internal/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"minimum interval", func(c *Config) { c.UpdateInterval = MinUpdateInterval }, ""},
		{"interval too short", func(c *Config) { c.UpdateInterval = 50 * time.Millisecond }, "update_interval"},
		{"future version", func(c *Config) { c.Version = CurrentConfigVersion + 1 }, "from the future"},
		{"zero history", func(c *Config) { c.HistoryLen = 0 }, "history_len"},
		{"huge history", func(c *Config) { c.HistoryLen = MaxHistoryLen + 1 }, "history_len"},
		{"zero top processes", func(c *Config) { c.TopProcesses = 0 }, "top_processes"},
		{"zero gpu timeout", func(c *Config) { c.GPUTimeout = 0 }, "gpu_timeout"},
		{"negative layout timeout", func(c *Config) { c.CoreLayoutTimeout = -time.Second }, "core_layout_timeout"},
		{"unknown display", func(c *Config) { c.MenuBarDisplay = "disk" }, "menu_bar_display"},
		{"every display mode", func(c *Config) { c.MenuBarDisplay = "cpu+mem" }, ""},
		{"listen without port", func(c *Config) { c.Listen = "localhost" }, "listen"},
		{"listen bad port", func(c *Config) { c.Listen = "localhost:http" }, "invalid port"},
		{"listen any host", func(c *Config) { c.Listen = ":9273" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	assert.True(t, errors.IsCode(Validate(nil), errors.ErrConfig))
}

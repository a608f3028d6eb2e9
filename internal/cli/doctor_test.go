package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pulse/internal/config"
)

func TestDoctorCommand_Text(t *testing.T) {
	useFakeHost(t)

	var buf bytes.Buffer
	require.NoError(t, doctorCommand(context.Background(), &buf, false, false))

	out := buf.String()
	assert.Contains(t, out, "pulse diagnostic report")
	for _, section := range []string{"CONFIG", "SOURCES", "PROBES"} {
		assert.Contains(t, out, section)
	}
	assert.Contains(t, out, "No config file found, using defaults")
	assert.Contains(t, out, "CPU: 4 logical cores")
	assert.Contains(t, out, "Core layout: 3 P + 1 E")
	assert.Contains(t, out, "GPU 42%")
	assert.Contains(t, out, "issue")
	assert.Contains(t, out, "--fix")
}

func TestDoctorCommand_Fix(t *testing.T) {
	useFakeHost(t)

	var buf bytes.Buffer
	require.NoError(t, doctorCommand(context.Background(), &buf, false, true))

	assert.FileExists(t, config.DefaultPath())
	assert.NotContains(t, buf.String(), "No config file found")
	assert.NotContains(t, buf.String(), "Run with")
}

func TestDoctorCommand_JSON(t *testing.T) {
	useFakeHost(t)
	cfgFile = filepath.Join(t.TempDir(), "missing.yaml")

	var buf bytes.Buffer
	require.NoError(t, doctorCommand(context.Background(), &buf, true, false))

	env := decodeEnvelope(t, &buf)
	require.True(t, env.Success)

	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)

	categories, ok := data["categories"].([]interface{})
	require.True(t, ok)
	require.Len(t, categories, 3)

	first := categories[0].(map[string]interface{})
	assert.Equal(t, "CONFIG", first["name"])
	results := first["results"].([]interface{})
	fileResult := results[0].(map[string]interface{})
	assert.Equal(t, "config_file", fileResult["name"])
	assert.Equal(t, "fail", fileResult["status"])

	summary := data["summary"].(map[string]interface{})
	assert.Equal(t, false, summary["all_clear"])
	assert.GreaterOrEqual(t, summary["fail"], float64(1))
}

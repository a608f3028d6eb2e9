package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pulse/internal/errors"
)

func TestLoadConfig_IntervalFlagOverrides(t *testing.T) {
	useFakeHost(t)
	intervalFlag = "250ms"

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.UpdateInterval)
}

func TestLoadConfig_BadFlag(t *testing.T) {
	useFakeHost(t)
	intervalFlag = "often"

	_, err := loadConfig()
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadConfig_CorruptFileFallsBack(t *testing.T) {
	useFakeHost(t)
	intervalFlag = ""
	cfgFile = filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("history_len: [\n"), 0644))

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.UpdateInterval)
}

func TestTakeSnapshot(t *testing.T) {
	useFakeHost(t)
	cfg, err := loadConfig()
	require.NoError(t, err)

	poller, err := newPoller(context.Background(), cfg.ToOptions(), nil)
	require.NoError(t, err)

	snap, err := takeSnapshot(context.Background(), poller, snapshotTicks)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), snap.Sequence)
	assert.False(t, poller.Running(), "poller stops after the snapshot")
	assert.Equal(t, 25.0, snap.CPU.Overall)
	assert.Equal(t, 3, snap.CPU.PCount)
	assert.Equal(t, 42, snap.GPU.Utilization)
	assert.Equal(t, "p1", snap.Processes[0].Name)
}

func TestTakeSnapshot_Cancelled(t *testing.T) {
	useFakeHost(t)
	intervalFlag = "10s"
	cfg, err := loadConfig()
	require.NoError(t, err)

	poller, err := newPoller(context.Background(), cfg.ToOptions(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err = takeSnapshot(ctx, poller, snapshotTicks)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSource))
	assert.False(t, poller.Running())
}

func TestSnapshotCommand_JSON(t *testing.T) {
	useFakeHost(t)

	var buf bytes.Buffer
	require.NoError(t, snapshotCommand(context.Background(), &buf, true))

	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.True(t, env.Success)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 2.0, data["sequence"])

	cpu := data["cpu"].(map[string]interface{})
	assert.Equal(t, 25.0, cpu["overall_percent"])
	gpu := data["gpu"].(map[string]interface{})
	assert.Equal(t, 42.0, gpu["utilization"])
	mem := data["memory"].(map[string]interface{})
	assert.Equal(t, "normal", mem["pressure"])
}

func TestSnapshotCommand_JSONError(t *testing.T) {
	useFakeHost(t)
	intervalFlag = "1ms"

	var buf bytes.Buffer
	err := snapshotCommand(context.Background(), &buf, true)
	require.Error(t, err)

	env := decodeEnvelope(t, &buf)
	assert.False(t, env.Success)
	assert.Equal(t, ErrCodeConfigInvalid, env.Error.Code)
}

func TestSnapshotCommand_Human(t *testing.T) {
	useFakeHost(t)

	var buf bytes.Buffer
	require.NoError(t, snapshotCommand(context.Background(), &buf, false))

	out := buf.String()
	assert.Contains(t, out, "CPU")
	assert.Contains(t, out, "25%")
	assert.Contains(t, out, "42%")
}

func TestStatusCommand_Once(t *testing.T) {
	useFakeHost(t)

	var buf bytes.Buffer
	require.NoError(t, statusCommand(context.Background(), &buf, true))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "25%")
}

func TestStatusCommand_DisplayModeFromConfig(t *testing.T) {
	useFakeHost(t)
	cfgFile = filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("menu_bar_display: cpu+gpu\n"), 0644))

	var buf bytes.Buffer
	require.NoError(t, statusCommand(context.Background(), &buf, true))
	assert.Contains(t, buf.String(), "GPU 42%")
}

func TestStatusCommand_StreamsUntilCancelled(t *testing.T) {
	useFakeHost(t)

	ctx, cancel := context.WithTimeout(context.Background(), 450*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	require.NoError(t, statusCommand(ctx, &buf, false))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.GreaterOrEqual(t, len(lines), 2)
	for _, line := range lines {
		assert.Contains(t, line, "25%")
	}
}

func TestServeCommand(t *testing.T) {
	useFakeHost(t)

	// Reserve a free port, then release it for the exporter.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- serveCommand(ctx, addr) }()

	var body string
	assert.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return false
		}
		body = string(b)
		return strings.Contains(body, "pulse_cpu_usage_percent 25")
	}, 5*time.Second, 20*time.Millisecond)

	// Update runs after the tick's spans end, so their metrics are in place.
	assert.Contains(t, body, `pulse_source_duration_seconds_count{source="cpu"}`)
	assert.Contains(t, body, `pulse_source_duration_seconds_count{source="gpu"}`)
	assert.NotContains(t, body, "pulse_source_panics_total{", "no source panicked")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestServeCommand_BadListen(t *testing.T) {
	useFakeHost(t)

	err := serveCommand(context.Background(), "no-port")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

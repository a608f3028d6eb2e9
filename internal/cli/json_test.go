package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pulse/internal/errors"
)

func decodeEnvelope(t *testing.T, buf *bytes.Buffer) JSONEnvelope {
	t.Helper()
	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	return env
}

func TestWriteJSONSuccess_BasicData(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteJSONSuccess(&buf, map[string]string{"key": "value"}))

	env := decodeEnvelope(t, &buf)
	assert.True(t, env.Success)
	assert.Nil(t, env.Error)

	dataMap, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "value", dataMap["key"])
}

func TestWriteJSONSuccess_NilData(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteJSONSuccess(&buf, nil))

	env := decodeEnvelope(t, &buf)
	assert.True(t, env.Success)
	assert.Nil(t, env.Data)
	assert.Nil(t, env.Error)
}

func TestWriteJSONError_AllFields(t *testing.T) {
	var buf bytes.Buffer

	details := map[string]string{"probe": "ioreg"}
	require.NoError(t, WriteJSONError(&buf, ErrCodeProbeTimeout, "Probe timed out", "Raise gpu_timeout", details))

	env := decodeEnvelope(t, &buf)
	assert.False(t, env.Success)
	assert.Nil(t, env.Data)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeProbeTimeout, env.Error.Code)
	assert.Equal(t, "Probe timed out", env.Error.Message)
	assert.Equal(t, "Raise gpu_timeout", env.Error.Suggestion)

	detailsMap, ok := env.Error.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ioreg", detailsMap["probe"])
}

func TestWriteJSONFromError(t *testing.T) {
	var buf bytes.Buffer

	err := errors.New(errors.ErrExport, "Couldn't listen on :9273", "Pick a free address")
	require.NoError(t, WriteJSONFromError(&buf, err))

	env := decodeEnvelope(t, &buf)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeExportFailed, env.Error.Code)
	assert.Equal(t, "Pick a free address", env.Error.Suggestion)
}

func TestErrorToJSON(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"config not found", errors.New(errors.ErrConfig, "Config file not found", ""), ErrCodeConfigNotFound},
		{"config invalid", errors.New(errors.ErrConfig, "Invalid update_interval", ""), ErrCodeConfigInvalid},
		{"probe failure", errors.New(errors.ErrProbe, "'ioreg' exited with status 1", ""), ErrCodeProbeFailed},
		{"probe timeout", errors.NewProbeTimeout("nvidia-smi"), ErrCodeProbeTimeout},
		{"source failure", errors.New(errors.ErrSource, "Detail panel failed", ""), ErrCodeSourceFailed},
		{"cancelled", errors.New(errors.ErrSource, "Snapshot cancelled", ""), ErrCodeCancelled},
		{"wrapped structured error", fmt.Errorf("outer: %w", errors.New(errors.ErrExport, "x", "")), ErrCodeExportFailed},
		{"plain error", fmt.Errorf("boom"), ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ErrorToJSON(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}

	assert.Nil(t, ErrorToJSON(nil))
}

func TestErrorToJSON_IncludesCause(t *testing.T) {
	err := errors.WrapWithCode(fmt.Errorf("address in use"), errors.ErrExport, "Couldn't listen", "")
	got := ErrorToJSON(err)
	assert.Equal(t, map[string]string{"cause": "address in use"}, got.Details)
}

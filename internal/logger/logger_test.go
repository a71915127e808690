package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_InfoFields(t *testing.T) {
	var buf bytes.Buffer
	log := New("billing", slog.LevelInfo, &buf)

	log.Info("order_saved", "req-1", "Order saved", map[string]any{"order_number": 3})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Order saved", entry["msg"])
	assert.Equal(t, "billing", entry["service"])
	assert.Equal(t, "order_saved", entry["action"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, map[string]any{"order_number": float64(3)}, entry["details"])
}

func TestLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New("billing", slog.LevelWarn, &buf)

	log.Debug("a", "", "hidden", nil)
	log.Info("b", "", "hidden", nil)
	assert.Zero(t, buf.Len())

	log.Warn("c", "", "shown", errors.New("disk full"), nil)
	assert.Contains(t, buf.String(), `"error":"disk full"`)
}

func TestLogger_ErrorIncludesStack(t *testing.T) {
	var buf bytes.Buffer
	log := New("billing", slog.LevelDebug, &buf)

	log.Error("save_failed", "", "History save failed", errors.New("boom"), nil)

	out := buf.String()
	assert.Contains(t, out, `"msg":"boom"`)
	assert.True(t, strings.Contains(out, `"stack"`))
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestGenerateRequestID(t *testing.T) {
	id := GenerateRequestID()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, GenerateRequestID())
}

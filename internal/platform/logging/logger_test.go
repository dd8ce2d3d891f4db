package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_FILE", "logs/collector.log")

	cfg := LoadConfig()

	assert.Equal(t, slog.LevelWarn, cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "logs/collector.log", cfg.File)
}

func TestNew_LevelAndFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, closer := New(Config{Level: slog.LevelWarn, Format: "json"}, &buf)
	defer closer.Close()

	logger.Info("dropped")
	logger.Warn("kept", "realm_id", 3676)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), "exactly one JSON line expected")
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, float64(3676), line["realm_id"])
}

func TestNew_TeesIntoFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "collector.log")
	var buf bytes.Buffer
	logger, closer := New(Config{Level: slog.LevelInfo, File: path, MaxSizeMB: 1}, &buf)

	logger.Info("run finished", "items", 3)
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "run finished")
	assert.Contains(t, buf.String(), "items=3")
}

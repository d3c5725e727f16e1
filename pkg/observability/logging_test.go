package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected slog.Level
	}{
		{name: "debug level", input: "debug", expected: slog.LevelDebug},
		{name: "info level", input: "info", expected: slog.LevelInfo},
		{name: "warn level", input: "warn", expected: slog.LevelWarn},
		{name: "warning level", input: "warning", expected: slog.LevelWarn},
		{name: "error level", input: "error", expected: slog.LevelError},
		{name: "uppercase DEBUG", input: "DEBUG", expected: slog.LevelDebug},
		{name: "mixed case Info", input: "Info", expected: slog.LevelInfo},
		{name: "empty string defaults to info", input: "", expected: slog.LevelInfo},
		{name: "unknown level defaults to info", input: "verbose", expected: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestInitLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogger(LogConfig{
		Output:      &buf,
		Level:       "debug",
		Format:      "json",
		ServiceName: "riskd",
		Environment: "test",
	})

	logger.Debug("model loaded", slog.String("model_type", "logistic_regression"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "model loaded", entry["msg"])
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "riskd", entry["service"])
	assert.Equal(t, "test", entry["environment"])
	assert.Equal(t, "logistic_regression", entry["model_type"])
}

func TestInitLoggerTextFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogger(LogConfig{Output: &buf, Level: "warn", Format: "text"})

	logger.Info("suppressed")
	logger.Warn("kept")

	out := buf.String()
	assert.NotContains(t, out, "suppressed")
	assert.True(t, strings.Contains(out, "msg=kept"), out)
}

func TestInitLoggerSetsDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogger(LogConfig{Output: &buf, Level: "info", Format: "json"})

	assert.Equal(t, logger.Handler(), slog.Default().Handler())
}

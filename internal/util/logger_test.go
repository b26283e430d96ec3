package util

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level string, format LogFormat) (*Logger, *bytes.Buffer) {
	logger, _ := NewLogger(LoggerConfig{Level: level})
	var buf bytes.Buffer
	logger.AddOutput(NewWriterOutput(&buf, format))
	return logger, &buf
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, LevelError, ParseLogLevel("error"))
	assert.Equal(t, LevelInfo, ParseLogLevel("info"))
	assert.Equal(t, LevelInfo, ParseLogLevel("bogus"))
}

func TestLoggerFiltersByLevel(t *testing.T) {
	logger, buf := newBufferLogger("warn", FormatText)

	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Warn("shown warn")
	logger.Error("shown error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] shown warn")
	assert.Contains(t, out, "[ERROR] shown error")

	logger.SetLevel(LevelDebug)
	logger.Debug("now visible")
	assert.Contains(t, buf.String(), "[DEBUG] now visible")
}

func TestLoggerTextFieldsAreSorted(t *testing.T) {
	logger, buf := newBufferLogger("info", FormatText)

	logger.Info("loaded", F("zeta", 1), F("alpha", "x"))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(buf.String()), "loaded alpha=x zeta=1"))
}

func TestLoggerJSONFormat(t *testing.T) {
	logger, buf := newBufferLogger("info", FormatJSON)

	logger.With(F("component", "loader")).Info("done", F("files", 3))

	var entry map[string]any
	require.NoError(t, sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "done", entry["message"])
	fields := entry["fields"].(map[string]any)
	assert.Equal(t, "loader", fields["component"])
	assert.EqualValues(t, 3, fields["files"])
}

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, err := NewLogger(LoggerConfig{Level: "debug", File: path})
	require.NoError(t, err)
	logger.Debug("to file")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG] to file")
}

func TestGlobalLoggerHelpers(t *testing.T) {
	logger, buf := newBufferLogger("debug", FormatText)
	SetLogger(logger)
	t.Cleanup(func() { SetLogger(nil) })

	LogDebugf("scan %d", 2)
	LogInfo("info line")
	LogWarnf("warn %s", "line")
	LogError("error line")

	out := buf.String()
	assert.Contains(t, out, "scan 2")
	assert.Contains(t, out, "info line")
	assert.Contains(t, out, "warn line")
	assert.Contains(t, out, "error line")

	SetLogger(nil)
	LogInfo("dropped")
	assert.NotContains(t, buf.String(), "dropped")
}

package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var timeZero time.Time

func TestLogFilePath(t *testing.T) {
	sessionStart := time.Date(2026, 2, 12, 21, 38, 36, 0, time.UTC)

	tests := []struct {
		name    string
		logsDir string
		want    string
	}{
		{
			name:    "basic path",
			logsDir: "mpscaralogs",
			want:    filepath.Join("mpscaralogs", "mpscara.20260212_213836.log"),
		},
		{
			name:    "relative path with dot",
			logsDir: "./mpscaralogs",
			want:    filepath.Join(".", "mpscaralogs", "mpscara.20260212_213836.log"),
		},
		{
			name:    "absolute path",
			logsDir: filepath.Join("/var", "log", "mpscara"),
			want:    filepath.Join("/var", "log", "mpscara", "mpscara.20260212_213836.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LogFilePath(tt.logsDir, "mpscara", sessionStart))
		})
	}
}

func TestNewZerolog_Level(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
	}{
		{"debug", true},
		{"DEBUG", true},
		{"info", false},
		{"", false},
		{"bogus", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewZerolog(&buf, tt.level)
			log.Debug().Msg("dbg")
			log.Info().Msg("inf")

			assert.Equal(t, tt.wantDebug, strings.Contains(buf.String(), "dbg"))
			assert.Contains(t, buf.String(), "inf")
		})
	}
}

func decodeLast(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestKVLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		log   func(*KVLogger)
	}{
		{"debug", func(l *KVLogger) { l.Debug("message", "file", "cube.g", "lines", 42) }},
		{"info", func(l *KVLogger) { l.Info("message", "file", "cube.g", "lines", 42) }},
		{"warn", func(l *KVLogger) { l.Warn("message", "file", "cube.g", "lines", 42) }},
		{"error", func(l *KVLogger) { l.Error("message", "file", "cube.g", "lines", 42) }},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewKVLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))

			entry := decodeLast(t, &buf)
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, "message", entry["message"])
			assert.Equal(t, "cube.g", entry["file"])
			assert.Equal(t, float64(42), entry["lines"]) // JSON numbers are float64
		})
	}
}

func TestKVLogger_OddAndNonStringKeys(t *testing.T) {
	var buf bytes.Buffer
	l := NewKVLogger(zerolog.New(&buf))

	l.Info("odd", "kept", 1, 7, "dropped", "dangling")

	entry := decodeLast(t, &buf)
	assert.Equal(t, float64(1), entry["kept"])
	assert.NotContains(t, entry, "dangling")
	assert.Len(t, entry, 3) // level, message, kept
}

func TestNewGelfWriter_BadAddress(t *testing.T) {
	_, err := NewGelfWriter("not an address")
	assert.Error(t, err)
}

package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// sessionLayout stamps log file names with the session start.
const sessionLayout = "20060102_150405"

// LogFilePath returns <logsDir>/<name>.<session start>.log.
func LogFilePath(logsDir, name string, sessionStart time.Time) string {
	return filepath.Join(logsDir, name+"."+sessionStart.Format(sessionLayout)+".log")
}

// SlogManager manages slog-based logging with optional extra sinks.
type SlogManager struct {
	logger  *slog.Logger
	console io.Writer
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{console: os.Stdout}
}

// parseLevel accepts the slog level names in any case. Anything else is info.
func parseLevel(level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// utcTime renders record times as RFC3339 in UTC.
func utcTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.TimeKey || a.Value.Kind() != slog.KindTime {
		return a
	}
	return slog.String(a.Key, a.Value.Time().UTC().Format(time.RFC3339))
}

// Setup replaces the logger. Records go to file as text, or to the console
// when file is nil, and to every non-nil extra writer as one JSON object per
// record (the shape GELF expects).
func (m *SlogManager) Setup(file io.Writer, level string, extra ...io.Writer) {
	opts := &slog.HandlerOptions{Level: parseLevel(level), ReplaceAttr: utcTime}

	primary := file
	if primary == nil {
		primary = m.console
	}
	sinks := []slog.Handler{slog.NewTextHandler(primary, opts)}
	for _, w := range extra {
		if w != nil {
			sinks = append(sinks, slog.NewJSONHandler(w, opts))
		}
	}

	m.logger = slog.New(NewMultiHandler(sinks...))
	m.logger.Info("Logging initialized", "level", opts.Level.Level().String())
}

// WithContext wraps the configured logger so every record also carries the
// attributes returned by provider at the time it is written.
func (m *SlogManager) WithContext(provider ContextProvider) {
	m.logger = slog.New(NewContextHandler(m.Logger().Handler(), provider))
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		// Return a default logger if Setup hasn't been called
		return slog.Default()
	}
	return m.logger
}

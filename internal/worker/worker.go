// Package worker runs a batch of targets through the translator and reports
// every outcome to the run ledger, metrics and the optional InfluxDB sink.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/solheim-lab/mpscara/internal/config"
	"github.com/solheim-lab/mpscara/internal/influx"
	"github.com/solheim-lab/mpscara/internal/otel"
	"github.com/solheim-lab/mpscara/internal/storage"
	"github.com/solheim-lab/mpscara/internal/translate"
	"github.com/solheim-lab/mpscara/pkg/core"
)

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// PointWriter receives one point per translated file. *influx.Manager implements it.
type PointWriter interface {
	WritePoint(point *influxdb2_write.Point) error
}

// Dependencies holds all dependencies for the worker manager
type Dependencies struct {
	Translator *translate.Translator
	Machine    core.Machine
	Output     config.OutputConfig
	// ConfigDir resolves relative target names and a relative output.dir.
	ConfigDir string
	Logger    Logger
	Metrics   *otel.Metrics // optional
	Influx    PointWriter   // optional
}

// Manager translates targets one after another
type Manager struct {
	deps    Dependencies
	backend storage.Backend

	mu      sync.Mutex
	current string
}

// NewManager creates a new worker manager
func NewManager(deps Dependencies, backend storage.Backend) *Manager {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Manager{
		deps:    deps,
		backend: backend,
	}
}

// CurrentTarget returns the target being translated, empty between files.
func (m *Manager) CurrentTarget() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *Manager) setCurrent(target string) {
	m.mu.Lock()
	m.current = target
	m.mu.Unlock()
}

// Run translates targets in order. A failing file is recorded and logged and
// the next one is attempted; the returned error is reserved for ledger
// failures and cancellation. Callers check Run.Failed for file failures.
func (m *Manager) Run(ctx context.Context, targets []string) (core.Run, error) {
	run := core.Run{
		ID:        uuid.NewString(),
		StartTime: time.Now().UTC(),
		Machine:   m.deps.Machine,
	}
	if err := m.backend.StartRun(&run); err != nil {
		return run, fmt.Errorf("failed to start run: %w", err)
	}
	m.deps.Logger.Info("Run started", "run", run.ID, "targets", len(targets), "machine", run.Machine.Name)

	var runErr error
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if strings.TrimSpace(target) == "" {
			continue
		}

		m.setCurrent(target)
		res := m.processFile(run.ID, target)
		m.setCurrent("")

		if err := m.backend.RecordFile(&res); err != nil {
			m.deps.Logger.Error("Failed to record file result", "target", res.Target, "error", err)
		}
		run.Files = append(run.Files, res)
		m.report(ctx, &run, &res)
	}

	run.EndTime = time.Now().UTC()
	if err := m.backend.EndRun(&run); err != nil {
		return run, fmt.Errorf("failed to end run: %w", err)
	}
	m.deps.Logger.Info("Run finished",
		"run", run.ID,
		"files", len(run.Files),
		"failed", run.Failed(),
		"duration", run.EndTime.Sub(run.StartTime),
	)
	return run, runErr
}

func (m *Manager) processFile(runID, target string) core.FileResult {
	res := m.newResult(runID, target)
	m.deps.Logger.Info("Translating file", "target", res.Target, "input", res.InputPath, "output", res.OutputPath)

	stats, err := m.translateFile(res.InputPath, res.OutputPath)
	res.Duration = time.Since(res.StartTime)
	res.LinesIn = stats.LinesIn
	res.LinesOut = stats.LinesOut
	res.Motions = stats.Motions
	res.Chords = stats.Chords
	res.PathLength = stats.PathLength
	res.Envelope = stats.Envelope

	if err != nil {
		res.Status = core.FileFailed
		res.Error = err.Error()
		m.deps.Logger.Error("Translation failed", "target", res.Target, "error", err)
		return res
	}

	res.Status = core.FileOK
	m.deps.Logger.Info("Translation complete",
		"target", res.Target,
		"linesIn", res.LinesIn,
		"linesOut", res.LinesOut,
		"chords", res.Chords,
		"duration", res.Duration,
	)
	return res
}

func (m *Manager) report(ctx context.Context, run *core.Run, res *core.FileResult) {
	if m.deps.Metrics != nil {
		m.deps.Metrics.RecordFile(ctx, run.Machine.Name, res)
	}
	if m.deps.Influx != nil {
		if err := m.deps.Influx.WritePoint(influx.FilePoint(run, res)); err != nil {
			m.deps.Logger.Warn("Failed to write influx point", "target", res.Target, "error", err)
		}
	}
}

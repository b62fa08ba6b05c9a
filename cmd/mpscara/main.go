// Command mpscara translates the configured G-code targets for a two-link
// SCARA arm. Usage: mpscara [configDir]
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/solheim-lab/mpscara/internal/config"
	"github.com/solheim-lab/mpscara/internal/database"
	"github.com/solheim-lab/mpscara/internal/influx"
	"github.com/solheim-lab/mpscara/internal/logging"
	intOtel "github.com/solheim-lab/mpscara/internal/otel"
	"github.com/solheim-lab/mpscara/internal/storage"
	"github.com/solheim-lab/mpscara/internal/translate"
	"github.com/solheim-lab/mpscara/internal/worker"
	"github.com/solheim-lab/mpscara/pkg/core"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.0.1"
	BuildDate      string = "unknown"

	AppName string = "mpscara"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes one batch and returns the process exit code.
func run(args []string, stdout io.Writer) int {
	sessionStart := time.Now()
	configDir := "."
	if len(args) > 0 {
		configDir = args[0]
	}

	slogManager := logging.NewSlogManager()
	slogManager.Setup(nil, "info")
	logger := slogManager.Logger()

	if err := config.Load(configDir); err != nil {
		logger.Error("Failed to load config", "dir", configDir, "error", err)
		return 1
	}
	level := config.GetString("logLevel")

	// switch to the log file (and Graylog, if enabled) now that the config is known
	logFile, err := openLogFile(config.GetString("logsDir"), sessionStart)
	if err != nil {
		logger.Warn("Failed to open log file, logging to console", "error", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}
	var extra []io.Writer
	if config.GetBool("graylog.enabled") {
		gelfWriter, err := logging.NewGelfWriter(config.GetString("graylog.address"))
		if err != nil {
			logger.Warn("Failed to connect to Graylog", "address", config.GetString("graylog.address"), "error", err)
		} else {
			extra = append(extra, gelfWriter)
		}
	}
	var fileWriter io.Writer
	if logFile != nil {
		fileWriter = logFile
	}
	slogManager.Setup(fileWriter, level, extra...)
	logger = slogManager.Logger()
	logger.Info("Starting up", "version", CurrentVersion, "buildDate", BuildDate, "configDir", configDir)

	zl := logging.NewZerolog(stdout, level)
	if fileWriter != nil {
		zl = logging.NewZerolog(fileWriter, level)
	}

	machine, err := config.GetMachine()
	if err != nil {
		return fail(stdout, logger, "Invalid machine settings", err)
	}
	targets, err := config.GetTargets()
	if err != nil {
		return fail(stdout, logger, "No targets to translate", err)
	}
	output := config.GetOutputConfig()

	tr, err := translate.NewTranslator(machine, translate.Options{
		ModalFeedrate:  config.GetBool("translation.modalFeedrate"),
		HeaderTemplate: output.HeaderTemplate,
	}, logger)
	if err != nil {
		return fail(stdout, logger, "Invalid output header", err)
	}

	backend, err := createStorageBackend(config.GetStorageConfig(), database.NewManager(zl), logger)
	if err != nil {
		return fail(stdout, logger, "Failed to create storage backend", err)
	}
	if err := backend.Init(); err != nil {
		return fail(stdout, logger, "Failed to initialize storage backend", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error("Failed to close storage backend", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	otelCfg := config.GetOTelConfig()
	provider := intOtel.New(intOtel.Config{Enabled: otelCfg.Enabled, ServiceName: otelCfg.ServiceName})
	metrics, err := intOtel.NewMetrics(provider.Meter("worker"))
	if err != nil {
		logger.Warn("Failed to create metrics, continuing without", "error", err)
		metrics = nil
	}

	deps := worker.Dependencies{
		Translator: tr,
		Machine:    machine,
		Output:     output,
		ConfigDir:  configDir,
		Logger:     logger,
		Metrics:    metrics,
	}

	if influxCfg := config.GetInfluxConfig(); influxCfg.Enabled {
		influxManager := influx.NewManager(zl, influxCfg)
		if err := influxManager.Connect(ctx); err != nil {
			logger.Warn("InfluxDB unavailable", "error", err)
		}
		if influxManager.IsValid || influxManager.BackupWriter != nil {
			deps.Influx = influxManager
		}
		defer func() {
			if err := influxManager.Close(); err != nil {
				logger.Error("Failed to close InfluxDB", "error", err)
			}
		}()
	}

	manager := worker.NewManager(deps, backend)
	slogManager.WithContext(func() []slog.Attr {
		if t := manager.CurrentTarget(); t != "" {
			return []slog.Attr{slog.String("current", t)}
		}
		return nil
	})

	result, err := manager.Run(ctx, targets)
	printSummary(stdout, result, backend)
	if err != nil {
		logger.Error("Run did not complete", "error", err)
		return 1
	}
	if result.Failed() > 0 {
		return 1
	}
	return 0
}

func openLogFile(logsDir string, sessionStart time.Time) (*os.File, error) {
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, err
	}
	path := logging.LogFilePath(logsDir, AppName, sessionStart)
	// keep the previous log if two runs start within the same second
	if _, err := os.Stat(path); err == nil {
		os.Rename(path, path+".old")
	}
	return os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
}

// fail reports a setup error to the user and the log.
func fail(stdout io.Writer, logger *slog.Logger, msg string, err error) int {
	logger.Error(msg, "error", err)
	fmt.Fprintf(stdout, "%s: %v\n", msg, err)
	return 1
}

func printSummary(w io.Writer, run core.Run, backend storage.Backend) {
	fmt.Fprintf(w, "Run %s on %s: %d file(s), %d failed\n", run.ID, run.Machine.Name, len(run.Files), run.Failed())
	for _, f := range run.Files {
		if f.Status == core.FileOK {
			fmt.Fprintf(w, "  ok      %s -> %s (%d lines, %d chords)\n", f.Target, f.OutputPath, f.LinesOut, f.Chords)
			continue
		}
		fmt.Fprintf(w, "  failed  %s: %s\n", f.Target, f.Error)
	}
	if exp, ok := backend.(storage.Exporter); ok && exp.GetExportedFilePath() != "" {
		fmt.Fprintf(w, "Report written to %s\n", exp.GetExportedFilePath())
	}
}

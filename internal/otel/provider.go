package otel

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/solheim-lab/mpscara/pkg/core"
)

// Config holds OTel configuration
type Config struct {
	Enabled     bool
	ServiceName string
}

// Provider hands out meters. When enabled it uses the globally registered
// MeterProvider, so whatever SDK the host process installs receives the data.
type Provider struct {
	config Config
}

// New creates a new OTel provider with the given configuration.
// If OTel is disabled, every meter is a no-op.
func New(cfg Config) *Provider {
	return &Provider{config: cfg}
}

// Meter returns a meter with the given name for creating metrics.
func (p *Provider) Meter(name string) metric.Meter {
	if !p.config.Enabled {
		return noop.Meter{}
	}
	return otel.GetMeterProvider().Meter(name, metric.WithInstrumentationAttributes(
		attribute.String("service.name", p.config.ServiceName),
	))
}

// Enabled returns whether OTel is enabled
func (p *Provider) Enabled() bool {
	return p.config.Enabled
}

// Metrics are the instruments recorded per translated file.
type Metrics struct {
	files        metric.Int64Counter
	linesEmitted metric.Int64Counter
	chords       metric.Int64Counter
	duration     metric.Float64Histogram
}

// NewMetrics creates the translation instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	files, err := meter.Int64Counter("mpscara.files",
		metric.WithDescription("Target files processed, by status"))
	if err != nil {
		return nil, fmt.Errorf("failed to create files counter: %w", err)
	}
	linesEmitted, err := meter.Int64Counter("mpscara.lines.emitted",
		metric.WithDescription("G-code lines written to translated files"))
	if err != nil {
		return nil, fmt.Errorf("failed to create lines counter: %w", err)
	}
	chords, err := meter.Int64Counter("mpscara.chords",
		metric.WithDescription("Intermediate points inserted by move subdivision"))
	if err != nil {
		return nil, fmt.Errorf("failed to create chords counter: %w", err)
	}
	duration, err := meter.Float64Histogram("mpscara.file.duration",
		metric.WithDescription("Time spent translating one file"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}
	return &Metrics{
		files:        files,
		linesEmitted: linesEmitted,
		chords:       chords,
		duration:     duration,
	}, nil
}

// RecordFile adds one file result to the instruments.
func (m *Metrics) RecordFile(ctx context.Context, machine string, f *core.FileResult) {
	attrs := metric.WithAttributes(
		attribute.String("machine", machine),
		attribute.String("status", string(f.Status)),
	)
	m.files.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(f.Duration)/float64(time.Millisecond), attrs)
	if f.Status == core.FileOK {
		m.linesEmitted.Add(ctx, int64(f.LinesOut), attrs)
		m.chords.Add(ctx, int64(f.Chords), attrs)
	}
}

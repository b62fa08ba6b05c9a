package otel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/solheim-lab/mpscara/pkg/core"
)

func TestProvider_Disabled(t *testing.T) {
	p := New(Config{Enabled: false})
	assert.False(t, p.Enabled())
	assert.Equal(t, noop.Meter{}, p.Meter("test"))
}

func TestProvider_Enabled(t *testing.T) {
	p := New(Config{Enabled: true, ServiceName: "mpscara"})
	assert.True(t, p.Enabled())
	assert.NotNil(t, p.Meter("test"))
}

func TestMetrics_RecordFile(t *testing.T) {
	for _, enabled := range []bool{false, true} {
		m, err := NewMetrics(New(Config{Enabled: enabled, ServiceName: "mpscara"}).Meter("worker"))
		require.NoError(t, err)

		assert.NotPanics(t, func() {
			m.RecordFile(context.Background(), "bench", &core.FileResult{
				Status:   core.FileOK,
				Duration: 5 * time.Millisecond,
				LinesOut: 10,
				Chords:   4,
			})
			m.RecordFile(context.Background(), "bench", &core.FileResult{Status: core.FileFailed})
		})
	}
}

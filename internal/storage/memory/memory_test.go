// internal/storage/memory/memory_test.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solheim-lab/mpscara/internal/config"
	"github.com/solheim-lab/mpscara/internal/storage"
	"github.com/solheim-lab/mpscara/pkg/core"
)

// Verify Backend implements storage.Backend interface
var _ storage.Backend = (*Backend)(nil)

// Verify Backend implements storage.Exporter interface
var _ storage.Exporter = (*Backend)(nil)

func testRun() *core.Run {
	return &core.Run{
		ID:        "run-1",
		StartTime: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Machine:   core.Machine{Name: "Bench Arm", UpperArm: 150, Forearm: 150, ChordTolerance: 2},
	}
}

func recordAll(t *testing.T, b *Backend, run *core.Run) {
	t.Helper()
	require.NoError(t, b.Init())
	require.NoError(t, b.StartRun(run))

	ok := core.FileResult{RunID: run.ID, Target: "cube", Status: core.FileOK, LinesIn: 3, LinesOut: 12,
		Motions: 2, Chords: 9, PathLength: 20.5, Envelope: core.Envelope{MinX: 0, MinY: 90, MaxX: 10, MaxY: 100}}
	bad := core.FileResult{RunID: run.ID, Target: "far", Status: core.FileFailed, Error: "out of range",
		LinesIn: 2, Envelope: core.Envelope{Empty: true}}
	require.NoError(t, b.RecordFile(&ok))
	require.NoError(t, b.RecordFile(&bad))
	assert.Equal(t, uint(1), ok.ID)
	assert.Equal(t, uint(2), bad.ID)

	run.EndTime = run.StartTime.Add(time.Second)
	require.NoError(t, b.EndRun(run))
	require.NoError(t, b.Close())
}

func TestRecordFile_WithoutRun(t *testing.T) {
	b := New(config.MemoryConfig{})
	assert.Error(t, b.RecordFile(&core.FileResult{}))
	assert.Error(t, b.EndRun(&core.Run{}))
}

func TestStartRun_Resets(t *testing.T) {
	b := New(config.MemoryConfig{OutputDir: t.TempDir()})
	recordAll(t, b, testRun())
	assert.Len(t, b.Files(), 2)

	require.NoError(t, b.StartRun(&core.Run{ID: "run-2"}))
	assert.Empty(t, b.Files())

	f := core.FileResult{Target: "next"}
	require.NoError(t, b.RecordFile(&f))
	assert.Equal(t, uint(1), f.ID)
}

func TestEndRun_ExportsJSON(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: filepath.Join(dir, "runs")})
	recordAll(t, b, testRun())

	path := b.GetExportedFilePath()
	assert.Equal(t, filepath.Join(dir, "runs", "Bench_Arm_20260301_100000.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "run-1", report["id"])
	assert.Equal(t, "Bench Arm", report["machineName"])
	assert.Equal(t, float64(1), report["filesOk"])
	assert.Equal(t, float64(1), report["filesFailed"])

	files := report["files"].([]any)
	require.Len(t, files, 2)
	first := files[0].(map[string]any)
	assert.Equal(t, "cube", first["target"])
	assert.Equal(t, []any{0.0, 90.0, 10.0, 100.0}, first["envelope"])
	assert.Nil(t, files[1].(map[string]any)["envelope"])

	totals := report["totals"].(map[string]any)
	assert.Equal(t, float64(5), totals["linesIn"])
	assert.Equal(t, float64(9), totals["chords"])
	assert.Equal(t, 20.5, totals["pathLength"])
}

func TestEndRun_ExportsGzip(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: true})
	recordAll(t, b, testRun())

	path := b.GetExportedFilePath()
	assert.Equal(t, ".gz", filepath.Ext(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)

	var report Report
	require.NoError(t, json.NewDecoder(zr).Decode(&report))
	assert.Equal(t, "run-1", report.ID)
	assert.Len(t, report.Files, 2)
	assert.Equal(t, 12, report.Totals.LinesOut)
}

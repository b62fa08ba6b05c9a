package sqlitestorage

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solheim-lab/mpscara/internal/database"
	"github.com/solheim-lab/mpscara/internal/storage"
	"github.com/solheim-lab/mpscara/pkg/core"
)

var _ storage.Backend = (*Backend)(nil)

func TestNew_CreatesLedgerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")

	b, err := New(Config{Path: path}, database.NewManager(zerolog.Nop()), slog.Default())
	require.NoError(t, err)
	require.NoError(t, b.Init())
	assert.Equal(t, path, b.Path())

	run := &core.Run{ID: "run-1", StartTime: time.Now()}
	require.NoError(t, b.StartRun(run))
	f := core.FileResult{RunID: run.ID, Target: "cube", Status: core.FileOK}
	require.NoError(t, b.RecordFile(&f))
	run.Files = []core.FileResult{f}
	run.EndTime = time.Now()
	require.NoError(t, b.EndRun(run))
	require.NoError(t, b.Close())

	assert.FileExists(t, path)

	// a second process sees the previous run
	again, err := New(Config{Path: path}, database.NewManager(zerolog.Nop()), slog.Default())
	require.NoError(t, err)
	require.NoError(t, again.Init())
	defer again.Close()

	got, err := again.GetRun("run-1")
	require.NoError(t, err)
	require.Len(t, got.Files, 1)
	assert.Equal(t, "cube", got.Files[0].Target)
}

// internal/storage/memory/memory.go
package memory

import (
	"errors"
	"sync"

	"github.com/solheim-lab/mpscara/internal/config"
	"github.com/solheim-lab/mpscara/pkg/core"
)

// Backend keeps the current run in memory and exports it to JSON at EndRun
type Backend struct {
	cfg   config.MemoryConfig
	run   *core.Run
	files []core.FileResult

	idCounter      uint
	lastExportPath string
	mu             sync.Mutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartRun begins recording a new run, discarding any previous one
func (b *Backend) StartRun(run *core.Run) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.run = run
	b.files = nil
	b.idCounter = 0
	return nil
}

// RecordFile stores a file result and assigns it a sequential ID
func (b *Backend) RecordFile(f *core.FileResult) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.run == nil {
		return errors.New("no run started")
	}
	b.idCounter++
	f.ID = b.idCounter
	b.files = append(b.files, *f)
	return nil
}

// EndRun finalizes and exports the run
func (b *Backend) EndRun(run *core.Run) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.run == nil {
		return errors.New("no run started")
	}
	b.run.EndTime = run.EndTime
	return b.exportJSON()
}

// Files returns a copy of the results recorded for the current run
func (b *Backend) Files() []core.FileResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]core.FileResult(nil), b.files...)
}

// GetExportedFilePath returns the path of the last exported report
func (b *Backend) GetExportedFilePath() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastExportPath
}

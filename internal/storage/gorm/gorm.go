// Package gormstorage implements the storage.Backend interface on top of any
// GORM dialect. File results are queued and written in batches.
package gormstorage

import (
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/solheim-lab/mpscara/internal/model"
	"github.com/solheim-lab/mpscara/internal/model/convert"
	"github.com/solheim-lab/mpscara/internal/queue"
	"github.com/solheim-lab/mpscara/pkg/core"
)

// DefaultBatchSize is the number of queued file results that triggers a write.
const DefaultBatchSize = 50

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB        *gorm.DB
	Logger    *slog.Logger
	BatchSize int
}

// Backend implements storage.Backend using GORM with queue-based batch writes.
type Backend struct {
	deps  Dependencies
	files *queue.Queue[model.FileResult]
}

// New creates a new GORM storage backend. The schema must already be migrated.
func New(deps Dependencies) *Backend {
	if deps.BatchSize <= 0 {
		deps.BatchSize = DefaultBatchSize
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Backend{deps: deps}
}

// Init creates the write queue.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return errors.New("gorm backend requires a database connection")
	}
	b.files = queue.New[model.FileResult]()
	return nil
}

// Close writes anything still queued and closes the connection.
func (b *Backend) Close() error {
	flushErr := b.flush()
	if flushErr != nil {
		b.deps.Logger.Error("Failed to write queued file results", "error", flushErr, "pending", b.files.Len())
	}

	sqlDB, err := b.deps.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return flushErr
}

// StartRun inserts the run row. Files are written as they are recorded.
func (b *Backend) StartRun(run *core.Run) error {
	gormRun := convert.CoreToRun(core.Run{
		ID:        run.ID,
		StartTime: run.StartTime,
		Machine:   run.Machine,
	})
	if err := b.deps.DB.Omit(clause.Associations).Create(&gormRun).Error; err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	b.deps.Logger.Debug("Run stored", "run", run.ID)
	return nil
}

// RecordFile queues a file result, writing the queue once it reaches the batch size.
func (b *Backend) RecordFile(f *core.FileResult) error {
	b.files.Push(convert.CoreToFileResult(*f))
	if b.files.Len() < b.deps.BatchSize {
		return nil
	}
	return b.flush()
}

// EndRun writes queued file results and the run totals.
func (b *Backend) EndRun(run *core.Run) error {
	if err := b.flush(); err != nil {
		return err
	}

	failed := run.Failed()
	err := b.deps.DB.Model(&model.Run{ID: run.ID}).Updates(map[string]any{
		"end_time":     run.EndTime,
		"files_ok":     len(run.Files) - failed,
		"files_failed": failed,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update run %s: %w", run.ID, err)
	}
	return nil
}

// GetRun loads a stored run with its file results in insertion order.
func (b *Backend) GetRun(id string) (core.Run, error) {
	var gormRun model.Run
	err := b.deps.DB.
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&gormRun, "id = ?", id).Error
	if err != nil {
		return core.Run{}, fmt.Errorf("failed to load run %s: %w", id, err)
	}
	return convert.RunToCore(gormRun), nil
}

func (b *Backend) flush() error {
	items := b.files.Drain()
	if len(items) == 0 {
		return nil
	}
	if err := b.deps.DB.Omit(clause.Associations).CreateInBatches(items, b.deps.BatchSize).Error; err != nil {
		b.files.Requeue(items)
		return fmt.Errorf("failed to insert %d file results: %w", len(items), err)
	}
	b.deps.Logger.Debug("Wrote file results", "count", len(items))
	return nil
}

// internal/storage/storage.go
package storage

import "github.com/solheim-lab/mpscara/pkg/core"

// Backend is the interface all run ledger implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Run management. StartRun sees the run before any file is translated,
	// EndRun sees it with every FileResult filled in.
	StartRun(run *core.Run) error
	EndRun(run *core.Run) error

	// RecordFile stores the outcome of one target. It may assign f.ID.
	RecordFile(f *core.FileResult) error
}

// Exporter is an optional interface for backends that write the run to a
// report file rather than a database.
type Exporter interface {
	GetExportedFilePath() string
}

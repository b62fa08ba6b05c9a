// Package sqlitestorage keeps the run ledger in a local SQLite file.
// It wraps the GORM backend via composition and only owns opening the file.
package sqlitestorage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/solheim-lab/mpscara/internal/database"
	gormstorage "github.com/solheim-lab/mpscara/internal/storage/gorm"
)

// Config holds configuration for the SQLite storage backend.
type Config struct {
	Path string
}

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	cfg Config
}

// New opens (creating if needed) the SQLite ledger and migrates its schema.
func New(cfg Config, dbManager *database.Manager, logger *slog.Logger) (*Backend, error) {
	if dir := filepath.Dir(cfg.Path); cfg.Path != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	db, err := dbManager.GetSqliteDB(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite DB: %w", err)
	}
	if err := dbManager.Setup(db); err != nil {
		return nil, err
	}

	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{DB: db, Logger: logger}),
		cfg:     cfg,
	}, nil
}

// Path returns the ledger file, empty for an in-memory ledger.
func (b *Backend) Path() string {
	return b.cfg.Path
}

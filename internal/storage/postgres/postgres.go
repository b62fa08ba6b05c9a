// Package postgres keeps the run ledger in a shared PostgreSQL database so
// several workstations driving arms can report into one place.
package postgres

import (
	"fmt"
	"log/slog"

	"github.com/solheim-lab/mpscara/internal/config"
	"github.com/solheim-lab/mpscara/internal/database"
	gormstorage "github.com/solheim-lab/mpscara/internal/storage/gorm"
)

// Backend wraps the GORM backend with a Postgres connection.
type Backend struct {
	*gormstorage.Backend
}

// New connects to Postgres and migrates the ledger schema.
func New(cfg config.DBConfig, dbManager *database.Manager, logger *slog.Logger) (*Backend, error) {
	db, err := dbManager.GetPostgresDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := dbManager.Setup(db); err != nil {
		return nil, err
	}
	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{DB: db, Logger: logger, BatchSize: 200}),
	}, nil
}

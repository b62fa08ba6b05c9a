package main

import (
	"fmt"
	"log/slog"

	"github.com/solheim-lab/mpscara/internal/config"
	"github.com/solheim-lab/mpscara/internal/database"
	"github.com/solheim-lab/mpscara/internal/storage"
	"github.com/solheim-lab/mpscara/internal/storage/memory"
	pgstorage "github.com/solheim-lab/mpscara/internal/storage/postgres"
	sqlitestorage "github.com/solheim-lab/mpscara/internal/storage/sqlite"
)

func createStorageBackend(storageCfg config.StorageConfig, dbManager *database.Manager, logger *slog.Logger) (storage.Backend, error) {
	switch storageCfg.Type {
	case "postgres":
		backend, err := pgstorage.New(storageCfg.DB, dbManager, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Postgres backend: %w", err)
		}
		logger.Info("Postgres storage backend initialized", "host", storageCfg.DB.Host, "database", storageCfg.DB.Database)
		return backend, nil

	case "sqlite":
		backend, err := sqlitestorage.New(sqlitestorage.Config{Path: storageCfg.SQLite.Path}, dbManager, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite backend: %w", err)
		}
		logger.Info("SQLite storage backend initialized", "path", backend.Path())
		return backend, nil

	case "memory", "":
		logger.Info("Memory storage backend initialized", "outputDir", storageCfg.Memory.OutputDir)
		return memory.New(storageCfg.Memory), nil

	default:
		return nil, &config.ConfigurationError{
			Key:    "storage.type",
			Reason: fmt.Sprintf("unknown backend %q (want memory, sqlite or postgres)", storageCfg.Type),
		}
	}
}

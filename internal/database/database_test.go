package database

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solheim-lab/mpscara/internal/config"
	"github.com/solheim-lab/mpscara/internal/model"
)

func TestPostgresDSN(t *testing.T) {
	dsn := PostgresDSN(config.DBConfig{
		Host:     "db",
		Port:     "5433",
		Username: "arm",
		Password: "secret",
		Database: "ledger",
	})
	assert.Equal(t, "host=db port=5433 user=arm password=secret dbname=ledger sslmode=disable", dsn)
}

func TestGetSqliteDB_FileAndSetup(t *testing.T) {
	m := NewManager(zerolog.Nop())
	path := filepath.Join(t.TempDir(), "ledger.db")

	db, err := m.GetSqliteDB(path)
	require.NoError(t, err)
	require.NoError(t, m.Setup(db))

	assert.True(t, db.Migrator().HasTable(&model.Run{}))
	assert.True(t, db.Migrator().HasTable(&model.FileResult{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	assert.FileExists(t, path)
}

func TestGetSqliteDB_InMemory(t *testing.T) {
	m := NewManager(zerolog.Nop())

	db, err := m.GetSqliteDB("")
	require.NoError(t, err)
	require.NoError(t, m.Setup(db))
	assert.Equal(t, "sqlite", db.Dialector.Name())
}

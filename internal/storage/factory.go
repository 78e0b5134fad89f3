package storage

import (
	"fmt"
	"log/slog"

	"github.com/abcnews/content-carousel/internal/config"
	gormstorage "github.com/abcnews/content-carousel/internal/storage/gorm"
	"github.com/abcnews/content-carousel/internal/storage/memory"
	"github.com/abcnews/content-carousel/internal/storage/postgres"
	sqlitestorage "github.com/abcnews/content-carousel/internal/storage/sqlite"
	"github.com/rs/zerolog"
)

var (
	_ Backend = (*memory.Backend)(nil)
	_ Backend = (*gormstorage.Backend)(nil)
	_ Backend = (*sqlitestorage.Backend)(nil)
	_ Backend = (*postgres.Backend)(nil)
)

// NewBackend creates a storage backend based on configuration. The backend is
// not initialised; callers must call Init.
func NewBackend(cfg config.StorageConfig, logger *slog.Logger, dbLog zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		return postgres.New(postgres.Dependencies{
			Config:        cfg.Postgres,
			FlushInterval: cfg.FlushInterval,
			Logger:        logger,
			DBLogger:      dbLog,
		}), nil
	case "sqlite":
		return sqlitestorage.New(sqlitestorage.Config{
			Path:          cfg.SQLite.Path,
			FlushInterval: cfg.FlushInterval,
		}, logger, dbLog)
	case "memory", "":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

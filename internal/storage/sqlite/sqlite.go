// Package sqlitestorage stores counts and decks in a local SQLite file.
// It wraps the GORM backend via composition; the only SQLite-specific concern
// is opening the file and releasing it on Close.
package sqlitestorage

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abcnews/content-carousel/internal/database"
	gormstorage "github.com/abcnews/content-carousel/internal/storage/gorm"
	"github.com/rs/zerolog"
)

// Config holds configuration for the SQLite storage backend.
type Config struct {
	Path          string // empty means in-memory
	FlushInterval time.Duration
}

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	cfg Config
}

// New opens the SQLite database at cfg.Path.
func New(cfg Config, logger *slog.Logger, dbLog zerolog.Logger) (*Backend, error) {
	db, err := database.GetSqliteDB(cfg.Path, dbLog)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite DB: %w", err)
	}

	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{
			DB:            db,
			Logger:        logger,
			FlushInterval: cfg.FlushInterval,
		}),
		cfg: cfg,
	}, nil
}

// Path returns the database file path.
func (b *Backend) Path() string {
	return b.cfg.Path
}

// Close flushes pending counts and closes the file.
func (b *Backend) Close() error {
	flushErr := b.Backend.Close()
	sqlDB, err := b.DB().DB()
	if err != nil {
		return errors.Join(flushErr, fmt.Errorf("failed to access sql interface: %w", err))
	}
	return errors.Join(flushErr, sqlDB.Close())
}

// Package postgres stores counts and decks in PostgreSQL through the GORM backend.
package postgres

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/abcnews/content-carousel/internal/config"
	"github.com/abcnews/content-carousel/internal/database"
	gormstorage "github.com/abcnews/content-carousel/internal/storage/gorm"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Connector opens a database connection. Tests inject their own.
type Connector func(cfg config.DBConfig, log zerolog.Logger) (*gorm.DB, error)

// Dependencies holds all dependencies for the Postgres storage backend.
type Dependencies struct {
	Config        config.DBConfig
	FlushInterval time.Duration
	Logger        *slog.Logger
	DBLogger      zerolog.Logger
	// Connect defaults to database.GetPostgresDB.
	Connect Connector
}

// Backend is a GORM backend whose connection is opened lazily in Init.
type Backend struct {
	*gormstorage.Backend
	deps Dependencies
}

// New creates a Postgres backend. No connection is made until Init.
func New(deps Dependencies) *Backend {
	if deps.Connect == nil {
		deps.Connect = database.GetPostgresDB
	}
	return &Backend{deps: deps}
}

// Init connects, migrates and starts the writer goroutine.
func (b *Backend) Init() error {
	db, err := b.deps.Connect(b.deps.Config, b.deps.DBLogger)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}

	b.Backend = gormstorage.New(gormstorage.Dependencies{
		DB:            db,
		Logger:        b.deps.Logger,
		FlushInterval: b.deps.FlushInterval,
	})
	return b.Backend.Init()
}

// Close stops the writer goroutine. It is a no-op if Init never succeeded.
func (b *Backend) Close() error {
	if b.Backend == nil {
		return nil
	}
	return b.Backend.Close()
}

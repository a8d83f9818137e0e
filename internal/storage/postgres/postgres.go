// Package postgres implements storage.Backend on PostgreSQL with PostGIS.
// Batching and conversion live in the embedded GORM backend; this package
// owns the connection and the schema setup.
package postgres

import (
	"fmt"
	"log/slog"

	"github.com/dinorampage/combat/internal/config"
	"github.com/dinorampage/combat/internal/database"
	gormstorage "github.com/dinorampage/combat/internal/storage/gorm"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Dependencies holds the connection settings. A non-nil DB is used as is,
// which lets tests run against another dialect.
type Dependencies struct {
	DB       *gorm.DB
	Config   config.DBConfig
	Logger   *slog.Logger
	DBLogger zerolog.Logger
}

// Backend implements storage.Backend using GORM/PostgreSQL with queue-based batch writes.
type Backend struct {
	*gormstorage.Backend
	deps Dependencies
}

// New connects to Postgres unless a DB was injected.
func New(deps Dependencies) (*Backend, error) {
	if deps.DB == nil {
		db, err := database.OpenPostgres(deps.Config, deps.DBLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		deps.DB = db
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{
			DB:     deps.DB,
			Logger: deps.Logger.With("backend", "postgres"),
		}),
		deps: deps,
	}, nil
}

// Init runs schema migration and starts the DB writer goroutine.
func (b *Backend) Init() error {
	if err := database.Migrate(b.deps.DB, b.deps.DBLogger); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}
	return b.Backend.Init()
}

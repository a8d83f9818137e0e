// Package sqlitestorage implements the storage.Backend interface using an in-memory
// SQLite database with periodic disk dumps via VACUUM INTO.
// It wraps the GORM backend; the only SQLite-specific concerns are creating the
// in-memory DB, migrating it, and dumping it to disk.
package sqlitestorage

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dinorampage/combat/internal/config"
	"github.com/dinorampage/combat/internal/database"
	gormstorage "github.com/dinorampage/combat/internal/storage/gorm"
	"github.com/rs/zerolog"

	"gorm.io/gorm"
)

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	db        *gorm.DB
	cfg       config.SQLiteConfig
	log       *slog.Logger
	dbLog     zerolog.Logger
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates a new SQLite storage backend.
func New(cfg config.SQLiteConfig, log *slog.Logger, dbLog zerolog.Logger) (*Backend, error) {
	if log == nil {
		log = slog.Default()
	}
	db, err := database.OpenSqlite("", dbLog)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite DB: %w", err)
	}

	gormBackend := gormstorage.New(gormstorage.Dependencies{
		DB:     db,
		Logger: log,
	})

	return &Backend{
		Backend:  gormBackend,
		db:       db,
		cfg:      cfg,
		log:      log.With("backend", "sqlite"),
		dbLog:    dbLog,
		stopChan: make(chan struct{}),
	}, nil
}

// Init migrates the schema, initializes the embedded GORM backend and starts
// the dump goroutine.
func (b *Backend) Init() error {
	if err := database.Migrate(b.db, b.dbLog); err != nil {
		return err
	}
	if err := b.Backend.Init(); err != nil {
		return err
	}

	if b.cfg.DumpPath != "" && b.cfg.DumpInterval > 0 {
		b.wg.Add(1)
		go b.dumpLoop()
	}

	return nil
}

// Close stops the dump goroutine, flushes the GORM backend and writes a
// final dump so the file holds the complete session.
func (b *Backend) Close() error {
	var err error
	b.closeOnce.Do(func() {
		close(b.stopChan)
		b.wg.Wait()
		err = b.Backend.Close()
		if err == nil && b.cfg.DumpPath != "" {
			err = database.TimedDump(b.db, b.cfg.DumpPath, b.dbLog)
		}
	})
	return err
}

// ExportedFilePath is the dump file, empty when dumps are disabled.
func (b *Backend) ExportedFilePath() string {
	return b.cfg.DumpPath
}

// dumpLoop periodically dumps the in-memory SQLite database to disk via VACUUM INTO.
// VACUUM INTO creates a point-in-time snapshot, so no pause mechanism is needed.
func (b *Backend) dumpLoop() {
	defer b.wg.Done()
	ticker := time.NewTicker(b.cfg.DumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			b.Flush()
			if err := database.TimedDump(b.db, b.cfg.DumpPath, b.dbLog); err != nil {
				b.log.Error("Error dumping to disk", "error", err)
			}
		}
	}
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dinorampage/combat/internal/config"
	"github.com/dinorampage/combat/internal/storage"
	"github.com/dinorampage/combat/internal/storage/memory"
	pgstorage "github.com/dinorampage/combat/internal/storage/postgres"
	sqlitestorage "github.com/dinorampage/combat/internal/storage/sqlite"
	"github.com/rs/zerolog"
)

// createStorageBackend builds the configured backend. Type "none" returns a
// nil backend and disables recording.
func createStorageBackend(storageCfg config.StorageConfig, start time.Time, logger *slog.Logger, dbLog zerolog.Logger) (storage.Backend, error) {
	switch storageCfg.Type {
	case "none":
		logger.Info("Recording disabled")
		return nil, nil

	case "memory", "":
		logger.Info("Memory storage backend initialized", "outputDir", storageCfg.Memory.OutputDir)
		return memory.New(storageCfg.Memory), nil

	case "sqlite":
		sqliteCfg := storageCfg.SQLite
		if sqliteCfg.DumpPath == "" {
			sqliteCfg.DumpPath = filepath.Join(
				storageCfg.Memory.OutputDir,
				fmt.Sprintf("%s_%s.db", ExtensionName, start.Format("20060102_150405")),
			)
		}
		if err := os.MkdirAll(filepath.Dir(sqliteCfg.DumpPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite dump directory: %w", err)
		}
		backend, err := sqlitestorage.New(sqliteCfg, logger, dbLog)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite backend: %w", err)
		}
		logger.Info("SQLite storage backend initialized", "dumpPath", sqliteCfg.DumpPath)
		return backend, nil

	case "postgres":
		backend, err := pgstorage.New(pgstorage.Dependencies{
			Config:   storageCfg.DB,
			Logger:   logger,
			DBLogger: dbLog,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Postgres backend: %w", err)
		}
		logger.Info("Postgres storage backend initialized", "host", storageCfg.DB.Host)
		return backend, nil

	default:
		return nil, fmt.Errorf("%w: %q", storage.ErrUnknownBackend, storageCfg.Type)
	}
}

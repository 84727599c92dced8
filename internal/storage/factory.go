package storage

import (
	"fmt"

	"github.com/calcium-format/exporter/internal/config"
	"github.com/calcium-format/exporter/internal/storage/memory"
	"github.com/calcium-format/exporter/internal/storage/postgres"
	sqlitestorage "github.com/calcium-format/exporter/internal/storage/sqlite"
)

// NewBackend creates a storage backend based on configuration. Memory
// backends read the snapshot file immediately; database backends load the
// snapshot named by cfg.Snapshot on Init.
func NewBackend(cfg config.StorageConfig) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		b, err := postgres.New(cfg.Postgres, cfg.Snapshot)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "sqlite":
		b, err := sqlitestorage.New(cfg.SQLite, cfg.Snapshot)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "memory":
		b, err := memory.Open(cfg.Memory.SnapshotPath)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

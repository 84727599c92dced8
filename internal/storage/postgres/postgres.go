// Package postgres serves scene snapshots stored in a PostgreSQL database.
// It wraps the GORM backend via composition.
package postgres

import (
	"fmt"

	"github.com/calcium-format/exporter/internal/config"
	"github.com/calcium-format/exporter/internal/database"
	gormstorage "github.com/calcium-format/exporter/internal/storage/gorm"
)

// Backend wraps the GORM backend for PostgreSQL.
type Backend struct {
	*gormstorage.Backend
	cfg config.PostgresConfig
}

// New connects to the database described by cfg and serves the snapshot
// called name from it. An empty name serves the most recently stored
// snapshot.
func New(cfg config.PostgresConfig, name string) (*Backend, error) {
	db, err := database.OpenPostgres(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres DB at %s:%s: %w", cfg.Host, cfg.Port, err)
	}

	return &Backend{
		Backend: gormstorage.New(db, name),
		cfg:     cfg,
	}, nil
}

// Database returns the name of the connected database.
func (b *Backend) Database() string {
	return b.cfg.Database
}

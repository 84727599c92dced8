// Package sqlitestorage serves scene snapshots stored in a SQLite file.
// It wraps the GORM backend via composition; the only SQLite-specific concern
// is opening the database file.
package sqlitestorage

import (
	"fmt"

	"github.com/calcium-format/exporter/internal/config"
	"github.com/calcium-format/exporter/internal/database"
	gormstorage "github.com/calcium-format/exporter/internal/storage/gorm"
)

// Backend wraps the GORM backend for SQLite.
type Backend struct {
	*gormstorage.Backend
	path string
}

// New opens the SQLite database at cfg.Path and serves the snapshot called
// name from it. An empty name serves the most recently stored snapshot.
func New(cfg config.SQLiteConfig, name string) (*Backend, error) {
	db, err := database.OpenSQLite(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite DB %q: %w", cfg.Path, err)
	}

	return &Backend{
		Backend: gormstorage.New(db, name),
		path:    cfg.Path,
	}, nil
}

// Path returns the database file path.
func (b *Backend) Path() string {
	return b.path
}

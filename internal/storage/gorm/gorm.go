// Package gormstorage persists scene snapshots in a SQL database through GORM
// and serves a stored snapshot back as a scene.Provider.
// Dialect-specific backends (sqlite, postgres) wrap it via composition and
// only differ in how they open the database.
package gormstorage

import (
	"errors"
	"fmt"

	"github.com/calcium-format/exporter/internal/database"
	"github.com/calcium-format/exporter/internal/model"
	"github.com/calcium-format/exporter/internal/model/convert"
	"github.com/calcium-format/exporter/internal/storage/memory"
	"github.com/calcium-format/exporter/pkg/scene"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrSnapshotNotFound is returned when no stored snapshot matches a name
var ErrSnapshotNotFound = errors.New("snapshot not found")

// childModels are deleted before their snapshot row is replaced.
var childModels = []any{
	&model.SceneObject{},
	&model.ArmatureRecord{},
	&model.MeshRecord{},
	&model.ClipRecord{},
	&model.PoseRecord{},
}

// Backend serves one stored snapshot. The snapshot is read once during Init
// and sampled from memory afterwards, so exports never write to the database.
type Backend struct {
	*memory.Backend
	db   *gorm.DB
	name string
}

// New creates a backend serving the snapshot called name from db. An empty
// name selects the most recently stored snapshot.
func New(db *gorm.DB, name string) *Backend {
	return &Backend{db: db, name: name}
}

// Init migrates the schema and loads the snapshot.
func (b *Backend) Init() error {
	if err := database.Migrate(b.db); err != nil {
		return err
	}
	snap, err := Load(b.db, b.name)
	if err != nil {
		return err
	}
	b.Backend = memory.New(snap)
	return nil
}

// Close closes the underlying database connection.
func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}

// DB returns the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.db
}

// Save stores snap under its name, replacing any snapshot already stored
// with that name, and returns the new snapshot ID.
func Save(db *gorm.DB, snap scene.Snapshot) (uuid.UUID, error) {
	if snap.Name == "" {
		return uuid.Nil, errors.New("snapshot has no name")
	}

	id := uuid.New()
	rec := convert.SnapshotToGorm(id, snap)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := deleteByName(tx, snap.Name); err != nil {
			return err
		}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("failed to store snapshot %q: %w", snap.Name, err)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// Load reads the snapshot called name with all its children. An empty name
// loads the most recently stored snapshot.
func Load(db *gorm.DB, name string) (scene.Snapshot, error) {
	var rec model.SceneSnapshot

	q := db.Preload("Objects").
		Preload("Armatures").
		Preload("Meshes").
		Preload("Clips").
		Preload("Poses")
	if name != "" {
		q = q.Where("name = ?", name)
	} else {
		q = q.Order("created_at DESC")
	}

	if err := q.First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if name == "" {
				return scene.Snapshot{}, fmt.Errorf("no stored snapshots: %w", ErrSnapshotNotFound)
			}
			return scene.Snapshot{}, fmt.Errorf("%q: %w", name, ErrSnapshotNotFound)
		}
		return scene.Snapshot{}, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return convert.GormToSnapshot(rec), nil
}

// List returns the stored snapshots without their children, oldest first.
func List(db *gorm.DB) ([]model.SceneSnapshot, error) {
	var out []model.SceneSnapshot
	if err := db.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return out, nil
}

// Delete removes the snapshot called name and its children.
func Delete(db *gorm.DB, name string) error {
	var found bool
	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.SceneSnapshot{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		found = count > 0
		return deleteByName(tx, name)
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%q: %w", name, ErrSnapshotNotFound)
	}
	return nil
}

func deleteByName(tx *gorm.DB, name string) error {
	var ids []uuid.UUID
	if err := tx.Model(&model.SceneSnapshot{}).Where("name = ?", name).Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("failed to look up snapshot %q: %w", name, err)
	}
	if len(ids) == 0 {
		return nil
	}

	for _, m := range childModels {
		if err := tx.Where("snapshot_id IN ?", ids).Delete(m).Error; err != nil {
			return fmt.Errorf("failed to delete %T rows: %w", m, err)
		}
	}
	if err := tx.Where("id IN ?", ids).Delete(&model.SceneSnapshot{}).Error; err != nil {
		return fmt.Errorf("failed to delete snapshot %q: %w", name, err)
	}
	return nil
}

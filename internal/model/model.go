// Package model defines the GORM schema used to persist scene snapshots.
package model

import (
	"time"

	"github.com/calcium-format/exporter/pkg/core"
	"github.com/calcium-format/exporter/pkg/scene"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DatabaseModels is the list of models to migrate
var DatabaseModels = []any{
	&SceneSnapshot{},
	&SceneObject{},
	&ArmatureRecord{},
	&MeshRecord{},
	&ClipRecord{},
	&PoseRecord{},
}

////////////////////////
// SNAPSHOT MODELS
////////////////////////

// SceneSnapshot is one imported scene. Name is unique; importing a snapshot
// under an existing name replaces it.
type SceneSnapshot struct {
	ID           uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt    time.Time                   `json:"createdAt"`
	Name         string                      `json:"name" gorm:"size:255;uniqueIndex"`
	FrameRate    int                         `json:"frameRate"`
	CurrentFrame int                         `json:"currentFrame"`
	Selected     datatypes.JSONSlice[string] `json:"selected"`

	Objects   []SceneObject    `json:"objects" gorm:"foreignKey:SnapshotID;constraint:OnDelete:CASCADE"`
	Armatures []ArmatureRecord `json:"armatures" gorm:"foreignKey:SnapshotID;constraint:OnDelete:CASCADE"`
	Meshes    []MeshRecord     `json:"meshes" gorm:"foreignKey:SnapshotID;constraint:OnDelete:CASCADE"`
	Clips     []ClipRecord     `json:"clips" gorm:"foreignKey:SnapshotID;constraint:OnDelete:CASCADE"`
	Poses     []PoseRecord     `json:"poses" gorm:"foreignKey:SnapshotID;constraint:OnDelete:CASCADE"`
}

func (*SceneSnapshot) TableName() string {
	return "scene_snapshots"
}

// SceneObject is an object of a snapshot. Position keeps the host's order.
type SceneObject struct {
	ID         uint      `json:"id" gorm:"primarykey;autoIncrement"`
	SnapshotID uuid.UUID `json:"snapshotId" gorm:"type:uuid;index:idx_sceneobject_snapshot_id"`
	Position   int       `json:"position"`
	Name       string    `json:"name" gorm:"size:255"`
	Type       string    `json:"type" gorm:"size:32"`
	Parent     string    `json:"parent" gorm:"size:255"`
}

func (*SceneObject) TableName() string {
	return "scene_objects"
}

// ArmatureRecord holds an armature's bones and its active clip
type ArmatureRecord struct {
	ID         uint                                `json:"id" gorm:"primarykey;autoIncrement"`
	SnapshotID uuid.UUID                           `json:"snapshotId" gorm:"type:uuid;index:idx_armature_snapshot_id"`
	Position   int                                 `json:"position"`
	Name       string                              `json:"name" gorm:"size:255"`
	ActiveClip string                              `json:"activeClip" gorm:"size:255"`
	Bones      datatypes.JSONSlice[scene.BoneInfo] `json:"bones"`
}

func (*ArmatureRecord) TableName() string {
	return "armatures"
}

// MeshRecord holds a mesh's vertex groups
type MeshRecord struct {
	ID          uint                                   `json:"id" gorm:"primarykey;autoIncrement"`
	SnapshotID  uuid.UUID                              `json:"snapshotId" gorm:"type:uuid;index:idx_mesh_snapshot_id"`
	Position    int                                    `json:"position"`
	Name        string                                 `json:"name" gorm:"size:255"`
	VertexCount int                                    `json:"vertexCount"`
	Groups      datatypes.JSONSlice[scene.VertexGroup] `json:"groups"`
}

func (*MeshRecord) TableName() string {
	return "meshes"
}

// ClipRecord holds an animation clip and its raw curves
type ClipRecord struct {
	ID         uint                                `json:"id" gorm:"primarykey;autoIncrement"`
	SnapshotID uuid.UUID                           `json:"snapshotId" gorm:"type:uuid;index:idx_clip_snapshot_id"`
	Position   int                                 `json:"position"`
	Name       string                              `json:"name" gorm:"size:255"`
	Curves     datatypes.JSONSlice[scene.RawCurve] `json:"curves"`
}

func (*ClipRecord) TableName() string {
	return "clips"
}

// PoseRecord is one baked pose sample
type PoseRecord struct {
	ID         uint                               `json:"id" gorm:"primarykey;autoIncrement"`
	SnapshotID uuid.UUID                          `json:"snapshotId" gorm:"type:uuid;index:idx_pose_snapshot_id"`
	Clip       string                             `json:"clip" gorm:"size:255"`
	Armature   string                             `json:"armature" gorm:"size:255"`
	Bone       string                             `json:"bone" gorm:"size:255"`
	Frame      int                                `json:"frame"`
	Transform  datatypes.JSONType[core.Transform] `json:"transform"`
}

func (*PoseRecord) TableName() string {
	return "poses"
}

// Package convert provides functions to convert between GORM models and scene snapshots
package convert

import (
	"github.com/calcium-format/exporter/internal/model"
	"github.com/calcium-format/exporter/pkg/scene"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SnapshotToGorm converts a scene.Snapshot to a GORM model.SceneSnapshot
// with the given ID. Every child record carries the same ID and its position
// in the source slice.
func SnapshotToGorm(id uuid.UUID, snap scene.Snapshot) model.SceneSnapshot {
	out := model.SceneSnapshot{
		ID:           id,
		Name:         snap.Name,
		FrameRate:    snap.FrameRate,
		CurrentFrame: snap.CurrentFrame,
		Selected:     datatypes.NewJSONSlice(orEmpty(snap.Selected)),
	}

	for i, o := range snap.Objects {
		out.Objects = append(out.Objects, model.SceneObject{
			SnapshotID: id,
			Position:   i,
			Name:       o.Name,
			Type:       string(o.Type),
			Parent:     o.Parent,
		})
	}
	for i, a := range snap.Armatures {
		out.Armatures = append(out.Armatures, model.ArmatureRecord{
			SnapshotID: id,
			Position:   i,
			Name:       a.Name,
			ActiveClip: a.ActiveClip,
			Bones:      datatypes.NewJSONSlice(orEmpty(a.Bones)),
		})
	}
	for i, m := range snap.Meshes {
		out.Meshes = append(out.Meshes, model.MeshRecord{
			SnapshotID:  id,
			Position:    i,
			Name:        m.Name,
			VertexCount: m.VertexCount,
			Groups:      datatypes.NewJSONSlice(orEmpty(m.Groups)),
		})
	}
	for i, c := range snap.Clips {
		out.Clips = append(out.Clips, model.ClipRecord{
			SnapshotID: id,
			Position:   i,
			Name:       c.Name,
			Curves:     datatypes.NewJSONSlice(orEmpty(c.Curves)),
		})
	}
	for _, p := range snap.Poses {
		out.Poses = append(out.Poses, model.PoseRecord{
			SnapshotID: id,
			Clip:       p.Clip,
			Armature:   p.Armature,
			Bone:       p.Bone,
			Frame:      p.Frame,
			Transform:  datatypes.NewJSONType(p.Transform),
		})
	}
	return out
}

// orEmpty keeps JSON columns as [] rather than null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

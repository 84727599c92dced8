package convert

import (
	"sort"

	"github.com/calcium-format/exporter/internal/model"
	"github.com/calcium-format/exporter/pkg/scene"
)

// GormToSnapshot converts a GORM model.SceneSnapshot with its preloaded
// children back to a scene.Snapshot. Children are ordered by Position, poses
// by insertion order.
func GormToSnapshot(s model.SceneSnapshot) scene.Snapshot {
	snap := scene.Snapshot{
		Name:         s.Name,
		FrameRate:    s.FrameRate,
		CurrentFrame: s.CurrentFrame,
		Selected:     nilIfEmpty([]string(s.Selected)),
	}

	objects := append([]model.SceneObject(nil), s.Objects...)
	sort.SliceStable(objects, func(i, j int) bool { return objects[i].Position < objects[j].Position })
	for _, o := range objects {
		snap.Objects = append(snap.Objects, scene.Object{
			Name:   o.Name,
			Type:   scene.ObjectType(o.Type),
			Parent: o.Parent,
		})
	}

	armatures := append([]model.ArmatureRecord(nil), s.Armatures...)
	sort.SliceStable(armatures, func(i, j int) bool { return armatures[i].Position < armatures[j].Position })
	for _, a := range armatures {
		snap.Armatures = append(snap.Armatures, scene.ArmatureState{
			Name:       a.Name,
			Bones:      nilIfEmpty([]scene.BoneInfo(a.Bones)),
			ActiveClip: a.ActiveClip,
		})
	}

	meshes := append([]model.MeshRecord(nil), s.Meshes...)
	sort.SliceStable(meshes, func(i, j int) bool { return meshes[i].Position < meshes[j].Position })
	for _, m := range meshes {
		snap.Meshes = append(snap.Meshes, scene.Mesh{
			Name:        m.Name,
			VertexCount: m.VertexCount,
			Groups:      nilIfEmpty([]scene.VertexGroup(m.Groups)),
		})
	}

	clips := append([]model.ClipRecord(nil), s.Clips...)
	sort.SliceStable(clips, func(i, j int) bool { return clips[i].Position < clips[j].Position })
	for _, c := range clips {
		snap.Clips = append(snap.Clips, scene.Clip{
			Name:   c.Name,
			Curves: nilIfEmpty([]scene.RawCurve(c.Curves)),
		})
	}

	poses := append([]model.PoseRecord(nil), s.Poses...)
	sort.SliceStable(poses, func(i, j int) bool { return poses[i].ID < poses[j].ID })
	for _, p := range poses {
		snap.Poses = append(snap.Poses, scene.PoseSample{
			Clip:      p.Clip,
			Armature:  p.Armature,
			Bone:      p.Bone,
			Frame:     p.Frame,
			Transform: p.Transform.Data(),
		})
	}
	return snap
}

func nilIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}

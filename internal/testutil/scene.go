// Package testutil builds scene snapshots for tests.
package testutil

import (
	"github.com/calcium-format/exporter/internal/storage/memory"
	"github.com/calcium-format/exporter/pkg/core"
	"github.com/calcium-format/exporter/pkg/scene"
)

// SceneBuilder assembles a scene.Snapshot fluently.
type SceneBuilder struct {
	snap scene.Snapshot
}

// NewScene starts an empty 24 fps scene.
func NewScene() *SceneBuilder {
	return &SceneBuilder{snap: scene.Snapshot{Name: "test", FrameRate: 24}}
}

// FrameRate sets the scene frame rate.
func (b *SceneBuilder) FrameRate(fps int) *SceneBuilder {
	b.snap.FrameRate = fps
	return b
}

// CurrentFrame sets the scene's current frame.
func (b *SceneBuilder) CurrentFrame(f int) *SceneBuilder {
	b.snap.CurrentFrame = f
	return b
}

// Object adds a plain object.
func (b *SceneBuilder) Object(name string, typ scene.ObjectType, parent string, selected bool) *SceneBuilder {
	b.snap.Objects = append(b.snap.Objects, scene.Object{Name: name, Type: typ, Parent: parent})
	if selected {
		b.snap.Selected = append(b.snap.Selected, name)
	}
	return b
}

// Armature adds an armature object with its bones.
func (b *SceneBuilder) Armature(name string, selected bool, bones ...scene.BoneInfo) *SceneBuilder {
	b.Object(name, scene.ObjectArmature, "", selected)
	b.snap.Armatures = append(b.snap.Armatures, scene.ArmatureState{Name: name, Bones: bones})
	return b
}

// ActiveClip sets the active clip of an already added armature.
func (b *SceneBuilder) ActiveClip(armature, clip string) *SceneBuilder {
	for i := range b.snap.Armatures {
		if b.snap.Armatures[i].Name == armature {
			b.snap.Armatures[i].ActiveClip = clip
		}
	}
	return b
}

// Mesh adds a mesh object parented to parent.
func (b *SceneBuilder) Mesh(name, parent string, vertexCount int, groups ...scene.VertexGroup) *SceneBuilder {
	b.Object(name, scene.ObjectMesh, parent, false)
	b.snap.Meshes = append(b.snap.Meshes, scene.Mesh{Name: name, VertexCount: vertexCount, Groups: groups})
	return b
}

// Clip adds an animation clip.
func (b *SceneBuilder) Clip(name string, curves ...[]scene.RawCurve) *SceneBuilder {
	c := scene.Clip{Name: name}
	for _, cs := range curves {
		c.Curves = append(c.Curves, cs...)
	}
	b.snap.Clips = append(b.snap.Clips, c)
	return b
}

// Pose adds one baked pose sample.
func (b *SceneBuilder) Pose(clip, armature, bone string, frame int, tr core.Transform) *SceneBuilder {
	b.snap.Poses = append(b.snap.Poses, scene.PoseSample{
		Clip: clip, Armature: armature, Bone: bone, Frame: frame, Transform: tr,
	})
	return b
}

// Bake adds pose samples for every bone at every frame using TranslatedBy.
func (b *SceneBuilder) Bake(clip, armature string, bones []string, frames ...int) *SceneBuilder {
	for _, bone := range bones {
		for _, f := range frames {
			b.Pose(clip, armature, bone, f, TranslatedBy(float64(f)))
		}
	}
	return b
}

// Snapshot returns the assembled snapshot.
func (b *SceneBuilder) Snapshot() scene.Snapshot {
	return b.snap
}

// Backend returns a memory backend serving the assembled snapshot.
func (b *SceneBuilder) Backend() *memory.Backend {
	return memory.New(b.snap)
}

// Bone builds a bone with an identity local transform.
func Bone(name, parent string) scene.BoneInfo {
	return scene.BoneInfo{Name: name, Parent: parent, Local: core.IdentityTransform}
}

// TranslatedBy is an identity transform moved along host +X.
func TranslatedBy(x float64) core.Transform {
	tr := core.IdentityTransform
	tr.Translation = core.Vec3{X: x}
	return tr
}

// Keys builds keyframe points sharing one interpolation and easing tag.
func Keys(interp, easing string, frames ...float64) []scene.RawKeyPoint {
	out := make([]scene.RawKeyPoint, len(frames))
	for i, f := range frames {
		out[i] = scene.RawKeyPoint{Frame: f, Interpolation: interp, Easing: easing}
	}
	return out
}

// LinearKeys builds LINEAR / EASE_IN_OUT keyframe points.
func LinearKeys(frames ...float64) []scene.RawKeyPoint {
	return Keys(scene.HostInterpolationLinear, scene.HostEasingInOut, frames...)
}

// Curves builds one raw curve per named component of a bone's curve kind,
// each with a copy of keys. With no components named, every component of
// the kind is built.
func Curves(bone string, kind core.CurveKind, keys []scene.RawKeyPoint, components ...string) []scene.RawCurve {
	want := make(map[string]bool, len(components))
	for _, c := range components {
		want[c] = true
	}

	var out []scene.RawCurve
	for _, c := range scene.Components(kind) {
		if len(components) > 0 && !want[c.Name] {
			continue
		}
		out = append(out, scene.RawCurve{
			Path:      scene.BoneCurvePath(bone, kind),
			Index:     c.Index,
			Keyframes: append([]scene.RawKeyPoint(nil), keys...),
		})
	}
	return out
}

// RiggedScene is a small scene exercising every snapshot field: one selected
// two-bone armature with a skinned child mesh, a camera, two clips and baked
// poses for the first.
func RiggedScene() *SceneBuilder {
	return NewScene().
		CurrentFrame(3).
		Armature("rig", true, Bone("root", ""), Bone("arm", "root")).
		ActiveClip("rig", "wave").
		Mesh("body", "rig", 3,
			scene.VertexGroup{Name: "root", Weights: map[int]float64{0: 1, 1: 0.5}},
			scene.VertexGroup{Name: "arm", Weights: map[int]float64{1: 0.5, 2: 1}},
		).
		Object("cam", scene.ObjectCamera, "", false).
		Clip("wave",
			Curves("root", core.CurveTranslation, LinearKeys(0, 10)),
			Curves("arm", core.CurveOrientation, Keys(scene.HostInterpolationConstant, scene.HostEasingAuto, 0, 5, 10)),
		).
		Clip(scene.ReservedPoseClip).
		Bake("wave", "rig", []string{"root", "arm"}, 0, 5, 10)
}

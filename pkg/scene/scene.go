// Package scene defines the boundary between the exporter and the host
// application that owns the animated scene. The exporter only ever reads a
// snapshot through Provider; host adapters and snapshot stores implement it.
//
// A Provider is not safe for concurrent exports: at most one export may drive
// a given Provider at a time, because sampling moves the scene's current frame
// and active clip.
package scene

import (
	"errors"

	"github.com/calcium-format/exporter/pkg/core"
)

// ObjectType is the host's type tag for a scene object
type ObjectType string

const (
	ObjectArmature ObjectType = "ARMATURE"
	ObjectMesh     ObjectType = "MESH"
	ObjectEmpty    ObjectType = "EMPTY"
	ObjectCamera   ObjectType = "CAMERA"
	ObjectLight    ObjectType = "LIGHT"
)

// ReservedPoseClip is the clip name the host uses for its internal pose
// library. It is never exported.
const ReservedPoseClip = "poses"

var (
	// ErrUnknownObject is returned when a named object does not exist in the scene
	ErrUnknownObject = errors.New("unknown scene object")
	// ErrUnknownClip is returned when a named animation clip does not exist
	ErrUnknownClip = errors.New("unknown animation clip")
	// ErrUnknownBone is returned when sampling a bone the armature does not have
	ErrUnknownBone = errors.New("unknown bone")
	// ErrPoseUnavailable is returned when the pose at a frame cannot be evaluated
	ErrPoseUnavailable = errors.New("pose unavailable")
	// ErrSessionReleased is returned when a released sampling session is used
	ErrSessionReleased = errors.New("sampling session already released")
)

// Object is a scene object with its type tag
type Object struct {
	Name   string     `json:"name"`
	Type   ObjectType `json:"type"`
	Parent string     `json:"parent,omitempty"`
}

// IsArmature reports whether the object is an armature.
func (o Object) IsArmature() bool {
	return o.Type == ObjectArmature
}

// BoneInfo is a bone as the host stores it, in the host's axis convention.
// Local is the bind transform relative to the armature.
type BoneInfo struct {
	Name   string         `json:"name"`
	Parent string         `json:"parent,omitempty"`
	Local  core.Transform `json:"local"`
}

// Armature is a read-only view of an armature object
type Armature struct {
	Name     string     `json:"name"`
	Bones    []BoneInfo `json:"bones"`
	Children []Object   `json:"children,omitempty"`
}

// VertexGroup is a named per-vertex weight channel of a mesh. Vertices
// missing from Weights are not assigned to the group.
type VertexGroup struct {
	Name    string          `json:"name"`
	Weights map[int]float64 `json:"weights"`
}

// Weight returns the weight of vertex i and whether the vertex is assigned.
func (g VertexGroup) Weight(i int) (float64, bool) {
	w, ok := g.Weights[i]
	return w, ok
}

// Mesh is a read-only view of a mesh object and its vertex groups
type Mesh struct {
	Name        string        `json:"name"`
	VertexCount int           `json:"vertexCount"`
	Groups      []VertexGroup `json:"groups"`
}

// RawKeyPoint is a keyframe point as authored in the host. Frame is the raw
// (possibly fractional) frame position.
type RawKeyPoint struct {
	Frame         float64 `json:"frame"`
	Interpolation string  `json:"interpolation"`
	Easing        string  `json:"easing"`
}

// RawCurve is one scalar component curve addressed by target path and
// component index
type RawCurve struct {
	Path      string        `json:"path"`
	Index     int           `json:"index"`
	Keyframes []RawKeyPoint `json:"keyframes"`
}

// Clip is an animation clip (host action) with its component curves
type Clip struct {
	Name   string     `json:"name"`
	Curves []RawCurve `json:"curves"`
}

// Find returns the curve with the given path and component index.
func (c Clip) Find(path string, index int) (RawCurve, bool) {
	for _, rc := range c.Curves {
		if rc.Path == path && rc.Index == index {
			return rc, true
		}
	}
	return RawCurve{}, false
}

// Provider is the capability set the exporter needs from the host scene.
type Provider interface {
	// SelectedObjects lists the currently selected objects.
	SelectedObjects() ([]Object, error)
	// Objects lists every object in the scene.
	Objects() ([]Object, error)
	// Armature returns the bones and children of the named armature.
	Armature(name string) (Armature, error)
	// Mesh returns the vertex groups of the named mesh.
	Mesh(name string) (Mesh, error)
	// Clips lists every animation clip in the scene.
	Clips() ([]Clip, error)
	// FrameRate returns the scene frame rate in frames per second.
	FrameRate() (int, error)
	// BeginSampling saves the scene's current frame and the armature's
	// active clip and returns a session that restores both on Release.
	BeginSampling(armature string) (Session, error)
}

// Session is a scoped pose sampling session on one armature. Release must be
// called on every exit path; it is safe to call more than once.
type Session interface {
	// UseClip makes the named clip the armature's active clip.
	UseClip(name string) error
	// Sample sets the scene frame and reads the bone's pose-space transform
	// at that frame, in the host's axis convention.
	Sample(bone string, frame int) (core.Transform, error)
	// Release restores the saved frame and active clip.
	Release() error
}

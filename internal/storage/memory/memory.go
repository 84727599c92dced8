package memory

import (
	"fmt"
	"sync"

	"github.com/calcium-format/exporter/pkg/core"
	"github.com/calcium-format/exporter/pkg/scene"
)

type poseKey struct {
	clip     string
	armature string
	bone     string
	frame    int
}

// Backend serves a scene snapshot from memory. It implements scene.Provider
// and tracks the scene's current frame and each armature's active clip the
// way a live host does, so sampling sessions can be observed in tests.
type Backend struct {
	snapshot scene.Snapshot

	objects   map[string]scene.Object
	selected  map[string]bool
	armatures map[string]scene.ArmatureState
	meshes    map[string]scene.Mesh
	clips     map[string]bool
	poses     map[poseKey]core.Transform

	currentFrame int
	active       map[string]string // armature -> active clip, absent if no animation data
	frameHistory []int
	openSessions int

	mu sync.Mutex
}

// New creates a memory backend serving the given snapshot.
func New(snap scene.Snapshot) *Backend {
	b := &Backend{
		snapshot:     snap,
		objects:      make(map[string]scene.Object, len(snap.Objects)),
		selected:     make(map[string]bool, len(snap.Selected)),
		armatures:    make(map[string]scene.ArmatureState, len(snap.Armatures)),
		meshes:       make(map[string]scene.Mesh, len(snap.Meshes)),
		clips:        make(map[string]bool, len(snap.Clips)),
		poses:        make(map[poseKey]core.Transform, len(snap.Poses)),
		currentFrame: snap.CurrentFrame,
		active:       make(map[string]string),
	}

	for _, o := range snap.Objects {
		b.objects[o.Name] = o
	}
	for _, name := range snap.Selected {
		b.selected[name] = true
	}
	for _, a := range snap.Armatures {
		b.armatures[a.Name] = a
		if a.ActiveClip != "" {
			b.active[a.Name] = a.ActiveClip
		}
	}
	for _, m := range snap.Meshes {
		b.meshes[m.Name] = m
	}
	for _, c := range snap.Clips {
		b.clips[c.Name] = true
	}
	for _, p := range snap.Poses {
		b.poses[poseKey{p.Clip, p.Armature, p.Bone, p.Frame}] = p.Transform
	}
	return b
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// Snapshot returns the snapshot the backend was created from.
func (b *Backend) Snapshot() scene.Snapshot {
	return b.snapshot
}

// SelectedObjects lists the selected objects in scene order.
func (b *Backend) SelectedObjects() ([]scene.Object, error) {
	var out []scene.Object
	for _, o := range b.snapshot.Objects {
		if b.selected[o.Name] {
			out = append(out, o)
		}
	}
	return out, nil
}

// Objects lists every object in scene order.
func (b *Backend) Objects() ([]scene.Object, error) {
	out := make([]scene.Object, len(b.snapshot.Objects))
	copy(out, b.snapshot.Objects)
	return out, nil
}

// Armature returns the named armature with its child objects.
func (b *Backend) Armature(name string) (scene.Armature, error) {
	a, ok := b.armatures[name]
	if !ok {
		return scene.Armature{}, fmt.Errorf("armature %q: %w", name, scene.ErrUnknownObject)
	}

	arm := scene.Armature{
		Name:  a.Name,
		Bones: append([]scene.BoneInfo(nil), a.Bones...),
	}
	for _, o := range b.snapshot.Objects {
		if o.Parent == name {
			arm.Children = append(arm.Children, o)
		}
	}
	return arm, nil
}

// Mesh returns the named mesh.
func (b *Backend) Mesh(name string) (scene.Mesh, error) {
	m, ok := b.meshes[name]
	if !ok {
		return scene.Mesh{}, fmt.Errorf("mesh %q: %w", name, scene.ErrUnknownObject)
	}
	return m, nil
}

// Clips lists every animation clip in scene order.
func (b *Backend) Clips() ([]scene.Clip, error) {
	out := make([]scene.Clip, len(b.snapshot.Clips))
	copy(out, b.snapshot.Clips)
	return out, nil
}

// FrameRate returns the scene frame rate.
func (b *Backend) FrameRate() (int, error) {
	return b.snapshot.FrameRate, nil
}

// CurrentFrame returns the scene's current evaluation frame.
func (b *Backend) CurrentFrame() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentFrame
}

// ActiveClip returns the active clip of an armature and whether the armature
// has animation data.
func (b *Backend) ActiveClip(armature string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.active[armature]
	return c, ok
}

// FrameHistory returns every frame set through sampling, in order.
func (b *Backend) FrameHistory() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int(nil), b.frameHistory...)
}

// OpenSessions returns the number of sampling sessions not yet released.
func (b *Backend) OpenSessions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.openSessions
}

// BeginSampling opens a sampling session on the named armature.
func (b *Backend) BeginSampling(armature string) (scene.Session, error) {
	a, ok := b.armatures[armature]
	if !ok {
		return nil, fmt.Errorf("armature %q: %w", armature, scene.ErrUnknownObject)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	s := &session{
		backend:    b,
		armature:   armature,
		bones:      make(map[string]bool, len(a.Bones)),
		savedFrame: b.currentFrame,
	}
	s.savedClip, s.hadAnimData = b.active[armature]
	for _, bone := range a.Bones {
		s.bones[bone.Name] = true
	}
	b.openSessions++
	return s, nil
}

type session struct {
	backend     *Backend
	armature    string
	bones       map[string]bool
	savedFrame  int
	savedClip   string
	hadAnimData bool
	released    bool
}

func (s *session) UseClip(name string) error {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if s.released {
		return scene.ErrSessionReleased
	}
	if !b.clips[name] {
		return fmt.Errorf("clip %q: %w", name, scene.ErrUnknownClip)
	}
	b.active[s.armature] = name
	return nil
}

func (s *session) Sample(bone string, frame int) (core.Transform, error) {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if s.released {
		return core.Transform{}, scene.ErrSessionReleased
	}
	if !s.bones[bone] {
		return core.Transform{}, fmt.Errorf("bone %q of armature %q: %w", bone, s.armature, scene.ErrUnknownBone)
	}

	b.currentFrame = frame
	b.frameHistory = append(b.frameHistory, frame)

	clip := b.active[s.armature]
	tr, ok := b.poses[poseKey{clip, s.armature, bone, frame}]
	if !ok {
		return core.Transform{}, fmt.Errorf("bone %q in clip %q at frame %d: %w", bone, clip, frame, scene.ErrPoseUnavailable)
	}
	return tr, nil
}

func (s *session) Release() error {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if s.released {
		return nil
	}
	s.released = true
	b.openSessions--

	b.currentFrame = s.savedFrame
	if s.hadAnimData {
		b.active[s.armature] = s.savedClip
	} else {
		delete(b.active, s.armature)
	}
	return nil
}

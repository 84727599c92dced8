package scene

import "github.com/calcium-format/exporter/pkg/core"

// Snapshot is a complete, serializable capture of a host scene. Host adapters
// produce it; snapshot stores persist it and serve it back as a Provider.
type Snapshot struct {
	Name         string          `json:"name"`
	FrameRate    int             `json:"frameRate"`
	CurrentFrame int             `json:"currentFrame"`
	Objects      []Object        `json:"objects"`
	Selected     []string        `json:"selected"`
	Armatures    []ArmatureState `json:"armatures"`
	Meshes       []Mesh          `json:"meshes"`
	Clips        []Clip          `json:"clips"`
	Poses        []PoseSample    `json:"poses"`
}

// ArmatureState is an armature's bones plus its animation slot. ActiveClip is
// empty when the armature has no animation data.
type ArmatureState struct {
	Name       string     `json:"name"`
	Bones      []BoneInfo `json:"bones"`
	ActiveClip string     `json:"activeClip,omitempty"`
}

// PoseSample is a baked pose-space transform of a bone at a frame while a
// clip is active, in the host's axis convention.
type PoseSample struct {
	Clip      string         `json:"clip"`
	Armature  string         `json:"armature"`
	Bone      string         `json:"bone"`
	Frame     int            `json:"frame"`
	Transform core.Transform `json:"transform"`
}

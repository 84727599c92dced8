package core

// Bone is a named joint of a skeleton. Parent is empty for root bones.
type Bone struct {
	Name      string    `json:"name"`
	Parent    string    `json:"parent,omitempty"`
	Transform Transform `json:"transform"`
}

// HasParent reports whether the bone references a parent bone.
func (b Bone) HasParent() bool {
	return b.Parent != ""
}

// Skeleton is a named, ordered set of bones. Bones keep the order the host
// declared them in.
type Skeleton struct {
	Name  string `json:"name"`
	Bones []Bone `json:"bones"`
}

// Bone returns the bone with the given name.
func (s Skeleton) Bone(name string) (Bone, bool) {
	for _, b := range s.Bones {
		if b.Name == name {
			return b, true
		}
	}
	return Bone{}, false
}

// BoneNames returns the names of all bones in declaration order.
func (s Skeleton) BoneNames() []string {
	names := make([]string, len(s.Bones))
	for i, b := range s.Bones {
		names[i] = b.Name
	}
	return names
}

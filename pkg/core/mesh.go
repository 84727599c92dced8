package core

// MeshWeightArray holds one weight per mesh vertex for a single bone binding.
// Weights has exactly as many entries as the mesh has vertices.
type MeshWeightArray struct {
	Bone    string    `json:"bone"`
	Weights []float64 `json:"weights"`
}

// MeshWeightSet is the full set of bone weight arrays of a mesh
type MeshWeightSet struct {
	Mesh   string            `json:"mesh"`
	Arrays []MeshWeightArray `json:"arrays"`
}

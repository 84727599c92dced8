package convert

import (
	"github.com/calcium-format/exporter/pkg/core"
	"github.com/calcium-format/exporter/pkg/scene"
)

// MeshWeights builds one dense weight array per vertex group, in vertex
// index order. Vertices not assigned to a group get weight zero. The second
// return value is false when the mesh has no vertex groups.
func MeshWeights(mesh scene.Mesh, log Logger) (core.MeshWeightSet, bool) {
	log = orNop(log)
	log.Debug("considering mesh for export", "mesh", mesh.Name)

	if len(mesh.Groups) == 0 {
		return core.MeshWeightSet{}, false
	}

	set := core.MeshWeightSet{
		Mesh:   mesh.Name,
		Arrays: make([]core.MeshWeightArray, 0, len(mesh.Groups)),
	}
	for _, g := range mesh.Groups {
		log.Debug("exporting weights", "mesh", mesh.Name, "bone", g.Name, "count", mesh.VertexCount)

		weights := make([]float64, mesh.VertexCount)
		for i := range weights {
			if w, ok := g.Weight(i); ok {
				weights[i] = w
			}
		}
		set.Arrays = append(set.Arrays, core.MeshWeightArray{Bone: g.Name, Weights: weights})
	}
	return set, true
}

package convert

import (
	"strings"

	"github.com/calcium-format/exporter/internal/geo"
	"github.com/calcium-format/exporter/internal/report"
	"github.com/calcium-format/exporter/pkg/core"
	"github.com/calcium-format/exporter/pkg/scene"
)

// Skeleton converts an armature's bones, keeping the host's declaration
// order. A bone whose name repeats an earlier one is reported and dropped. A parent that names no bone of the armature is reported and dropped
// from the bone; parent cycles are reported once per cycle.
func Skeleton(arm scene.Armature, tr geo.Transformer, errs *report.Collector) core.Skeleton {
	known := make(map[string]bool, len(arm.Bones))
	for _, b := range arm.Bones {
		known[b.Name] = true
	}

	sk := core.Skeleton{
		Name:  arm.Name,
		Bones: make([]core.Bone, 0, len(arm.Bones)),
	}
	seen := make(map[string]bool, len(arm.Bones))
	for _, b := range arm.Bones {
		if seen[b.Name] {
			errs.Add(report.DuplicateBoneName, report.Context{Skeleton: arm.Name, Bone: b.Name},
				"bone name %q is used more than once in skeleton %q; only the first is exported",
				b.Name, arm.Name)
			continue
		}
		seen[b.Name] = true

		bone := core.Bone{
			Name:      b.Name,
			Transform: tr.Transform(b.Local),
		}
		if b.Parent != "" {
			if known[b.Parent] {
				bone.Parent = b.Parent
			} else {
				errs.Add(report.UnknownBoneParent, report.Context{Skeleton: arm.Name, Bone: b.Name},
					"bone %q names parent %q, which is not a bone of skeleton %q",
					b.Name, b.Parent, arm.Name)
			}
		}
		sk.Bones = append(sk.Bones, bone)
	}

	checkCycles(sk, errs)
	return sk
}

// checkCycles walks every bone's parent chain with a visited set. Each bone is
// entered at most once, so the walk is bounded by the bone count.
func checkCycles(sk core.Skeleton, errs *report.Collector) {
	parents := make(map[string]string, len(sk.Bones))
	for _, b := range sk.Bones {
		if b.HasParent() {
			parents[b.Name] = b.Parent
		}
	}

	const (
		unvisited = iota
		walking
		done
	)
	state := make(map[string]int, len(sk.Bones))

	for _, b := range sk.Bones {
		if state[b.Name] != unvisited {
			continue
		}

		var path []string
		name := b.Name
		for {
			if state[name] == done {
				break
			}
			if state[name] == walking {
				start := 0
				for i, p := range path {
					if p == name {
						start = i
						break
					}
				}
				cycle := append(append([]string{}, path[start:]...), name)
				errs.Add(report.BoneHierarchyCycle, report.Context{Skeleton: sk.Name, Bone: name},
					"bones form a parent cycle: %s", strings.Join(cycle, " -> "))
				break
			}
			state[name] = walking
			path = append(path, name)

			parent, ok := parents[name]
			if !ok {
				break
			}
			name = parent
		}
		for _, p := range path {
			state[p] = done
		}
	}
}

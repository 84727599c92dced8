// Package geo converts bone transforms between the host's axis convention and
// the Calcium axis convention.
package geo

import (
	"math"

	"github.com/calcium-format/exporter/pkg/core"
)

// AXIS CONVERSION
// The host scene is +Z up, +Y forward. Calcium documents are +Y up, -Z forward.
// Every conversion is derived from a single 3x3 axis remap matrix so the three
// transform parts can never disagree about the convention.

// Matrix3 is a row-major 3x3 matrix
type Matrix3 [3][3]float64

// HostToCalcium maps host axes onto Calcium axes: (x, y, z) -> (x, z, -y).
var HostToCalcium = Matrix3{
	{1, 0, 0},
	{0, 0, 1},
	{0, -1, 0},
}

// Apply multiplies the vector by the matrix.
func (m Matrix3) Apply(v core.Vec3) core.Vec3 {
	return core.Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Transpose returns the transposed matrix, which is the inverse of an axis remap.
func (m Matrix3) Transpose() Matrix3 {
	var t Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t[i][j] = m[j][i]
		}
	}
	return t
}

// Transformer converts translations, scales and orientations through one
// axis remap matrix. The zero value is not usable; use NewTransformer.
type Transformer struct {
	m Matrix3
	// perm[i] is the source axis feeding target axis i
	perm [3]int
}

// NewTransformer builds a Transformer for the given axis remap matrix.
func NewTransformer(m Matrix3) Transformer {
	t := Transformer{m: m}
	for i := 0; i < 3; i++ {
		best := 0
		for j := 1; j < 3; j++ {
			if math.Abs(m[i][j]) > math.Abs(m[i][best]) {
				best = j
			}
		}
		t.perm[i] = best
	}
	return t
}

// Default converts from the host convention to the Calcium convention.
var Default = NewTransformer(HostToCalcium)

// Inverse returns the Transformer for the reverse conversion.
func (t Transformer) Inverse() Transformer {
	return NewTransformer(t.m.Transpose())
}

// Translation remaps a position through the axis matrix.
func (t Transformer) Translation(v core.Vec3) core.Vec3 {
	return t.m.Apply(v)
}

// Scale reassigns scale components to their target axes. Signs are not
// applied, so a remap can never produce a negative scale.
func (t Transformer) Scale(v core.Vec3) core.Vec3 {
	in := [3]float64{v.X, v.Y, v.Z}
	return core.Vec3{X: in[t.perm[0]], Y: in[t.perm[1]], Z: in[t.perm[2]]}
}

// Orientation remaps the rotation axis of q and keeps its angle.
func (t Transformer) Orientation(q core.Quat) core.Quat {
	axis, angle := q.AxisAngle()
	if angle == 0 {
		return core.IdentityQuat
	}
	return core.QuatFromAxisAngle(t.m.Apply(axis), angle)
}

// Transform converts all three parts of a transform.
func (t Transformer) Transform(tr core.Transform) core.Transform {
	return core.Transform{
		Translation: t.Translation(tr.Translation),
		Scale:       t.Scale(tr.Scale),
		Orientation: t.Orientation(tr.Orientation),
	}
}

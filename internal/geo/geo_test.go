package geo

import (
	"math"
	"testing"

	"github.com/calcium-format/exporter/pkg/core"
	"github.com/stretchr/testify/assert"
)

const tolerance = 1e-9

func assertVec3(t *testing.T, expected, actual core.Vec3) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, tolerance, "x")
	assert.InDelta(t, expected.Y, actual.Y, tolerance, "y")
	assert.InDelta(t, expected.Z, actual.Z, tolerance, "z")
}

// assertSameRotation accepts q or -q, which encode the same rotation.
func assertSameRotation(t *testing.T, expected, actual core.Quat) {
	t.Helper()
	dot := expected.X*actual.X + expected.Y*actual.Y + expected.Z*actual.Z + expected.W*actual.W
	assert.InDelta(t, 1.0, math.Abs(dot), 1e-9, "expected %+v, got %+v", expected, actual)
}

func TestTranslation_RemapsAxes(t *testing.T) {
	tests := []struct {
		name     string
		input    core.Vec3
		expected core.Vec3
	}{
		{"host up becomes +Y", core.Vec3{Z: 1}, core.Vec3{Y: 1}},
		{"host forward becomes -Z", core.Vec3{Y: 1}, core.Vec3{Z: -1}},
		{"x is kept", core.Vec3{X: 2}, core.Vec3{X: 2}},
		{"mixed", core.Vec3{X: 1, Y: 2, Z: 3}, core.Vec3{X: 1, Y: 3, Z: -2}},
		{"zero", core.Vec3{}, core.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertVec3(t, tt.expected, Default.Translation(tt.input))
		})
	}
}

func TestScale_PermutesWithoutSign(t *testing.T) {
	got := Default.Scale(core.Vec3{X: 1, Y: 2, Z: 3})
	assertVec3(t, core.Vec3{X: 1, Y: 3, Z: 2}, got)

	// the remap sends +Y to -Z, but a scale must stay positive
	assert.True(t, got.Z > 0)
}

func TestOrientation_Identity(t *testing.T) {
	assert.Equal(t, core.IdentityQuat, Default.Orientation(core.IdentityQuat))
}

func TestOrientation_RemapsAxisKeepsAngle(t *testing.T) {
	// 90 degrees about host +Z (up) is 90 degrees about Calcium +Y (up)
	q := core.QuatFromAxisAngle(core.Vec3{Z: 1}, math.Pi/2)
	got := Default.Orientation(q)

	assertSameRotation(t, core.QuatFromAxisAngle(core.Vec3{Y: 1}, math.Pi/2), got)

	axis, angle := got.AxisAngle()
	assert.InDelta(t, math.Pi/2, angle, tolerance)
	assertVec3(t, core.Vec3{Y: 1}, axis)
}

func TestOrientation_NonUnitInputIsNormalized(t *testing.T) {
	q := core.QuatFromAxisAngle(core.Vec3{X: 1}, 0.5)
	scaled := core.Quat{X: q.X * 3, Y: q.Y * 3, Z: q.Z * 3, W: q.W * 3}
	assertSameRotation(t, Default.Orientation(q), Default.Orientation(scaled))
}

func TestRoundTrip(t *testing.T) {
	inverse := Default.Inverse()

	orientations := []core.Quat{
		core.IdentityQuat,
		core.QuatFromAxisAngle(core.Vec3{X: 1}, 0.3),
		core.QuatFromAxisAngle(core.Vec3{Y: 1}, -1.2),
		core.QuatFromAxisAngle(core.Vec3{X: 1, Y: 2, Z: -3}, 2.9),
		core.QuatFromAxisAngle(core.Vec3{Z: 1}, math.Pi),
	}
	for _, q := range orientations {
		assertSameRotation(t, q, inverse.Orientation(Default.Orientation(q)))
	}

	v := core.Vec3{X: 1.5, Y: -2.25, Z: 4}
	assertVec3(t, v, inverse.Translation(Default.Translation(v)))
	assertVec3(t, v, inverse.Scale(Default.Scale(v)))
}

func TestTransform_ConvertsAllParts(t *testing.T) {
	in := core.Transform{
		Translation: core.Vec3{X: 1, Y: 2, Z: 3},
		Scale:       core.Vec3{X: 1, Y: 2, Z: 3},
		Orientation: core.IdentityQuat,
	}
	out := Default.Transform(in)

	assertVec3(t, core.Vec3{X: 1, Y: 3, Z: -2}, out.Translation)
	assertVec3(t, core.Vec3{X: 1, Y: 3, Z: 2}, out.Scale)
	assert.Equal(t, core.IdentityQuat, out.Orientation)
}

func TestMatrixTranspose(t *testing.T) {
	m := HostToCalcium.Transpose()
	assert.Equal(t, Matrix3{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}}, m)
	assert.Equal(t, HostToCalcium, m.Transpose())
}

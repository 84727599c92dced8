package core

import "math"

// Vec3 is a three component vector (translation or scale)
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quat is an orientation quaternion stored in x/y/z/w order
type Quat struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// IdentityQuat is the quaternion representing no rotation
var IdentityQuat = Quat{W: 1}

// Len returns the length of the vector.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns v scaled to unit length. A zero vector is returned unchanged.
func (v Vec3) Normalized() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return Vec3{X: v.X / l, Y: v.Y / l, Z: v.Z / l}
}

// Norm returns the magnitude of the quaternion.
func (q Quat) Norm() float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normalized returns q scaled to unit length. A zero quaternion yields the identity.
func (q Quat) Normalized() Quat {
	n := q.Norm()
	if n == 0 {
		return IdentityQuat
	}
	return Quat{X: q.X / n, Y: q.Y / n, Z: q.Z / n, W: q.W / n}
}

// QuatFromAxisAngle builds a unit quaternion rotating angle radians about axis.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	axis = axis.Normalized()
	s := math.Sin(angle / 2)
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: math.Cos(angle / 2),
	}
}

// AxisAngle decomposes the quaternion into a unit rotation axis and an angle
// in radians. A rotation of zero angle reports the +X axis.
func (q Quat) AxisAngle() (Vec3, float64) {
	q = q.Normalized()
	w := math.Max(-1, math.Min(1, q.W))
	angle := 2 * math.Acos(w)
	s := math.Sqrt(1 - w*w)
	if s < 1e-9 {
		return Vec3{X: 1}, 0
	}
	return Vec3{X: q.X / s, Y: q.Y / s, Z: q.Z / s}, angle
}

// Transform is a decomposed local or pose-space bone transform
type Transform struct {
	Translation Vec3 `json:"translation"`
	Scale       Vec3 `json:"scale"`
	Orientation Quat `json:"orientation"`
}

// IdentityTransform has zero translation, unit scale and no rotation
var IdentityTransform = Transform{
	Scale:       Vec3{X: 1, Y: 1, Z: 1},
	Orientation: IdentityQuat,
}

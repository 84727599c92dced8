package core

// CurveKind identifies which part of a bone transform a curve animates
type CurveKind string

const (
	CurveTranslation CurveKind = "translation"
	CurveScale       CurveKind = "scale"
	CurveOrientation CurveKind = "orientation"
)

// CurveKinds lists every curve kind in export order.
var CurveKinds = []CurveKind{CurveTranslation, CurveScale, CurveOrientation}

// Interpolation is a supported keyframe interpolation mode
type Interpolation string

const (
	InterpolationConstant    Interpolation = "constant"
	InterpolationLinear      Interpolation = "linear"
	InterpolationExponential Interpolation = "exponential"
)

// Interpolations is the supported interpolation set.
var Interpolations = []Interpolation{InterpolationConstant, InterpolationLinear, InterpolationExponential}

// Easing is a supported keyframe easing mode
type Easing string

const (
	EasingIn    Easing = "in"
	EasingOut   Easing = "out"
	EasingInOut Easing = "in-out"
)

// Easings is the supported easing set.
var Easings = []Easing{EasingIn, EasingOut, EasingInOut}

// Keyframe is a validated, sampled point on a curve. Vector is set for
// translation and scale curves, Quaternion for orientation curves.
type Keyframe struct {
	Index         int           `json:"index"`
	Interpolation Interpolation `json:"interpolation"`
	Easing        Easing        `json:"easing"`
	Vector        Vec3          `json:"vector"`
	Quaternion    Quat          `json:"quaternion"`
}

// Curve is the exported animation of one transform part of one bone.
// Keyframes are in ascending frame index order.
type Curve struct {
	Bone      string     `json:"bone"`
	Kind      CurveKind  `json:"kind"`
	Keyframes []Keyframe `json:"keyframes"`
}

// Action is a named animation clip
type Action struct {
	Name   string  `json:"name"`
	Curves []Curve `json:"curves"`
}

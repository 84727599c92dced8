package scene

import (
	"fmt"

	"github.com/calcium-format/exporter/pkg/core"
)

// Host interpolation tags
const (
	HostInterpolationConstant = "CONSTANT"
	HostInterpolationLinear   = "LINEAR"
	HostInterpolationExpo     = "EXPO"
	HostInterpolationBezier   = "BEZIER"
)

// Host easing tags
const (
	HostEasingIn    = "EASE_IN"
	HostEasingOut   = "EASE_OUT"
	HostEasingInOut = "EASE_IN_OUT"
	HostEasingAuto  = "AUTO"
)

// Component names one scalar channel of a curve group and its host index
type Component struct {
	Name  string
	Index int
}

var (
	vectorComponents = []Component{{"x", 0}, {"y", 1}, {"z", 2}}
	// orientation curves are stored w-first by the host
	quaternionComponents = []Component{{"w", 0}, {"x", 1}, {"y", 2}, {"z", 3}}
)

// Components returns the component channels making up a curve kind.
func Components(kind core.CurveKind) []Component {
	if kind == core.CurveOrientation {
		return quaternionComponents
	}
	return vectorComponents
}

// BoneCurvePath returns the host target path of a bone's curve kind.
func BoneCurvePath(bone string, kind core.CurveKind) string {
	var property string
	switch kind {
	case core.CurveTranslation:
		property = "location"
	case core.CurveScale:
		property = "scale"
	case core.CurveOrientation:
		property = "rotation_quaternion"
	}
	return fmt.Sprintf(`pose.bones["%s"].%s`, bone, property)
}

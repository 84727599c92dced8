package calcium

import (
	"bufio"
	"errors"
	"strings"
	"testing"

	"github.com/calcium-format/exporter/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument() Document {
	return Document{
		FrameRate: 24,
		Skeletons: []core.Skeleton{{
			Name: "Rig",
			Bones: []core.Bone{
				{Name: "root", Transform: core.IdentityTransform},
				{Name: "spine", Parent: "root", Transform: core.Transform{
					Translation: core.Vec3{X: 0, Y: 1.5, Z: -0.25},
					Scale:       core.Vec3{X: 1, Y: 1, Z: 1},
					Orientation: core.IdentityQuat,
				}},
			},
		}},
		Meshes: []core.MeshWeightSet{{
			Mesh:   "Body",
			Arrays: []core.MeshWeightArray{{Bone: "spine", Weights: []float64{1, 0}}},
		}},
		Actions: []core.Action{{
			Name: "walk",
			Curves: []core.Curve{
				{
					Bone: "root",
					Kind: core.CurveTranslation,
					Keyframes: []core.Keyframe{
						{Index: 0, Interpolation: core.InterpolationLinear, Easing: core.EasingInOut, Vector: core.Vec3{}},
						{Index: 10, Interpolation: core.InterpolationLinear, Easing: core.EasingInOut, Vector: core.Vec3{X: 2}},
					},
				},
				{
					Bone: "spine",
					Kind: core.CurveOrientation,
					Keyframes: []core.Keyframe{
						{Index: 5, Interpolation: core.InterpolationConstant, Easing: core.EasingIn, Quaternion: core.IdentityQuat},
					},
				},
			},
		}},
	}
}

const wantDocument = `[version 1 0]
[action-fps 24]
[skeleton
  [skeleton-name "Rig"]
  [skeleton-bones
    [bone
      [bone-name             "root"]
      [bone-translation      0.000000 0.000000 0.000000]
      [bone-scale            1.000000 1.000000 1.000000]
      [bone-orientation-xyzw 0.000000 0.000000 0.000000 1.000000]]
    [bone
      [bone-name             "spine"]
      [bone-parent           "root"]
      [bone-translation      0.000000 1.500000 -0.250000]
      [bone-scale            1.000000 1.000000 1.000000]
      [bone-orientation-xyzw 0.000000 0.000000 0.000000 1.000000]]
  ]
]
[mesh
  [mesh-name "Body"]
  [mesh-weight-arrays
    [mesh-weight-array
      [mesh-weight-array-bone "spine"]
      [mesh-weight-array-values
        [mesh-weight-array-value 1.000000]
        [mesh-weight-array-value 0.000000]
      ]
    ]
  ]
]
[action
  [name "walk"]
  [curves

    [curve
      [curve-bone "root"]
      [curve-type translation]
      [curve-keyframes
        [curve-keyframe
          [curve-keyframe-index 0]
          [curve-keyframe-interpolation "linear"]
          [curve-keyframe-easing "in-out"]
          [curve-keyframe-vector3 0.000000 0.000000 0.000000]]
        [curve-keyframe
          [curve-keyframe-index 10]
          [curve-keyframe-interpolation "linear"]
          [curve-keyframe-easing "in-out"]
          [curve-keyframe-vector3 2.000000 0.000000 0.000000]]
    ]]

    [curve
      [curve-bone "spine"]
      [curve-type orientation]
      [curve-keyframes
        [curve-keyframe
          [curve-keyframe-index 5]
          [curve-keyframe-interpolation "constant"]
          [curve-keyframe-easing "in"]
          [curve-keyframe-quaternion-xyzw 0.000000 0.000000 0.000000 1.000000]]
    ]]

]]

`

func TestEncode(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Encode(&b, testDocument(), DefaultPrecision))
	assert.Equal(t, wantDocument, b.String())
}

func TestMarshal_Deterministic(t *testing.T) {
	first, err := Marshal(testDocument(), -1)
	require.NoError(t, err)
	second, err := Marshal(testDocument(), -1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, wantDocument, string(first))
}

func TestEncode_EmptyAction(t *testing.T) {
	var b strings.Builder
	w := NewWriter(&b, DefaultPrecision)
	w.Action(core.Action{Name: "idle"})
	require.NoError(t, w.Flush())
	assert.Equal(t, "[action\n  [name \"idle\"]\n  [curves\n\n]]\n\n", b.String())
}

func TestNumberFormatting(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{"default", 6, 0.5, "0.500000"},
		{"rounding", 6, 1.0000004, "1.000000"},
		{"negative", 6, -2.25, "-2.250000"},
		{"negative zero", 6, negativeZero(), "0.000000"},
		{"custom precision", 3, 3.14159, "3.142"},
		{"zero precision", 0, 2.6, "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter(&strings.Builder{}, tt.precision)
			assert.Equal(t, tt.expected, w.number(tt.value))
		})
	}
}

func negativeZero() float64 {
	z := 0.0
	return -z
}

func TestQuote(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"root", `"root"`},
		{`say "hi"`, `"say \"hi\""`},
		{`back\slash`, `"back\\slash"`},
		{"", `""`},
		{"bône", `"bône"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Quote(tt.input))
		})
	}
}

type failingWriter struct {
	writes int
}

var errDiskFull = errors.New("disk full")

func (f *failingWriter) Write(p []byte) (int, error) {
	f.writes++
	return 0, errDiskFull
}

func TestWriter_StickyError(t *testing.T) {
	fw := &failingWriter{}
	w := &Writer{w: bufio.NewWriterSize(fw, 1), precision: DefaultPrecision}

	w.Header(24)
	w.Skeleton(testDocument().Skeletons[0])

	err := w.Flush()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errDiskFull))
	assert.Equal(t, err, w.Err())
	assert.Equal(t, 1, fw.writes)
}

package validate

import (
	"testing"

	"github.com/calcium-format/exporter/internal/report"
	"github.com/calcium-format/exporter/pkg/core"
	"github.com/calcium-format/exporter/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(interp, easing string, frames ...float64) []scene.RawKeyPoint {
	out := make([]scene.RawKeyPoint, len(frames))
	for i, f := range frames {
		out[i] = scene.RawKeyPoint{Frame: f, Interpolation: interp, Easing: easing}
	}
	return out
}

func linear(frames ...float64) []scene.RawKeyPoint {
	return keys(scene.HostInterpolationLinear, scene.HostEasingInOut, frames...)
}

func channel(name string, kps []scene.RawKeyPoint) Channel {
	return Channel{Name: name, Present: true, Keyframes: kps}
}

func missing(name string) Channel {
	return Channel{Name: name}
}

func translationGroup(channels ...Channel) Group {
	return Group{
		Context:  report.Context{Action: "walk", Bone: "hip", Group: string(core.CurveTranslation)},
		Channels: channels,
	}
}

func kinds(c *report.Collector) []report.Kind {
	var out []report.Kind
	for _, e := range c.Entries() {
		out = append(out, e.Kind)
	}
	return out
}

func TestValidate_AllAbsentIsSkippedSilently(t *testing.T) {
	var errs report.Collector
	res := New(StrictnessFull).Validate(translationGroup(missing("x"), missing("y"), missing("z")), &errs)

	assert.Equal(t, Absent, res.Status)
	assert.Empty(t, res.Frames)
	assert.True(t, errs.Empty())
}

func TestValidate_NoChannels(t *testing.T) {
	var errs report.Collector
	res := New(StrictnessFull).Validate(Group{}, &errs)
	assert.Equal(t, Absent, res.Status)
	assert.True(t, errs.Empty())
}

func TestValidate_MissingChannel(t *testing.T) {
	var errs report.Collector
	g := translationGroup(channel("x", linear(0, 10)), channel("y", linear(0, 10)), missing("z"))
	res := New(StrictnessFull).Validate(g, &errs)

	assert.Equal(t, Invalid, res.Status)
	assert.Empty(t, res.Frames)
	require.Equal(t, 1, errs.Len())
	entry := errs.Entries()[0]
	assert.Equal(t, report.MissingChannelInGroup, entry.Kind)
	assert.Equal(t, "z", entry.Context.Channel)
	assert.Equal(t, "hip", entry.Context.Bone)
	assert.Contains(t, entry.Message, "x, y")
}

func TestValidate_OneErrorPerMissingChannel(t *testing.T) {
	var errs report.Collector
	g := Group{
		Context: report.Context{Bone: "hip", Group: string(core.CurveOrientation)},
		Channels: []Channel{
			channel("w", linear(0)), missing("x"), channel("y", linear(0)), missing("z"),
		},
	}
	res := New(StrictnessFull).Validate(g, &errs)

	assert.Equal(t, Invalid, res.Status)
	require.Equal(t, 2, errs.Len())
	assert.Equal(t, "x", errs.Entries()[0].Context.Channel)
	assert.Equal(t, "z", errs.Entries()[1].Context.Channel)
}

func TestValidate_CountMismatch(t *testing.T) {
	var errs report.Collector
	g := translationGroup(channel("x", linear(0, 10)), channel("y", linear(0)), channel("z", linear(0, 10)))
	res := New(StrictnessFull).Validate(g, &errs)

	assert.Equal(t, Invalid, res.Status)
	require.Equal(t, 1, errs.Len())
	entry := errs.Entries()[0]
	assert.Equal(t, report.KeyframeCountMismatch, entry.Kind)
	assert.Contains(t, entry.Message, "x=2, y=1, z=2")
}

func TestValidate_CorrespondenceMissing(t *testing.T) {
	var errs report.Collector
	g := translationGroup(channel("x", linear(0, 10)), channel("y", linear(0, 10)), channel("z", linear(0, 5)))
	res := New(StrictnessFull).Validate(g, &errs)

	assert.Equal(t, Invalid, res.Status)
	entries := errs.Entries()
	require.Len(t, entries, 3)

	// frame 5 is missing on x and y, frame 10 on z
	assert.Equal(t, 5, *entries[0].Context.Frame)
	assert.Equal(t, "x", entries[0].Context.Channel)
	assert.Contains(t, entries[0].Message, "keyed on channel z")
	assert.Equal(t, 5, *entries[1].Context.Frame)
	assert.Equal(t, "y", entries[1].Context.Channel)
	assert.Equal(t, 10, *entries[2].Context.Frame)
	assert.Equal(t, "z", entries[2].Context.Channel)
	for _, e := range entries {
		assert.Equal(t, report.KeyframeCorrespondenceMissing, e.Kind)
	}
}

func TestValidate_Valid(t *testing.T) {
	var errs report.Collector
	g := translationGroup(channel("x", linear(10, 0)), channel("y", linear(0, 10)), channel("z", linear(0, 10)))
	res := New(StrictnessFull).Validate(g, &errs)

	require.Equal(t, Valid, res.Status)
	assert.True(t, errs.Empty())
	assert.Equal(t, []int{0, 10}, res.FrameIndices())
	for _, r := range res.Frames {
		assert.Equal(t, Resolved{Interpolation: core.InterpolationLinear, Easing: core.EasingInOut}, r)
	}
}

func TestValidate_FractionalFramesTruncate(t *testing.T) {
	var errs report.Collector
	g := translationGroup(channel("x", linear(0.4, 9.7)), channel("y", linear(0, 9)), channel("z", linear(0.9, 9.2)))
	res := New(StrictnessFull).Validate(g, &errs)

	require.Equal(t, Valid, res.Status)
	assert.Equal(t, []int{0, 9}, res.FrameIndices())
}

func TestValidate_UnsupportedInterpolationExcludesOnlyThatFrame(t *testing.T) {
	var errs report.Collector
	x := linear(0, 10, 20)
	x[1].Interpolation = scene.HostInterpolationBezier
	g := translationGroup(channel("x", x), channel("y", linear(0, 10, 20)), channel("z", linear(0, 10, 20)))
	res := New(StrictnessFull).Validate(g, &errs)

	require.Equal(t, Valid, res.Status)
	assert.Equal(t, []int{0, 20}, res.FrameIndices())
	require.Equal(t, 1, errs.Len())
	entry := errs.Entries()[0]
	assert.Equal(t, report.UnsupportedInterpolation, entry.Kind)
	assert.Equal(t, 10, *entry.Context.Frame)
	assert.Contains(t, entry.Message, `"BEZIER"`)
	assert.Contains(t, entry.Message, "{constant, linear, exponential}")
}

func TestValidate_UnsupportedTagOnEveryChannelReportedOnce(t *testing.T) {
	var errs report.Collector
	bezier := func() []scene.RawKeyPoint {
		return keys(scene.HostInterpolationBezier, scene.HostEasingInOut, 0)
	}
	g := translationGroup(channel("x", bezier()), channel("y", bezier()), channel("z", bezier()))
	res := New(StrictnessFull).Validate(g, &errs)

	assert.Equal(t, Valid, res.Status)
	assert.Empty(t, res.Frames)
	require.Equal(t, 1, errs.Len())
	assert.Contains(t, errs.Entries()[0].Message, "x, y, z")
}

func TestValidate_UnsupportedEasing(t *testing.T) {
	var errs report.Collector
	z := linear(0, 10)
	z[0].Easing = scene.HostEasingAuto
	g := translationGroup(channel("x", linear(0, 10)), channel("y", linear(0, 10)), channel("z", z))
	res := New(StrictnessFull).Validate(g, &errs)

	assert.Equal(t, []int{10}, res.FrameIndices())
	require.Equal(t, []report.Kind{report.UnsupportedEasing}, kinds(&errs))
	assert.Contains(t, errs.Entries()[0].Message, "{in, out, in-out}")
	assert.Equal(t, "z", errs.Entries()[0].Context.Channel)
}

func TestValidate_ConflictingInterpolation(t *testing.T) {
	var errs report.Collector
	y := linear(0, 10)
	y[0].Interpolation = scene.HostInterpolationConstant
	g := translationGroup(channel("x", linear(0, 10)), channel("y", y), channel("z", linear(0, 10)))
	res := New(StrictnessFull).Validate(g, &errs)

	assert.Equal(t, []int{10}, res.FrameIndices())
	require.Equal(t, []report.Kind{report.ConflictingInterpolation}, kinds(&errs))
	msg := errs.Entries()[0].Message
	assert.Contains(t, msg, `"linear"`)
	assert.Contains(t, msg, `"constant"`)
}

func TestValidate_ConflictingEasing(t *testing.T) {
	var errs report.Collector
	x := keys(scene.HostInterpolationExpo, scene.HostEasingIn, 3)
	y := keys(scene.HostInterpolationExpo, scene.HostEasingOut, 3)
	z := keys(scene.HostInterpolationExpo, scene.HostEasingOut, 3)
	res := New(StrictnessFull).Validate(translationGroup(channel("x", x), channel("y", y), channel("z", z)), &errs)

	assert.Empty(t, res.Frames)
	require.Equal(t, []report.Kind{report.ConflictingEasing}, kinds(&errs))
	assert.Contains(t, errs.Entries()[0].Message, `"in" on channel x, "out" on channel y`)
}

func TestValidate_ReportsEveryConflictingValue(t *testing.T) {
	var errs report.Collector
	x := keys(scene.HostInterpolationConstant, scene.HostEasingInOut, 4)
	y := keys(scene.HostInterpolationLinear, scene.HostEasingInOut, 4)
	z := keys(scene.HostInterpolationExpo, scene.HostEasingInOut, 4)
	w := keys(scene.HostInterpolationLinear, scene.HostEasingInOut, 4)
	g := Group{
		Context:  report.Context{Action: "walk", Bone: "hip", Group: string(core.CurveOrientation)},
		Channels: []Channel{channel("w", w), channel("x", x), channel("y", y), channel("z", z)},
	}
	res := New(StrictnessFull).Validate(g, &errs)

	assert.Empty(t, res.Frames)
	require.Equal(t, []report.Kind{report.ConflictingInterpolation, report.ConflictingInterpolation}, kinds(&errs))
	assert.Contains(t, errs.Entries()[0].Message, `"linear" on channel w, "constant" on channel x`)
	assert.Contains(t, errs.Entries()[1].Message, `"linear" on channel w, "exponential" on channel z`)
}

func TestValidate_ResolvesEverySupportedTag(t *testing.T) {
	tests := []struct {
		interp         string
		easing         string
		expectedInterp core.Interpolation
		expectedEasing core.Easing
	}{
		{scene.HostInterpolationConstant, scene.HostEasingIn, core.InterpolationConstant, core.EasingIn},
		{scene.HostInterpolationLinear, scene.HostEasingOut, core.InterpolationLinear, core.EasingOut},
		{scene.HostInterpolationExpo, scene.HostEasingInOut, core.InterpolationExponential, core.EasingInOut},
	}

	for _, tt := range tests {
		t.Run(tt.interp, func(t *testing.T) {
			var errs report.Collector
			k := func() []scene.RawKeyPoint { return keys(tt.interp, tt.easing, 1) }
			res := New(StrictnessFull).Validate(translationGroup(channel("x", k()), channel("y", k()), channel("z", k())), &errs)

			require.True(t, errs.Empty())
			assert.Equal(t, Resolved{Interpolation: tt.expectedInterp, Easing: tt.expectedEasing}, res.Frames[1])
		})
	}
}

func TestValidate_StructuralStrictnessIsLenient(t *testing.T) {
	var errs report.Collector
	x := keys(scene.HostInterpolationBezier, scene.HostEasingAuto, 0, 5)
	y := keys(scene.HostInterpolationConstant, scene.HostEasingOut, 0, 5)
	z := keys(scene.HostInterpolationLinear, scene.HostEasingIn, 0, 5)
	res := New(StrictnessStructural).Validate(translationGroup(channel("x", x), channel("y", y), channel("z", z)), &errs)

	require.Equal(t, Valid, res.Status)
	assert.True(t, errs.Empty())
	assert.Equal(t, []int{0, 5}, res.FrameIndices())
	// first supported tag wins
	assert.Equal(t, Resolved{Interpolation: core.InterpolationConstant, Easing: core.EasingOut}, res.Frames[0])
}

func TestValidate_StructuralStrictnessDefaults(t *testing.T) {
	var errs report.Collector
	k := func() []scene.RawKeyPoint { return keys("BOUNCE", "AUTO", 2) }
	res := New(StrictnessStructural).Validate(translationGroup(channel("x", k()), channel("y", k()), channel("z", k())), &errs)

	assert.True(t, errs.Empty())
	assert.Equal(t, Resolved{Interpolation: DefaultInterpolation, Easing: DefaultEasing}, res.Frames[2])
}

func TestValidate_StructuralStrictnessStillChecksStructure(t *testing.T) {
	var errs report.Collector
	g := translationGroup(channel("x", linear(0)), missing("y"), channel("z", linear(0)))
	res := New(StrictnessStructural).Validate(g, &errs)

	assert.Equal(t, Invalid, res.Status)
	assert.Equal(t, []report.Kind{report.MissingChannelInGroup}, kinds(&errs))
}

func TestValidate_IsDeterministic(t *testing.T) {
	y := linear(0, 5, 10, 15)
	y[2].Easing = "WOBBLE"
	z := linear(0, 5, 10, 15)
	z[3].Interpolation = scene.HostInterpolationConstant
	g := translationGroup(channel("x", linear(0, 5, 10, 15)), channel("y", y), channel("z", z))

	v := New(StrictnessFull)
	var first, second report.Collector
	a := v.Validate(g, &first)
	b := v.Validate(g, &second)

	assert.Equal(t, a, b)
	assert.Equal(t, first.Entries(), second.Entries())
	assert.Equal(t, []int{0, 5}, a.FrameIndices())
}

func TestParseStrictness(t *testing.T) {
	tests := []struct {
		input    string
		expected Strictness
		wantErr  bool
	}{
		{"full", StrictnessFull, false},
		{"FULL", StrictnessFull, false},
		{"", StrictnessFull, false},
		{" structural ", StrictnessStructural, false},
		{"legacy", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStrictness(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNewDefaultsToFull(t *testing.T) {
	assert.Equal(t, StrictnessFull, New("").Strictness())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "absent", Absent.String())
	assert.Equal(t, "invalid", Invalid.String())
	assert.Equal(t, "valid", Valid.String())
	assert.Equal(t, "Status(7)", Status(7).String())
}

// Package validate checks the component channels of an animation curve group
// for structural consistency and resolves per-keyframe interpolation and
// easing metadata.
package validate

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/calcium-format/exporter/internal/report"
	"github.com/calcium-format/exporter/pkg/core"
	"github.com/calcium-format/exporter/pkg/scene"
)

// Strictness selects how much of the keyframe metadata is validated
type Strictness string

const (
	// StrictnessFull checks structure and reconciles interpolation and easing,
	// reporting unsupported and conflicting values.
	StrictnessFull Strictness = "full"
	// StrictnessStructural checks structure only. Metadata is resolved
	// leniently: unsupported tags fall back to the defaults and conflicts
	// resolve to the first component, without errors.
	StrictnessStructural Strictness = "structural"
)

// ParseStrictness converts a configuration string into a Strictness.
func ParseStrictness(s string) (Strictness, error) {
	switch Strictness(strings.ToLower(strings.TrimSpace(s))) {
	case StrictnessFull, "":
		return StrictnessFull, nil
	case StrictnessStructural:
		return StrictnessStructural, nil
	default:
		return "", fmt.Errorf("unknown validation strictness: %q", s)
	}
}

// Defaults used when metadata is resolved leniently
const (
	DefaultInterpolation = core.InterpolationLinear
	DefaultEasing        = core.EasingInOut
)

var interpolationTags = map[string]core.Interpolation{
	scene.HostInterpolationConstant: core.InterpolationConstant,
	scene.HostInterpolationLinear:   core.InterpolationLinear,
	scene.HostInterpolationExpo:     core.InterpolationExponential,
}

var easingTags = map[string]core.Easing{
	scene.HostEasingIn:    core.EasingIn,
	scene.HostEasingOut:   core.EasingOut,
	scene.HostEasingInOut: core.EasingInOut,
}

// ResolveInterpolation maps a host interpolation tag onto the supported set.
func ResolveInterpolation(tag string) (core.Interpolation, bool) {
	i, ok := interpolationTags[tag]
	return i, ok
}

// ResolveEasing maps a host easing tag onto the supported set.
func ResolveEasing(tag string) (core.Easing, bool) {
	e, ok := easingTags[tag]
	return e, ok
}

// Channel is one component channel of a group. Present is false when the
// host has no curve for the component at all.
type Channel struct {
	Name      string
	Present   bool
	Keyframes []scene.RawKeyPoint
}

// Group is a named set of component channels describing one curve.
// Context identifies the group in recorded errors.
type Group struct {
	Context  report.Context
	Channels []Channel
}

// Status is the verdict of validating a group
type Status int

const (
	// Absent means no component channel exists; the group is skipped silently.
	Absent Status = iota
	// Invalid means the group failed a structural check and must not be emitted.
	Invalid
	// Valid means Frames holds every exportable keyframe.
	Valid
)

func (s Status) String() string {
	switch s {
	case Absent:
		return "absent"
	case Invalid:
		return "invalid"
	case Valid:
		return "valid"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Resolved is the reconciled metadata of one frame
type Resolved struct {
	Interpolation core.Interpolation
	Easing        core.Easing
}

// Result is the outcome of validating a group
type Result struct {
	Status Status
	// Frames maps each exportable frame index to its metadata. Frames whose
	// metadata could not be reconciled are excluded.
	Frames map[int]Resolved
}

// FrameIndices returns the exportable frame indices in ascending order.
func (r Result) FrameIndices() []int {
	out := make([]int, 0, len(r.Frames))
	for f := range r.Frames {
		out = append(out, f)
	}
	sort.Ints(out)
	return out
}

// Validator checks channel groups. It holds no per-run state and is safe to
// reuse across exports.
type Validator struct {
	strictness Strictness
}

// New creates a validator with the given strictness.
func New(strictness Strictness) *Validator {
	if strictness == "" {
		strictness = StrictnessFull
	}
	return &Validator{strictness: strictness}
}

// Strictness returns the validator's strictness.
func (v *Validator) Strictness() Strictness {
	return v.strictness
}

// FrameIndex truncates a raw host frame position to an integer frame index.
func FrameIndex(frame float64) int {
	return int(math.Trunc(frame))
}

// Validate runs the presence, count, correspondence and metadata checks in
// order and records every problem found into errs.
func (v *Validator) Validate(g Group, errs *report.Collector) Result {
	if len(g.Channels) == 0 {
		return Result{Status: Absent}
	}
	if !v.checkPresence(g, errs) {
		if presentCount(g) == 0 {
			return Result{Status: Absent}
		}
		return Result{Status: Invalid}
	}
	if !v.checkCounts(g, errs) {
		return Result{Status: Invalid}
	}

	indexed := indexChannels(g)
	if !v.checkCorrespondence(g, indexed, errs) {
		return Result{Status: Invalid}
	}

	return Result{Status: Valid, Frames: v.reconcile(g, indexed, errs)}
}

func presentCount(g Group) int {
	n := 0
	for _, ch := range g.Channels {
		if ch.Present {
			n++
		}
	}
	return n
}

func (v *Validator) checkPresence(g Group, errs *report.Collector) bool {
	present := presentCount(g)
	if present == len(g.Channels) {
		return true
	}
	if present == 0 {
		return false
	}

	var have []string
	for _, ch := range g.Channels {
		if ch.Present {
			have = append(have, ch.Name)
		}
	}
	for _, ch := range g.Channels {
		if ch.Present {
			continue
		}
		errs.Add(report.MissingChannelInGroup, g.Context.WithChannel(ch.Name),
			"%s group has no curve for channel %s (present channels: %s)",
			g.Context.Group, ch.Name, strings.Join(have, ", "))
	}
	return false
}

func (v *Validator) checkCounts(g Group, errs *report.Collector) bool {
	equal := true
	for _, ch := range g.Channels[1:] {
		if len(ch.Keyframes) != len(g.Channels[0].Keyframes) {
			equal = false
			break
		}
	}
	if equal {
		return true
	}

	counts := make([]string, len(g.Channels))
	for i, ch := range g.Channels {
		counts[i] = fmt.Sprintf("%s=%d", ch.Name, len(ch.Keyframes))
	}
	errs.Add(report.KeyframeCountMismatch, g.Context,
		"%s channels have differing keyframe counts: %s",
		g.Context.Group, strings.Join(counts, ", "))
	return false
}

// indexedChannel maps frame index to the first raw keyframe at that index
type indexedChannel map[int]scene.RawKeyPoint

func indexChannels(g Group) []indexedChannel {
	out := make([]indexedChannel, len(g.Channels))
	for i, ch := range g.Channels {
		idx := make(indexedChannel, len(ch.Keyframes))
		for _, kp := range ch.Keyframes {
			f := FrameIndex(kp.Frame)
			if _, dup := idx[f]; !dup {
				idx[f] = kp
			}
		}
		out[i] = idx
	}
	return out
}

func allFrames(indexed []indexedChannel) []int {
	seen := make(map[int]struct{})
	for _, idx := range indexed {
		for f := range idx {
			seen[f] = struct{}{}
		}
	}
	frames := make([]int, 0, len(seen))
	for f := range seen {
		frames = append(frames, f)
	}
	sort.Ints(frames)
	return frames
}

func (v *Validator) checkCorrespondence(g Group, indexed []indexedChannel, errs *report.Collector) bool {
	ok := true
	for _, f := range allFrames(indexed) {
		keyedOn := ""
		for i, idx := range indexed {
			if _, has := idx[f]; has {
				keyedOn = g.Channels[i].Name
				break
			}
		}
		for i, idx := range indexed {
			if _, has := idx[f]; has {
				continue
			}
			ok = false
			errs.Add(report.KeyframeCorrespondenceMissing, g.Context.WithChannel(g.Channels[i].Name).WithFrame(f),
				"frame %d is keyed on channel %s but has no keyframe on channel %s",
				f, keyedOn, g.Channels[i].Name)
		}
	}
	return ok
}

func (v *Validator) reconcile(g Group, indexed []indexedChannel, errs *report.Collector) map[int]Resolved {
	frames := make(map[int]Resolved)
	for _, f := range allFrames(indexed) {
		ctx := g.Context.WithFrame(f)
		keys := make([]scene.RawKeyPoint, len(indexed))
		for i, idx := range indexed {
			keys[i] = idx[f]
		}

		if v.strictness == StrictnessStructural {
			frames[f] = lenient(keys)
			continue
		}

		interp, interpOK := v.reconcileInterpolation(g, ctx, keys, errs)
		easing, easingOK := v.reconcileEasing(g, ctx, keys, errs)
		if interpOK && easingOK {
			frames[f] = Resolved{Interpolation: interp, Easing: easing}
		}
	}
	return frames
}

// lenient resolves metadata from the first component with a supported tag.
func lenient(keys []scene.RawKeyPoint) Resolved {
	r := Resolved{Interpolation: DefaultInterpolation, Easing: DefaultEasing}
	for _, kp := range keys {
		if i, ok := ResolveInterpolation(kp.Interpolation); ok {
			r.Interpolation = i
			break
		}
	}
	for _, kp := range keys {
		if e, ok := ResolveEasing(kp.Easing); ok {
			r.Easing = e
			break
		}
	}
	return r
}

func (v *Validator) reconcileInterpolation(g Group, ctx report.Context, keys []scene.RawKeyPoint, errs *report.Collector) (core.Interpolation, bool) {
	tags := make([]string, len(keys))
	for i, kp := range keys {
		tags[i] = kp.Interpolation
	}
	resolved, ok := reconcileTags(g, ctx, tags, ResolveInterpolation, errs,
		report.UnsupportedInterpolation, report.ConflictingInterpolation,
		"interpolation", joinValues(core.Interpolations))
	return resolved, ok
}

func (v *Validator) reconcileEasing(g Group, ctx report.Context, keys []scene.RawKeyPoint, errs *report.Collector) (core.Easing, bool) {
	tags := make([]string, len(keys))
	for i, kp := range keys {
		tags[i] = kp.Easing
	}
	resolved, ok := reconcileTags(g, ctx, tags, ResolveEasing, errs,
		report.UnsupportedEasing, report.ConflictingEasing,
		"easing", joinValues(core.Easings))
	return resolved, ok
}

// reconcileTags resolves the tag of every component at one frame. Each
// distinct unsupported tag is reported once, naming the channels carrying it.
// Every value that differs from the first resolved one is reported once as a
// conflict against it.
func reconcileTags[T ~string](
	g Group,
	ctx report.Context,
	tags []string,
	resolve func(string) (T, bool),
	errs *report.Collector,
	unsupportedKind, conflictKind report.Kind,
	what, allowed string,
) (T, bool) {
	var (
		first        T
		firstChannel string
		haveFirst    bool
		conflicting  = make(map[T]bool)
		unsupported  = make(map[string][]string)
		order        []string
	)

	for i, tag := range tags {
		channel := g.Channels[i].Name
		value, supported := resolve(tag)
		if !supported {
			if _, seen := unsupported[tag]; !seen {
				order = append(order, tag)
			}
			unsupported[tag] = append(unsupported[tag], channel)
			continue
		}
		if !haveFirst {
			first, firstChannel, haveFirst = value, channel, true
			continue
		}
		if value != first && !conflicting[value] {
			errs.Add(conflictKind, ctx.WithChannel(channel),
				"conflicting %s values: %q on channel %s, %q on channel %s",
				what, first, firstChannel, value, channel)
			conflicting[value] = true
		}
	}

	for _, tag := range order {
		channels := unsupported[tag]
		errs.Add(unsupportedKind, ctx.WithChannel(channels[0]),
			"unsupported %s %q on channel(s) %s; supported values are {%s}",
			what, tag, strings.Join(channels, ", "), allowed)
	}
	return first, len(order) == 0 && len(conflicting) == 0
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

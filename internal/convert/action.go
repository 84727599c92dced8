package convert

import (
	"github.com/calcium-format/exporter/internal/geo"
	"github.com/calcium-format/exporter/internal/report"
	"github.com/calcium-format/exporter/internal/validate"
	"github.com/calcium-format/exporter/pkg/core"
	"github.com/calcium-format/exporter/pkg/scene"
)

// Target is one armature whose bones are sampled for every action. Session
// must be an open sampling session on that armature.
type Target struct {
	Skeleton core.Skeleton
	Session  scene.Session
}

// ActionSerializer validates the curve groups of a clip and samples every
// valid keyframe through a sampling session.
type ActionSerializer struct {
	validator   *validate.Validator
	transformer geo.Transformer
	log         Logger
}

// NewActionSerializer creates an ActionSerializer.
func NewActionSerializer(v *validate.Validator, tr geo.Transformer, log Logger) *ActionSerializer {
	return &ActionSerializer{
		validator:   v,
		transformer: tr,
		log:         orNop(log),
	}
}

type curveKey struct {
	path  string
	index int
}

// curveIndex addresses the curves of a clip by (path, component index). The
// first curve wins if the host reports duplicates.
type curveIndex map[curveKey]scene.RawCurve

func indexCurves(clip scene.Clip) curveIndex {
	idx := make(curveIndex, len(clip.Curves))
	for _, rc := range clip.Curves {
		k := curveKey{rc.Path, rc.Index}
		if _, dup := idx[k]; !dup {
			idx[k] = rc
		}
	}
	return idx
}

// ChannelGroup assembles the component channels of one bone's curve kind.
func ChannelGroup(clip scene.Clip, bone string, kind core.CurveKind, ctx report.Context) validate.Group {
	return indexCurves(clip).group(bone, kind, ctx)
}

func (idx curveIndex) group(bone string, kind core.CurveKind, ctx report.Context) validate.Group {
	path := scene.BoneCurvePath(bone, kind)
	components := scene.Components(kind)

	g := validate.Group{
		Context:  ctx,
		Channels: make([]validate.Channel, len(components)),
	}
	for i, c := range components {
		rc, ok := idx[curveKey{path, c.Index}]
		g.Channels[i] = validate.Channel{
			Name:      c.Name,
			Present:   ok,
			Keyframes: rc.Keyframes,
		}
	}
	return g
}

// Action builds the curves of one clip across all targets. Targets are
// processed in order, bones in declaration order, and curve kinds in
// translation, scale, orientation order. Every (set frame, read pose) pair
// is completed before the next frame is set.
func (s *ActionSerializer) Action(clip scene.Clip, targets []Target, errs *report.Collector) core.Action {
	s.log.Debug("exporting action", "action", clip.Name)

	action := core.Action{Name: clip.Name, Curves: []core.Curve{}}
	idx := indexCurves(clip)

	for _, t := range targets {
		if err := t.Session.UseClip(clip.Name); err != nil {
			errs.Add(report.SamplingFailed, report.Context{Skeleton: t.Skeleton.Name, Action: clip.Name},
				"could not make action %q active on skeleton %q: %v", clip.Name, t.Skeleton.Name, err)
			continue
		}

		for _, bone := range t.Skeleton.Bones {
			for _, kind := range core.CurveKinds {
				ctx := report.Context{Action: clip.Name, Bone: bone.Name, Group: string(kind)}
				if curve, ok := s.curve(idx, t.Session, bone.Name, kind, ctx, errs); ok {
					action.Curves = append(action.Curves, curve)
				}
			}
		}
	}
	return action
}

func (s *ActionSerializer) curve(
	idx curveIndex,
	session scene.Session,
	bone string,
	kind core.CurveKind,
	ctx report.Context,
	errs *report.Collector,
) (core.Curve, bool) {
	res := s.validator.Validate(idx.group(bone, kind, ctx), errs)
	if res.Status != validate.Valid {
		return core.Curve{}, false
	}

	frames := res.FrameIndices()
	s.log.Debug("curve frame count", "action", ctx.Action, "bone", bone, "kind", string(kind), "frames", len(frames))
	if len(frames) == 0 {
		return core.Curve{}, false
	}

	curve := core.Curve{
		Bone:      bone,
		Kind:      kind,
		Keyframes: make([]core.Keyframe, 0, len(frames)),
	}
	for _, f := range frames {
		pose, err := session.Sample(bone, f)
		if err != nil {
			errs.Add(report.SamplingFailed, ctx.WithFrame(f),
				"could not sample %s of bone %q at frame %d: %v", kind, bone, f, err)
			return core.Curve{}, false
		}

		meta := res.Frames[f]
		kf := core.Keyframe{
			Index:         f,
			Interpolation: meta.Interpolation,
			Easing:        meta.Easing,
		}
		switch kind {
		case core.CurveTranslation:
			kf.Vector = s.transformer.Translation(pose.Translation)
		case core.CurveScale:
			kf.Vector = s.transformer.Scale(pose.Scale)
		case core.CurveOrientation:
			kf.Quaternion = s.transformer.Orientation(pose.Orientation)
		}
		curve.Keyframes = append(curve.Keyframes, kf)
	}
	return curve, true
}

package exporter

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/calcium-format/exporter/internal/calcium"
	"github.com/calcium-format/exporter/internal/convert"
	"github.com/calcium-format/exporter/internal/report"
	"github.com/calcium-format/exporter/pkg/core"
	"github.com/calcium-format/exporter/pkg/scene"
)

// run is the state of one Export call.
type run struct {
	result Result
	errs   report.Collector
}

// Export writes the selected armatures of p to path and a report next to
// it. The extension is appended to path if missing.
//
// A terminal selection error (ErrNoArmatureSelected,
// ErrTooManyArmaturesSelected, ErrDuplicateBoneName) leaves no files
// behind. Otherwise the document and report are both written; if any
// problem was recorded the returned error is a *FailedError. Scene and file
// errors abort the run and are returned wrapped.
func (e *Exporter) Export(ctx context.Context, p scene.Provider, path string) (Result, error) {
	start := e.now()
	r := &run{}
	r.result.RunID = runID(ctx)
	r.result.Started = start
	r.result.DocumentPath = e.DocumentPath(path)
	r.result.ReportPath = e.ReportPath(r.result.DocumentPath)

	err := e.export(r, p)

	r.result.Errors = r.errs.Entries()
	r.result.Stats.Errors = r.errs.Len()
	r.result.Stats.Duration = e.now().Sub(start)

	logArgs := []any{
		"run", r.result.RunID,
		"state", r.result.State.String(),
		"document", r.result.DocumentPath,
		"errors", r.result.Stats.Errors,
		"curves", r.result.Stats.Curves,
		"keyframes", r.result.Stats.Keyframes,
		"duration", r.result.Stats.Duration,
	}
	switch {
	case err == nil:
		e.logger.Info("export finished", logArgs...)
	case r.result.State == StateFailed:
		e.logger.Error("export failed due to errors", append(logArgs, "report", r.result.ReportPath)...)
	default:
		e.logger.Error("export aborted", append(logArgs, "error", err)...)
	}

	e.metrics.record(ctx, r.result)
	for _, s := range e.sinks {
		if serr := s.WriteStats(ctx, r.result); serr != nil {
			e.logger.Error("failed to write export stats", "run", r.result.RunID, "error", serr)
		}
	}
	return r.result, err
}

func (e *Exporter) export(r *run, p scene.Provider) error {
	r.result.State = StateSelectingTarget
	names, err := e.selectTargets(p)
	if err != nil {
		return err
	}
	r.result.Skeletons = names
	e.debug("selected armatures", "armatures", names)

	armatures := make([]scene.Armature, 0, len(names))
	skeletons := make([]core.Skeleton, 0, len(names))
	for _, name := range names {
		arm, err := p.Armature(name)
		if err != nil {
			return fmt.Errorf("reading armature %q: %w", name, err)
		}
		e.debug("converting armature", "armature", name, "bones", len(arm.Bones))
		armatures = append(armatures, arm)
		skeletons = append(skeletons, convert.Skeleton(arm, e.transformer, &r.errs))
	}
	if len(skeletons) > 1 {
		if err := checkUniqueBones(skeletons); err != nil {
			return err
		}
	}

	r.result.State = StateWritingDocument
	var doc bytes.Buffer
	if err := e.writeDocument(r, p, &doc, armatures, skeletons); err != nil {
		return err
	}
	e.debug("opening", "path", r.result.DocumentPath)
	if err := os.WriteFile(r.result.DocumentPath, doc.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}

	r.result.State = StateWritingReport
	var rep bytes.Buffer
	if err := report.Write(&rep, names, e.now(), r.errs.Entries()); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	e.debug("opening", "path", r.result.ReportPath)
	if err := os.WriteFile(r.result.ReportPath, rep.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if !r.errs.Empty() {
		r.result.State = StateFailed
		return &FailedError{ReportPath: r.result.ReportPath, Errors: r.errs.Len()}
	}
	r.result.State = StateSucceeded
	return nil
}

func (e *Exporter) writeDocument(
	r *run,
	p scene.Provider,
	doc *bytes.Buffer,
	armatures []scene.Armature,
	skeletons []core.Skeleton,
) error {
	fps, err := p.FrameRate()
	if err != nil {
		return fmt.Errorf("reading frame rate: %w", err)
	}

	w := calcium.NewWriter(doc, e.cfg.Precision)
	w.Header(fps)

	for _, sk := range skeletons {
		w.Skeleton(sk)
		r.result.Stats.Skeletons++
		r.result.Stats.Bones += len(sk.Bones)
	}

	if e.cfg.ChildMeshWeights {
		if err := e.writeMeshes(r, p, w, armatures); err != nil {
			return err
		}
	}

	if err := e.writeActions(r, p, w, skeletons); err != nil {
		return err
	}
	return w.Flush()
}

func (e *Exporter) writeMeshes(r *run, p scene.Provider, w *calcium.Writer, armatures []scene.Armature) error {
	for _, arm := range armatures {
		for _, child := range arm.Children {
			if child.Type != scene.ObjectMesh {
				continue
			}
			mesh, err := p.Mesh(child.Name)
			if err != nil {
				return fmt.Errorf("reading mesh %q: %w", child.Name, err)
			}
			set, ok := convert.MeshWeights(mesh, e.convertLogger())
			if !ok {
				continue
			}
			w.Mesh(set)
			r.result.Stats.Meshes++
		}
	}
	return nil
}

// writeActions samples every exportable clip. Sampling sessions are opened
// only when the scene has clips, and released on every return path.
func (e *Exporter) writeActions(r *run, p scene.Provider, w *calcium.Writer, skeletons []core.Skeleton) (err error) {
	clips, err := p.Clips()
	if err != nil {
		return fmt.Errorf("listing clips: %w", err)
	}
	if len(clips) == 0 {
		return nil
	}

	targets := make([]convert.Target, 0, len(skeletons))
	defer func() {
		for _, t := range targets {
			if rerr := t.Session.Release(); rerr != nil {
				e.logger.Error("failed to release sampling session", "armature", t.Skeleton.Name, "error", rerr)
				if err == nil {
					err = fmt.Errorf("releasing sampling session of %q: %w", t.Skeleton.Name, rerr)
				}
			}
		}
	}()
	for _, sk := range skeletons {
		s, err := p.BeginSampling(sk.Name)
		if err != nil {
			return fmt.Errorf("starting sampling of %q: %w", sk.Name, err)
		}
		targets = append(targets, convert.Target{Skeleton: sk, Session: s})
	}

	serializer := convert.NewActionSerializer(e.validator, e.transformer, e.convertLogger())
	for _, clip := range clips {
		if clip.Name == scene.ReservedPoseClip {
			e.debug("skipping reserved action", "action", clip.Name)
			continue
		}
		action := serializer.Action(clip, targets, &r.errs)
		w.Action(action)
		r.result.Stats.Actions++
		r.result.Stats.Curves += len(action.Curves)
		for _, c := range action.Curves {
			r.result.Stats.Keyframes += len(c.Keyframes)
		}
	}
	return nil
}

func (e *Exporter) convertLogger() convert.Logger {
	if !e.cfg.Verbose {
		return nil
	}
	return e.logger
}

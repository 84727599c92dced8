package exporter

import (
	"fmt"

	"github.com/calcium-format/exporter/pkg/core"
	"github.com/calcium-format/exporter/pkg/scene"
)

// selectTargets applies the selection policy and returns the armature names
// to export, in scene order.
func (e *Exporter) selectTargets(p scene.Provider) ([]string, error) {
	switch e.cfg.Selection {
	case SelectionAll:
		objects, err := p.Objects()
		if err != nil {
			return nil, fmt.Errorf("listing scene objects: %w", err)
		}
		names := armatureNames(objects)
		if len(names) == 0 {
			return nil, ErrNoArmatureSelected
		}
		return names, nil

	default:
		selected, err := p.SelectedObjects()
		if err != nil {
			return nil, fmt.Errorf("listing selected objects: %w", err)
		}
		names := armatureNames(selected)
		switch len(names) {
		case 0:
			return nil, ErrNoArmatureSelected
		case 1:
			return names, nil
		default:
			return nil, ErrTooManyArmaturesSelected
		}
	}
}

func armatureNames(objects []scene.Object) []string {
	var names []string
	for _, o := range objects {
		if o.IsArmature() {
			names = append(names, o.Name)
		}
	}
	return names
}

// checkUniqueBones fails when a bone name appears in more than one skeleton.
// Repeats within one skeleton are already dropped by convert.Skeleton.
func checkUniqueBones(skeletons []core.Skeleton) error {
	owner := make(map[string]string)
	for _, sk := range skeletons {
		for _, b := range sk.Bones {
			if other, dup := owner[b.Name]; dup && other != sk.Name {
				return fmt.Errorf("%w: bone %q is in both %q and %q", ErrDuplicateBoneName, b.Name, other, sk.Name)
			}
			owner[b.Name] = sk.Name
		}
	}
	return nil
}

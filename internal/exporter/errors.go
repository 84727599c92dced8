package exporter

import (
	"errors"
	"fmt"
)

// Terminal selection errors. No document or report is written when Export
// returns one of these.
var (
	ErrNoArmatureSelected       = errors.New("no armatures selected: an armature object must be selected for export")
	ErrTooManyArmaturesSelected = errors.New("too many armatures selected: at most one of the selected objects can be an armature when exporting")
	ErrDuplicateBoneName        = errors.New("bone names must be unique across all exported armatures")
)

// ErrExportFailed is matched by every *FailedError.
var ErrExportFailed = errors.New("export failed due to errors")

// FailedError is returned after the document and report were written but
// errors were recorded. The document must not be trusted.
type FailedError struct {
	ReportPath string
	Errors     int
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("export failed due to %d error(s), see the log file at: %s", e.Errors, e.ReportPath)
}

func (e *FailedError) Unwrap() error {
	return ErrExportFailed
}

// Package exporter drives a complete export: it selects the target
// armatures, writes the Calcium document and its report, and decides the
// outcome once everything has been attempted.
//
// Exports against one scene.Provider must not run concurrently.
package exporter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/calcium-format/exporter/internal/calcium"
	"github.com/calcium-format/exporter/internal/geo"
	"github.com/calcium-format/exporter/internal/report"
	"github.com/calcium-format/exporter/internal/validate"
	"github.com/google/uuid"
)

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Selection is the policy choosing which armatures are exported.
type Selection string

const (
	// SelectionSelected exports the single selected armature.
	SelectionSelected Selection = "selected"
	// SelectionAll exports every armature in the scene. Bone names must be
	// unique across all of them.
	SelectionAll Selection = "all"
)

// ParseSelection converts a configuration string into a Selection.
func ParseSelection(s string) (Selection, error) {
	switch Selection(strings.ToLower(strings.TrimSpace(s))) {
	case SelectionSelected, "":
		return SelectionSelected, nil
	case SelectionAll:
		return SelectionAll, nil
	default:
		return "", fmt.Errorf("unknown selection policy: %q", s)
	}
}

// Config holds per-exporter settings.
type Config struct {
	Selection        Selection
	Strictness       validate.Strictness
	ChildMeshWeights bool
	Verbose          bool
	ReportSuffix     string
	Extension        string
	// Precision is the number of decimals written. Zero selects
	// calcium.DefaultPrecision.
	Precision int
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Selection:        SelectionSelected,
		Strictness:       validate.StrictnessFull,
		ChildMeshWeights: true,
		ReportSuffix:     ".log",
		Extension:        calcium.Extension,
		Precision:        calcium.DefaultPrecision,
	}
}

// StatsSink receives the result of every completed run.
type StatsSink interface {
	WriteStats(ctx context.Context, r Result) error
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithStatsSink adds a destination for run statistics.
func WithStatsSink(s StatsSink) Option {
	return func(e *Exporter) {
		e.sinks = append(e.sinks, s)
	}
}

// WithClock replaces the clock used for report timestamps and durations.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		e.now = now
	}
}

// WithTransformer replaces the host to Calcium coordinate transformer.
func WithTransformer(tr geo.Transformer) Option {
	return func(e *Exporter) {
		e.transformer = tr
	}
}

// Exporter runs exports. It holds no state between runs.
type Exporter struct {
	cfg         Config
	logger      Logger
	sinks       []StatsSink
	now         func() time.Time
	transformer geo.Transformer
	validator   *validate.Validator
	metrics     *metrics
}

// New creates an Exporter.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(logger Logger, cfg Config, opts ...Option) (*Exporter, error) {
	if logger == nil {
		logger = nopLogger{}
	}
	if cfg.Selection == "" {
		cfg.Selection = SelectionSelected
	}
	if cfg.Extension == "" {
		cfg.Extension = calcium.Extension
	}
	if cfg.ReportSuffix == "" {
		cfg.ReportSuffix = ".log"
	}
	if cfg.Precision <= 0 {
		cfg.Precision = calcium.DefaultPrecision
	}

	m, err := newMetrics()
	if err != nil {
		return nil, err
	}

	e := &Exporter{
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
		transformer: geo.Default,
		validator:   validate.New(cfg.Strictness),
		metrics:     m,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the exporter's settings.
func (e *Exporter) Config() Config {
	return e.cfg
}

// DocumentPath returns path with the configured extension appended if it is
// missing.
func (e *Exporter) DocumentPath(path string) string {
	if strings.HasSuffix(path, e.cfg.Extension) {
		return path
	}
	return path + e.cfg.Extension
}

// ReportPath returns the report path for a document path.
func (e *Exporter) ReportPath(documentPath string) string {
	return documentPath + e.cfg.ReportSuffix
}

func (e *Exporter) debug(msg string, keysAndValues ...any) {
	if e.cfg.Verbose {
		e.logger.Debug(msg, keysAndValues...)
	}
}

type runIDKey struct{}

// ContextWithRunID attaches a run ID used by the next Export on ctx.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

func runID(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// State is a step of an export run.
type State int

const (
	StateSelectingTarget State = iota
	StateWritingDocument
	StateWritingReport
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSelectingTarget:
		return "SelectingTarget"
	case StateWritingDocument:
		return "WritingDocument"
	case StateWritingReport:
		return "WritingReport"
	case StateSucceeded:
		return "Succeeded"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Stats counts what a run exported.
type Stats struct {
	Skeletons int
	Bones     int
	Meshes    int
	Actions   int
	Curves    int
	Keyframes int
	Errors    int
	Duration  time.Duration
}

// Result describes a finished run. State is the last state reached:
// StateSucceeded or StateFailed once the report is written, or the state
// in which a terminal error occurred.
type Result struct {
	RunID        string
	Started      time.Time
	State        State
	DocumentPath string
	ReportPath   string
	Skeletons    []string
	Errors       []report.Entry
	Stats        Stats
}

// Succeeded reports whether the run finished without recorded errors.
func (r Result) Succeeded() bool {
	return r.State == StateSucceeded
}

// Package report collects non-terminal export problems and renders the
// human-readable report written next to every exported document.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Kind classifies a recorded export problem
type Kind string

const (
	MissingChannelInGroup         Kind = "MissingChannelInGroup"
	KeyframeCountMismatch         Kind = "KeyframeCountMismatch"
	KeyframeCorrespondenceMissing Kind = "KeyframeCorrespondenceMissing"
	UnsupportedInterpolation      Kind = "UnsupportedInterpolation"
	UnsupportedEasing             Kind = "UnsupportedEasing"
	ConflictingInterpolation      Kind = "ConflictingInterpolation"
	ConflictingEasing             Kind = "ConflictingEasing"
	DuplicateBoneName             Kind = "DuplicateBoneName"
	UnknownBoneParent             Kind = "UnknownBoneParent"
	BoneHierarchyCycle            Kind = "BoneHierarchyCycle"
	SamplingFailed                Kind = "SamplingFailed"
)

// Context locates a problem in the source scene. Empty fields are unknown or
// not applicable.
type Context struct {
	Skeleton string
	Action   string
	Bone     string
	Group    string
	Channel  string
	Frame    *int
}

// WithFrame returns a copy of c pointing at the given frame.
func (c Context) WithFrame(frame int) Context {
	c.Frame = &frame
	return c
}

// WithChannel returns a copy of c pointing at the given component channel.
func (c Context) WithChannel(channel string) Context {
	c.Channel = channel
	return c
}

func (c Context) String() string {
	var parts []string
	add := func(key, value string) {
		if value != "" {
			parts = append(parts, key+"="+strconv.Quote(value))
		}
	}
	add("skeleton", c.Skeleton)
	add("action", c.Action)
	add("bone", c.Bone)
	add("group", c.Group)
	add("channel", c.Channel)
	if c.Frame != nil {
		parts = append(parts, "frame="+strconv.Itoa(*c.Frame))
	}
	return strings.Join(parts, " ")
}

// Entry is one recorded export problem
type Entry struct {
	Kind    Kind
	Context Context
	Message string
}

func (e Entry) String() string {
	ctx := e.Context.String()
	if ctx == "" {
		return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, ctx, e.Message)
}

// Collector accumulates entries in the order they are recorded. The zero
// value is ready to use.
type Collector struct {
	entries []Entry
}

// Add records a problem.
func (c *Collector) Add(kind Kind, ctx Context, format string, args ...any) {
	c.entries = append(c.entries, Entry{
		Kind:    kind,
		Context: ctx,
		Message: fmt.Sprintf(format, args...),
	})
}

// Merge appends every entry of other, preserving order.
func (c *Collector) Merge(other *Collector) {
	if other == nil {
		return
	}
	c.entries = append(c.entries, other.entries...)
}

// Entries returns a copy of the recorded entries.
func (c *Collector) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of recorded entries.
func (c *Collector) Len() int {
	return len(c.entries)
}

// Empty reports whether nothing has been recorded.
func (c *Collector) Empty() bool {
	return len(c.entries) == 0
}

// CountByKind tallies the entries per kind.
func (c *Collector) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	for _, e := range c.entries {
		counts[e.Kind]++
	}
	return counts
}

const (
	SuccessLine = "Exported successfully."
	FailureLine = "Export failed due to errors."
)

// Write renders the report: a header naming the exported skeletons and the
// time, then either every entry and a failure tally, or the success line.
func Write(w io.Writer, skeletons []string, at time.Time, entries []Entry) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Export of %s on %s\n", strings.Join(skeletons, ", "), at.Format(time.RFC3339))
	b.WriteString("\n")

	if len(entries) > 0 {
		for _, e := range entries {
			b.WriteString(e.String())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if len(entries) == 1 {
			b.WriteString("1 error.\n")
		} else {
			fmt.Fprintf(&b, "%d errors.\n", len(entries))
		}
		b.WriteString(FailureLine + "\n")
	} else {
		b.WriteString(SuccessLine + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

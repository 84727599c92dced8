// Package calcium writes the Calcium skeletal animation text format.
//
// A document is a sequence of bracketed records: the version and frame-rate
// headers, then skeletons, mesh weight sets and actions, in that order.
// Readers parse records by tag, so the whitespace layout produced here is for
// humans only, but it is stable: the same input always yields the same bytes.
package calcium

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/calcium-format/exporter/pkg/core"
)

// Format version embedded in every document
const (
	VersionMajor = 1
	VersionMinor = 0
)

// DefaultPrecision is the number of decimals written for every number.
const DefaultPrecision = 6

// Extension is the conventional file extension of Calcium documents.
const Extension = ".ca"

// Document is a complete export in memory.
type Document struct {
	FrameRate int
	Skeletons []core.Skeleton
	Meshes    []core.MeshWeightSet
	Actions   []core.Action
}

// Writer emits Calcium records to an underlying writer. The first write error
// is kept and every later call becomes a no-op; Flush reports it.
type Writer struct {
	w         *bufio.Writer
	precision int
	err       error
}

// NewWriter creates a Writer. A negative precision selects DefaultPrecision.
func NewWriter(w io.Writer, precision int) *Writer {
	if precision < 0 {
		precision = DefaultPrecision
	}
	return &Writer{w: bufio.NewWriter(w), precision: precision}
}

// Encode writes a whole document.
func Encode(w io.Writer, doc Document, precision int) error {
	cw := NewWriter(w, precision)
	cw.Header(doc.FrameRate)
	for _, sk := range doc.Skeletons {
		cw.Skeleton(sk)
	}
	for _, m := range doc.Meshes {
		cw.Mesh(m)
	}
	for _, a := range doc.Actions {
		cw.Action(a)
	}
	return cw.Flush()
}

// Marshal returns the encoding of a whole document.
func Marshal(doc Document, precision int) ([]byte, error) {
	var b strings.Builder
	if err := Encode(&b, doc, precision); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

// Err returns the first write error, if any.
func (w *Writer) Err() error {
	return w.err
}

// Flush writes any buffered data and returns the first error seen.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if err := w.w.Flush(); err != nil {
		w.err = fmt.Errorf("failed to flush document: %w", err)
	}
	return w.err
}

func (w *Writer) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	if _, err := fmt.Fprintf(w.w, format, args...); err != nil {
		w.err = fmt.Errorf("failed to write document: %w", err)
	}
}

// Header writes the version and frame-rate records.
func (w *Writer) Header(fps int) {
	w.printf("[version %d %d]\n", VersionMajor, VersionMinor)
	w.printf("[action-fps %d]\n", fps)
}

// Skeleton writes a skeleton record with its bones in slice order.
func (w *Writer) Skeleton(sk core.Skeleton) {
	w.printf("[skeleton\n")
	w.printf("  [skeleton-name %s]\n", Quote(sk.Name))
	w.printf("  [skeleton-bones\n")
	for _, b := range sk.Bones {
		w.bone(b)
	}
	w.printf("  ]\n")
	w.printf("]\n")
}

func (w *Writer) bone(b core.Bone) {
	tr := b.Transform
	w.printf("    [bone\n")
	w.printf("      [bone-name             %s]\n", Quote(b.Name))
	if b.HasParent() {
		w.printf("      [bone-parent           %s]\n", Quote(b.Parent))
	}
	w.printf("      [bone-translation      %s]\n", w.vec3(tr.Translation))
	w.printf("      [bone-scale            %s]\n", w.vec3(tr.Scale))
	w.printf("      [bone-orientation-xyzw %s]]\n", w.quat(tr.Orientation))
}

// Mesh writes a mesh weight set record. Every weight array is written in
// full, zeros included.
func (w *Writer) Mesh(m core.MeshWeightSet) {
	w.printf("[mesh\n")
	w.printf("  [mesh-name %s]\n", Quote(m.Mesh))
	w.printf("  [mesh-weight-arrays\n")
	for _, arr := range m.Arrays {
		w.printf("    [mesh-weight-array\n")
		w.printf("      [mesh-weight-array-bone %s]\n", Quote(arr.Bone))
		w.printf("      [mesh-weight-array-values\n")
		for _, v := range arr.Weights {
			w.printf("        [mesh-weight-array-value %s]\n", w.number(v))
		}
		w.printf("      ]\n")
		w.printf("    ]\n")
	}
	w.printf("  ]\n")
	w.printf("]\n")
}

// Action writes an action record with its curves in slice order. An action
// without curves is still written.
func (w *Writer) Action(a core.Action) {
	w.printf("[action\n")
	w.printf("  [name %s]\n", Quote(a.Name))
	w.printf("  [curves\n")
	w.printf("\n")
	for _, c := range a.Curves {
		w.curve(c)
	}
	w.printf("]]\n")
	w.printf("\n")
}

func (w *Writer) curve(c core.Curve) {
	w.printf("    [curve\n")
	w.printf("      [curve-bone %s]\n", Quote(c.Bone))
	w.printf("      [curve-type %s]\n", c.Kind)
	w.printf("      [curve-keyframes\n")
	for _, kf := range c.Keyframes {
		w.printf("        [curve-keyframe\n")
		w.printf("          [curve-keyframe-index %d]\n", kf.Index)
		w.printf("          [curve-keyframe-interpolation %s]\n", Quote(string(kf.Interpolation)))
		w.printf("          [curve-keyframe-easing %s]\n", Quote(string(kf.Easing)))
		if c.Kind == core.CurveOrientation {
			w.printf("          [curve-keyframe-quaternion-xyzw %s]]\n", w.quat(kf.Quaternion))
		} else {
			w.printf("          [curve-keyframe-vector3 %s]]\n", w.vec3(kf.Vector))
		}
	}
	w.printf("    ]]\n")
	w.printf("\n")
}

func (w *Writer) vec3(v core.Vec3) string {
	return w.number(v.X) + " " + w.number(v.Y) + " " + w.number(v.Z)
}

func (w *Writer) quat(q core.Quat) string {
	return w.number(q.X) + " " + w.number(q.Y) + " " + w.number(q.Z) + " " + w.number(q.W)
}

// number formats v in fixed-point notation. Negative zero is written as zero.
func (w *Writer) number(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', w.precision, 64)
}

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Quote returns s as a Calcium string literal.
func Quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}

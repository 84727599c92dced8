// Package convert turns a read-only scene snapshot into Calcium-convention
// core values: skeletons, sampled actions and mesh weight sets. Problems in
// the source data are recorded into a report.Collector and never abort the
// conversion of sibling bones, groups or actions.
package convert

// Logger receives verbose progress messages.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

func orNop(l Logger) Logger {
	if l == nil {
		return nopLogger{}
	}
	return l
}

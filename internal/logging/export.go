package logging

import (
	"log/slog"

	"github.com/rs/zerolog"
)

// ExportLogger adapts zerolog.Logger to the exporter.Logger interface.
type ExportLogger struct {
	logger zerolog.Logger
}

// NewExportLogger creates a new ExportLogger wrapping a zerolog.Logger.
func NewExportLogger(logger zerolog.Logger) *ExportLogger {
	return &ExportLogger{logger: logger}
}

// Debug logs a debug message with optional key-value pairs.
func (l *ExportLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(toFields(keysAndValues)).Msg(msg)
}

// Info logs an info message with optional key-value pairs.
func (l *ExportLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info().Fields(toFields(keysAndValues)).Msg(msg)
}

// Error logs an error message with optional key-value pairs.
func (l *ExportLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error().Fields(toFields(keysAndValues)).Msg(msg)
}

// toFields converts key-value pairs to a map for zerolog.
func toFields(keysAndValues []any) map[string]any {
	fields := make(map[string]any, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return fields
}

// SlogExportLogger adapts *slog.Logger to the exporter.Logger interface.
type SlogExportLogger struct {
	logger *slog.Logger
}

// NewSlogExportLogger wraps a slog logger.
func NewSlogExportLogger(logger *slog.Logger) *SlogExportLogger {
	return &SlogExportLogger{logger: logger}
}

func (l *SlogExportLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *SlogExportLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *SlogExportLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error(msg, keysAndValues...)
}

// Logger is the leveled key-value logging interface implemented by the
// adapters in this package.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Tee fans every call out to several loggers.
type Tee []Logger

func (t Tee) Debug(msg string, keysAndValues ...any) {
	for _, l := range t {
		l.Debug(msg, keysAndValues...)
	}
}

func (t Tee) Info(msg string, keysAndValues ...any) {
	for _, l := range t {
		l.Info(msg, keysAndValues...)
	}
}

func (t Tee) Error(msg string, keysAndValues ...any) {
	for _, l := range t {
		l.Error(msg, keysAndValues...)
	}
}

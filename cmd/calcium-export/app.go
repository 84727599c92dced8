package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/calcium-format/exporter/internal/config"
	"github.com/calcium-format/exporter/internal/exporter"
	"github.com/calcium-format/exporter/internal/influx"
	"github.com/calcium-format/exporter/internal/logging"
	intOtel "github.com/calcium-format/exporter/internal/otel"
	"github.com/rs/zerolog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// app holds the logging and telemetry destinations of one CLI invocation.
type app struct {
	SlogManager *logging.SlogManager
	Logger      *slog.Logger
	RunContext  *logging.RunContext
	LogFilePath string

	console zerolog.Logger
	logFile *os.File
	otel    *intOtel.Provider
	closers []io.Closer
}

// newApp sets up the session log file, the optional OTel provider and the
// optional Graylog destination. Console output goes to stderr.
func newApp(stderr io.Writer, sessionStart time.Time) (*app, error) {
	a := &app{
		SlogManager: logging.NewSlogManager(),
		RunContext:  &logging.RunContext{},
		console: zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true, TimeFormat: time.TimeOnly}).
			With().Timestamp().Logger(),
	}
	a.SlogManager.SetConsole(stderr)
	a.SlogManager.SetContextProvider(a.RunContext.Provider())

	// create logs dir if it doesn't exist
	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	a.LogFilePath = logging.LogFilePath(logsDir, AppName, sessionStart)
	f, err := os.OpenFile(a.LogFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to create/open log file: %w", err)
	}
	a.logFile = f

	// Initialize OTel provider if enabled (after log file is created)
	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		p, err := intOtel.New(intOtel.Config{
			Enabled:      otelCfg.Enabled,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    f, // Write OTel logs to file
			MetricWriter: f,
			Endpoint:     otelCfg.Endpoint, // Optional OTLP endpoint
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			a.console.Error().Err(err).Msg("Failed to initialize OTel provider")
		} else {
			a.otel = p
		}
	}

	graylogCfg := config.GetGraylogConfig()
	if graylogCfg.Enabled {
		w, err := logging.NewGELFWriter(graylogCfg.Address)
		if err != nil {
			a.console.Error().Err(err).Str("address", graylogCfg.Address).Msg("Failed to connect to Graylog")
		} else {
			a.SlogManager.SetGELF(w)
			a.closers = append(a.closers, w)
		}
	}

	var otelLogProvider *sdklog.LoggerProvider
	if a.otel != nil {
		otelLogProvider = a.otel.LoggerProvider()
	}
	a.SlogManager.Setup(f, config.GetString("logLevel"), otelLogProvider)
	a.Logger = a.SlogManager.Logger()
	a.Logger.Info("Logging to file", "path", a.LogFilePath, "version", Version)

	return a, nil
}

// ExportLogger returns the logger handed to the exporter. Records always
// reach the session log; in verbose mode they are echoed to the console.
func (a *app) ExportLogger(verbose bool) exporter.Logger {
	loggers := logging.Tee{logging.NewSlogExportLogger(a.Logger)}
	if verbose {
		loggers = append(loggers, logging.NewExportLogger(a.console.Level(zerolog.DebugLevel)))
	}
	return loggers
}

// StatsSinks connects the configured run statistics destinations. A sink
// that cannot be set up is logged and skipped.
func (a *app) StatsSinks(ctx context.Context) []exporter.StatsSink {
	var sinks []exporter.StatsSink

	influxCfg := config.GetInfluxConfig()
	if influxCfg.Enabled {
		s, err := influx.Connect(ctx, influxCfg, a.console)
		if err != nil {
			a.Logger.Error("Failed to set up InfluxDB sink", "error", err)
		} else {
			sinks = append(sinks, s)
			a.closers = append(a.closers, s)
		}
	}
	return sinks
}

// Close flushes and closes every destination in reverse order of setup.
func (a *app) Close(ctx context.Context) error {
	var errs []error

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.SlogManager.Flush(ctx); err != nil {
		errs = append(errs, err)
	}
	if a.otel != nil {
		if err := a.otel.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/calcium-format/exporter/internal/config"
	"github.com/calcium-format/exporter/internal/exporter"
	"github.com/calcium-format/exporter/internal/storage"
	"github.com/calcium-format/exporter/internal/validate"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <output path>",
		Short: "Export the selected armature (or all armatures) to a Calcium file",
		Long: `Export writes the skeleton, actions and child mesh weights of the target
armatures to <output path> (the .ca extension is added if missing) and an
error report to <output path>.log.

The scene is read from the configured storage backend: a JSON snapshot file
(--snapshot-file), or a snapshot stored in SQLite (--db) or Postgres.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(cmd.Flags(), map[string]string{
				"export.selection":            "selection",
				"export.strictness":           "strictness",
				"export.childMeshWeights":     "mesh-weights",
				"export.precision":            "precision",
				"storage.type":                "storage",
				"storage.memory.snapshotPath": "snapshot-file",
				"storage.sqlite.path":         "db",
				"storage.snapshot":            "name",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0])
		},
	}

	f := cmd.Flags()
	f.String("selection", "", "target policy: selected (exactly one selected armature) or all")
	f.String("strictness", "", "keyframe validation: full or structural")
	f.Bool("mesh-weights", true, "export vertex weights of child meshes")
	f.Int("precision", 6, "decimal places written for numbers (0 selects the default)")
	f.String("storage", "", "snapshot backend: memory, sqlite or postgres")
	f.String("snapshot-file", "", "JSON scene snapshot (memory backend)")
	f.String("db", "", "SQLite database file (sqlite backend)")
	f.String("name", "", "stored snapshot name (default: most recent)")

	return cmd
}

// exporterConfig converts the configured export settings.
func exporterConfig(c config.ExportConfig) (exporter.Config, error) {
	selection, err := exporter.ParseSelection(c.Selection)
	if err != nil {
		return exporter.Config{}, err
	}
	strictness, err := validate.ParseStrictness(c.Strictness)
	if err != nil {
		return exporter.Config{}, err
	}

	return exporter.Config{
		Selection:        selection,
		Strictness:       strictness,
		ChildMeshWeights: c.ChildMeshWeights,
		Verbose:          c.Verbose,
		ReportSuffix:     c.ReportSuffix,
		Extension:        c.Extension,
		Precision:        c.Precision,
	}, nil
}

func runExport(cmd *cobra.Command, path string) (err error) {
	ctx := cmd.Context()

	cfg, err := exporterConfig(config.GetExportConfig())
	if err != nil {
		return err
	}

	a, err := newApp(cmd.ErrOrStderr(), time.Now())
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if cerr := a.Close(closeCtx); cerr != nil && err == nil {
			err = fmt.Errorf("failed to flush logs: %w", cerr)
		}
	}()

	storageCfg := config.GetStorageConfig()
	backend, err := storage.NewBackend(storageCfg)
	if err != nil {
		a.Logger.Error("Failed to create storage backend", "type", storageCfg.Type, "error", err)
		return err
	}
	if err := backend.Init(); err != nil {
		a.Logger.Error("Failed to initialize storage backend", "type", storageCfg.Type, "error", err)
		backend.Close()
		return err
	}
	defer backend.Close()

	opts := []exporter.Option{}
	for _, s := range a.StatsSinks(ctx) {
		opts = append(opts, exporter.WithStatsSink(s))
	}

	exp, err := exporter.New(a.ExportLogger(cfg.Verbose), cfg, opts...)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	a.RunContext.Set("runId", runID, "output", exp.DocumentPath(path), "storage", storageCfg.Type)
	defer a.RunContext.Clear()

	res, err := exp.Export(exporter.ContextWithRunID(ctx, runID), backend, path)
	if res.State == exporter.StateSucceeded || res.State == exporter.StateFailed {
		printResult(cmd.OutOrStdout(), res)
	}
	return err
}

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/calcium-format/exporter/internal/config"
	"github.com/calcium-format/exporter/internal/database"
	gormstorage "github.com/calcium-format/exporter/internal/storage/gorm"
	"github.com/calcium-format/exporter/internal/storage/memory"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// snapshotBindings are the config keys shared by every snapshot subcommand.
var snapshotBindings = map[string]string{
	"storage.type":        "storage",
	"storage.sqlite.path": "db",
}

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage scene snapshots stored in SQLite or Postgres",
	}

	cmd.PersistentFlags().String("storage", "", "snapshot database: sqlite or postgres")
	cmd.PersistentFlags().String("db", "", "SQLite database file")

	cmd.AddCommand(newSnapshotImportCmd())
	cmd.AddCommand(newSnapshotExportCmd())
	cmd.AddCommand(newSnapshotListCmd())
	cmd.AddCommand(newSnapshotDeleteCmd())
	return cmd
}

func newSnapshotImportCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import <snapshot.json>",
		Short: "Store a JSON scene snapshot in the database",
		Long: `Import reads a JSON (or gzipped .json.gz) scene snapshot and stores it in
the snapshot database. A snapshot with the same name is replaced. The name
defaults to the one in the file, or the file name when the file has none.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(cmd.Flags(), snapshotBindings)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := memory.ReadSnapshot(args[0])
			if err != nil {
				return err
			}
			switch {
			case name != "":
				snap.Name = name
			case snap.Name == "":
				snap.Name = snapshotName(args[0])
			}

			db, err := openSnapshotDB(config.GetStorageConfig())
			if err != nil {
				return err
			}
			defer closeDB(db)

			id, err := gormstorage.Save(db, snap)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported snapshot %q (%s)\n", snap.Name, id)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "store the snapshot under this name")
	return cmd
}

func newSnapshotExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <name> <snapshot.json>",
		Short: "Write a stored snapshot back to a JSON file",
		Args:  cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(cmd.Flags(), map[string]string{
				"storage.type":            "storage",
				"storage.sqlite.path":     "db",
				"storage.memory.compress": "gzip",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			storageCfg := config.GetStorageConfig()
			db, err := openSnapshotDB(storageCfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			snap, err := gormstorage.Load(db, args[0])
			if err != nil {
				return err
			}
			if err := memory.WriteSnapshot(args[1], snap, storageCfg.Memory.Compress); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote snapshot %q to %s\n", snap.Name, args[1])
			return nil
		},
	}

	cmd.Flags().Bool("gzip", false, "gzip the JSON output")
	return cmd
}

func newSnapshotListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(cmd.Flags(), snapshotBindings)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openSnapshotDB(config.GetStorageConfig())
			if err != nil {
				return err
			}
			defer closeDB(db)

			snaps, err := gormstorage.List(db)
			if err != nil {
				return err
			}
			printSnapshots(cmd.OutOrStdout(), snaps)
			return nil
		},
	}
}

func newSnapshotDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored snapshot",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(cmd.Flags(), snapshotBindings)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openSnapshotDB(config.GetStorageConfig())
			if err != nil {
				return err
			}
			defer closeDB(db)

			if err := gormstorage.Delete(db, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted snapshot %q\n", args[0])
			return nil
		},
	}
}

// openSnapshotDB opens and migrates the snapshot database. Any storage type
// other than postgres uses the SQLite file.
func openSnapshotDB(cfg config.StorageConfig) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	if cfg.Type == "postgres" {
		db, err = database.OpenPostgres(cfg.Postgres)
	} else {
		db, err = database.OpenSQLite(cfg.SQLite.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		closeDB(db)
		return nil, err
	}
	return db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

// snapshotName derives a snapshot name from a file path.
func snapshotName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gz")
	return strings.TrimSuffix(base, filepath.Ext(base))
}

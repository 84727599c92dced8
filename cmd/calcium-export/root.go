package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/calcium-format/exporter/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// newRootCmd creates the root command. Configuration is loaded before any
// subcommand runs; flags bound to config keys override the file.
func newRootCmd() *cobra.Command {
	var configDir string

	rootCmd := &cobra.Command{
		Use:   AppName,
		Short: "Export skeletal animation scenes to Calcium files",
		Long: `calcium-export reads a scene snapshot (a JSON file or a snapshot stored in
SQLite or Postgres) and writes its armatures, actions and mesh weights as a
Calcium (.ca) document, plus an error report next to it.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}
			return loadConfig(configDir)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "directory containing "+config.FileName+" (default: current directory)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log every export step to the console")
	rootCmd.PersistentFlags().String("log-level", "", "log file level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("logs-dir", "", "directory for session log files")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("logLevel", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logsDir", rootCmd.PersistentFlags().Lookup("logs-dir"))

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newSnapshotCmd())

	return rootCmd
}

// loadConfig reads the config file from dir. Without an explicit dir a
// missing file in the current directory is not an error.
func loadConfig(dir string) error {
	if dir != "" {
		return config.Load(dir)
	}
	if _, err := os.Stat(filepath.Join(".", config.FileName)); err == nil {
		return config.Load(".")
	}
	config.SetDefaults()
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (built %s)\n", AppName, Version, BuildDate)
		},
	}
}

// bindFlags binds config keys to flags of the running command. Binding
// happens at run time because several commands share a config key.
func bindFlags(flags *pflag.FlagSet, bindings map[string]string) error {
	for key, name := range bindings {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

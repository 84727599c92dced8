package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/calcium-format/exporter/internal/exporter"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	Version   = "0.1.0"
	BuildDate = "unknown"

	AppName = "calcium-export"
)

// exit codes
const (
	exitOK      = 0
	exitError   = 1
	exitInvalid = 2
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a command error to the process exit status. An export that
// wrote its document but recorded validation errors exits with exitInvalid.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, exporter.ErrExportFailed):
		return exitInvalid
	default:
		return exitError
	}
}

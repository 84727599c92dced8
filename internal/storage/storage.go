package storage

import "github.com/calcium-format/exporter/pkg/scene"

// Backend is the interface all snapshot storage implementations must satisfy.
// A backend serves exactly one scene snapshot to the exporter.
type Backend interface {
	scene.Provider

	// Lifecycle
	Init() error
	Close() error
}

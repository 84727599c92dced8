package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/calcium-format/exporter/pkg/scene"
)

// ReadSnapshot reads a JSON scene snapshot. Paths ending in .gz are
// decompressed.
func ReadSnapshot(path string) (scene.Snapshot, error) {
	var snap scene.Snapshot

	f, err := os.Open(path)
	if err != nil {
		return snap, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return snap, fmt.Errorf("failed to open gzip snapshot: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return snap, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}

// WriteSnapshot writes a scene snapshot as JSON, gzipped if compress is set.
func WriteSnapshot(path string, snap scene.Snapshot, compress bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if !compress {
		return json.NewEncoder(f).Encode(snap)
	}

	gzWriter := gzip.NewWriter(f)
	if err := json.NewEncoder(gzWriter).Encode(snap); err != nil {
		gzWriter.Close()
		return err
	}
	return gzWriter.Close()
}

// Open loads a snapshot file into a new memory backend.
func Open(path string) (*Backend, error) {
	snap, err := ReadSnapshot(path)
	if err != nil {
		return nil, err
	}
	return New(snap), nil
}

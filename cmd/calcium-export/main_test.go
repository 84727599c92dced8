package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/calcium-format/exporter/internal/exporter"
	"github.com/calcium-format/exporter/internal/storage/memory"
	"github.com/calcium-format/exporter/internal/testutil"
	"github.com/calcium-format/exporter/pkg/scene"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with args and a temporary logs directory.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--logs-dir", filepath.Join(t.TempDir(), "logs")))

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeSnapshot(t *testing.T, snap scene.Snapshot) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, memory.WriteSnapshot(path, snap, false))
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "calcium-export "+Version)
}

func TestExport_Succeeded(t *testing.T) {
	snapshot := writeSnapshot(t, testutil.RiggedScene().Snapshot())
	output := filepath.Join(t.TempDir(), "rig")

	out, _, err := execute(t, "export", output, "--snapshot-file", snapshot, "--strictness", "structural")
	require.NoError(t, err)

	assert.FileExists(t, output+".ca")
	assert.FileExists(t, output+".ca.log")
	assert.Contains(t, out, "Succeeded")
	assert.Contains(t, out, "rig")

	rep, err := os.ReadFile(output + ".ca.log")
	require.NoError(t, err)
	assert.Contains(t, string(rep), "Exported successfully.")
}

func TestExport_ValidationErrors(t *testing.T) {
	snapshot := writeSnapshot(t, testutil.RiggedScene().Snapshot())
	output := filepath.Join(t.TempDir(), "rig.ca")

	out, _, err := execute(t, "export", output, "--snapshot-file", snapshot)
	require.Error(t, err)

	var failed *exporter.FailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, output+".log", failed.ReportPath)
	assert.Equal(t, exitInvalid, exitCode(err))

	assert.FileExists(t, output)
	assert.Contains(t, out, "Failed")
	assert.Contains(t, out, "UnsupportedEasing")
}

func TestExport_NoArmatureSelected(t *testing.T) {
	snap := testutil.NewScene().Armature("rig", false, testutil.Bone("root", "")).Snapshot()
	snapshot := writeSnapshot(t, snap)
	output := filepath.Join(t.TempDir(), "rig")

	out, _, err := execute(t, "export", output, "--snapshot-file", snapshot)
	require.Error(t, err)
	assert.True(t, errors.Is(err, exporter.ErrNoArmatureSelected))
	assert.Equal(t, exitError, exitCode(err))
	assert.Empty(t, out)
	assert.NoFileExists(t, output+".ca")
}

func TestExport_AllArmatures(t *testing.T) {
	snap := testutil.NewScene().
		Armature("a", false, testutil.Bone("a_root", "")).
		Armature("b", false, testutil.Bone("b_root", "")).
		Snapshot()
	snapshot := writeSnapshot(t, snap)
	output := filepath.Join(t.TempDir(), "scene")

	out, _, err := execute(t, "export", output, "--snapshot-file", snapshot, "--selection", "all")
	require.NoError(t, err)
	assert.Contains(t, out, "a, b")
}

func TestExport_InvalidFlags(t *testing.T) {
	snapshot := writeSnapshot(t, testutil.RiggedScene().Snapshot())

	tests := []struct {
		name string
		args []string
	}{
		{"selection", []string{"--selection", "some"}},
		{"strictness", []string{"--strictness", "lenient"}},
		{"storage", []string{"--storage", "redis"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := filepath.Join(t.TempDir(), "out")
			args := append([]string{"export", output, "--snapshot-file", snapshot}, tt.args...)

			_, _, err := execute(t, args...)
			require.Error(t, err)
			assert.NoFileExists(t, output+".ca")
		})
	}
}

func TestExport_Verbose(t *testing.T) {
	snapshot := writeSnapshot(t, testutil.RiggedScene().Snapshot())
	output := filepath.Join(t.TempDir(), "rig")

	_, stderr, err := execute(t, "export", output, "--snapshot-file", snapshot, "--strictness", "structural", "-v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "selected armatures")
	assert.Contains(t, stderr, "export finished")
}

func TestExport_MissingSnapshotFile(t *testing.T) {
	_, _, err := execute(t, "export", filepath.Join(t.TempDir(), "out"),
		"--snapshot-file", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open snapshot")
}

func TestSnapshotCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "scenes.db")
	snapshot := writeSnapshot(t, testutil.RiggedScene().Snapshot())

	out, _, err := execute(t, "snapshot", "import", snapshot, "--db", db, "--name", "walk")
	require.NoError(t, err)
	assert.Contains(t, out, `Imported snapshot "walk"`)

	out, _, err = execute(t, "snapshot", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "walk")

	output := filepath.Join(t.TempDir(), "walk")
	out, _, err = execute(t, "export", output, "--storage", "sqlite", "--db", db, "--name", "walk", "--strictness", "structural")
	require.NoError(t, err)
	assert.Contains(t, out, "Succeeded")
	assert.FileExists(t, output+".ca")

	roundTrip := filepath.Join(t.TempDir(), "walk.json.gz")
	_, _, err = execute(t, "snapshot", "export", "walk", roundTrip, "--db", db, "--gzip")
	require.NoError(t, err)
	got, err := memory.ReadSnapshot(roundTrip)
	require.NoError(t, err)
	want := testutil.RiggedScene().Snapshot()
	want.Name = "walk"
	assert.Equal(t, want, got)

	out, _, err = execute(t, "snapshot", "delete", "walk", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, `Deleted snapshot "walk"`)

	out, _, err = execute(t, "snapshot", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No stored snapshots.")
}

func TestSnapshotName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"scene.json", "scene"},
		{"/tmp/walk-cycle.json.gz", "walk-cycle"},
		{"dir/rig", "rig"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, snapshotName(tt.path))
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"failed export", &exporter.FailedError{ReportPath: "x.ca.log", Errors: 2}, exitInvalid},
		{"selection", exporter.ErrTooManyArmaturesSelected, exitError},
		{"other", errors.New("boom"), exitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

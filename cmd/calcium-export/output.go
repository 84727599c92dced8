package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/calcium-format/exporter/internal/exporter"
	"github.com/calcium-format/exporter/internal/model"
	"github.com/jedib0t/go-pretty/v6/table"
)

// printResult writes a summary of a finished export and, if any problems
// were recorded, a table listing them.
func printResult(w io.Writer, res exporter.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendRows([]table.Row{
		{"Status", res.State.String()},
		{"Armatures", strings.Join(res.Skeletons, ", ")},
		{"Document", res.DocumentPath},
		{"Report", res.ReportPath},
		{"Bones", res.Stats.Bones},
		{"Meshes", res.Stats.Meshes},
		{"Actions", res.Stats.Actions},
		{"Curves", res.Stats.Curves},
		{"Keyframes", res.Stats.Keyframes},
		{"Errors", res.Stats.Errors},
		{"Duration", res.Stats.Duration.Round(time.Millisecond)},
	})
	t.Render()

	if len(res.Errors) == 0 {
		return
	}

	fmt.Fprintln(w)
	et := table.NewWriter()
	et.SetOutputMirror(w)
	et.SetStyle(table.StyleLight)
	et.AppendHeader(table.Row{"#", "Kind", "Location", "Message"})
	for i, e := range res.Errors {
		et.AppendRow(table.Row{i + 1, string(e.Kind), e.Context.String(), e.Message})
	}
	et.Render()
}

// printSnapshots lists stored snapshots.
func printSnapshots(w io.Writer, snaps []model.SceneSnapshot) {
	if len(snaps) == 0 {
		fmt.Fprintln(w, "No stored snapshots.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "ID", "FPS", "Frame", "Stored"})
	for _, s := range snaps {
		t.AppendRow(table.Row{s.Name, s.ID.String(), s.FrameRate, s.CurrentFrame, s.CreatedAt.Format(time.RFC3339)})
	}
	t.Render()
}

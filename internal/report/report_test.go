package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextString(t *testing.T) {
	tests := []struct {
		name     string
		ctx      Context
		expected string
	}{
		{"empty", Context{}, ""},
		{"action and bone", Context{Action: "walk", Bone: "hip"}, `action="walk" bone="hip"`},
		{
			"full",
			Context{Skeleton: "rig", Action: "walk", Bone: "hip", Group: "translation", Channel: "z"}.WithFrame(10),
			`skeleton="rig" action="walk" bone="hip" group="translation" channel="z" frame=10`,
		},
		{"frame zero is kept", Context{}.WithFrame(0), "frame=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.ctx.String())
		})
	}
}

func TestContextWithHelpersDoNotAlias(t *testing.T) {
	base := Context{Bone: "hip"}
	a := base.WithFrame(1)
	b := base.WithFrame(2)

	assert.Nil(t, base.Frame)
	assert.Equal(t, 1, *a.Frame)
	assert.Equal(t, 2, *b.Frame)
	assert.Equal(t, "x", base.WithChannel("x").Channel)
	assert.Empty(t, base.Channel)
}

func TestCollector(t *testing.T) {
	var c Collector
	assert.True(t, c.Empty())

	c.Add(MissingChannelInGroup, Context{Bone: "a"}, "missing %s", "z")
	c.Add(KeyframeCountMismatch, Context{Bone: "b"}, "counts differ")
	c.Add(MissingChannelInGroup, Context{Bone: "c"}, "missing %s", "y")

	require.Equal(t, 3, c.Len())
	entries := c.Entries()
	assert.Equal(t, "missing z", entries[0].Message)
	assert.Equal(t, "b", entries[1].Context.Bone)
	assert.Equal(t, map[Kind]int{MissingChannelInGroup: 2, KeyframeCountMismatch: 1}, c.CountByKind())

	// Entries is a copy
	entries[0].Message = "changed"
	assert.Equal(t, "missing z", c.Entries()[0].Message)
}

func TestCollectorMergeKeepsOrder(t *testing.T) {
	var a, b Collector
	a.Add(SamplingFailed, Context{}, "first")
	b.Add(UnsupportedEasing, Context{}, "second")
	b.Add(UnsupportedEasing, Context{}, "third")

	a.Merge(&b)
	a.Merge(nil)

	var messages []string
	for _, e := range a.Entries() {
		messages = append(messages, e.Message)
	}
	assert.Equal(t, []string{"first", "second", "third"}, messages)
}

func TestWrite_Success(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

	require.NoError(t, Write(&buf, []string{"rig"}, at, nil))
	assert.Equal(t, "Export of rig on 2026-03-01T12:30:00Z\n\nExported successfully.\n", buf.String())
}

func TestWrite_Failure(t *testing.T) {
	var c Collector
	c.Add(MissingChannelInGroup, Context{Action: "walk", Bone: "hip", Group: "translation", Channel: "z"}, "channel z is missing")
	c.Add(UnsupportedEasing, Context{Bone: "hip"}.WithFrame(3), "bad easing")

	var buf bytes.Buffer
	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	require.NoError(t, Write(&buf, []string{"left", "right"}, at, c.Entries()))

	out := buf.String()
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "Export of left, right on 2026-03-01T12:30:00Z", lines[0])
	assert.Equal(t, `[MissingChannelInGroup] action="walk" bone="hip" group="translation" channel="z": channel z is missing`, lines[2])
	assert.Equal(t, `[UnsupportedEasing] bone="hip" frame=3: bad easing`, lines[3])
	assert.Equal(t, "2 errors.", lines[5])
	assert.Equal(t, FailureLine, lines[6])
	assert.NotContains(t, out, SuccessLine)
}

func TestWrite_SingleErrorTally(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []string{"rig"}, time.Now(), []Entry{{Kind: SamplingFailed, Message: "x"}}))
	assert.Contains(t, buf.String(), "\n1 error.\n")
}

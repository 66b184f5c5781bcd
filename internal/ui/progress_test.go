package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fsfront/internal/buildpipeline"
)

func TestProgressModelTracksFiles(t *testing.T) {
	ch := make(chan buildpipeline.Event)
	m := NewProgressModel("check", []string{"A.fs", "B.fs"}, ch).(*progressModel)

	m.Update(eventMsg{File: "A.fs", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking})
	m.Update(eventMsg{File: "B.fs", Stage: buildpipeline.StageClose, Status: buildpipeline.StatusDone})
	m.Update(eventMsg{Stage: buildpipeline.StageCheck, Status: buildpipeline.StatusWorking})
	m.Update(eventMsg{File: "zzz.fs", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusDone})

	assert.Equal(t, "parsing", m.items[0].status)
	assert.Equal(t, "done", m.items[1].status)
	assert.Equal(t, "checking", m.stageLabel)
	assert.InDelta(t, 0.55, m.percent(), 1e-9)

	view := m.View()
	assert.Contains(t, view, "check (checking)")
	assert.Contains(t, view, "A.fs")

	_, cmd := m.Update(doneMsg{})
	require.NotNil(t, cmd)
	assert.True(t, m.done)
	assert.Contains(t, m.View(), "done: check")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a-v...", truncate("a-very-long-name", 9))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}

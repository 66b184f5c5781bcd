package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamTracerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	pass := Begin(tr, ScopePass, "parse", 0)
	file := Begin(tr, ScopeFile, "file:A.fs", pass.ID())
	file.End("")
	pass.WithExtra("files", "1").End("ok")

	out := buf.String()
	assert.Contains(t, out, "→ parse")
	assert.Contains(t, out, "← parse (ok) {files=1}")
	assert.NotContains(t, out, "file:A.fs")
}

func TestRingTracerKeepsLastEvents(t *testing.T) {
	tr := NewRingTracer(3, LevelDebug)
	for range 5 {
		Point(tr, ScopeFile, "tick", "", 0)
	}
	assert.Len(t, tr.Snapshot(), 3)

	var buf bytes.Buffer
	require.NoError(t, tr.Dump(&buf, FormatNDJSON))
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), `"name":"tick"`)
}

func TestContextPropagation(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, Nop, FromContext(ctx))
	assert.Zero(t, ParentFromContext(ctx))

	tr := NewRingTracer(8, LevelDetail)
	ctx = WithTracer(ctx, tr)
	span := Begin(FromContext(ctx), ScopePass, "check", 0)
	ctx = WithParent(ctx, span)
	assert.Equal(t, span.ID(), ParentFromContext(ctx))
}

func TestParseLevelAndMode(t *testing.T) {
	l, err := ParseLevel("DETAIL")
	require.NoError(t, err)
	assert.Equal(t, LevelDetail, l)
	_, err = ParseLevel("loud")
	assert.Error(t, err)

	m, err := ParseMode("both")
	require.NoError(t, err)
	assert.Equal(t, ModeBoth, m)

	tr, err := New(Config{Level: LevelOff})
	require.NoError(t, err)
	assert.False(t, tr.Enabled())
}

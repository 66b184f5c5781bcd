package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentLogger(t *testing.T) {
	assert.Nil(t, Component(nil, "driver"))
	assert.False(t, Enabled(nil, slog.LevelError))

	var buf bytes.Buffer
	logger, err := New(&buf, "debug")
	require.NoError(t, err)
	l := Component(logger, "tcstate")
	assert.True(t, Enabled(l, slog.LevelDebug))
	assert.False(t, Enabled(l, LevelTrace))
	l.Debug("checked", slog.String("file", "A.fs"))
	assert.Contains(t, buf.String(), "component=tcstate")
	assert.Contains(t, buf.String(), "file=A.fs")
}

func TestNewOff(t *testing.T) {
	logger, err := New(&bytes.Buffer{}, "off")
	require.NoError(t, err)
	assert.Nil(t, logger)

	_, err = New(&bytes.Buffer{}, "chatty")
	assert.Error(t, err)
}

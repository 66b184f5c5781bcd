package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsNilCallback(t *testing.T) {
	w, err := New(0, nil, nil, nil)
	assert.ErrorIs(t, err, os.ErrInvalid)
	assert.Nil(t, w)
}

func TestIsSource(t *testing.T) {
	assert.True(t, IsSource("a/B.fs"))
	assert.True(t, IsSource("x.FSI"))
	assert.True(t, IsSource("fsfront.toml"))
	assert.False(t, IsSource("notes.txt"))
}

func TestWatcherReportsSourceChanges(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "obj"), 0o755))

	changed := make(chan []string, 4)
	w, err := New(50*time.Millisecond, []string{"obj*"}, nil, func(paths []string) { changed <- paths })
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	src := filepath.Join(dir, "A.fs")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "obj", "B.fs"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(src, []byte("module A\n"), 0o600))

	select {
	case paths := <-changed:
		assert.Equal(t, []string{src}, paths)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change")
	}
}

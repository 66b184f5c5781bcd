package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fsfront/internal/config"
	"fsfront/internal/directive"
	"fsfront/internal/types"
)

func TestResolvePackageReference(t *testing.T) {
	r := &Resolver{Stat: func(string) (os.FileInfo, error) {
		t.Fatal("package references must not touch the file system")
		return nil, nil
	}}
	ref, err := r.Resolve(Request{Path: "nuget:  FSharp.Data", Kind: directive.KindResolution})
	require.NoError(t, err)
	assert.True(t, ref.Package)
	assert.Equal(t, "nuget: FSharp.Data", ref.Path)

	_, err = r.Resolve(Request{Path: "nuget:"})
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestResolveEmptyPath(t *testing.T) {
	_, err := New().Resolve(Request{Path: "  "})
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestResolveSearchOrder(t *testing.T) {
	src := t.TempDir()
	inc := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(inc, "lib.dll"), []byte{0}, 0o600))

	r := New()
	ref, err := r.Resolve(Request{Path: "lib.dll", SourceDir: src, IncludePaths: []string{inc}})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(inc, "lib.dll"), ref.Path)

	require.NoError(t, os.WriteFile(filepath.Join(src, "lib.dll"), []byte{0}, 0o600))
	ref, err = r.Resolve(Request{Path: "lib.dll", SourceDir: src, IncludePaths: []string{inc}})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(src, "lib.dll"), ref.Path)

	_, err = r.Resolve(Request{Path: "other.dll", SourceDir: src})
	assert.ErrorIs(t, err, ErrNotFound)

	// directories are not references
	_, err = r.Resolve(Request{Path: filepath.Base(inc), SourceDir: filepath.Dir(inc)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveIncludeKindIsVerbatim(t *testing.T) {
	ref, err := New().ResolveReference("https://feed/index.json", directive.KindInclude, "", nil)
	require.NoError(t, err)
	assert.True(t, ref.Package)
	assert.Equal(t, "https://feed/index.json", ref.Path)
}

func TestImportTable(t *testing.T) {
	tbl := NewImportTable()
	assert.True(t, tbl.AddReference(config.Reference{Path: "a.dll"}))
	assert.False(t, tbl.AddReference(config.Reference{Path: "a.dll"}))
	assert.Len(t, tbl.References(), 1)

	lib := types.NewRoot()
	lib.Ensure([]string{"Lib"}, types.ModuleKindModule).AddVal("answer", types.Int)
	tbl.Register(lib)
	lib.Ensure([]string{"Lib"}, types.ModuleKindModule).AddVal("late", types.Int)

	env := tbl.InitialEnv()
	got, ok := env.LookupVal([]string{"Lib", "answer"})
	require.True(t, ok)
	assert.Equal(t, types.Int, got)
	_, ok = env.LookupVal([]string{"Lib", "late"})
	assert.False(t, ok)
}

var _ directive.ReferenceResolver = (*Resolver)(nil)

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fsfront/internal/diag"
	"fsfront/internal/source"
)

func TestFreezeIsIndependentOfBuilder(t *testing.T) {
	b := NewBuilder()
	b.AddIncludePath("lib", "/src")
	b.TurnWarningOff(source.StartupSpan, "25", nil)
	cfg := b.Freeze()

	b.AddIncludePath("other", "/src")
	b.TurnWarningOff(source.StartupSpan, "FS0026", nil)

	assert.Equal(t, []string{filepath.Clean("/src/lib")}, cfg.IncludePaths())
	assert.True(t, cfg.IsWarningOff(25))
	assert.False(t, cfg.IsWarningOff(26))

	back := cfg.ToBuilder()
	back.TurnWarningOff(source.StartupSpan, "40", nil)
	assert.False(t, cfg.IsWarningOff(40))
}

func TestTurnWarningOffRejectsGarbage(t *testing.T) {
	bag := diag.NewBag(0)
	b := NewBuilder()
	b.TurnWarningOff(source.StartupSpan, "twenty-five", diag.BagReporter{Bag: bag})
	assert.Equal(t, []diag.Code{diag.BuildInvalidWarningNumber}, bag.Codes())
	assert.Empty(t, b.NoWarn)
}

func TestReferencesAndIncludesAreDeduplicated(t *testing.T) {
	b := NewBuilder()
	b.AddReference(Reference{Path: "a.dll"})
	b.AddReference(Reference{Path: "a.dll"})
	b.AddReference(Reference{Path: "nuget: Foo", Package: true})
	b.AddIncludePath("/x", "")
	b.AddIncludePath("/x/", "")
	assert.Len(t, b.References, 2)
	assert.Len(t, b.IncludePaths, 1)
}

func TestParseFaultKind(t *testing.T) {
	k, err := ParseFaultKind("tc-oc")
	require.NoError(t, err)
	assert.Equal(t, FaultTcCancelled, k)
	assert.True(t, k.IsCheckFault())
	assert.False(t, FaultParseFail.IsCheckFault())

	_, err = ParseFaultKind("boom")
	assert.Error(t, err)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadManifestAndExpandSources(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), `
[project]
name = "Demo"
target = "exe"
default_namespace = "Demo"
sources = ["src/Types.fsi", "src/*.fs", "main.fs"]

[compile]
defines = ["TRACE"]
nowarn = ["25", "FS0026"]
warn_as_error = ["64"]
concurrent_build = true
jobs = 3
max_errors = 10
include = ["lib"]
references = ["nuget: Newtonsoft.Json"]
`)
	writeFile(t, filepath.Join(root, "src", "b.fs"), "")
	writeFile(t, filepath.Join(root, "src", "a.fs"), "")
	writeFile(t, filepath.Join(root, "src", "Types.fsi"), "")
	writeFile(t, filepath.Join(root, ".hidden", "x.fs"), "")

	path, ok, err := FindManifest(filepath.Join(root, "src"))
	require.NoError(t, err)
	require.True(t, ok)

	m, err := LoadManifest(path)
	require.NoError(t, err)

	b := NewBuilder()
	m.Apply(b, nil)
	cfg := b.Freeze()
	assert.Equal(t, "Demo", cfg.CcuName())
	assert.True(t, cfg.IsExe())
	assert.True(t, cfg.ConcurrentBuild())
	assert.Equal(t, 3, cfg.Jobs())
	assert.Equal(t, 10, cfg.MaxErrors())
	assert.True(t, cfg.IsWarningOff(25))
	assert.True(t, cfg.IsWarningOff(26))
	assert.True(t, cfg.WarningOptions().WarnAsError.Has(64))
	assert.Equal(t, []string{"TRACE"}, cfg.Defines())
	require.Len(t, cfg.References(), 1)
	assert.True(t, cfg.References()[0].Package)

	sources, err := m.Sources()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "src", "Types.fsi"),
		filepath.Join(root, "src", "a.fs"),
		filepath.Join(root, "src", "b.fs"),
		filepath.Join(root, "main.fs"),
	}, sources)
}

func TestLoadManifestValidation(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ManifestName)

	writeFile(t, path, "[compile]\njobs = 1\n")
	_, err := LoadManifest(path)
	assert.ErrorContains(t, err, "missing [project]")

	writeFile(t, path, "[project]\nname = \"x\"\n")
	_, err = LoadManifest(path)
	assert.ErrorContains(t, err, "missing [project].sources")

	writeFile(t, path, "[project]\nname = \"x\"\nsources = [\"a.fs\"]\ntarget = \"dll\"\n")
	_, err = LoadManifest(path)
	assert.ErrorContains(t, err, "target")

	writeFile(t, path, "[project]\nname = \"x\"\nsources = [\"a.fs\"]\nsurprise = 1\n")
	_, err = LoadManifest(path)
	assert.ErrorContains(t, err, "unknown key")
}

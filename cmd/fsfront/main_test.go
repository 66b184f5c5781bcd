package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fsfront/internal/config"
	"fsfront/internal/diag"
	"fsfront/internal/driver"
)

func newTestRoot(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	root := &cobra.Command{Use: "fsfront", SilenceUsage: true, SilenceErrors: true}
	registerRootFlags(root)
	check := &cobra.Command{Use: "check", RunE: runCheck}
	registerCheckFlags(check)
	root.AddCommand(check)
	root.AddCommand(&cobra.Command{Use: "parse", Args: cobra.MinimumNArgs(1), RunE: runParse})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	return root, &out
}

func writeFile(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

func TestReadUIMode(t *testing.T) {
	mode, err := readUIMode(" ON ")
	require.NoError(t, err)
	assert.Equal(t, uiModeOn, mode)

	mode, err = readUIMode("")
	require.NoError(t, err)
	assert.Equal(t, uiModeAuto, mode)

	_, err = readUIMode("sometimes")
	assert.Error(t, err)

	assert.False(t, shouldUseTUI(uiModeOff, false))
	assert.True(t, shouldUseTUI(uiModeOn, true))
}

func TestBuildConfigFlagsOverrideManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.ManifestName, `[project]
name = "Demo"
target = "exe"
sources = ["*.fs"]

[compile]
jobs = 2
defines = ["TRACE"]
`)
	m, err := loadManifest(dir)
	require.NoError(t, err)
	require.NotNil(t, m)

	root, _ := newTestRoot(t)
	pf := root.PersistentFlags()
	require.NoError(t, pf.Set("define", "DEBUG"))
	require.NoError(t, pf.Set("jobs", "3"))
	require.NoError(t, pf.Set("nowarn", "nope"))

	bag := diag.NewBag(0)
	cfg, err := buildConfig(root, m, diag.BagReporter{Bag: bag})
	require.NoError(t, err)
	assert.Equal(t, "Demo", cfg.CcuName())
	assert.True(t, cfg.IsExe())
	assert.Equal(t, 3, cfg.Jobs())
	assert.Equal(t, []string{"TRACE", "DEBUG"}, cfg.Defines())
	assert.Equal(t, 1, bag.Count(diag.BuildInvalidWarningNumber))
}

func TestBuildConfigRejectsUnknownFault(t *testing.T) {
	root, _ := newTestRoot(t)
	require.NoError(t, root.PersistentFlags().Set("simulate-fault", "meteor"))
	_, err := buildConfig(root, nil, diag.Nop)
	assert.Error(t, err)
}

func TestCheckPrintsSignature(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	a := writeFile(t, dir, "A.fs", "module A\nlet x = 1\n")
	b := writeFile(t, dir, "B.fs", "module B\nlet y = A.x + 1\n")

	root, out := newTestRoot(t)
	root.SetArgs([]string{"check", "--print-sig", "--color", "off", a, b})
	require.NoError(t, root.Execute())
	assert.Equal(t, "A.x : int\nB.y : int\n", out.String())
}

func TestCheckManifestSources(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, config.ManifestName, "[project]\nname = \"Demo\"\nsources = [\"A.fs\", \"B.fs\"]\n")
	writeFile(t, dir, "A.fs", "module A\nlet x = 1\n")
	writeFile(t, dir, "B.fs", "module B\nlet y = A.x\n")

	root, out := newTestRoot(t)
	root.SetArgs([]string{"check", "--print-sig", "--color", "off"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "A.x : int\nB.y : int\n", out.String())
}

func TestCheckMissingFileJSON(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	root, out := newTestRoot(t)
	root.SetArgs([]string{"check", "--format", "json", filepath.Join(dir, "Missing.fs")})
	err := root.Execute()
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))

	var payload struct {
		Errors int `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &payload))
	assert.GreaterOrEqual(t, payload.Errors, 1)
}

func TestCheckWithoutInputs(t *testing.T) {
	t.Chdir(t.TempDir())
	root, _ := newTestRoot(t)
	root.SetArgs([]string{"check"})
	err := root.Execute()
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}

func TestParseListsQualifiedNames(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	a := writeFile(t, dir, "A.fs", "module A\nlet x = 1\n")

	root, out := newTestRoot(t)
	root.SetArgs([]string{"parse", "--color", "off", a})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "impl A")
	assert.Contains(t, out.String(), "module A (")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 3, exitCode(&driver.ExitError{Code: 3, Err: driver.ErrErrorLimit}))
	assert.Equal(t, 1, exitCode(errDiagnostics))
	assert.Equal(t, 2, exitCode(errors.New("boom")))
}

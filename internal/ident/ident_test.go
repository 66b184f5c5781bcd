package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fsfront/internal/diag"
	"fsfront/internal/source"
	"fsfront/internal/syntax"
)

func TestCanonicalize(t *testing.T) {
	cases := map[string]string{
		"dir/sub/program.fs": "Program",
		"A.fsi":              "A",
		"script.fsx":         "Script",
		"noext":              "Noext",
		"my-file.fs":         "My-file",
		"ärger.fs":           "Ärger",
		".hidden":            ".hidden",
		// decomposed e + combining acute is composed first
		"cafe\u0301.fs": "Caf\u00e9",
	}
	for in, want := range cases {
		assert.Equal(t, want, Canonicalize(in), in)
	}
}

func TestFileKinds(t *testing.T) {
	assert.True(t, IsScript("a/B.FSX"))
	assert.True(t, IsScript("x.fsscript"))
	assert.False(t, IsScript("x.fs"))
	assert.True(t, IsSignature("x.fsi"))
	assert.True(t, IsImplementation("x.fsx"))
	assert.False(t, IsImplementation("x.txt"))
}

func TestQualifiedNames(t *testing.T) {
	lid := syntax.MakeLongIdent("A.B", source.Span{})
	assert.Equal(t, "A.B", FromModule(source.Span{}, "a.fs", lid).Text)
	assert.Equal(t, "A.B$fsx", FromModule(source.Span{}, "a.fsx", lid).Text)
	assert.Equal(t, "Script$fsx", FromFilename(source.Span{}, "x/script.fsx").Text)
	assert.Equal(t, "Lib", FromFilename(source.Span{}, "lib.fs").Text)
}

// Identifier validity is pinned here rather than left to locale rules.
func TestIsValidIdentifier(t *testing.T) {
	valid := []string{"A", "_x", "Main2", "Ärger", "Модуль", "名前", "X٣"}
	invalid := []string{"", "My-file", "a b", "x.y", "e\u0301", "Tab\t"}
	for _, s := range valid {
		assert.True(t, IsValidIdentifier(s), s)
	}
	for _, s := range invalid {
		assert.False(t, IsValidIdentifier(s), s)
	}
}

func TestAnonymousModuleName(t *testing.T) {
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}

	lid := AnonymousModuleName(true, "Company.App", "src/program.fs", source.StartupSpan, rep)
	assert.Equal(t, "Company.App.Program", lid.Text())
	assert.Equal(t, 0, bag.Len())

	lid = AnonymousModuleName(true, "", "my-file.fs", source.StartupSpan, rep)
	assert.Equal(t, "My-file", lid.Text())
	require.Equal(t, []diag.Code{diag.BuildImplicitModuleNotIdentifier}, bag.Codes())
	assert.Equal(t, diag.SevWarning, bag.Items()[0].Severity)

	AnonymousModuleName(true, "", "my-script.fsx", source.StartupSpan, rep)
	AnonymousModuleName(false, "", "my-file.fs", source.StartupSpan, rep)
	assert.Equal(t, 1, bag.Len(), "scripts and unchecked calls do not warn")
}

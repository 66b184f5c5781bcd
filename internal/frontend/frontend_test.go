package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fsfront/internal/diag"
	"fsfront/internal/source"
	"fsfront/internal/syntax"
	"fsfront/internal/testkit"
)

func parseVirtual(t *testing.T, name, src string, opts Options, unit Compiland) (syntax.ParsedInput, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(src))
	bag := diag.NewBag(0)
	in := ParseInput(fs.Get(id), opts, unit, diag.BagReporter{Bag: bag})
	require.NotNil(t, in)
	return in, bag
}

func TestQualifiedNameFromNamedModule(t *testing.T) {
	in, bag := parseVirtual(t, "lib.fs", "module Company.Lib\nlet x = 1\n", Options{}, Compiland{})
	require.Equal(t, 0, bag.Len())
	assert.False(t, in.IsSignature())
	assert.Equal(t, "Company.Lib", in.Header().QualName.Text)

	in, _ = parseVirtual(t, "tool.fsx", "module Tool\nlet x = 1\n", Options{}, Compiland{})
	assert.Equal(t, "Tool$fsx", in.Header().QualName.Text)
	assert.True(t, in.Header().IsScript)
}

func TestQualifiedNameFromFilenameForNamespaces(t *testing.T) {
	in, bag := parseVirtual(t, "types.fsi", "namespace A\ntype T\nnamespace B\ntype U\n", Options{}, Compiland{})
	require.Equal(t, 0, bag.Len())
	assert.True(t, in.IsSignature())
	assert.Equal(t, "Types", in.Header().QualName.Text)
	assert.Len(t, in.Fragments(), 2)
}

func TestGlobalMarkerIsStripped(t *testing.T) {
	in, bag := parseVirtual(t, "g.fs", "namespace global\ntype T = int\nnamespace global.Inner\ntype U = int\n", Options{}, Compiland{})
	require.Equal(t, 0, bag.Len())
	frags := in.Fragments()
	assert.Equal(t, syntax.GlobalNamespace, frags[0].Kind)
	assert.Empty(t, frags[0].LongID)
	assert.Equal(t, syntax.DeclaredNamespace, frags[1].Kind)
	assert.Equal(t, "Inner", frags[1].LongID.Text())

	in, _ = parseVirtual(t, "m.fs", "module global.M\nlet x = 1\n", Options{}, Compiland{})
	assert.Equal(t, "M", in.Header().QualName.Text)
}

func TestModuleGlobalIsFatalForFile(t *testing.T) {
	in, bag := parseVirtual(t, "bad.fs", "module global\nlet x = 1\n", Options{}, Compiland{})
	assert.Equal(t, []diag.Code{diag.BuildInvalidModuleOrNamespaceName}, bag.Codes())
	assert.Empty(t, in.Fragments())
	assert.Equal(t, "Bad", in.Header().QualName.Text)
}

func TestAnonymousModulePlacement(t *testing.T) {
	_, bag := parseVirtual(t, "first.fs", "let x = 1\n", Options{}, Compiland{IsLast: false, IsExe: true})
	assert.Equal(t, []diag.Code{diag.BuildMultiFileRequiresModule}, bag.Codes())

	_, bag = parseVirtual(t, "lib.fs", "let x = 1\n", Options{}, Compiland{IsLast: true, IsExe: false})
	assert.Equal(t, []diag.Code{diag.BuildMultiFileRequiresModule}, bag.Codes())

	in, bag := parseVirtual(t, "main.fs", "let x = 1\n", Options{DefaultNamespace: "App"}, Compiland{IsLast: true, IsExe: true})
	assert.Equal(t, 0, bag.Len())
	assert.Equal(t, "App.Main", in.Fragments()[0].LongID.Text())
	assert.Equal(t, "App.Main", in.Header().QualName.Text)

	in, bag = parseVirtual(t, "dir/script.fsx", "let x = 1\n", Options{}, Compiland{})
	assert.Equal(t, 0, bag.Len())
	assert.Equal(t, "Script$fsx", in.Header().QualName.Text)
}

func TestMultipleTopLevelModules(t *testing.T) {
	in, bag := parseVirtual(t, "two.fs", "module A\nlet x = 1\nmodule B\nlet y = 2\n", Options{}, Compiland{})
	require.Equal(t, []diag.Code{diag.BuildMultipleToplevelModules}, bag.Codes())
	assert.Equal(t, "Two", in.Header().QualName.Text)

	fs := source.NewFileSet()
	fs.AddVirtual("two.fs", []byte("module A\nlet x = 1\nmodule B\nlet y = 2\n"))
	start, _ := fs.Resolve(bag.Items()[0].Primary)
	assert.Equal(t, uint32(3), start.Line, "reported at the last named module")
}

func TestScopedPragmaAfterWarningStillSuppresses(t *testing.T) {
	src := "let x = 1\n#nowarn \"988\"\n"
	_, bag := parseVirtual(t, "my-file.fs", src, Options{}, Compiland{IsLast: true, IsExe: true})
	assert.Equal(t, 0, bag.Len())

	_, bag = parseVirtual(t, "my-file.fs", "let x = 1\n", Options{}, Compiland{IsLast: true, IsExe: true})
	assert.Equal(t, []diag.Code{diag.BuildImplicitModuleNotIdentifier}, bag.Codes())
}

func TestScopedPragmasAreCollectedEverywhere(t *testing.T) {
	src := "#nowarn \"1\"\nmodule M\n#nowarn \"FS0025\" 26\nmodule N =\n    #nowarn \"40\" \"bogus\"\n    let x = 1\n"
	in, _ := parseVirtual(t, "m.fs", src, Options{}, Compiland{})
	var codes []diag.Code
	for _, p := range in.Header().ScopedPragmas {
		codes = append(codes, p.Code)
	}
	assert.Equal(t, []diag.Code{1, 25, 26, 40}, codes)
}

func TestInvalidExtension(t *testing.T) {
	in, bag := parseVirtual(t, "notes.txt", "module A\n", Options{}, Compiland{})
	assert.Equal(t, []diag.Code{diag.BuildInvalidSourceExtension}, bag.Codes())
	assert.True(t, bag.Items()[0].Primary.IsStartup())
	assert.False(t, in.IsSignature())
	assert.Empty(t, in.Fragments())
}

func TestPanicYieldsPlaceholderOfExpectedKind(t *testing.T) {
	in, bag := parseVirtual(t, "A.fsi", "module A\nval x : int\n", Options{FailParse: true}, Compiland{})
	assert.Equal(t, []diag.Code{diag.BuildInternalError}, bag.Codes())
	assert.True(t, in.IsSignature())
	assert.Equal(t, "A", in.Header().QualName.Text)
}

func TestConditionalDefines(t *testing.T) {
	src := "module M\n#if COMPILED\nlet a = 1\n#else\nlet b = 2\n#endif\n"
	in, _ := parseVirtual(t, "m.fs", src, Options{Defines: []string{"COMPILED"}}, Compiland{})
	decls := in.Fragments()[0].Decls
	require.Len(t, decls, 1)
	assert.Equal(t, "a", decls[0].(*syntax.LetDecl).Name.Text)
	assert.Len(t, in.Header().Trivia.Conditionals, 3)
}

func TestSpanInvariants(t *testing.T) {
	sources := map[string]string{
		"lib.fs":    "module Company.Lib\nopen System\nlet x = 1\nlet y = x + 1\n",
		"types.fsi": "namespace A\ntype T\nnamespace B\ntype U\n",
		"anon.fs":   "let a = 1\nlet b = a\n",
		"tool.fsx":  "#nowarn \"40\"\nlet z = 3\n",
	}
	for name, src := range sources {
		fs := source.NewFileSet()
		id := fs.AddVirtual(name, []byte(src))
		in := ParseInput(fs.Get(id), Options{}, Compiland{IsLast: true}, diag.Nop)
		require.NotNil(t, in, name)
		assert.NoError(t, testkit.CheckSpanInvariants(in, fs.Get(id)), name)
	}
}

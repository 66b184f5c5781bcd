package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fsfront/internal/diag"
	"fsfront/internal/frontend"
	"fsfront/internal/source"
	"fsfront/internal/syntax"
	"fsfront/internal/types"
)

func parse(t *testing.T, name, src string) syntax.ParsedInput {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(src))
	bag := diag.NewBag(0)
	in := frontend.ParseInput(fs.Get(id), frontend.Options{}, frontend.Compiland{IsLast: true, IsExe: true}, diag.BagReporter{Bag: bag})
	require.False(t, bag.HasErrors(), "%v", bag.Items())
	return in
}

func checkImpl(t *testing.T, env types.TcEnv, src string, sig *types.ModuleType) (*TypedImplFile, *diag.Bag) {
	t.Helper()
	in := parse(t, "impl.fs", src).(*syntax.ImplementationFile)
	bag := diag.NewBag(0)
	_, impl, _ := CheckImplementationFile(env, in, sig, diag.BagReporter{Bag: bag})
	return impl, bag
}

func checkSig(t *testing.T, src string) *types.ModuleType {
	t.Helper()
	in := parse(t, "sig.fsi", src).(*syntax.SignatureFile)
	bag := diag.NewBag(0)
	_, sig := CheckSignatureFile(types.NewEnv(nil), in, diag.BagReporter{Bag: bag})
	require.Equal(t, 0, bag.Len(), "%v", bag.Items())
	return sig
}

func TestSignatureHidesExtraMembers(t *testing.T) {
	sig := checkSig(t, "module A\nval x : int\n")
	impl, bag := checkImpl(t, types.NewEnv(nil), "module A\nlet x = 1\nlet hidden = 2\n", sig)
	assert.Equal(t, 0, bag.Len())
	assert.True(t, impl.HasExplicitSig)
	assert.Equal(t, []string{"A.x : int"}, impl.Signature.Entries())
	assert.Len(t, impl.Bindings, 2)
	assert.Equal(t, "A.hidden", impl.Bindings[1].Path)
}

func TestInferredSignatureWithoutSig(t *testing.T) {
	impl, bag := checkImpl(t, types.NewEnv(nil), "module A\nlet x = 1\nlet s = \"a\" + \"b\"\nmodule N =\n    let v = x * 2\nlet w = N.v\n", nil)
	assert.Equal(t, 0, bag.Len(), "%v", bag.Items())
	assert.Equal(t, []string{"A.N.v : int", "A.s : string", "A.w : int", "A.x : int"}, impl.Signature.Entries())
}

func TestConformanceErrors(t *testing.T) {
	sig := checkSig(t, "module A\nval x : int\nval y : string\ntype T = int\nmodule N =\n    val z : int\n")
	_, bag := checkImpl(t, types.NewEnv(nil), "module A\nlet x = \"no\"\ntype T = string\n", sig)
	// x has the wrong type, y is missing, T differs, N is missing
	assert.Equal(t, 4, bag.Count(diag.TcSignatureMismatch), "%v", bag.Items())
}

func TestAbstractTypeSeesThroughImplementation(t *testing.T) {
	sig := checkSig(t, "module A\ntype T\nval x : T\n")
	_, bag := checkImpl(t, types.NewEnv(nil), "module A\ntype T = int\nlet x : T = 1\n", sig)
	assert.Equal(t, 0, bag.Len(), "%v", bag.Items())
}

func TestTypeErrors(t *testing.T) {
	cases := []struct {
		src  string
		code diag.Code
	}{
		{"module A\nlet y = 1 + \"a\"\n", diag.TcTypeMismatch},
		{"module A\nlet z : string = 1\n", diag.TcTypeMismatch},
		{"module A\nlet b = true - false\n", diag.TcTypeMismatch},
		{"module A\nlet u = missing\n", diag.TcUndefinedName},
		{"module A\nlet u : Nope = 1\n", diag.TcUndefinedName},
		{"module A\nlet x = 1\nlet x = 2\n", diag.TcDuplicateDef},
		{"module A\ntype T = int\ntype T = int\n", diag.TcDuplicateDef},
		{"module A\nopen Missing\n", diag.TcNamespaceNotFound},
		{"namespace A\nlet x = 1\n", diag.TcUnexpectedSyntax},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			_, bag := checkImpl(t, types.NewEnv(nil), tc.src, nil)
			assert.Equal(t, []diag.Code{tc.code}, bag.Codes())
		})
	}
}

func TestMatchCoverage(t *testing.T) {
	_, bag := checkImpl(t, types.NewEnv(nil), "module A\nlet m = match 1 with | 1 -> 2\n", nil)
	assert.Equal(t, []diag.Code{diag.TcIncompleteMatches}, bag.Codes())
	assert.Equal(t, diag.SevWarning, bag.Items()[0].Severity)

	_, bag = checkImpl(t, types.NewEnv(nil), "module A\nlet m = match true with | true -> 1 | false -> 2\n", nil)
	assert.Equal(t, 0, bag.Len())

	_, bag = checkImpl(t, types.NewEnv(nil), "module A\nlet m = match 3 with | n -> n + 1 | 2 -> 3\n", nil)
	assert.Equal(t, []diag.Code{diag.TcRuleNeverMatched}, bag.Codes())

	_, bag = checkImpl(t, types.NewEnv(nil), "module A\nlet m = match 3 with | 1 -> \"a\" | _ -> 2\n", nil)
	assert.Equal(t, []diag.Code{diag.TcTypeMismatch}, bag.Codes())
}

func TestOpenImportedModule(t *testing.T) {
	lib := types.NewRoot()
	lib.Ensure([]string{"Lib"}, types.ModuleKindModule).AddVal("answer", types.Int)
	env := types.NewEnv(lib)

	impl, bag := checkImpl(t, env, "module B\nopen Lib\nlet y = answer + 1\nlet z = Lib.answer\n", nil)
	assert.Equal(t, 0, bag.Len(), "%v", bag.Items())
	assert.Equal(t, []string{"B.y : int", "B.z : int"}, impl.Signature.Entries())
}

func TestNamespaceFragmentsShareScope(t *testing.T) {
	impl, bag := checkImpl(t, types.NewEnv(nil), "namespace A\ntype T = int\nmodule M =\n    let x : T = 1\n", nil)
	assert.Equal(t, 0, bag.Len(), "%v", bag.Items())
	assert.Equal(t, []string{"A.M.x : int", "type A.T = int"}, impl.Signature.Entries())
}

func TestTopAttributes(t *testing.T) {
	in := parse(t, "impl.fs", "module A\n[<assembly: Company>]\n[<AutoOpen>]\nlet x = 1\n").(*syntax.ImplementationFile)
	attrs, _, env := CheckImplementationFile(types.NewEnv(nil), in, nil, nil)
	assert.Equal(t, []string{"Company"}, attrs.Assembly)
	assert.Equal(t, []string{"AutoOpen"}, attrs.Module)
	_, ok := env.LookupVal([]string{"A", "x"})
	assert.True(t, ok)
}

package tcstate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fsfront/internal/config"
	"fsfront/internal/diag"
	"fsfront/internal/frontend"
	"fsfront/internal/source"
	"fsfront/internal/syntax"
	"fsfront/internal/types"
)

type file struct{ name, src string }

func parseAll(t *testing.T, files ...file) []syntax.ParsedInput {
	t.Helper()
	fs := source.NewFileSet()
	out := make([]syntax.ParsedInput, 0, len(files))
	for i, f := range files {
		id := fs.AddVirtual(f.name, []byte(f.src))
		bag := diag.NewBag(0)
		unit := frontend.Compiland{IsLast: i == len(files)-1, IsExe: true}
		out = append(out, frontend.ParseInput(fs.Get(id), frontend.Options{}, unit, diag.BagReporter{Bag: bag}))
		require.False(t, bag.HasErrors(), "%s: %v", f.name, bag.Items())
	}
	return out
}

func newState() State {
	return New(types.NewCcu("Program"), types.NewEnv(nil))
}

func runClosed(t *testing.T, opts Options, files ...file) (Result, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(0)
	c := NewChecker(opts, diag.BagReporter{Bag: bag}, nil)
	res, err := c.CheckClosedSet(context.Background(), newState(), parseAll(t, files...))
	require.NoError(t, err)
	return res, bag
}

func TestFileNowarnFiltersItsOwnCheckWarnings(t *testing.T) {
	_, bag := runClosed(t, Options{},
		file{"A.fs", "module A\nlet m = match 1 with | 1 -> 2\n#nowarn \"25\"\n"},
	)
	assert.Equal(t, 0, bag.Len(), "%v", bag.Items())

	_, bag = runClosed(t, Options{},
		file{"A.fs", "module A\nlet m = match 1 with | 1 -> 2\n#nowarn \"25\"\n"},
		file{"B.fs", "module B\nlet n = match 2 with | 2 -> 3\n"},
	)
	assert.Equal(t, []diag.Code{diag.TcIncompleteMatches}, bag.Codes(), "the pragma does not leak into B")
}

func TestSignatureAndImplementationClose(t *testing.T) {
	res, bag := runClosed(t, Options{},
		file{"A.fsi", "module A\nval x : int\n"},
		file{"A.fs", "module A\nlet x = 1\n"},
	)
	assert.Equal(t, 0, bag.Len(), "%v", bag.Items())
	assert.Equal(t, []string{"A"}, res.State.RootSigs())
	assert.Equal(t, []string{"A"}, res.State.RootImpls())
	require.NotNil(t, res.State.Ccu().Contents())
	assert.Equal(t, []string{"A.x : int"}, res.State.Ccu().Contents().Entries())
	require.Len(t, res.Impls, 1)
	assert.True(t, res.Impls[0].HasExplicitSig)
}

func TestDuplicateSignature(t *testing.T) {
	_, bag := runClosed(t, Options{},
		file{"A.fsi", "module A\nval x : int\n"},
		file{"A.fs", "module A\nlet x = 1\n"},
		file{"Again.fsi", "module A\nval x : int\n"},
	)
	assert.Equal(t, 1, bag.Count(diag.BuildSignatureAlreadySpecified))
}

func TestSignatureWithoutImplementation(t *testing.T) {
	res, bag := runClosed(t, Options{},
		file{"B.fsi", "module B\nval y : string\n"},
		file{"A.fs", "module A\nlet x = 1\n"},
	)
	require.Equal(t, []diag.Code{diag.BuildSignatureWithoutImpl}, bag.Codes())
	d := bag.Items()[0]
	assert.Equal(t, diag.PhaseClose, d.Phase)
	assert.False(t, d.Primary.IsStartup())
	assert.Equal(t, []string{"A"}, res.State.RootImpls())
}

func TestImplementationBeforeSignature(t *testing.T) {
	_, bag := runClosed(t, Options{},
		file{"A.fs", "module A\nlet x = 1\n"},
		file{"A.fsi", "module A\nval x : int\n"},
	)
	assert.Equal(t, []diag.Code{diag.BuildImplementationBeforeSig}, bag.Codes())
}

func TestDuplicateImplementation(t *testing.T) {
	_, bag := runClosed(t, Options{},
		file{"A.fs", "module A\nlet x = 1\n"},
		file{"Other.fs", "module A\nlet x = 2\n"},
	)
	assert.Equal(t, []diag.Code{diag.BuildImplementationAlreadyGiven}, bag.Codes())
}

func TestSignatureHidesMembersFromLaterFiles(t *testing.T) {
	_, bag := runClosed(t, Options{},
		file{"A.fsi", "module A\nval x : int\n"},
		file{"A.fs", "module A\nlet x = 1\nlet y = 2\n"},
		file{"B.fs", "module B\nlet ok = A.x\nlet hidden = A.y\n"},
	)
	assert.Equal(t, []diag.Code{diag.TcUndefinedName}, bag.Codes())
}

func TestFileWithoutSignatureIsVisible(t *testing.T) {
	res, bag := runClosed(t, Options{},
		file{"A.fs", "module A\nlet x = 1\n"},
		file{"B.fs", "module B\nlet y = A.x + 1\n"},
	)
	assert.Equal(t, 0, bag.Len(), "%v", bag.Items())
	assert.Equal(t, []string{"A.x : int", "B.y : int"}, res.State.CcuSig().Entries())
	_, ok := res.Env.LookupVal([]string{"B", "y"})
	assert.True(t, ok)
}

func TestSkipImplementationWhenSignatureExists(t *testing.T) {
	res, bag := runClosed(t, Options{SkipImplIfSigExists: true},
		file{"A.fsi", "module A\nval x : int\n"},
		file{"A.fs", "module A\nlet x = \"not checked\"\n"},
	)
	assert.Equal(t, 0, bag.Len())
	require.Len(t, res.Impls, 1)
	assert.True(t, res.Impls[0].Placeholder)
	assert.Equal(t, []string{"A.x : int"}, res.Impls[0].Signature.Entries())
}

func TestStepsDoNotMutatePreviousState(t *testing.T) {
	inputs := parseAll(t, file{"A.fs", "module A\nlet x = 1\n"})
	c := NewChecker(Options{}, nil, nil)
	st0 := newState()
	_, st1, err := c.CheckOne(context.Background(), st0, inputs[0])
	require.NoError(t, err)
	assert.Empty(t, st0.RootImpls())
	assert.True(t, st0.CcuSig().IsEmpty())
	assert.Equal(t, []string{"A"}, st1.RootImpls())
	_, ok := st0.ImplEnv().LookupVal([]string{"A", "x"})
	assert.False(t, ok)
}

func TestSimulatedFaultsAreRecovered(t *testing.T) {
	kinds := []config.FaultKind{
		config.FaultTcFail,
		config.FaultTcInvalidOperation,
		config.FaultTcArgumentOutOfRange,
		config.FaultTcKeyNotFound,
		config.FaultTcNullReference,
	}
	inputs := parseAll(t, file{"A.fs", "module A\nlet x = 1\n"})
	for _, k := range kinds {
		t.Run(string(k), func(t *testing.T) {
			bag := diag.NewBag(0)
			c := NewChecker(Options{SimulateFault: k}, diag.BagReporter{Bag: bag}, nil)
			st0 := newState()
			out, st1, err := c.CheckOne(context.Background(), st0, inputs[0])
			require.NoError(t, err)
			assert.Equal(t, []diag.Code{diag.BuildInternalError}, bag.Codes())
			assert.True(t, bag.Items()[0].Primary.IsStartup())
			assert.Empty(t, st1.RootImpls())
			assert.Nil(t, out.Impl)
		})
	}
}

func TestSimulatedCancellationIsNotRecovered(t *testing.T) {
	inputs := parseAll(t, file{"A.fs", "module A\nlet x = 1\n"})
	bag := diag.NewBag(0)
	c := NewChecker(Options{SimulateFault: config.FaultTcCancelled}, diag.BagReporter{Bag: bag}, nil)
	_, err := c.CheckClosedSet(context.Background(), newState(), inputs)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, bag.Len())
}

func TestCancellationBetweenFiles(t *testing.T) {
	inputs := parseAll(t,
		file{"A.fs", "module A\nlet x = 1\n"},
		file{"B.fs", "module B\nlet y = 2\n"},
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewChecker(Options{}, nil, nil)
	res, err := c.CheckClosedSet(ctx, newState(), inputs)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.State.RootImpls())
	assert.Nil(t, res.State.Ccu().Contents())
}

func TestCancellationLetsTheCurrentFileFinish(t *testing.T) {
	inputs := parseAll(t,
		file{"A.fs", "module A\nlet m = match 1 with | 1 -> 2\nlet n = match 2 with | 2 -> 3\n"},
		file{"B.fs", "module B\nlet k = match 3 with | 3 -> 4\n"},
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bag := diag.NewBag(0)
	rep := diag.ReporterFunc(func(d diag.Diagnostic) {
		bag.Add(d)
		cancel()
	})
	c := NewChecker(Options{}, rep, nil)
	_, err := c.CheckClosedSet(ctx, newState(), inputs)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, bag.Count(diag.TcIncompleteMatches), "both warnings of A, none of B")
}

func TestOptionsFromConfig(t *testing.T) {
	b := config.NewBuilder()
	b.SkipImplIfSigExists = true
	b.SimulateFault = config.FaultParseFail
	opts := OptionsFromConfig(b.Freeze())
	assert.True(t, opts.SkipImplIfSigExists)
	assert.Equal(t, config.FaultNone, opts.SimulateFault)
}

func TestCheckOneAndFinishPublishesWithoutClosing(t *testing.T) {
	inputs := parseAll(t, file{"A.fsi", "module A\nval x : int\n"})
	bag := diag.NewBag(0)
	c := NewChecker(Options{}, diag.BagReporter{Bag: bag}, nil)

	_, next, err := c.CheckOneAndFinish(context.Background(), newState(), inputs[0])
	require.NoError(t, err)
	assert.Equal(t, 0, bag.Len(), "an open signature is not an error here: %v", bag.Items())
	assert.Equal(t, []string{"A"}, next.RootSigs())
	require.NotNil(t, next.Ccu().Contents())
	assert.Equal(t, []string{"A.x : int"}, next.Ccu().Contents().Entries())
}

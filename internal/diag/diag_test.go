package diag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fsfront/internal/diag"
	"fsfront/internal/source"
)

func TestParseCode(t *testing.T) {
	cases := []struct {
		in   string
		want diag.Code
		ok   bool
	}{
		{"25", 25, true},
		{"FS0025", 25, true},
		{"fs25", 25, true},
		{" 0988 ", 988, true},
		{"FS", 0, false},
		{"abc", 0, false},
		{"-1", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := diag.ParseCode(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, tc.in)
		}
	}
	assert.Equal(t, "FS0237", diag.BuildSignatureAlreadySpecified.ID())
}

func TestBagLimitAndSort(t *testing.T) {
	bag := diag.NewBag(2)
	require.True(t, bag.Add(diag.NewWarning(diag.TcIncompleteMatches, source.Span{File: 1, Start: 5, End: 6}, "w")))
	require.True(t, bag.Add(diag.NewError(diag.TcTypeMismatch, source.Span{File: 0, Start: 9, End: 9}, "e")))
	require.False(t, bag.Add(diag.NewError(diag.TcTypeMismatch, source.StartupSpan, "dropped")))

	bag.Sort()
	assert.Equal(t, []diag.Code{diag.TcTypeMismatch, diag.TcIncompleteMatches}, bag.Codes())
	assert.True(t, bag.HasErrors())
	assert.Equal(t, 1, bag.ErrorCount())

	unlimited := diag.NewBag(0)
	for range 100 {
		unlimited.Add(diag.NewError(diag.TcTypeMismatch, source.StartupSpan, "e"))
	}
	assert.Equal(t, 100, unlimited.Len())
	unlimited.Dedup()
	assert.Equal(t, 1, unlimited.Len())
}

func TestCapturingReporterDefersAndRequestsExit(t *testing.T) {
	sink := diag.NewBag(0)
	capture := diag.NewCapturingReporter(2)

	capture.Report(diag.NewWarning(diag.TcIncompleteMatches, source.StartupSpan, "w"))
	capture.Report(diag.NewError(diag.TcTypeMismatch, source.StartupSpan, "e1"))
	_, requested := capture.ExitRequested()
	assert.False(t, requested)
	capture.Report(diag.NewError(diag.TcTypeMismatch, source.StartupSpan, "e2"))

	code, requested := capture.ExitRequested()
	assert.True(t, requested)
	assert.Equal(t, 1, code)
	assert.Equal(t, 0, sink.Len(), "nothing reaches the sink before commit")

	capture.CommitTo(diag.BagReporter{Bag: sink})
	require.Equal(t, 3, sink.Len())
	assert.Equal(t, "w", sink.Items()[0].Message)
	assert.Equal(t, "e2", sink.Items()[2].Message)
	assert.Empty(t, capture.Diagnostics())
}

func TestLimitReporterCountsEscalatedWarnings(t *testing.T) {
	bag := diag.NewBag(0)
	lim := diag.NewLimitReporter(diag.BagReporter{Bag: bag}, 2).CountingAs(diag.WarningOptions{
		NoWarn:      diag.NewCodeSet(diag.TcRuleNeverMatched),
		WarnAsError: diag.NewCodeSet(diag.TcIncompleteMatches),
	})

	lim.Report(diag.NewWarning(diag.TcRuleNeverMatched, source.StartupSpan, "switched off"))
	lim.Report(diag.NewWarning(diag.TcIncompleteMatches, source.StartupSpan, "escalated"))
	assert.Equal(t, 1, lim.ErrorCount())
	_, requested := lim.ExitRequested()
	assert.False(t, requested)

	lim.Report(diag.NewWarning(diag.TcIncompleteMatches, source.StartupSpan, "escalated again"))
	code, requested := lim.ExitRequested()
	assert.True(t, requested)
	assert.Equal(t, 1, code)

	require.Equal(t, 3, bag.Len(), "forwarded diagnostics are not rewritten")
	assert.Equal(t, diag.SevWarning, bag.Items()[1].Severity)
}

func TestFilterReporter(t *testing.T) {
	bag := diag.NewBag(0)
	r := diag.NewFilterReporter(diag.BagReporter{Bag: bag}, diag.WarningOptions{
		NoWarn:      diag.NewCodeSet(diag.TcIncompleteMatches),
		WarnAsError: diag.NewCodeSet(diag.TcRuleNeverMatched),
	})
	r.Report(diag.NewWarning(diag.TcIncompleteMatches, source.StartupSpan, "off"))
	r.Report(diag.NewWarning(diag.TcRuleNeverMatched, source.StartupSpan, "escalated"))
	r.Report(diag.NewError(diag.TcIncompleteMatches, source.StartupSpan, "errors are never dropped"))

	require.Equal(t, 2, bag.Len())
	assert.Equal(t, diag.SevError, bag.Items()[0].Severity)
	assert.Equal(t, "errors are never dropped", bag.Items()[1].Message)
}

func TestScopedFilterDropsOnlyWarnings(t *testing.T) {
	bag := diag.NewBag(0)
	r := diag.NewScopedFilter(diag.BagReporter{Bag: bag}, diag.NewCodeSet(25))
	r.Report(diag.NewWarning(25, source.StartupSpan, "w"))
	r.Report(diag.NewWarning(26, source.StartupSpan, "w"))
	assert.Equal(t, []diag.Code{26}, bag.Codes())
}

func TestWithPhaseAndBuilder(t *testing.T) {
	bag := diag.NewBag(0)
	r := diag.WithPhase(diag.BagReporter{Bag: bag}, diag.PhaseParse)
	b := diag.ReportError(r, diag.BuildMultipleToplevelModules, source.StartupSpan, "m").
		WithNote(source.StartupSpan, "first module here")
	b.Emit()
	b.Emit()

	require.Equal(t, 1, bag.Len())
	d := bag.Items()[0]
	assert.Equal(t, diag.PhaseParse, d.Phase)
	assert.Len(t, d.Notes, 1)
}

func TestDedupReporter(t *testing.T) {
	bag := diag.NewBag(0)
	r := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	d := diag.NewError(diag.TcUndefinedName, source.Span{File: 0, Start: 1, End: 2}, "x")
	r.Report(d)
	r.Report(d)
	assert.Equal(t, 1, bag.Len())
}

func TestFormatShortKeepsOrder(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("A.fsi", []byte("module A\nval x : int\n"))
	diags := []diag.Diagnostic{
		diag.NewError(diag.BuildSignatureAlreadySpecified, source.Span{File: id, Start: 9, End: 12}, "dup"),
		diag.NewError(diag.BuildSignatureWithoutImpl, source.StartupSpan, "missing"),
		diag.NewWarning(diag.TcIncompleteMatches, source.Span{File: id, Start: 0, End: 6}, "first\nline"),
	}
	got := diag.FormatShortDiagnostics(diags, fs, false)
	want := "error FS0237 A.fsi:2:1 dup\n" +
		"error FS0240 <startup>:1:1 missing\n" +
		"warning FS0025 A.fsi:1:1 first line"
	assert.Equal(t, want, got)

	golden := diag.FormatGoldenDiagnostics(diags, fs, false)
	assert.Equal(t, "error FS0240 <startup>:1:1 missing\n"+
		"warning FS0025 A.fsi:1:1 first line\n"+
		"error FS0237 A.fsi:2:1 dup", golden)
}

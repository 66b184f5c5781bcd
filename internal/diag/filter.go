package diag

// CodeSet is a set of warning numbers.
type CodeSet map[Code]struct{}

func NewCodeSet(codes ...Code) CodeSet {
	s := make(CodeSet, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

func (s CodeSet) Has(c Code) bool {
	_, ok := s[c]
	return ok
}

func (s CodeSet) Add(c Code) {
	s[c] = struct{}{}
}

// Clone returns an independent copy; nil stays nil-safe.
func (s CodeSet) Clone() CodeSet {
	out := make(CodeSet, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}

// WarningOptions controls global warning treatment.
type WarningOptions struct {
	NoWarn         CodeSet
	WarnAsError    CodeSet
	AllWarnAsError bool
}

// FilterReporter applies global warning options: disabled warnings are
// dropped, selected warnings are escalated to errors. Errors pass untouched.
type FilterReporter struct {
	next Reporter
	opts WarningOptions
}

func NewFilterReporter(next Reporter, opts WarningOptions) *FilterReporter {
	return &FilterReporter{next: next, opts: opts}
}

// Effective returns the severity d ends up with under o; false means the
// warning is switched off.
func (o WarningOptions) Effective(d Diagnostic) (Severity, bool) {
	if d.Severity != SevWarning {
		return d.Severity, true
	}
	if o.NoWarn.Has(d.Code) {
		return d.Severity, false
	}
	if o.AllWarnAsError || o.WarnAsError.Has(d.Code) {
		return SevError, true
	}
	return d.Severity, true
}

func (r *FilterReporter) Report(d Diagnostic) {
	sev, keep := r.opts.Effective(d)
	if !keep {
		return
	}
	d.Severity = sev
	if r.next != nil {
		r.next.Report(d)
	}
}

// ScopedFilter drops warnings switched off by the file's own pragmas.
// Pragmas apply to the whole file regardless of where they appear.
type ScopedFilter struct {
	next Reporter
	off  CodeSet
}

func NewScopedFilter(next Reporter, off CodeSet) *ScopedFilter {
	return &ScopedFilter{next: next, off: off}
}

func (r *ScopedFilter) Report(d Diagnostic) {
	if d.Severity == SevWarning && r.off.Has(d.Code) {
		return
	}
	if r.next != nil {
		r.next.Report(d)
	}
}

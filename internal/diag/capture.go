package diag

// ExitRequester is implemented by reporters that may ask the batch to stop,
// for example once the error limit is reached. Reporters never exit the
// process themselves; the driver reads the request and unwinds.
type ExitRequester interface {
	ExitRequested() (code int, ok bool)
}

// errorLimit counts errors and flips into the "exit requested" state once
// max errors were seen. max <= 0 disables the limit. Severities are counted
// as opts would leave them, so escalated warnings count as errors.
type errorLimit struct {
	max       int
	opts      WarningOptions
	errors    int
	requested bool
	code      int
}

func (l *errorLimit) observe(d Diagnostic) {
	if sev, keep := l.opts.Effective(d); !keep || sev < SevError {
		return
	}
	l.errors++
	if l.max > 0 && l.errors >= l.max && !l.requested {
		l.requested = true
		l.code = 1
	}
}

// CapturingReporter buffers diagnostics of one unit of work so they can be
// committed later, in a caller-chosen order. Not safe for concurrent use:
// every parallel task owns its own instance.
type CapturingReporter struct {
	items []Diagnostic
	limit errorLimit
}

// NewCapturingReporter creates a buffer that requests exit after maxErrors
// errors (0 = never).
func NewCapturingReporter(maxErrors int) *CapturingReporter {
	return &CapturingReporter{limit: errorLimit{max: maxErrors}}
}

// CountingAs makes the limit count diagnostics the way opts will rewrite
// them downstream. Captured diagnostics stay unchanged.
func (c *CapturingReporter) CountingAs(opts WarningOptions) *CapturingReporter {
	c.limit.opts = opts
	return c
}

func (c *CapturingReporter) Report(d Diagnostic) {
	c.items = append(c.items, d)
	c.limit.observe(d)
}

func (c *CapturingReporter) Diagnostics() []Diagnostic {
	return c.items
}

func (c *CapturingReporter) ErrorCount() int {
	return c.limit.errors
}

func (c *CapturingReporter) ExitRequested() (int, bool) {
	return c.limit.code, c.limit.requested
}

// CommitTo replays captured diagnostics into next in capture order and
// empties the buffer.
func (c *CapturingReporter) CommitTo(next Reporter) {
	if next != nil {
		for _, d := range c.items {
			next.Report(d)
		}
	}
	c.items = nil
}

// LimitReporter forwards everything to next and requests exit once the error
// limit is reached. The scheduler commits every file through one instance.
type LimitReporter struct {
	next  Reporter
	limit errorLimit
}

func NewLimitReporter(next Reporter, maxErrors int) *LimitReporter {
	return &LimitReporter{next: next, limit: errorLimit{max: maxErrors}}
}

// CountingAs makes the limit count diagnostics the way opts will rewrite
// them downstream. Forwarded diagnostics stay unchanged.
func (r *LimitReporter) CountingAs(opts WarningOptions) *LimitReporter {
	r.limit.opts = opts
	return r
}

func (r *LimitReporter) Report(d Diagnostic) {
	r.limit.observe(d)
	if r.next != nil {
		r.next.Report(d)
	}
}

func (r *LimitReporter) ErrorCount() int {
	return r.limit.errors
}

func (r *LimitReporter) ExitRequested() (int, bool) {
	return r.limit.code, r.limit.requested
}

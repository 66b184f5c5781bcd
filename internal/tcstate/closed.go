package tcstate

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"fsfront/internal/check"
	"fsfront/internal/diag"
	"fsfront/internal/logging"
	"fsfront/internal/syntax"
	"fsfront/internal/trace"
	"fsfront/internal/types"
)

// Result of a closed-set check.
type Result struct {
	State   State
	Attribs check.TopAttribs
	Impls   []*check.TypedImplFile
	// Env is the environment at the end of the last file.
	Env types.TcEnv
}

// CheckClosedSet folds CheckOne over inputs, validates that every signature
// got an implementation and publishes the compilation-unit contents.
// Cancellation is observed between files; the result then holds the last
// committed state and nothing is published.
func (c *Checker) CheckClosedSet(ctx context.Context, st State, inputs []syntax.ParsedInput) (Result, error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "check", trace.ParentFromContext(ctx))
	ctx = trace.WithParent(ctx, span)

	res := Result{State: st, Env: st.sigEnv}
	for _, in := range inputs {
		out, next, err := c.CheckOne(ctx, res.State, in)
		if err != nil {
			span.End("cancelled")
			return res, err
		}
		res.State = next
		res.Env = out.Env
		res.Attribs = res.Attribs.Merge(out.Attribs)
		if out.Impl != nil {
			res.Impls = append(res.Impls, out.Impl)
		}
	}

	missing := c.close(res.State)
	res.State.ccu.SetContents(res.State.ccuSig)

	if logging.Enabled(c.logger, slog.LevelInfo) {
		c.logger.LogAttrs(ctx, slog.LevelInfo, "closed set checked",
			slog.Int("files", len(inputs)),
			slog.Int("signatures", len(res.State.rootSigs)),
			slog.Int("implementations", len(res.State.rootImpls)),
			slog.Int("missing_impls", missing))
	}
	span.WithExtra("files", strconv.Itoa(len(inputs))).End("")
	return res, nil
}

// close reports every signature without an implementation.
func (c *Checker) close(st State) int {
	rep := diag.WithPhase(c.rep, diag.PhaseClose)
	missing := 0
	for _, qual := range st.RootSigs() {
		if st.HasRootImpl(qual) {
			continue
		}
		missing++
		diag.ReportError(rep, diag.BuildSignatureWithoutImpl, st.rootSigs[qual].span,
			fmt.Sprintf("The signature file '%s' does not have a corresponding implementation file. "+
				"If an implementation file exists then check the 'module' and 'namespace' declarations "+
				"in the signature and implementation files match", qual)).Emit()
	}
	return missing
}

// CheckOneAndFinish runs one step and publishes the result without the
// closing check; interactive sessions are never closed.
func (c *Checker) CheckOneAndFinish(ctx context.Context, st State, in syntax.ParsedInput) (Output, State, error) {
	out, next, err := c.CheckOne(ctx, st, in)
	if err != nil {
		return out, st, err
	}
	next.ccu.SetContents(next.ccuSig)
	return out, next, nil
}

package tcstate

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"fsfront/internal/check"
	"fsfront/internal/config"
	"fsfront/internal/diag"
	"fsfront/internal/logging"
	"fsfront/internal/source"
	"fsfront/internal/syntax"
	"fsfront/internal/trace"
	"fsfront/internal/types"
)

// Output is what one step produces besides the new state.
type Output struct {
	// Env is the environment at the end of the file.
	Env     types.TcEnv
	Attribs check.TopAttribs
	// Impl is nil for signature files.
	Impl *check.TypedImplFile
	// Contribution is the file's part of the compilation-unit signature.
	Contribution *types.ModuleType
}

type Options struct {
	SkipImplIfSigExists bool
	SimulateFault       config.FaultKind
	// Interactive opens every checked fragment's module for later fragments.
	Interactive bool
}

// OptionsFromConfig picks the check switches out of cfg.
func OptionsFromConfig(cfg config.Config) Options {
	opts := Options{SkipImplIfSigExists: cfg.SkipImplIfSigExists()}
	if cfg.SimulateFault().IsCheckFault() {
		opts.SimulateFault = cfg.SimulateFault()
	}
	return opts
}

// Checker advances a State. It holds no state of its own.
type Checker struct {
	opts   Options
	rep    diag.Reporter
	logger *slog.Logger
}

func NewChecker(opts Options, rep diag.Reporter, logger *slog.Logger) *Checker {
	if rep == nil {
		rep = diag.Nop
	}
	return &Checker{opts: opts, rep: rep, logger: logging.Component(logger, "tcstate")}
}

// CheckOne checks a single input. An unexpected failure inside the step is
// reported as FS0193 and the previous state is returned. Only cancellation
// produces an error; the returned state is then st.
func (c *Checker) CheckOne(ctx context.Context, st State, in syntax.ParsedInput) (out Output, next State, err error) {
	if err := ctx.Err(); err != nil {
		return Output{Env: st.sigEnv}, st, err
	}
	hdr := in.Header()
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "file:"+hdr.FileName, trace.ParentFromContext(ctx))
	defer func() {
		if r := recover(); r != nil {
			if logging.Enabled(c.logger, slog.LevelError) {
				c.logger.LogAttrs(ctx, slog.LevelError, "check step failed",
					slog.String("file", hdr.FileName),
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())))
			}
			diag.ReportError(c.rep, diag.BuildInternalError, source.StartupSpan,
				fmt.Sprintf("internal error while checking '%s': %v", hdr.FileName, r)).Emit()
			out, next, err = Output{Env: st.sigEnv, Contribution: st.ccuSig}, st, nil
			span.End("recovered")
		}
	}()

	if err := simulateFault(c.opts.SimulateFault); err != nil {
		span.End("cancelled")
		return Output{Env: st.sigEnv}, st, err
	}

	rep := diag.WithPhase(scopedReporter(c.rep, hdr), diag.PhaseTypeCheck)
	switch f := in.(type) {
	case *syntax.SignatureFile:
		out, next = c.checkSignature(ctx, st, f, rep)
	case *syntax.ImplementationFile:
		out, next = c.checkImplementation(ctx, st, f, rep)
	default:
		panic(fmt.Sprintf("tcstate: unexpected input %T", in))
	}
	span.End("")
	return out, next, nil
}

// scopedReporter drops warnings switched off by the file's own #nowarn.
func scopedReporter(rep diag.Reporter, hdr *syntax.InputHeader) diag.Reporter {
	if len(hdr.ScopedPragmas) == 0 {
		return rep
	}
	off := diag.NewCodeSet()
	for _, p := range hdr.ScopedPragmas {
		off.Add(p.Code)
	}
	return diag.NewScopedFilter(rep, off)
}

func (c *Checker) checkSignature(ctx context.Context, st State, f *syntax.SignatureFile, rep diag.Reporter) (Output, State) {
	qual := f.QualName
	if st.HasRootSig(qual.Text) {
		diag.ReportError(rep, diag.BuildSignatureAlreadySpecified, qual.Span.StartRange(),
			fmt.Sprintf("A signature for the file or module '%s' has already been specified", qual.Text)).Emit()
	}
	if st.HasRootImpl(qual.Text) {
		diag.ReportError(rep, diag.BuildImplementationBeforeSig, qual.Span.StartRange(),
			fmt.Sprintf("An implementation of the file or module '%s' has already been given. "+
				"Compilation order is significant: place the signature file before the implementation file", qual.Text)).Emit()
	}

	env, sig := check.CheckSignatureFile(st.sigEnv, f, rep)

	next := st.withRootSig(qual.Text, sig, qual.Span)
	next.ccuSig = types.CombineModuleTypes(st.ccuSig, sig)
	next.sigEnv = st.sigEnv.WithRoot(sig)

	if logging.Enabled(c.logger, slog.LevelDebug) {
		c.logger.LogAttrs(ctx, slog.LevelDebug, "checked signature",
			slog.String("file", f.FileName),
			slog.String("qualname", qual.Text))
	}
	return Output{Env: env, Contribution: sig}, next
}

func (c *Checker) checkImplementation(ctx context.Context, st State, f *syntax.ImplementationFile, rep diag.Reporter) (Output, State) {
	qual := f.QualName
	sig, hadSig := st.RootSig(qual.Text)
	if st.HasRootImpl(qual.Text) {
		diag.ReportError(rep, diag.BuildImplementationAlreadyGiven, qual.Span.StartRange(),
			fmt.Sprintf("An implementation of the file or module '%s' has already been given", qual.Text)).Emit()
	}

	var (
		attribs check.TopAttribs
		impl    *check.TypedImplFile
		env     types.TcEnv
	)
	if hadSig && c.opts.SkipImplIfSigExists {
		impl = check.PlaceholderImpl(qual.Text, sig)
		env = st.implEnv
	} else {
		attribs, impl, env = check.CheckImplementationFile(st.implEnv, f, sig, rep)
	}

	fileSig := impl.Signature
	next := st.withRootImpl(qual.Text)
	next.implEnv = st.implEnv.WithRoot(fileSig)
	if !hadSig {
		// a file without a signature exposes its inferred contents
		next.sigEnv = st.sigEnv.WithRoot(fileSig)
		next.ccuSig = types.CombineModuleTypes(st.ccuSig, fileSig)
	}

	if c.opts.Interactive {
		var opened [][]string
		env, opened = ImplicitOpens(env, f)
		next.implEnv, _ = ImplicitOpens(next.implEnv, f)
		next.sigEnv, _ = ImplicitOpens(next.sigEnv, f)
		next = next.withImplicitOpens(opened)
	}

	if logging.Enabled(c.logger, slog.LevelDebug) {
		c.logger.LogAttrs(ctx, slog.LevelDebug, "checked implementation",
			slog.String("file", f.FileName),
			slog.String("qualname", qual.Text),
			slog.Bool("had_sig", hadSig),
			slog.Bool("placeholder", impl.Placeholder))
	}
	return Output{Env: env, Attribs: attribs, Impl: impl, Contribution: fileSig}, next
}

// ImplicitOpens opens the module of every module fragment of in.
func ImplicitOpens(env types.TcEnv, in syntax.ParsedInput) (types.TcEnv, [][]string) {
	var opened [][]string
	for _, frag := range in.Fragments() {
		if !frag.Kind.IsModule() || len(frag.LongID) == 0 {
			continue
		}
		path := make([]string, len(frag.LongID))
		for i, id := range frag.LongID {
			path[i] = id.Text
		}
		if next, ok := env.Open(path); ok {
			env = next
			opened = append(opened, path)
		}
	}
	return env, opened
}

package directive

import (
	"slices"

	"fsfront/internal/config"
	"fsfront/internal/diag"
	"fsfront/internal/source"
	"fsfront/internal/syntax"
)

// Handlers are the side effects of the fold. State is threaded through
// OnNowarn and OnReference; OnLoad only schedules work.
type Handlers[S any] struct {
	OnNowarn    func(state S, sp source.Span, token string) S
	OnReference func(state S, sp source.Span, path string, kind Kind) S
	OnLoad      func(sp source.Span, path string)
}

type folder[S any] struct {
	h         Handlers[S]
	b         *config.Builder
	sourceDir string
	canScript bool
	rep       diag.Reporter
}

// Process folds every top-level directive of in over state. Directives
// before the first fragment and directly inside a fragment run; those nested
// in modules only produce a warning. #I writes include paths into b.
func Process[S any](h Handlers[S], b *config.Builder, in syntax.ParsedInput, sourceDir string, state S, rep diag.Reporter) S {
	if rep == nil {
		rep = diag.Nop
	}
	f := &folder[S]{
		h:         h,
		b:         b,
		sourceDir: sourceDir,
		canScript: !in.IsSignature() && in.Header().IsScript,
		rep:       rep,
	}
	for _, hd := range in.Header().HashDirectives {
		state = f.one(state, hd)
	}
	for _, frag := range in.Fragments() {
		for _, d := range frag.Decls {
			switch d := d.(type) {
			case *syntax.HashDecl:
				state = f.one(state, d.Directive)
			case *syntax.ModuleDecl:
				warnIgnored(d.Decls, rep)
			}
		}
	}
	return state
}

func warnIgnored(decls []syntax.Decl, rep diag.Reporter) {
	syntax.WalkDecls(decls, func(d syntax.Decl, _ int) {
		if hd, ok := d.(*syntax.HashDecl); ok {
			diag.ReportWarning(rep, diag.BuildDirectivesInModulesIgnored, hd.Directive.Span,
				"Directives inside modules are ignored").Emit()
		}
	})
}

func (f *folder[S]) scriptOnly(hd syntax.HashDirective, msg string) {
	if !f.canScript {
		diag.ReportError(f.rep, diag.TcDirectiveInNonScript, hd.Span, msg).Emit()
	}
}

const (
	msgHashINonScript = "#I directives may only occur in script files (extensions .fsx or .fsscript). " +
		"Either move this code to a script file, add a '-I' compiler option for this reference " +
		"or delimit the directive with '#if INTERACTIVE'/'#endif'"
	msgHashRNonScript = "#r directives may only occur in script files (extensions .fsx or .fsscript). " +
		"Either move this code to a script file, add a '-r' compiler option for this reference " +
		"or delimit the directive with '#if INTERACTIVE'/'#endif'"
	msgNonScript = "This directive may only be used in script files (extensions .fsx or .fsscript). " +
		"Either remove the directive, move this code to a script file " +
		"or delimit the directive with '#if INTERACTIVE'/'#endif'"
)

func (f *folder[S]) one(state S, hd syntax.HashDirective) S {
	args := hd.ArgTexts()
	switch hd.Name {
	case "I":
		f.scriptOnly(hd, msgHashINonScript)
		if len(args) != 1 {
			diag.ReportError(f.rep, diag.BuildInvalidHashIDirective, hd.Span,
				"Invalid directive. Expected '#I \"<path>\"'").Emit()
			return state
		}
		if f.b != nil {
			f.b.AddIncludePath(args[0], f.sourceDir)
		}
		return state

	case "nowarn":
		if len(args) == 0 {
			diag.ReportError(f.rep, diag.BuildInvalidNowarnDirective, hd.Span,
				"Invalid directive. Expected '#nowarn \"<warning>\" ...'").Emit()
			return state
		}
		for _, a := range hd.Args {
			if f.h.OnNowarn != nil {
				state = f.h.OnNowarn(state, hd.Span, a.Text)
			}
		}
		return state

	case "reference", "r":
		f.scriptOnly(hd, msgHashRNonScript)
		return f.reference(state, hd, args, KindResolution)

	case "i":
		f.scriptOnly(hd, msgHashRNonScript)
		return f.reference(state, hd, args, KindInclude)

	case "load":
		f.scriptOnly(hd, msgNonScript)
		if len(args) == 0 {
			diag.ReportError(f.rep, diag.BuildInvalidHashLoadDirective, hd.Span,
				"Invalid directive. Expected '#load \"<file>\" ... \"<file>\"'").Emit()
			return state
		}
		if f.h.OnLoad != nil {
			for _, p := range args {
				f.h.OnLoad(hd.Span, p)
			}
		}
		return state

	case "time":
		f.scriptOnly(hd, msgNonScript)
		if len(args) == 0 || (len(args) == 1 && slices.Contains([]string{"on", "off"}, args[0])) {
			return state
		}
		diag.ReportError(f.rep, diag.BuildInvalidHashTimeDirective, hd.Span,
			"Invalid directive. Expected '#time', '#time \"on\"' or '#time \"off\"'").Emit()
		return state
	}
	return state
}

func (f *folder[S]) reference(state S, hd syntax.HashDirective, args []string, kind Kind) S {
	if len(args) != 1 {
		diag.ReportError(f.rep, diag.BuildInvalidHashRDirective, hd.Span,
			"Invalid directive. Expected '#"+hd.Name+" \"<file-or-assembly>\"'").Emit()
		return state
	}
	if f.h.OnReference != nil {
		state = f.h.OnReference(state, hd.Span, args[0], kind)
	}
	return state
}

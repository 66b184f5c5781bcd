package frontend

import (
	"fsfront/internal/diag"
	"fsfront/internal/ident"
	"fsfront/internal/source"
	"fsfront/internal/syntax"
)

// GlobalName is the reserved first identifier that anchors a path at the root.
const GlobalName = "global"

func postParseFragments(frags []syntax.Fragment, defaultNamespace string, file *source.File, unit Compiland, rep diag.Reporter) ([]syntax.Fragment, error) {
	if len(frags) > 1 {
		for i := len(frags) - 1; i >= 0; i-- {
			if frags[i].Kind == syntax.NamedModule {
				diag.ReportError(rep, diag.BuildMultipleToplevelModules, frags[i].LongID.Span(),
					"Only one top-level module declaration is allowed per file; use a namespace with nested modules instead").Emit()
				break
			}
		}
	}

	out := make([]syntax.Fragment, 0, len(frags))
	for _, frag := range frags {
		switch frag.Kind {
		case syntax.NamedModule, syntax.DeclaredNamespace:
			if len(frag.LongID) > 0 && frag.LongID[0].Text == GlobalName {
				if len(frag.LongID) == 1 && frag.Kind == syntax.NamedModule {
					return nil, &fileError{
						code: diag.BuildInvalidModuleOrNamespaceName,
						span: frag.LongID[0].Span,
						msg:  "Invalid module or namespace name",
					}
				}
				frag.LongID = frag.LongID[1:]
				if len(frag.LongID) == 0 {
					frag.Kind = syntax.GlobalNamespace
				}
			}
		case syntax.AnonModule:
			line := anonRange(frag)
			if !(unit.IsLast && unit.IsExe) && !ident.IsScript(file.Path) {
				diag.ReportError(rep, diag.BuildMultiFileRequiresModule, line,
					"Files in libraries or multiple-file applications must begin with a namespace or module declaration, "+
						"e.g. 'namespace SomeNamespace.SubNamespace' or 'module SomeNamespace.SomeModule'. "+
						"Only the last source file of an application may omit such a declaration").Emit()
			}
			frag.LongID = ident.AnonymousModuleName(len(frag.Decls) > 0, defaultNamespace, file.Path, line, rep)
		}
		out = append(out, frag)
	}
	return out, nil
}

// anonRange trims the fragment range to its first position.
func anonRange(frag syntax.Fragment) source.Span {
	return frag.Span.StartRange()
}

// qualNameOfFragments: a single module fragment names the file; a single
// namespace, several fragments or none fall back to the file name.
func qualNameOfFragments(file *source.File, frags []syntax.Fragment) syntax.QualifiedName {
	if len(frags) == 1 {
		frag := frags[0]
		if frag.Kind.IsModule() {
			return ident.FromModule(frag.Span, file.Path, frag.LongID)
		}
		return ident.FromFilename(frag.Span, file.Path)
	}
	return ident.FromFilename(source.FileStart(file.ID), file.Path)
}

func collectScopedPragmas(top []syntax.HashDirective, frags []syntax.Fragment) []syntax.ScopedPragma {
	var out []syntax.ScopedPragma
	add := func(h syntax.HashDirective) {
		if h.Name != "nowarn" {
			return
		}
		for _, arg := range h.Args {
			if code, ok := diag.ParseCode(arg.Text); ok {
				out = append(out, syntax.ScopedPragma{Span: h.Span, Code: code})
			}
		}
	}
	for _, h := range top {
		add(h)
	}
	for _, frag := range frags {
		syntax.WalkDecls(frag.Decls, func(d syntax.Decl, _ int) {
			if hd, ok := d.(*syntax.HashDecl); ok {
				add(hd.Directive)
			}
		})
	}
	return out
}

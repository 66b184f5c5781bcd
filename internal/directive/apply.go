package directive

import (
	"fmt"

	"fsfront/internal/config"
	"fsfront/internal/diag"
	"fsfront/internal/source"
	"fsfront/internal/syntax"
)

// ReferenceResolver locates the target of a `#r` or `#i` directive.
type ReferenceResolver interface {
	ResolveReference(path string, kind Kind, sourceDir string, includePaths []string) (config.Reference, error)
}

// ApplyNoWarns runs the warnings-only fold: #nowarn and #I update a copy of
// cfg, references and loads are ignored.
func ApplyNoWarns(cfg config.Config, in syntax.ParsedInput, sourceDir string, rep diag.Reporter) config.Config {
	b := cfg.ToBuilder()
	h := Handlers[*config.Builder]{
		OnNowarn: func(st *config.Builder, sp source.Span, tok string) *config.Builder {
			st.TurnWarningOff(sp, tok, rep)
			return st
		},
	}
	return Process(h, b, in, sourceDir, b, rep).Freeze()
}

// ApplyToConfig runs the full fold. References go through res and are added
// to the config; `#load` targets are recorded as loaded sources.
func ApplyToConfig(cfg config.Config, in syntax.ParsedInput, sourceDir string, res ReferenceResolver, rep diag.Reporter) config.Config {
	b := cfg.ToBuilder()
	h := Handlers[*config.Builder]{
		OnNowarn: func(st *config.Builder, sp source.Span, tok string) *config.Builder {
			st.TurnWarningOff(sp, tok, rep)
			return st
		},
		OnReference: func(st *config.Builder, sp source.Span, path string, kind Kind) *config.Builder {
			if res == nil {
				st.AddReference(config.Reference{Path: path, Package: kind == KindInclude, Span: sp})
				return st
			}
			ref, err := res.ResolveReference(path, kind, sourceDir, st.IncludePaths)
			if err != nil {
				diag.ReportError(rep, diag.TcReferenceNotFound, sp,
					fmt.Sprintf("Assembly reference '%s' was not found or is invalid", path)).
					WithNote(sp, err.Error()).
					Emit()
				return st
			}
			ref.Span = sp
			st.AddReference(ref)
			return st
		},
		OnLoad: func(sp source.Span, path string) {
			b.AddLoadedSource(sp, path, sourceDir)
		},
	}
	return Process(h, b, in, sourceDir, b, rep).Freeze()
}

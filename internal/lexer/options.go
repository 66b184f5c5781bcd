package lexer

import (
	"fsfront/internal/diag"
	"fsfront/internal/source"
)

type Options struct {
	// Defines are the conditional compilation symbols considered set.
	Defines map[string]bool
	// Reporter может быть nil, тогда ошибки игнорируем (но продолжаем лексить).
	Reporter diag.Reporter
}

// DefineSet builds a lookup set from symbol names.
func DefineSet(symbols []string) map[string]bool {
	out := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		out[s] = true
	}
	return out
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
	}
}

package syntax

import "fsfront/internal/source"

// DirectiveArg is one argument of a hash directive. Quoted is set for string
// literals; bare tokens (`#nowarn 25`) keep their source text.
type DirectiveArg struct {
	Text   string
	Quoted bool
	Span   source.Span
}

// HashDirective is a `#name arg...` line.
type HashDirective struct {
	Name string
	Args []DirectiveArg
	Span source.Span
}

func (h HashDirective) ArgTexts() []string {
	out := make([]string, len(h.Args))
	for i, a := range h.Args {
		out[i] = a.Text
	}
	return out
}

package token

import (
	"fsfront/internal/source"
)

// Token represents a single source token with its location.
// Col is the 0-based byte column of the token start; the parser uses the
// column of the first token on a line as its indentation.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
	Col  uint32
}

// IsLiteral reports whether the token is a numeric, boolean or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsIdentLike reports identifiers and keywords that may appear in a long
// identifier position (`global` in `namespace global`, `rec` is not one).
func (t Token) IsIdentLike() bool {
	return t.Kind == Ident || t.Kind == KwGlobal
}

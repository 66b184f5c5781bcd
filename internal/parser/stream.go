package parser

import (
	"fmt"

	"fsfront/internal/source"
	"fsfront/internal/syntax"
	"fsfront/internal/token"
)

// stream is a cursor over the tokens of one declaration (its line plus
// continuation lines). The first error wins; later ones are swallowed.
type stream struct {
	p      *parser
	toks   []token.Token
	pos    int
	failed bool
}

func newStream(p *parser, toks []token.Token) *stream {
	return &stream{p: p, toks: toks}
}

func (s *stream) peek() token.Token {
	if s.pos >= len(s.toks) {
		return token.Token{Kind: token.EOF, Span: s.endSpan()}
	}
	return s.toks[s.pos]
}

func (s *stream) peekAt(n int) token.Token {
	if s.pos+n >= len(s.toks) {
		return token.Token{Kind: token.EOF, Span: s.endSpan()}
	}
	return s.toks[s.pos+n]
}

func (s *stream) next() token.Token {
	tk := s.peek()
	if s.pos < len(s.toks) {
		s.pos++
	}
	return tk
}

func (s *stream) atEnd() bool {
	return s.pos >= len(s.toks)
}

func (s *stream) endSpan() source.Span {
	if len(s.toks) == 0 {
		return s.p.eofSpan
	}
	return s.toks[len(s.toks)-1].Span
}

// prevEnd is the span of the last consumed token.
func (s *stream) prevSpan() source.Span {
	if s.pos == 0 {
		return s.peek().Span
	}
	return s.toks[s.pos-1].Span
}

func (s *stream) fail(tk token.Token, context string) {
	if s.failed {
		return
	}
	s.failed = true
	s.p.errorf(tk.Span, fmt.Sprintf("Unexpected %s in %s", describe(tk), context))
}

func (s *stream) expect(k token.Kind, context string) (token.Token, bool) {
	tk := s.peek()
	if tk.Kind != k {
		s.fail(tk, context)
		return tk, false
	}
	return s.next(), true
}

func (s *stream) expectEnd(context string) bool {
	if !s.atEnd() {
		s.fail(s.peek(), context)
		return false
	}
	return true
}

func (s *stream) ident(context string) (syntax.Ident, bool) {
	tk, ok := s.expect(token.Ident, context)
	if !ok {
		return syntax.Ident{}, false
	}
	return syntax.Ident{Text: tk.Text, Span: tk.Span}, true
}

// longIdent parses A.B.C; `global` is accepted as a part.
func (s *stream) longIdent(context string) (syntax.LongIdent, bool) {
	var out syntax.LongIdent
	for {
		tk := s.peek()
		if !tk.IsIdentLike() {
			s.fail(tk, context)
			return nil, false
		}
		s.next()
		out = append(out, syntax.Ident{Text: tk.Text, Span: tk.Span})
		if s.peek().Kind != token.Dot {
			return out, true
		}
		s.next()
	}
}

func (s *stream) typeExpr(context string) (syntax.TypeExpr, bool) {
	lid, ok := s.longIdent(context)
	if !ok {
		return syntax.TypeExpr{}, false
	}
	return syntax.TypeExpr{Name: lid, Span: lid.Span()}, true
}

func describe(tk token.Token) string {
	switch tk.Kind {
	case token.EOF:
		return "end of input"
	case token.Ident:
		return "identifier"
	case token.IntLit, token.FloatLit, token.StringLit:
		return "literal"
	case token.Hash:
		return "directive '#" + tk.Text + "'"
	}
	if tk.Kind >= token.KwModule && tk.Kind <= token.KwFalse {
		return "keyword " + tk.Kind.String()
	}
	return "symbol " + tk.Kind.String()
}

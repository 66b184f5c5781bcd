package parser

import (
	"strconv"

	"fsfront/internal/syntax"
	"fsfront/internal/token"
)

func (s *stream) expr() syntax.Expr {
	if s.peek().Kind == token.KwMatch {
		return s.matchExpr()
	}
	return s.additive()
}

// matchExpr: match e with [|] pat -> e (| pat -> e)*
func (s *stream) matchExpr() syntax.Expr {
	kw := s.next()
	scrutinee := s.additive()
	if s.failed {
		return nil
	}
	if _, ok := s.expect(token.KwWith, "match expression"); !ok {
		return nil
	}
	m := &syntax.MatchExpr{Scrutinee: scrutinee}
	if s.peek().Kind == token.Bar {
		s.next()
	}
	for {
		pat := s.pattern()
		if s.failed {
			return nil
		}
		if _, ok := s.expect(token.Arrow, "match clause"); !ok {
			return nil
		}
		body := s.additive()
		if s.failed {
			return nil
		}
		m.Clauses = append(m.Clauses, syntax.MatchClause{
			Pattern: pat,
			Body:    body,
			Span:    pat.PatSpan().Cover(body.ExprSpan()),
		})
		if s.peek().Kind != token.Bar {
			break
		}
		s.next()
	}
	m.Span = kw.Span.Cover(s.prevSpan())
	return m
}

func (s *stream) additive() syntax.Expr {
	left := s.multiplicative()
	for !s.failed {
		var op syntax.BinaryOp
		switch s.peek().Kind {
		case token.Plus:
			op = syntax.OpAdd
		case token.Minus:
			op = syntax.OpSub
		default:
			return left
		}
		s.next()
		right := s.multiplicative()
		if s.failed {
			return nil
		}
		left = &syntax.BinaryExpr{Op: op, Left: left, Right: right, Span: left.ExprSpan().Cover(right.ExprSpan())}
	}
	return nil
}

func (s *stream) multiplicative() syntax.Expr {
	left := s.unary()
	for !s.failed && s.peek().Kind == token.Star {
		s.next()
		right := s.unary()
		if s.failed {
			return nil
		}
		left = &syntax.BinaryExpr{Op: syntax.OpMul, Left: left, Right: right, Span: left.ExprSpan().Cover(right.ExprSpan())}
	}
	if s.failed {
		return nil
	}
	return left
}

func (s *stream) unary() syntax.Expr {
	if s.peek().Kind != token.Minus {
		return s.atom()
	}
	minus := s.next()
	if s.peek().Kind == token.IntLit {
		lit := s.intLit(true)
		if lit != nil {
			lit.Span = minus.Span.Cover(lit.Span)
			return lit
		}
		return nil
	}
	operand := s.unary()
	if s.failed {
		return nil
	}
	zero := &syntax.IntLit{Value: 0, Span: minus.Span}
	return &syntax.BinaryExpr{Op: syntax.OpSub, Left: zero, Right: operand, Span: minus.Span.Cover(operand.ExprSpan())}
}

func (s *stream) intLit(negative bool) *syntax.IntLit {
	tk := s.next()
	text := tk.Text
	if negative {
		text = "-" + text
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		s.failed = true
		s.p.errorf(tk.Span, "This number is outside the allowable range for this integer type")
		return nil
	}
	return &syntax.IntLit{Value: v, Span: tk.Span}
}

func (s *stream) atom() syntax.Expr {
	tk := s.peek()
	switch tk.Kind {
	case token.IntLit:
		if lit := s.intLit(false); lit != nil {
			return lit
		}
		return nil
	case token.FloatLit:
		s.next()
		v, err := strconv.ParseFloat(tk.Text, 64)
		if err != nil {
			s.fail(tk, "expression")
			return nil
		}
		return &syntax.FloatLit{Value: v, Span: tk.Span}
	case token.StringLit:
		s.next()
		return &syntax.StringLit{Value: tk.Text, Span: tk.Span}
	case token.KwTrue, token.KwFalse:
		s.next()
		return &syntax.BoolLit{Value: tk.Kind == token.KwTrue, Span: tk.Span}
	case token.LParen:
		s.next()
		if s.peek().Kind == token.RParen {
			closing := s.next()
			return &syntax.UnitLit{Span: tk.Span.Cover(closing.Span)}
		}
		inner := s.expr()
		if s.failed {
			return nil
		}
		if _, ok := s.expect(token.RParen, "parenthesized expression"); !ok {
			return nil
		}
		return inner
	case token.Ident:
		lid, ok := s.longIdent("expression")
		if !ok {
			return nil
		}
		return &syntax.NameExpr{Name: lid}
	}
	s.fail(tk, "expression")
	return nil
}

func (s *stream) pattern() syntax.Pattern {
	tk := s.peek()
	switch tk.Kind {
	case token.Underscore:
		s.next()
		return &syntax.WildPat{Span: tk.Span}
	case token.Ident:
		s.next()
		return &syntax.VarPat{Name: syntax.Ident{Text: tk.Text, Span: tk.Span}}
	case token.IntLit, token.StringLit, token.KwTrue, token.KwFalse, token.LParen, token.Minus, token.FloatLit:
		lit := s.unary()
		if s.failed {
			return nil
		}
		return &syntax.ConstPat{Lit: lit}
	}
	s.fail(tk, "pattern")
	return nil
}

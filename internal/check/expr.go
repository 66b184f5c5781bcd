package check

import (
	"fsfront/internal/diag"
	"fsfront/internal/source"
	"fsfront/internal/syntax"
	"fsfront/internal/types"
)

func (c *checker) infer(e syntax.Expr) types.Type {
	switch e := e.(type) {
	case *syntax.IntLit:
		return types.Int
	case *syntax.FloatLit:
		return types.Float
	case *syntax.StringLit:
		return types.String
	case *syntax.BoolLit:
		return types.Bool
	case *syntax.UnitLit:
		return types.Unit
	case *syntax.NameExpr:
		t, ok := c.lookupVal(texts(e.Name))
		if !ok {
			c.errorf(diag.TcUndefinedName, e.Name.Span(), "The value or constructor '%s' is not defined", e.Name.Text())
			return types.Invalid
		}
		return t
	case *syntax.BinaryExpr:
		return c.inferBinary(e)
	case *syntax.MatchExpr:
		return c.inferMatch(e)
	}
	return types.Invalid
}

func (c *checker) inferBinary(e *syntax.BinaryExpr) types.Type {
	l := c.infer(e.Left)
	r := c.infer(e.Right)
	if !l.IsValid() || !r.IsValid() {
		return types.Invalid
	}
	if l != r {
		c.errorf(diag.TcTypeMismatch, e.Right.ExprSpan(), "The type '%s' does not match the type '%s'", r, l)
		return types.Invalid
	}
	if l.IsNumeric() || (e.Op == syntax.OpAdd && l == types.String) {
		return l
	}
	c.errorf(diag.TcTypeMismatch, e.Span, "The type '%s' does not support the operator '%s'", l, e.Op)
	return types.Invalid
}

// expect reports FS0001 unless got is want. Invalid types already produced
// an error and are accepted silently.
func (c *checker) expect(want, got types.Type, sp source.Span) bool {
	if !want.IsValid() || !got.IsValid() || want == got {
		return true
	}
	c.errorf(diag.TcTypeMismatch, sp, "This expression was expected to have type '%s' but here has type '%s'", want, got)
	return false
}

type coverage struct {
	total  bool
	consts map[any]bool
}

func (c *checker) inferMatch(e *syntax.MatchExpr) types.Type {
	scrut := c.infer(e.Scrutinee)
	cov := coverage{consts: make(map[any]bool)}
	result := types.Invalid
	for i, cl := range e.Clauses {
		redundant := cov.total || cov.complete(scrut)
		locals := map[string]types.Type{}
		switch p := cl.Pattern.(type) {
		case *syntax.WildPat:
			cov.total = true
		case *syntax.VarPat:
			locals[p.Name.Text] = scrut
			cov.total = true
		case *syntax.ConstPat:
			lt := c.infer(p.Lit)
			c.expect(scrut, lt, p.PatSpan())
			if key, ok := constKey(p.Lit); ok {
				if cov.consts[key] {
					redundant = true
				}
				cov.consts[key] = true
			}
		}
		if redundant {
			c.warnf(diag.TcRuleNeverMatched, cl.Pattern.PatSpan(), "This rule will never be matched")
		}

		c.locals = append(c.locals, locals)
		bt := c.infer(cl.Body)
		c.locals = c.locals[:len(c.locals)-1]

		if i == 0 {
			result = bt
		} else if !c.expect(result, bt, cl.Body.ExprSpan()) {
			result = types.Invalid
		}
	}
	if !cov.total && !cov.complete(scrut) {
		c.warnf(diag.TcIncompleteMatches, e.Span, "Incomplete pattern matches on this expression")
	}
	return result
}

// complete reports whether the constants seen so far exhaust t.
func (cv coverage) complete(t types.Type) bool {
	switch t.Kind {
	case types.KindBool:
		return cv.consts[true] && cv.consts[false]
	case types.KindUnit:
		return cv.consts[struct{}{}]
	}
	return false
}

func constKey(e syntax.Expr) (any, bool) {
	switch e := e.(type) {
	case *syntax.IntLit:
		return e.Value, true
	case *syntax.FloatLit:
		return e.Value, true
	case *syntax.StringLit:
		return e.Value, true
	case *syntax.BoolLit:
		return e.Value, true
	case *syntax.UnitLit:
		return struct{}{}, true
	}
	return nil, false
}

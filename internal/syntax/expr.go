package syntax

import "fsfront/internal/source"

type Expr interface {
	ExprSpan() source.Span
	exprNode()
}

type IntLit struct {
	Value int64
	Span  source.Span
}

type FloatLit struct {
	Value float64
	Span  source.Span
}

type StringLit struct {
	Value string
	Span  source.Span
}

type BoolLit struct {
	Value bool
	Span  source.Span
}

// UnitLit is `()`.
type UnitLit struct {
	Span source.Span
}

// NameExpr references a value, possibly qualified: A.B.x.
type NameExpr struct {
	Name LongIdent
}

type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	default:
		return "*"
	}
}

type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	Span  source.Span
}

type MatchClause struct {
	Pattern Pattern
	Body    Expr
	Span    source.Span
}

type MatchExpr struct {
	Scrutinee Expr
	Clauses   []MatchClause
	Span      source.Span
}

func (e *IntLit) ExprSpan() source.Span     { return e.Span }
func (e *FloatLit) ExprSpan() source.Span   { return e.Span }
func (e *StringLit) ExprSpan() source.Span  { return e.Span }
func (e *BoolLit) ExprSpan() source.Span    { return e.Span }
func (e *UnitLit) ExprSpan() source.Span    { return e.Span }
func (e *NameExpr) ExprSpan() source.Span   { return e.Name.Span() }
func (e *BinaryExpr) ExprSpan() source.Span { return e.Span }
func (e *MatchExpr) ExprSpan() source.Span  { return e.Span }

func (*IntLit) exprNode()     {}
func (*FloatLit) exprNode()   {}
func (*StringLit) exprNode()  {}
func (*BoolLit) exprNode()    {}
func (*UnitLit) exprNode()    {}
func (*NameExpr) exprNode()   {}
func (*BinaryExpr) exprNode() {}
func (*MatchExpr) exprNode()  {}

type Pattern interface {
	PatSpan() source.Span
	patNode()
}

// WildPat is `_`.
type WildPat struct {
	Span source.Span
}

// VarPat binds the matched value to Name.
type VarPat struct {
	Name Ident
}

// ConstPat matches a literal expression.
type ConstPat struct {
	Lit Expr
}

func (p *WildPat) PatSpan() source.Span  { return p.Span }
func (p *VarPat) PatSpan() source.Span   { return p.Name.Span }
func (p *ConstPat) PatSpan() source.Span { return p.Lit.ExprSpan() }

func (*WildPat) patNode()  {}
func (*VarPat) patNode()   {}
func (*ConstPat) patNode() {}

package syntax

import "fsfront/internal/source"

// Decl is a declaration inside a fragment or nested module.
type Decl interface {
	DeclSpan() source.Span
	declNode()
}

// TypeExpr names a type: int, A.T.
type TypeExpr struct {
	Name LongIdent
	Span source.Span
}

func (t TypeExpr) Text() string { return t.Name.Text() }

// ValDecl: `val x : int` (signature files only).
type ValDecl struct {
	Name Ident
	Type TypeExpr
	Span source.Span
}

// LetDecl: `let x [: T] = expr` (implementation files only).
type LetDecl struct {
	Name Ident
	Type *TypeExpr
	Body Expr
	Span source.Span
}

// TypeDecl: `type T` (abstract) or `type T = U` (abbreviation).
type TypeDecl struct {
	Name   Ident
	Abbrev *TypeExpr
	Span   source.Span
}

// OpenDecl: `open A.B`.
type OpenDecl struct {
	Target LongIdent
	Span   source.Span
}

// ModuleDecl: nested `module M =` with an indented body.
type ModuleDecl struct {
	Name  Ident
	Decls []Decl
	Span  source.Span
}

// HashDecl is a hash directive that appears among declarations.
type HashDecl struct {
	Directive HashDirective
}

// AttributeDecl: `[<Target: Name>]`. Target is empty when omitted.
type AttributeDecl struct {
	Target string
	Name   LongIdent
	Span   source.Span
}

func (d *ValDecl) DeclSpan() source.Span       { return d.Span }
func (d *LetDecl) DeclSpan() source.Span       { return d.Span }
func (d *TypeDecl) DeclSpan() source.Span      { return d.Span }
func (d *OpenDecl) DeclSpan() source.Span      { return d.Span }
func (d *ModuleDecl) DeclSpan() source.Span    { return d.Span }
func (d *HashDecl) DeclSpan() source.Span      { return d.Directive.Span }
func (d *AttributeDecl) DeclSpan() source.Span { return d.Span }

func (*ValDecl) declNode()       {}
func (*LetDecl) declNode()       {}
func (*TypeDecl) declNode()      {}
func (*OpenDecl) declNode()      {}
func (*ModuleDecl) declNode()    {}
func (*HashDecl) declNode()      {}
func (*AttributeDecl) declNode() {}

package parser

import (
	"fsfront/internal/source"
	"fsfront/internal/syntax"
	"fsfront/internal/token"
)

// parseDecls reads declarations until the body ends. parentCol < 0 means a
// top-level fragment body, which ends at the next header; otherwise the
// body ends at the first line not indented deeper than parentCol.
func (p *parser) parseDecls(parentCol int) []syntax.Decl {
	var out []syntax.Decl
	for p.pos < len(p.lines) {
		ln := p.lines[p.pos]
		if parentCol < 0 {
			if isHeader(ln) {
				break
			}
		} else if int(ln.col) <= parentCol {
			break
		}
		if d := p.parseDecl(); d != nil {
			out = append(out, d)
		}
	}
	return out
}

// takeContinuation returns the tokens of the current line and every
// following line indented deeper than it, and advances past them.
func (p *parser) takeContinuation() []token.Token {
	ln := p.lines[p.pos]
	toks := append([]token.Token(nil), ln.toks...)
	p.pos++
	for p.pos < len(p.lines) && p.lines[p.pos].col > ln.col {
		toks = append(toks, p.lines[p.pos].toks...)
		p.pos++
	}
	return toks
}

func (p *parser) parseDecl() syntax.Decl {
	ln := p.lines[p.pos]
	head := ln.toks[0]

	switch head.Kind {
	case token.Hash:
		p.pos++
		return &syntax.HashDecl{Directive: parseHashLine(ln)}
	case token.KwModule:
		return p.parseNestedModule(ln)
	}

	toks := p.takeContinuation()
	ts := newStream(p, toks)
	var d syntax.Decl
	switch head.Kind {
	case token.KwVal:
		if p.grammar != GrammarSignature {
			ts.fail(head, p.grammar.String())
			return nil
		}
		d = p.parseVal(ts)
	case token.KwLet:
		if p.grammar != GrammarImplementation {
			ts.fail(head, p.grammar.String())
			return nil
		}
		d = p.parseLet(ts)
	case token.KwType:
		d = p.parseType(ts)
	case token.KwOpen:
		d = p.parseOpen(ts)
	case token.LAttr:
		d = p.parseAttribute(ts)
	default:
		ts.fail(head, p.grammar.String())
		return nil
	}
	if ts.failed {
		return nil
	}
	if !ts.expectEnd("definition") {
		return nil
	}
	return d
}

func declSpan(ts *stream) source.Span {
	return ts.toks[0].Span.Cover(ts.prevSpan())
}

func (p *parser) parseVal(ts *stream) syntax.Decl {
	ts.next()
	name, ok := ts.ident("value signature")
	if !ok {
		return nil
	}
	if _, ok := ts.expect(token.Colon, "value signature"); !ok {
		return nil
	}
	ty, ok := ts.typeExpr("type annotation")
	if !ok {
		return nil
	}
	return &syntax.ValDecl{Name: name, Type: ty, Span: declSpan(ts)}
}

func (p *parser) parseLet(ts *stream) syntax.Decl {
	ts.next()
	if ts.peek().Kind == token.KwRec {
		ts.next()
	}
	name, ok := ts.ident("binding")
	if !ok {
		return nil
	}
	var ty *syntax.TypeExpr
	if ts.peek().Kind == token.Colon {
		ts.next()
		t, ok := ts.typeExpr("type annotation")
		if !ok {
			return nil
		}
		ty = &t
	}
	if _, ok := ts.expect(token.Equals, "binding"); !ok {
		return nil
	}
	body := ts.expr()
	if ts.failed {
		return nil
	}
	return &syntax.LetDecl{Name: name, Type: ty, Body: body, Span: declSpan(ts)}
}

func (p *parser) parseType(ts *stream) syntax.Decl {
	ts.next()
	name, ok := ts.ident("type definition")
	if !ok {
		return nil
	}
	d := &syntax.TypeDecl{Name: name}
	if ts.peek().Kind == token.Equals {
		ts.next()
		ty, ok := ts.typeExpr("type definition")
		if !ok {
			return nil
		}
		d.Abbrev = &ty
	}
	d.Span = declSpan(ts)
	return d
}

func (p *parser) parseOpen(ts *stream) syntax.Decl {
	ts.next()
	lid, ok := ts.longIdent("open declaration")
	if !ok {
		return nil
	}
	return &syntax.OpenDecl{Target: lid, Span: declSpan(ts)}
}

func (p *parser) parseAttribute(ts *stream) syntax.Decl {
	ts.next()
	d := &syntax.AttributeDecl{}
	if ts.peek().Kind == token.Ident && ts.peekAt(1).Kind == token.Colon {
		d.Target = ts.next().Text
		ts.next()
	}
	lid, ok := ts.longIdent("attribute")
	if !ok {
		return nil
	}
	if _, ok := ts.expect(token.RAttr, "attribute"); !ok {
		return nil
	}
	d.Name = lid
	d.Span = declSpan(ts)
	return d
}

// parseNestedModule: `module M =` followed by a deeper indented body.
func (p *parser) parseNestedModule(ln line) syntax.Decl {
	p.pos++
	ts := newStream(p, ln.toks)
	ts.next()
	name, ok := ts.ident("module definition")
	if ok {
		_, ok = ts.expect(token.Equals, "module definition")
	}
	if ok {
		ok = ts.expectEnd("module definition")
	}
	body := p.parseDecls(int(ln.col))
	if !ok {
		return nil
	}
	sp := ln.toks[0].Span.Cover(ln.toks[len(ln.toks)-1].Span)
	if len(body) > 0 {
		sp = sp.Cover(body[len(body)-1].DeclSpan())
	}
	return &syntax.ModuleDecl{Name: name, Decls: body, Span: sp}
}

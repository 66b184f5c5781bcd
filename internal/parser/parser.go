package parser

import (
	"fsfront/internal/diag"
	"fsfront/internal/source"
	"fsfront/internal/syntax"
	"fsfront/internal/token"
)

// Grammar selects the entry point: signature files and implementation files
// accept different declarations.
type Grammar uint8

const (
	GrammarImplementation Grammar = iota
	GrammarSignature
)

func (g Grammar) String() string {
	if g == GrammarSignature {
		return "signature file"
	}
	return "implementation file"
}

// File is the raw parse result before front-end normalization.
type File struct {
	// HashDirectives precede the first module/namespace header.
	HashDirectives []syntax.HashDirective
	Fragments      []syntax.Fragment
}

type Options struct {
	FileID   source.FileID
	Reporter diag.Reporter
}

type line struct {
	toks []token.Token
	col  uint32
}

type parser struct {
	lines   []line
	pos     int
	grammar Grammar
	opts    Options
	eofSpan source.Span
}

// Parse builds the raw tree of one file from its token stream. It never
// fails: syntax errors are reported and the offending line is skipped.
func Parse(toks []token.Token, g Grammar, opts Options) *File {
	p := &parser{
		lines:   splitLines(toks),
		grammar: g,
		opts:    opts,
		eofSpan: source.FileStart(opts.FileID),
	}
	if n := len(toks); n > 0 {
		p.eofSpan = toks[n-1].Span
	}
	return p.parseFile()
}

func splitLines(toks []token.Token) []line {
	var out []line
	var cur []token.Token
	for _, tk := range toks {
		switch tk.Kind {
		case token.Newline, token.EOF:
			if len(cur) > 0 {
				out = append(out, line{toks: cur, col: cur[0].Col})
				cur = nil
			}
		default:
			cur = append(cur, tk)
		}
	}
	return out
}

func (p *parser) errorf(sp source.Span, msg string) {
	if p.opts.Reporter != nil {
		diag.ReportError(p.opts.Reporter, diag.TcUnexpectedSyntax, sp, msg).Emit()
	}
}

func (p *parser) parseFile() *File {
	out := &File{}
	var pending []syntax.HashDirective

	for p.pos < len(p.lines) {
		ln := p.lines[p.pos]
		switch {
		case ln.toks[0].Kind == token.Hash && len(out.Fragments) == 0:
			pending = append(pending, parseHashLine(ln))
			p.pos++
		case isHeader(ln):
			frag, ok := p.parseHeader(ln)
			p.pos++
			if !ok {
				continue
			}
			if len(out.Fragments) == 0 {
				out.HashDirectives = pending
				pending = nil
			}
			frag.Decls = p.parseDecls(-1)
			frag.Span = fragmentSpan(ln.toks[0].Span, frag.Decls)
			out.Fragments = append(out.Fragments, frag)
		default:
			out.Fragments = append(out.Fragments, p.parseAnon(pending))
			pending = nil
		}
	}
	if len(out.Fragments) == 0 {
		out.Fragments = append(out.Fragments, p.parseAnon(pending))
	}
	return out
}

// parseAnon opens an anonymous module at the current line; directives seen
// so far become its first declarations.
func (p *parser) parseAnon(pending []syntax.HashDirective) syntax.Fragment {
	decls := make([]syntax.Decl, 0, len(pending))
	for _, h := range pending {
		decls = append(decls, &syntax.HashDecl{Directive: h})
	}
	decls = append(decls, p.parseDecls(-1)...)
	start := source.FileStart(p.opts.FileID)
	if len(decls) > 0 {
		start = decls[0].DeclSpan()
	}
	return syntax.Fragment{
		Kind:  syntax.AnonModule,
		Decls: decls,
		Span:  fragmentSpan(start, decls),
	}
}

func fragmentSpan(start source.Span, decls []syntax.Decl) source.Span {
	if len(decls) == 0 {
		return start
	}
	return start.Cover(decls[len(decls)-1].DeclSpan())
}

// isHeader: `namespace X` or `module X` without `=`.
func isHeader(ln line) bool {
	switch ln.toks[0].Kind {
	case token.KwNamespace:
		return true
	case token.KwModule:
		for _, tk := range ln.toks {
			if tk.Kind == token.Equals {
				return false
			}
		}
		return true
	}
	return false
}

func (p *parser) parseHeader(ln line) (syntax.Fragment, bool) {
	ts := newStream(p, ln.toks)
	kw := ts.next()
	frag := syntax.Fragment{Kind: syntax.NamedModule}
	if kw.Kind == token.KwNamespace {
		frag.Kind = syntax.DeclaredNamespace
	}
	if ts.peek().Kind == token.KwRec {
		ts.next()
		frag.IsRec = true
	}
	lid, ok := ts.longIdent("module or namespace name")
	if !ok {
		return frag, false
	}
	if !ts.expectEnd("module or namespace header") {
		return frag, false
	}
	frag.LongID = lid
	return frag, true
}

func parseHashLine(ln line) syntax.HashDirective {
	head := ln.toks[0]
	h := syntax.HashDirective{Name: head.Text, Span: head.Span}
	for _, tk := range ln.toks[1:] {
		arg := syntax.DirectiveArg{Text: tk.Text, Span: tk.Span}
		if tk.Kind == token.StringLit {
			arg.Quoted = true
		}
		h.Args = append(h.Args, arg)
		h.Span = h.Span.Cover(tk.Span)
	}
	return h
}

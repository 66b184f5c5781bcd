package lexer

import (
	"fsfront/internal/diag"
	"fsfront/internal/source"
	"fsfront/internal/token"
)

type condFrame struct {
	cond         bool
	active       bool
	parentActive bool
	sawElse      bool
	span         source.Span
}

type Lexer struct {
	file      *source.File
	cursor    Cursor
	opts      Options
	trivia    token.Trivia
	conds     []condFrame
	lineStart uint32
	atBOL     bool // курсор в начале строки (до первого значимого символа)
	lineToks  int  // значимых токенов на текущей строке
	done      bool
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		atBOL:  true,
	}
}

// Tokenize lexes the whole file.
func Tokenize(file *source.File, opts Options) ([]token.Token, token.Trivia) {
	lx := New(file, opts)
	toks := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks, lx.Trivia()
}

// Trivia returns comments and conditional directives seen so far.
func (lx *Lexer) Trivia() token.Trivia {
	return lx.trivia
}

func (lx *Lexer) active() bool {
	return len(lx.conds) == 0 || lx.conds[len(lx.conds)-1].active
}

// Next возвращает следующий значимый токен. После EOF всегда возвращает EOF.
// Newline is produced only for lines that had at least one token.
func (lx *Lexer) Next() token.Token {
	for {
		if lx.done {
			return lx.eof()
		}
		if lx.atBOL {
			lx.skipBlanks()
			if lx.handleLineStart() {
				continue
			}
		}
		lx.skipBlanks()
		if lx.cursor.EOF() {
			return lx.finish()
		}

		ch := lx.cursor.Peek()
		switch {
		case ch == '\n':
			lx.cursor.Bump()
			lx.newLine()
			if lx.lineToks > 0 {
				lx.lineToks = 0
				return token.Token{
					Kind: token.Newline,
					Span: source.Span{File: lx.file.ID, Start: lx.cursor.Off - 1, End: lx.cursor.Off},
				}
			}
			continue
		case ch == '/' && lx.cursor.PeekAt(1) == '/':
			start := lx.cursor.Off
			lx.cursor.RestOfLine()
			lx.trivia.Comments = append(lx.trivia.Comments, token.CommentTrivia{Span: lx.cursor.SpanFrom(start)})
			continue
		case ch == '(' && lx.cursor.PeekAt(1) == '*' && lx.cursor.PeekAt(2) != ')':
			lx.scanBlockComment()
			continue
		}

		tok := lx.scanToken()
		lx.lineToks++
		lx.atBOL = false
		return tok
	}
}

func (lx *Lexer) eof() token.Token {
	end := lx.cursor.Limit
	return token.Token{Kind: token.EOF, Span: source.Span{File: lx.file.ID, Start: end, End: end}}
}

// finish closes the last line and checks that every #if was closed.
func (lx *Lexer) finish() token.Token {
	if lx.lineToks > 0 {
		lx.lineToks = 0
		end := lx.cursor.Limit
		return token.Token{Kind: token.Newline, Span: source.Span{File: lx.file.ID, Start: end, End: end}}
	}
	for _, frame := range lx.conds {
		lx.report(diag.LexUnbalancedIfDirective, frame.span, "No #endif found for #if or #else")
	}
	lx.conds = nil
	lx.done = true
	return lx.eof()
}

func (lx *Lexer) newLine() {
	lx.lineStart = lx.cursor.Off
	lx.atBOL = true
}

func (lx *Lexer) skipBlanks() {
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\r':
			lx.cursor.Bump()
		default:
			return
		}
	}
}

// handleLineStart deals with conditional directives and inactive lines.
// Returns true if the whole line was consumed.
func (lx *Lexer) handleLineStart() bool {
	if lx.cursor.EOF() {
		return false
	}
	if lx.cursor.Peek() == '#' {
		start := lx.cursor.Off
		name := lx.peekDirectiveName()
		switch name {
		case "if", "else", "endif":
			text := lx.cursor.RestOfLine()
			lx.conditional(name, text[len(name)+1:], lx.cursor.SpanFrom(start))
			lx.skipNewline()
			return true
		}
	}
	if !lx.active() {
		lx.cursor.RestOfLine()
		lx.skipNewline()
		return true
	}
	lx.atBOL = false
	return false
}

func (lx *Lexer) skipNewline() {
	if lx.cursor.Eat('\n') {
		lx.newLine()
	}
}

func (lx *Lexer) peekDirectiveName() string {
	var n uint32 = 1
	for isIdentContinueByte(lx.cursor.PeekAt(n)) {
		n++
	}
	return string(lx.file.Content[lx.cursor.Off+1 : lx.cursor.Off+n])
}

func (lx *Lexer) conditional(name, rest string, sp source.Span) {
	switch name {
	case "if":
		parent := lx.active()
		cond, ok := evalCondition(rest, lx.opts.Defines)
		if !ok {
			lx.report(diag.LexInvalidIfExpression, sp, "Incomplete or invalid conditional expression in #if: "+trimSpace(rest))
		}
		frame := condFrame{cond: cond, active: parent && cond, parentActive: parent, span: sp}
		lx.conds = append(lx.conds, frame)
		lx.trivia.Conditionals = append(lx.trivia.Conditionals, token.ConditionalTrivia{
			Kind: token.CondIf, Expr: trimSpace(rest), Active: frame.active, Span: sp,
		})
	case "else":
		if len(lx.conds) == 0 {
			lx.report(diag.LexUnbalancedIfDirective, sp, "#else has no matching #if")
			return
		}
		top := &lx.conds[len(lx.conds)-1]
		if top.sawElse {
			lx.report(diag.LexUnbalancedIfDirective, sp, "#else has already been given for this #if")
		}
		top.sawElse = true
		top.active = top.parentActive && !top.cond
		top.span = sp
		lx.trivia.Conditionals = append(lx.trivia.Conditionals, token.ConditionalTrivia{
			Kind: token.CondElse, Active: top.active, Span: sp,
		})
	case "endif":
		if len(lx.conds) == 0 {
			lx.report(diag.LexUnbalancedIfDirective, sp, "#endif has no matching #if")
			return
		}
		lx.conds = lx.conds[:len(lx.conds)-1]
		lx.trivia.Conditionals = append(lx.trivia.Conditionals, token.ConditionalTrivia{
			Kind: token.CondEndIf, Active: lx.active(), Span: sp,
		})
	}
}

func (lx *Lexer) scanBlockComment() {
	start := lx.cursor.Off
	lx.cursor.Off += 2
	depth := 1
	for depth > 0 {
		if lx.cursor.EOF() {
			lx.report(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "Unterminated block comment")
			break
		}
		switch {
		case lx.cursor.Peek() == '(' && lx.cursor.PeekAt(1) == '*':
			depth++
			lx.cursor.Off += 2
		case lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == ')':
			depth--
			lx.cursor.Off += 2
		default:
			if lx.cursor.Bump() == '\n' {
				lx.lineStart = lx.cursor.Off
			}
		}
	}
	lx.trivia.Comments = append(lx.trivia.Comments, token.CommentTrivia{Span: lx.cursor.SpanFrom(start), Block: true})
}

func (lx *Lexer) scanToken() token.Token {
	start := lx.cursor.Off
	col := start - lx.lineStart
	ch := lx.cursor.Peek()

	var tok token.Token
	switch {
	case ch == '#' && lx.lineToks == 0:
		tok = lx.scanHash()
	case ch == '_' && !isIdentContinueByte(lx.cursor.PeekAt(1)):
		lx.cursor.Bump()
		tok = token.Token{Kind: token.Underscore, Text: "_"}
	case isIdentStartByte(ch) || ch >= 0x80:
		tok = lx.scanIdentOrKeyword()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '"':
		tok = lx.scanString()
	case ch == '@' && lx.cursor.PeekAt(1) == '"':
		tok = lx.scanVerbatimString()
	default:
		tok = lx.scanPunct()
	}
	tok.Span = lx.cursor.SpanFrom(start)
	tok.Col = col
	if tok.Text == "" && tok.Kind != token.StringLit {
		tok.Text = string(lx.file.Content[start:lx.cursor.Off])
	}
	return tok
}

func (lx *Lexer) scanHash() token.Token {
	lx.cursor.Bump()
	start := lx.cursor.Off
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return token.Token{Kind: token.Hash, Text: string(lx.file.Content[start:lx.cursor.Off])}
}

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Off
	ch := lx.cursor.Bump()
	switch ch {
	case '(':
		return token.Token{Kind: token.LParen}
	case ')':
		return token.Token{Kind: token.RParen}
	case ':':
		return token.Token{Kind: token.Colon}
	case '=':
		return token.Token{Kind: token.Equals}
	case '+':
		return token.Token{Kind: token.Plus}
	case '-':
		if lx.cursor.Eat('>') {
			return token.Token{Kind: token.Arrow}
		}
		return token.Token{Kind: token.Minus}
	case '*':
		return token.Token{Kind: token.Star}
	case '.':
		return token.Token{Kind: token.Dot}
	case ',':
		return token.Token{Kind: token.Comma}
	case '|':
		return token.Token{Kind: token.Bar}
	case '[':
		if lx.cursor.Eat('<') {
			return token.Token{Kind: token.LAttr}
		}
	case '>':
		if lx.cursor.Eat(']') {
			return token.Token{Kind: token.RAttr}
		}
	}
	lx.report(diag.LexUnexpectedChar, lx.cursor.SpanFrom(start), "Unexpected character '"+string(ch)+"' in source")
	return token.Token{Kind: token.Invalid}
}

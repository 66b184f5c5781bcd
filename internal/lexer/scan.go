package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"fsfront/internal/diag"
	"fsfront/internal/token"
)

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Off
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		if ch < utf8.RuneSelf {
			if !isIdentContinueByte(ch) && ch != '\'' {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		lx.cursor.Off += uint32(size) // #nosec G115 -- size <= 4
	}
	if lx.cursor.Off == start {
		// одиночный не-буквенный unicode символ
		_, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
		lx.cursor.Off += uint32(size) // #nosec G115 -- size <= 4
		lx.report(diag.LexUnexpectedChar, lx.cursor.SpanFrom(start), "Unexpected character in source")
		return token.Token{Kind: token.Invalid}
	}
	text := string(lx.file.Content[start:lx.cursor.Off])
	if kw, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: kw, Text: text}
	}
	return token.Token{Kind: token.Ident, Text: text}
}

func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Off
	kind := token.IntLit
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		kind = token.FloatLit
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	if isIdentStartByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		lx.report(diag.LexBadNumber, lx.cursor.SpanFrom(start), "This is not a valid numeric literal")
		return token.Token{Kind: token.Invalid}
	}
	return token.Token{Kind: kind}
}

// scanString reads "..." and """...""" literals. Text is the decoded value.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Off
	if lx.cursor.PeekAt(1) == '"' && lx.cursor.PeekAt(2) == '"' {
		lx.cursor.Off += 3
		body := lx.cursor.Off
		for !lx.cursor.EOF() {
			if lx.cursor.Peek() == '"' && lx.cursor.PeekAt(1) == '"' && lx.cursor.PeekAt(2) == '"' {
				text := string(lx.file.Content[body:lx.cursor.Off])
				lx.cursor.Off += 3
				return token.Token{Kind: token.StringLit, Text: text}
			}
			if lx.cursor.Bump() == '\n' {
				lx.lineStart = lx.cursor.Off
			}
		}
		lx.report(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "This string literal is not terminated")
		return token.Token{Kind: token.StringLit, Text: string(lx.file.Content[body:lx.cursor.Off])}
	}

	lx.cursor.Bump()
	var b strings.Builder
	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
			lx.report(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "This string literal is not terminated")
			return token.Token{Kind: token.StringLit, Text: b.String()}
		}
		ch := lx.cursor.Bump()
		switch ch {
		case '"':
			return token.Token{Kind: token.StringLit, Text: b.String()}
		case '\\':
			esc := lx.cursor.Peek()
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"', '\\', '\'':
				b.WriteByte(esc)
			default:
				// неизвестный escape оставляем как есть: "C:\temp"
				b.WriteByte('\\')
				continue
			}
			lx.cursor.Bump()
		default:
			b.WriteByte(ch)
		}
	}
}

// scanVerbatimString reads @"..." where "" stands for a quote.
func (lx *Lexer) scanVerbatimString() token.Token {
	start := lx.cursor.Off
	lx.cursor.Off += 2
	var b strings.Builder
	for !lx.cursor.EOF() {
		ch := lx.cursor.Bump()
		if ch == '\n' {
			lx.lineStart = lx.cursor.Off
		}
		if ch != '"' {
			b.WriteByte(ch)
			continue
		}
		if lx.cursor.Eat('"') {
			b.WriteByte('"')
			continue
		}
		return token.Token{Kind: token.StringLit, Text: b.String()}
	}
	lx.report(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "This string literal is not terminated")
	return token.Token{Kind: token.StringLit, Text: b.String()}
}

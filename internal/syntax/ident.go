package syntax

import (
	"strings"

	"fsfront/internal/diag"
	"fsfront/internal/source"
)

type Ident struct {
	Text string
	Span source.Span
}

// LongIdent is a dotted path: A.B.C.
type LongIdent []Ident

func (l LongIdent) Text() string {
	parts := make([]string, len(l))
	for i, id := range l {
		parts[i] = id.Text
	}
	return strings.Join(parts, ".")
}

// Span covers all parts; an empty path yields the zero span.
func (l LongIdent) Span() source.Span {
	if len(l) == 0 {
		return source.Span{}
	}
	return l[0].Span.Cover(l[len(l)-1].Span)
}

func (l LongIdent) Last() Ident {
	if len(l) == 0 {
		return Ident{}
	}
	return l[len(l)-1]
}

// MakeLongIdent splits dotted text, giving every part the same span.
func MakeLongIdent(text string, sp source.Span) LongIdent {
	if text == "" {
		return nil
	}
	parts := strings.Split(text, ".")
	out := make(LongIdent, len(parts))
	for i, p := range parts {
		out[i] = Ident{Text: p, Span: sp}
	}
	return out
}

// QualifiedName is the globally meaningful name of a file's top-level module.
// A signature file and its implementation must produce the same Text.
type QualifiedName struct {
	Text string
	Span source.Span
}

func (q QualifiedName) String() string { return q.Text }

// ScopedPragma switches a warning off for the whole file that declares it.
type ScopedPragma struct {
	Span source.Span
	Code diag.Code
}

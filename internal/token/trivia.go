package token

import "fsfront/internal/source"

// CommentTrivia records a `//` or `(* *)` comment.
type CommentTrivia struct {
	Span  source.Span
	Block bool
}

type ConditionalKind uint8

const (
	CondIf ConditionalKind = iota
	CondElse
	CondEndIf
)

func (k ConditionalKind) String() string {
	switch k {
	case CondIf:
		return "#if"
	case CondElse:
		return "#else"
	default:
		return "#endif"
	}
}

// ConditionalTrivia records one conditional compilation directive line.
// Expr is the raw condition text of `#if`; Active is the evaluated state of
// the branch the directive opens.
type ConditionalTrivia struct {
	Kind   ConditionalKind
	Expr   string
	Active bool
	Span   source.Span
}

// Trivia collects what tooling needs and semantics ignore.
type Trivia struct {
	Comments     []CommentTrivia
	Conditionals []ConditionalTrivia
}

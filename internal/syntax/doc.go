// Package syntax holds the raw syntax tree produced by the parser and
// normalized by the front-end: ParsedInput (signature or implementation),
// its top-level fragments, declarations, hash directives and trivia.
//
// The node families are closed: Decl, Expr, Pattern and ParsedInput are
// sealed interfaces whose implementations all live in this package, and
// consumers switch over them with a default branch that panics.
package syntax

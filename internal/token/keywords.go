package token

var keywords = map[string]Kind{
	"module":    KwModule,
	"namespace": KwNamespace,
	"val":       KwVal,
	"let":       KwLet,
	"type":      KwType,
	"open":      KwOpen,
	"rec":       KwRec,
	"global":    KwGlobal,
	"match":     KwMatch,
	"with":      KwWith,
	"true":      KwTrue,
	"false":     KwFalse,
}

// LookupKeyword returns the keyword kind for ident, if any.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

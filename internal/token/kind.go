package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Newline ends a logical line. The parser is line oriented.
	Newline

	Ident
	IntLit
	FloatLit
	StringLit

	// Hash is a `#name` hash directive at the start of a line; Text holds name.
	Hash

	KwModule
	KwNamespace
	KwVal
	KwLet
	KwType
	KwOpen
	KwRec
	KwGlobal
	KwMatch
	KwWith
	KwTrue
	KwFalse

	LParen     // (
	RParen     // )
	Colon      // :
	Equals     // =
	Plus       // +
	Minus      // -
	Star       // *
	Dot        // .
	Comma      // ,
	Bar        // |
	Arrow      // ->
	Underscore // _
	LAttr      // [<
	RAttr      // >]
)

var kindNames = [...]string{
	Invalid:     "invalid",
	EOF:         "end of file",
	Newline:     "newline",
	Ident:       "identifier",
	IntLit:      "integer literal",
	FloatLit:    "float literal",
	StringLit:   "string literal",
	Hash:        "hash directive",
	KwModule:    "'module'",
	KwNamespace: "'namespace'",
	KwVal:       "'val'",
	KwLet:       "'let'",
	KwType:      "'type'",
	KwOpen:      "'open'",
	KwRec:       "'rec'",
	KwGlobal:    "'global'",
	KwMatch:     "'match'",
	KwWith:      "'with'",
	KwTrue:      "'true'",
	KwFalse:     "'false'",
	LParen:      "'('",
	RParen:      "')'",
	Colon:       "':'",
	Equals:      "'='",
	Plus:        "'+'",
	Minus:       "'-'",
	Star:        "'*'",
	Dot:         "'.'",
	Comma:       "','",
	Bar:         "'|'",
	Arrow:       "'->'",
	Underscore:  "'_'",
	LAttr:       "'[<'",
	RAttr:       "'>]'",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

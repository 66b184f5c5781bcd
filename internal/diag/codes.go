package diag

import (
	"fmt"
	"strconv"
	"strings"
)

// Code is the user-visible diagnostic number. Warnings are disabled by this
// number (`#nowarn "25"`, `--nowarn 25`), so the values are stable.
type Code uint16

const (
	UnknownCode Code = 0

	// type checking
	TcTypeMismatch         Code = 1
	TcUnexpectedSyntax     Code = 10
	TcIncompleteMatches    Code = 25
	TcSignatureMismatch    Code = 34
	TcDuplicateDef         Code = 37
	TcUndefinedName        Code = 39
	TcRuleNeverMatched     Code = 26
	TcNamespaceNotFound    Code = 40
	TcValueRestricted      Code = 64
	TcDirectiveInNonScript Code = 76
	TcReferenceNotFound    Code = 84

	// build / front-end coordination
	BuildInternalError                Code = 193
	BuildInvalidWarningNumber         Code = 203
	BuildMultiFileRequiresModule      Code = 222
	BuildCouldNotFindSourceFile       Code = 225
	BuildInvalidSourceExtension       Code = 226
	BuildInvalidHashIDirective        Code = 230
	BuildInvalidHashRDirective        Code = 231
	BuildInvalidHashLoadDirective     Code = 232
	BuildInvalidHashTimeDirective     Code = 233
	BuildInvalidNowarnDirective       Code = 234
	BuildDirectivesInModulesIgnored   Code = 236
	BuildSignatureAlreadySpecified    Code = 237
	BuildImplementationAlreadyGiven   Code = 238
	BuildImplementationBeforeSig      Code = 239
	BuildSignatureWithoutImpl         Code = 240
	BuildInvalidModuleOrNamespaceName Code = 244
	BuildMultipleToplevelModules      Code = 248
	BuildImplicitModuleNotIdentifier  Code = 988
	BuildTimingInfo                   Code = 1000

	// lexical
	LexUnterminatedString       Code = 1201
	LexUnterminatedBlockComment Code = 1202
	LexUnexpectedChar           Code = 1203
	LexUnbalancedIfDirective    Code = 1204
	LexInvalidIfExpression      Code = 1205
	LexBadNumber                Code = 1206
)

var codeDescription = map[Code]string{
	UnknownCode:                       "Unknown diagnostic",
	TcTypeMismatch:                    "Type mismatch",
	TcUnexpectedSyntax:                "Unexpected syntax",
	TcIncompleteMatches:               "Incomplete pattern matches",
	TcRuleNeverMatched:                "Rule never matched",
	TcSignatureMismatch:               "Signature and implementation do not match",
	TcDuplicateDef:                    "Duplicate definition",
	TcUndefinedName:                   "Undefined name",
	TcNamespaceNotFound:               "Namespace or module not defined",
	TcValueRestricted:                 "Value less generic than annotated",
	TcDirectiveInNonScript:            "Directive only allowed in scripts",
	TcReferenceNotFound:               "Reference not found",
	BuildInternalError:                "Internal error",
	BuildInvalidWarningNumber:         "Invalid warning number",
	BuildMultiFileRequiresModule:      "Module or namespace declaration required",
	BuildCouldNotFindSourceFile:       "Source file not found",
	BuildInvalidSourceExtension:       "Invalid source file extension",
	BuildInvalidHashIDirective:        "Invalid #I directive",
	BuildInvalidHashRDirective:        "Invalid #r directive",
	BuildInvalidHashLoadDirective:     "Invalid #load directive",
	BuildInvalidHashTimeDirective:     "Invalid #time directive",
	BuildInvalidNowarnDirective:       "Invalid #nowarn directive",
	BuildDirectivesInModulesIgnored:   "Directives inside nested modules are ignored",
	BuildSignatureAlreadySpecified:    "Signature already specified",
	BuildImplementationAlreadyGiven:   "Implementation already given",
	BuildImplementationBeforeSig:      "Implementation precedes signature",
	BuildSignatureWithoutImpl:         "Signature without implementation",
	BuildInvalidModuleOrNamespaceName: "Invalid module or namespace name",
	BuildMultipleToplevelModules:      "Multiple top-level modules",
	BuildImplicitModuleNotIdentifier:  "Implicit module name is not an identifier",
	BuildTimingInfo:                   "Timing information",
	LexUnterminatedString:             "Unterminated string literal",
	LexUnterminatedBlockComment:       "Unterminated block comment",
	LexUnexpectedChar:                 "Unexpected character",
	LexUnbalancedIfDirective:          "Unbalanced conditional directive",
	LexInvalidIfExpression:            "Invalid conditional expression",
	LexBadNumber:                      "Invalid numeric literal",
}

// ID renders the code the way users refer to it: FS0025.
func (c Code) ID() string {
	return fmt.Sprintf("FS%04d", int(c))
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// ParseCode accepts "25", "0025", "FS0025" and "fs25". Anything else fails.
func ParseCode(text string) (Code, bool) {
	s := strings.TrimSpace(text)
	if len(s) >= 2 && strings.EqualFold(s[:2], "FS") {
		s = s[2:]
	}
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, false
	}
	return Code(n), true
}

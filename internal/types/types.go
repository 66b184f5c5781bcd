package types

import "fmt"

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnit
	KindBool
	KindString
	KindInt
	KindFloat
	// KindNamed is a declared type, identified by its qualified name.
	KindNamed
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindNamed:
		return "named"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a value type. Named types compare by qualified name.
type Type struct {
	Kind Kind
	Name string // only for KindNamed
}

var (
	Invalid = Type{Kind: KindInvalid}
	Unit    = Type{Kind: KindUnit}
	Bool    = Type{Kind: KindBool}
	String  = Type{Kind: KindString}
	Int     = Type{Kind: KindInt}
	Float   = Type{Kind: KindFloat}
)

// Named returns the declared type with qualified name.
func Named(qualified string) Type {
	return Type{Kind: KindNamed, Name: qualified}
}

var builtins = map[string]Type{
	"unit":   Unit,
	"bool":   Bool,
	"string": String,
	"int":    Int,
	"float":  Float,
}

// Builtin looks up a predefined type by keyword.
func Builtin(name string) (Type, bool) {
	t, ok := builtins[name]
	return t, ok
}

func (t Type) String() string {
	if t.Kind == KindNamed {
		return t.Name
	}
	return t.Kind.String()
}

func (t Type) IsValid() bool {
	return t.Kind != KindInvalid
}

// IsNumeric reports int and float.
func (t Type) IsNumeric() bool {
	return t.Kind == KindInt || t.Kind == KindFloat
}

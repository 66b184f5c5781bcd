package types

import (
	"maps"
	"slices"
	"strings"
)

type ModuleKind uint8

const (
	ModuleKindModule ModuleKind = iota
	ModuleKindNamespace
)

// TypeDef is a declared type: abstract when Abbrev is nil.
type TypeDef struct {
	Name   string
	Abbrev *Type
}

func (d TypeDef) String() string {
	if d.Abbrev == nil {
		return d.Name
	}
	return d.Name + " = " + d.Abbrev.String()
}

// ModuleType describes the public contents of a module or namespace.
// The root of a compilation unit is a namespace with an empty name.
// A ModuleType is built by the checker and treated as read-only once
// published; CombineModuleTypes always returns fresh values.
type ModuleType struct {
	Name    string
	Kind    ModuleKind
	Vals    map[string]Type
	Types   map[string]TypeDef
	Modules map[string]*ModuleType
	// Order keeps declaration order of vals for stable printing.
	Order []string
}

func NewModuleType(name string, kind ModuleKind) *ModuleType {
	return &ModuleType{
		Name:    name,
		Kind:    kind,
		Vals:    make(map[string]Type),
		Types:   make(map[string]TypeDef),
		Modules: make(map[string]*ModuleType),
	}
}

// NewRoot returns an empty compilation-unit root.
func NewRoot() *ModuleType {
	return NewModuleType("", ModuleKindNamespace)
}

func (m *ModuleType) AddVal(name string, t Type) {
	if _, ok := m.Vals[name]; !ok {
		m.Order = append(m.Order, name)
	}
	m.Vals[name] = t
}

// Ensure returns the nested module at path, creating namespaces on the way.
func (m *ModuleType) Ensure(path []string, leaf ModuleKind) *ModuleType {
	cur := m
	for i, name := range path {
		next, ok := cur.Modules[name]
		if !ok {
			kind := ModuleKindNamespace
			if i == len(path)-1 {
				kind = leaf
			}
			next = NewModuleType(name, kind)
			cur.Modules[name] = next
		}
		cur = next
	}
	return cur
}

// Lookup walks nested modules.
func (m *ModuleType) Lookup(path []string) (*ModuleType, bool) {
	cur := m
	for _, name := range path {
		if cur == nil {
			return nil, false
		}
		next, ok := cur.Modules[name]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, cur != nil
}

// FindVal resolves A.B.x relative to m.
func (m *ModuleType) FindVal(path []string) (Type, bool) {
	if len(path) == 0 {
		return Invalid, false
	}
	owner, ok := m.Lookup(path[:len(path)-1])
	if !ok {
		return Invalid, false
	}
	t, ok := owner.Vals[path[len(path)-1]]
	return t, ok
}

// FindType resolves A.T relative to m.
func (m *ModuleType) FindType(path []string) (TypeDef, bool) {
	if len(path) == 0 {
		return TypeDef{}, false
	}
	owner, ok := m.Lookup(path[:len(path)-1])
	if !ok {
		return TypeDef{}, false
	}
	d, ok := owner.Types[path[len(path)-1]]
	return d, ok
}

func (m *ModuleType) IsEmpty() bool {
	return m == nil || (len(m.Vals) == 0 && len(m.Types) == 0 && len(m.Modules) == 0)
}

// Clone deep-copies m.
func (m *ModuleType) Clone() *ModuleType {
	if m == nil {
		return nil
	}
	cp := &ModuleType{
		Name:    m.Name,
		Kind:    m.Kind,
		Vals:    maps.Clone(m.Vals),
		Types:   maps.Clone(m.Types),
		Modules: make(map[string]*ModuleType, len(m.Modules)),
		Order:   slices.Clone(m.Order),
	}
	for k, sub := range m.Modules {
		cp.Modules[k] = sub.Clone()
	}
	return cp
}

// CombineModuleTypes merges b into a copy of a. Nested modules merge
// recursively; for a name defined on both sides b wins. Neither input is
// modified.
func CombineModuleTypes(a, b *ModuleType) *ModuleType {
	if a == nil {
		return b.Clone()
	}
	out := a.Clone()
	if b == nil {
		return out
	}
	for _, name := range b.Order {
		out.AddVal(name, b.Vals[name])
	}
	for name, t := range b.Vals {
		if _, ok := out.Vals[name]; !ok {
			out.AddVal(name, t)
		}
	}
	for name, d := range b.Types {
		out.Types[name] = d
	}
	for name, sub := range b.Modules {
		out.Modules[name] = CombineModuleTypes(out.Modules[name], sub)
	}
	return out
}

// Entries lists the contents as "A.x : int" and "type A.T = int" lines,
// sorted, for printing and comparisons.
func (m *ModuleType) Entries() []string {
	var out []string
	var walk func(mt *ModuleType, prefix string)
	walk = func(mt *ModuleType, prefix string) {
		for name, t := range mt.Vals {
			out = append(out, prefix+name+" : "+t.String())
		}
		for _, d := range mt.Types {
			out = append(out, "type "+prefix+d.String())
		}
		for name, sub := range mt.Modules {
			walk(sub, prefix+name+".")
		}
	}
	if m != nil {
		walk(m, "")
	}
	slices.Sort(out)
	return out
}

func (m *ModuleType) String() string {
	return strings.Join(m.Entries(), "\n")
}

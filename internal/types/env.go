package types

import "slices"

// TcEnv is the typing environment threaded through the check. It is a value:
// every With/Open call returns a new environment and leaves the old one valid.
type TcEnv struct {
	root   *ModuleType
	opened [][]string
}

// NewEnv starts from root (imported modules); nil means empty.
func NewEnv(root *ModuleType) TcEnv {
	if root == nil {
		root = NewRoot()
	}
	return TcEnv{root: root}
}

func (e TcEnv) Root() *ModuleType {
	if e.root == nil {
		return NewRoot()
	}
	return e.root
}

// WithRoot makes contribution visible by qualified path.
func (e TcEnv) WithRoot(contribution *ModuleType) TcEnv {
	e.root = CombineModuleTypes(e.Root(), contribution)
	return e
}

// Opened lists opened module paths, oldest first.
func (e TcEnv) Opened() [][]string {
	return slices.Clone(e.opened)
}

// Open makes the contents of path visible unqualified. The module is looked
// up by full path or relative to modules opened before. It returns false if
// no such module exists.
func (e TcEnv) Open(path []string) (TcEnv, bool) {
	full, ok := e.ResolveModule(path)
	if !ok {
		return e, false
	}
	e.opened = append(slices.Clone(e.opened), full)
	return e, true
}

// ResolveModule returns the absolute path of a module named by path, either
// directly or relative to an opened module.
func (e TcEnv) ResolveModule(path []string) ([]string, bool) {
	if _, ok := e.Root().Lookup(path); ok {
		return slices.Clone(path), true
	}
	for i := len(e.opened) - 1; i >= 0; i-- {
		cand := append(slices.Clone(e.opened[i]), path...)
		if _, ok := e.Root().Lookup(cand); ok {
			return cand, true
		}
	}
	return nil, false
}

// prefixes are the places a path may be relative to, innermost first.
func (e TcEnv) prefixes() [][]string {
	out := make([][]string, 0, len(e.opened)+1)
	for i := len(e.opened) - 1; i >= 0; i-- {
		out = append(out, e.opened[i])
	}
	return append(out, nil)
}

// LookupVal resolves x, M.x or A.B.x.
func (e TcEnv) LookupVal(path []string) (Type, bool) {
	for _, prefix := range e.prefixes() {
		full := append(slices.Clone(prefix), path...)
		if t, ok := e.Root().FindVal(full); ok {
			return t, true
		}
	}
	return Invalid, false
}

// LookupType resolves a declared type name to its qualified form.
func (e TcEnv) LookupType(path []string) (TypeDef, string, bool) {
	for _, prefix := range e.prefixes() {
		full := append(slices.Clone(prefix), path...)
		if d, ok := e.Root().FindType(full); ok {
			return d, joinPath(full), true
		}
	}
	return TypeDef{}, "", false
}

// LookupModule reports whether a module or namespace path is visible.
func (e TcEnv) LookupModule(path []string) bool {
	_, ok := e.ResolveModule(path)
	return ok
}

func joinPath(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}

package check

import (
	"maps"
	"slices"
	"strings"

	"fsfront/internal/diag"
	"fsfront/internal/source"
	"fsfront/internal/types"
)

// conform reports every way impl fails to provide sig. Both are rooted at
// path; the walk follows the signature.
func (c *checker) conform(impl, sig *types.ModuleType, path []string, sp source.Span) {
	if impl == nil {
		impl = types.NewModuleType("", sig.Kind)
	}
	owner := strings.Join(path, ".")
	for _, name := range sig.Order {
		want := sig.Vals[name]
		got, ok := impl.Vals[name]
		switch {
		case !ok:
			c.errorf(diag.TcSignatureMismatch, sp,
				"Module '%s' requires a value 'val %s : %s' that the implementation does not define", owner, name, want)
		case !c.sameType(want, got):
			c.errorf(diag.TcSignatureMismatch, sp,
				"Module '%s' contains 'val %s : %s' but its signature specifies 'val %s : %s'", owner, name, got, name, want)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(sig.Types)) {
		want := sig.Types[name]
		got, ok := impl.Types[name]
		switch {
		case !ok:
			c.errorf(diag.TcSignatureMismatch, sp,
				"Module '%s' requires a type '%s' that the implementation does not define", owner, name)
		case want.Abbrev != nil && (got.Abbrev == nil || !c.sameType(*want.Abbrev, *got.Abbrev)):
			c.errorf(diag.TcSignatureMismatch, sp,
				"Module '%s' contains 'type %s' but its signature specifies 'type %s'", owner, got, want)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(sig.Modules)) {
		sub := sig.Modules[name]
		implSub, ok := impl.Modules[name]
		if !ok {
			c.errorf(diag.TcSignatureMismatch, sp,
				"The signature requires a module '%s' that the implementation does not define", strings.Join(concat(path, []string{name}), "."))
			continue
		}
		c.conform(implSub, sub, concat(path, []string{name}), sp)
	}
}

// sameType compares a signature type with an implementation type, seeing
// through abbreviations the implementation gives to abstract types.
func (c *checker) sameType(want, got types.Type) bool {
	if !got.IsValid() {
		return true
	}
	return c.expand(want) == c.expand(got)
}

func (c *checker) expand(t types.Type) types.Type {
	if t.Kind != types.KindNamed {
		return t
	}
	if d, ok := c.root.FindType(strings.Split(t.Name, ".")); ok && d.Abbrev != nil {
		return *d.Abbrev
	}
	return t
}

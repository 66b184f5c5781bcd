package check

import (
	"slices"
	"strings"

	"fsfront/internal/diag"
	"fsfront/internal/syntax"
	"fsfront/internal/types"
)

func (c *checker) push(path []string, node *types.ModuleType) {
	c.frames = append(c.frames, &frame{path: path, node: node})
}

func (c *checker) pop() {
	c.frames = c.frames[:len(c.frames)-1]
}

func (c *checker) top() *frame {
	return c.frames[len(c.frames)-1]
}

// prefixes lists the paths a name may be relative to, innermost first:
// each enclosing module, the modules it opened, and finally the root.
func (c *checker) prefixes() [][]string {
	var out [][]string
	for i := len(c.frames) - 1; i >= 0; i-- {
		f := c.frames[i]
		out = append(out, f.path)
		for j := len(f.opens) - 1; j >= 0; j-- {
			out = append(out, f.opens[j])
		}
	}
	return append(out, nil)
}

func concat(a, b []string) []string {
	return append(slices.Clone(a), b...)
}

func texts(lid syntax.LongIdent) []string {
	out := make([]string, len(lid))
	for i, id := range lid {
		out[i] = id.Text
	}
	return out
}

func (c *checker) lookupVal(path []string) (types.Type, bool) {
	if len(path) == 1 {
		for i := len(c.locals) - 1; i >= 0; i-- {
			if t, ok := c.locals[i][path[0]]; ok {
				return t, true
			}
		}
	}
	for _, q := range c.prefixes() {
		full := concat(q, path)
		if t, ok := c.root.FindVal(full); ok {
			return t, true
		}
		if t, ok := c.base.Root().FindVal(full); ok {
			return t, true
		}
	}
	return c.base.LookupVal(path)
}

func (c *checker) lookupType(path []string) (types.TypeDef, string, bool) {
	for _, q := range c.prefixes() {
		full := concat(q, path)
		if d, ok := c.root.FindType(full); ok {
			return d, strings.Join(full, "."), true
		}
		if d, ok := c.base.Root().FindType(full); ok {
			return d, strings.Join(full, "."), true
		}
	}
	return c.base.LookupType(path)
}

func (c *checker) resolveModule(path []string) ([]string, bool) {
	for _, q := range c.prefixes() {
		full := concat(q, path)
		if _, ok := c.root.Lookup(full); ok {
			return full, true
		}
		if _, ok := c.base.Root().Lookup(full); ok {
			return full, true
		}
	}
	return c.base.ResolveModule(path)
}

func (c *checker) resolveType(te syntax.TypeExpr) types.Type {
	path := texts(te.Name)
	if len(path) == 1 {
		if t, ok := types.Builtin(path[0]); ok {
			return t
		}
	}
	d, qual, ok := c.lookupType(path)
	if !ok {
		c.errorf(diag.TcUndefinedName, te.Span, "The type '%s' is not defined", te.Text())
		return types.Invalid
	}
	if d.Abbrev != nil {
		return *d.Abbrev
	}
	return types.Named(qual)
}

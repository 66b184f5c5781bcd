package check

import (
	"strings"

	"fsfront/internal/diag"
	"fsfront/internal/syntax"
	"fsfront/internal/types"
)

func (c *checker) fragment(frag syntax.Fragment) {
	path := texts(frag.LongID)
	kind := types.ModuleKindNamespace
	if frag.Kind.IsModule() {
		kind = types.ModuleKindModule
	}
	node := c.root
	if len(path) > 0 {
		node = c.root.Ensure(path, kind)
	}
	c.push(path, node)
	c.decls(frag.Decls, kind == types.ModuleKindNamespace)
	c.pop()
}

func (c *checker) decls(decls []syntax.Decl, inNamespace bool) {
	for _, d := range decls {
		c.decl(d, inNamespace)
	}
}

func (c *checker) decl(d syntax.Decl, inNamespace bool) {
	f := c.top()
	switch d := d.(type) {
	case *syntax.ValDecl:
		if inNamespace {
			c.errorf(diag.TcUnexpectedSyntax, d.Span, "Namespaces cannot contain values. Consider using a module to hold your value declarations")
			return
		}
		t := c.resolveType(d.Type)
		c.defineVal(f, d.Name, t)

	case *syntax.LetDecl:
		if inNamespace {
			c.errorf(diag.TcUnexpectedSyntax, d.Span, "Namespaces cannot contain values. Consider using a module to hold your value declarations")
			return
		}
		t := c.infer(d.Body)
		if d.Type != nil {
			want := c.resolveType(*d.Type)
			c.expect(want, t, d.Body.ExprSpan())
			t = want
		}
		if c.defineVal(f, d.Name, t) {
			c.bindings = append(c.bindings, Binding{
				Path: strings.Join(concat(f.path, []string{d.Name.Text}), "."),
				Type: t,
				Span: d.Name.Span,
			})
		}

	case *syntax.TypeDecl:
		if _, dup := f.node.Types[d.Name.Text]; dup {
			c.errorf(diag.TcDuplicateDef, d.Name.Span, "Duplicate definition of type '%s'", d.Name.Text)
			return
		}
		def := types.TypeDef{Name: d.Name.Text}
		if d.Abbrev != nil {
			t := c.resolveType(*d.Abbrev)
			def.Abbrev = &t
		}
		f.node.Types[d.Name.Text] = def

	case *syntax.OpenDecl:
		full, ok := c.resolveModule(texts(d.Target))
		if !ok {
			c.errorf(diag.TcNamespaceNotFound, d.Target.Span(), "The namespace or module '%s' is not defined", d.Target.Text())
			return
		}
		f.opens = append(f.opens, full)

	case *syntax.ModuleDecl:
		if _, dup := f.node.Modules[d.Name.Text]; dup {
			c.errorf(diag.TcDuplicateDef, d.Name.Span, "Duplicate definition of module '%s'", d.Name.Text)
			return
		}
		path := concat(f.path, []string{d.Name.Text})
		node := f.node.Ensure([]string{d.Name.Text}, types.ModuleKindModule)
		c.push(path, node)
		c.decls(d.Decls, false)
		c.pop()

	case *syntax.AttributeDecl:
		switch d.Target {
		case "assembly":
			c.attribs.Assembly = append(c.attribs.Assembly, d.Name.Text())
		case "", "module":
			c.attribs.Module = append(c.attribs.Module, d.Name.Text())
		}

	case *syntax.HashDecl:
		// handled by the directive fold
	}
}

// defineVal adds name to the current module. Duplicates report FS0037 and
// keep the first definition.
func (c *checker) defineVal(f *frame, name syntax.Ident, t types.Type) bool {
	if _, dup := f.node.Vals[name.Text]; dup {
		c.errorf(diag.TcDuplicateDef, name.Span, "Duplicate definition of value '%s'", name.Text)
		return false
	}
	f.node.AddVal(name.Text, t)
	return true
}

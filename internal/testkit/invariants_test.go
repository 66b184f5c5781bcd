package testkit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fsfront/internal/source"
	"fsfront/internal/syntax"
)

func TestCheckSpanInvariantsRejectsDeclOutsideFragment(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.fs", []byte("module A\nlet x = 1\n"))
	in := &syntax.ImplementationFile{
		InputHeader: syntax.InputHeader{FileName: "a.fs", FileID: id},
		Contents: []syntax.Fragment{{
			Kind:  syntax.NamedModule,
			Span:  source.Span{File: id, Start: 0, End: 8},
			Decls: []syntax.Decl{&syntax.LetDecl{Span: source.Span{File: id, Start: 9, End: 18}}},
		}},
	}
	assert.Error(t, CheckSpanInvariants(in, fs.Get(id)))

	in.Contents[0].Span.End = 18
	assert.NoError(t, CheckSpanInvariants(in, fs.Get(id)))
}

func TestCheckSpanInvariantsRejectsOverlap(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.fsi", []byte("namespace A\nnamespace B\n"))
	in := &syntax.SignatureFile{
		InputHeader: syntax.InputHeader{FileName: "a.fsi", FileID: id},
		Contents: []syntax.Fragment{
			{Kind: syntax.DeclaredNamespace, Span: source.Span{File: id, Start: 0, End: 15}},
			{Kind: syntax.DeclaredNamespace, Span: source.Span{File: id, Start: 12, End: 23}},
		},
	}
	assert.Error(t, CheckSpanInvariants(in, fs.Get(id)))
	assert.Error(t, CheckSpanInvariants(nil, fs.Get(id)))
}

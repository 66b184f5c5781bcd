// Package check type-checks parsed signature and implementation files
// against a typing environment and produces their module types.
package check

import (
	"fmt"

	"fsfront/internal/diag"
	"fsfront/internal/source"
	"fsfront/internal/syntax"
	"fsfront/internal/types"
)

// TopAttribs are the `[<assembly: X>]` and `[<X>]` attributes of a file.
type TopAttribs struct {
	Assembly []string
	Module   []string
}

// Merge appends other to a copy of a.
func (a TopAttribs) Merge(other TopAttribs) TopAttribs {
	return TopAttribs{
		Assembly: append(append([]string(nil), a.Assembly...), other.Assembly...),
		Module:   append(append([]string(nil), a.Module...), other.Module...),
	}
}

// Binding is a top-level value with its fully qualified path.
type Binding struct {
	Path string
	Type types.Type
	Span source.Span
}

// TypedImplFile is the checked form of an implementation file.
type TypedImplFile struct {
	QualName string
	// Signature is what the file exposes: the explicit signature when one
	// exists, otherwise the inferred contents.
	Signature      *types.ModuleType
	Bindings       []Binding
	HasExplicitSig bool
	// Placeholder marks files that were not checked because a signature made
	// the implementation irrelevant for typing.
	Placeholder bool
}

// PlaceholderImpl stands in for an implementation whose signature is known.
func PlaceholderImpl(qual string, sig *types.ModuleType) *TypedImplFile {
	return &TypedImplFile{
		QualName:       qual,
		Signature:      sig.Clone(),
		HasExplicitSig: true,
		Placeholder:    true,
	}
}

// CheckSignatureFile checks sf in env. It returns env extended with the
// file's contents and the signature as a rooted module type.
// A file is checked as a whole; callers observe cancellation between files.
func CheckSignatureFile(env types.TcEnv, sf *syntax.SignatureFile, rep diag.Reporter) (types.TcEnv, *types.ModuleType) {
	c := newChecker(env, rep, true)
	for _, frag := range sf.Contents {
		c.fragment(frag)
	}
	return env.WithRoot(c.root), c.root
}

// CheckImplementationFile checks f in env. When sig is non-nil the
// implementation must conform to it and only the signature is exposed.
func CheckImplementationFile(env types.TcEnv, f *syntax.ImplementationFile, sig *types.ModuleType, rep diag.Reporter) (TopAttribs, *TypedImplFile, types.TcEnv) {
	c := newChecker(env, rep, false)
	for _, frag := range f.Contents {
		c.fragment(frag)
	}
	exposed := c.root
	if sig != nil {
		sp := f.QualName.Span
		if sp == (source.Span{}) {
			sp = source.FileStart(f.FileID)
		}
		c.conform(c.root, sig, nil, sp)
		exposed = sig.Clone()
	}
	impl := &TypedImplFile{
		QualName:       f.QualName.Text,
		Signature:      exposed,
		Bindings:       c.bindings,
		HasExplicitSig: sig != nil,
	}
	return c.attribs, impl, env.WithRoot(exposed)
}

type frame struct {
	path  []string
	node  *types.ModuleType
	opens [][]string
}

type checker struct {
	base     types.TcEnv
	root     *types.ModuleType
	rep      diag.Reporter
	sig      bool
	frames   []*frame
	locals   []map[string]types.Type
	bindings []Binding
	attribs  TopAttribs
}

func newChecker(env types.TcEnv, rep diag.Reporter, sig bool) *checker {
	if rep == nil {
		rep = diag.Nop
	}
	return &checker{base: env, root: types.NewRoot(), rep: rep, sig: sig}
}

func (c *checker) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	diag.ReportError(c.rep, code, sp, fmt.Sprintf(format, args...)).Emit()
}

func (c *checker) warnf(code diag.Code, sp source.Span, format string, args ...any) {
	diag.ReportWarning(c.rep, code, sp, fmt.Sprintf(format, args...)).Emit()
}

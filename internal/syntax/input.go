package syntax

import (
	"fsfront/internal/source"
	"fsfront/internal/token"
)

type FragmentKind uint8

const (
	// NamedModule: `module A.B` heading the file.
	NamedModule FragmentKind = iota
	// AnonModule: declarations without any module/namespace header.
	AnonModule
	// DeclaredNamespace: `namespace A.B`.
	DeclaredNamespace
	// GlobalNamespace: `namespace global`.
	GlobalNamespace
)

func (k FragmentKind) String() string {
	switch k {
	case NamedModule:
		return "module"
	case AnonModule:
		return "anonymous module"
	case DeclaredNamespace:
		return "namespace"
	default:
		return "global namespace"
	}
}

// IsModule reports module-kind fragments (named or anonymous).
func (k FragmentKind) IsModule() bool {
	return k == NamedModule || k == AnonModule
}

// Fragment is one top-level module or namespace block of a file.
// LongID of an anonymous module is synthesized by the front-end.
type Fragment struct {
	Kind   FragmentKind
	LongID LongIdent
	IsRec  bool
	Decls  []Decl
	Span   source.Span
}

// InputHeader is what signature and implementation inputs share.
type InputHeader struct {
	FileName string
	FileID   source.FileID
	QualName QualifiedName
	// ScopedPragmas are collected from every #nowarn in the file.
	ScopedPragmas []ScopedPragma
	// HashDirectives are the directives preceding the first fragment header.
	HashDirectives  []HashDirective
	Trivia          token.Trivia
	IsScript        bool
	IsLastCompiland bool
	IsExe           bool
}

// ParsedInput is either *SignatureFile or *ImplementationFile.
type ParsedInput interface {
	Header() *InputHeader
	Fragments() []Fragment
	IsSignature() bool
	parsedInput()
}

type SignatureFile struct {
	InputHeader
	Contents []Fragment
}

type ImplementationFile struct {
	InputHeader
	Contents []Fragment
}

func (f *SignatureFile) Header() *InputHeader      { return &f.InputHeader }
func (f *ImplementationFile) Header() *InputHeader { return &f.InputHeader }

func (f *SignatureFile) Fragments() []Fragment      { return f.Contents }
func (f *ImplementationFile) Fragments() []Fragment { return f.Contents }

func (*SignatureFile) IsSignature() bool      { return true }
func (*ImplementationFile) IsSignature() bool { return false }

func (*SignatureFile) parsedInput()      {}
func (*ImplementationFile) parsedInput() {}

// EmptyInput is the placeholder used when a file could not be parsed.
// It has the kind the file name implies and no fragments.
func EmptyInput(fileName string, id source.FileID, signature bool, qual QualifiedName) ParsedInput {
	hdr := InputHeader{FileName: fileName, FileID: id, QualName: qual}
	if signature {
		return &SignatureFile{InputHeader: hdr}
	}
	return &ImplementationFile{InputHeader: hdr}
}

// WithQualifiedName returns a shallow copy of in carrying name q. Anonymous
// module fragments are renamed along with it so the module stays addressable.
func WithQualifiedName(in ParsedInput, q QualifiedName) ParsedInput {
	rename := func(frags []Fragment) []Fragment {
		out := make([]Fragment, len(frags))
		copy(out, frags)
		for i := range out {
			if out[i].Kind == AnonModule && len(out[i].LongID) > 0 {
				id := make(LongIdent, len(out[i].LongID))
				copy(id, out[i].LongID)
				last := &id[len(id)-1]
				last.Text = renamedModule(last.Text, in.Header().QualName.Text, q.Text)
				out[i].LongID = id
			}
		}
		return out
	}
	switch f := in.(type) {
	case *SignatureFile:
		cp := *f
		cp.QualName = q
		cp.Contents = rename(f.Contents)
		return &cp
	case *ImplementationFile:
		cp := *f
		cp.QualName = q
		cp.Contents = rename(f.Contents)
		return &cp
	default:
		panic("syntax: unknown ParsedInput")
	}
}

// renamedModule maps the anonymous module identifier after a qualified
// name change: Script -> Script___2 when Script$fsx became Script$fsx___2.
func renamedModule(name, oldQual, newQual string) string {
	if len(newQual) > len(oldQual) && newQual[:len(oldQual)] == oldQual {
		return name + newQual[len(oldQual):]
	}
	return name
}

// WalkDecls calls fn for every declaration, descending into nested modules.
// depth is 0 for declarations directly inside a fragment.
func WalkDecls(decls []Decl, fn func(d Decl, depth int)) {
	var walk func(ds []Decl, depth int)
	walk = func(ds []Decl, depth int) {
		for _, d := range ds {
			fn(d, depth)
			if m, ok := d.(*ModuleDecl); ok {
				walk(m.Decls, depth+1)
			}
		}
	}
	walk(decls, 0)
}

// Package frontend turns one source file into a syntax.ParsedInput: it picks
// the grammar by extension, runs lexer and parser, normalizes top-level
// fragments and flushes the file's diagnostics filtered by its own pragmas.
package frontend

import (
	"errors"
	"fmt"

	"fsfront/internal/diag"
	"fsfront/internal/ident"
	"fsfront/internal/lexer"
	"fsfront/internal/parser"
	"fsfront/internal/source"
	"fsfront/internal/syntax"
)

// Options are the per-batch parse settings.
type Options struct {
	DefaultNamespace string
	Defines          []string
	// FailParse makes every parse panic; used to exercise recovery paths.
	FailParse bool
}

// Compiland tells the adapter where the file sits in the batch.
type Compiland struct {
	IsLast bool
	IsExe  bool
}

// ErrSimulatedParseFailure is the panic payload of Options.FailParse.
var ErrSimulatedParseFailure = errors.New("simulated parse failure")

// fileError aborts the parse of a single file; the file is replaced with an
// empty placeholder after the error is reported.
type fileError struct {
	code diag.Code
	span source.Span
	msg  string
}

func (e *fileError) Error() string { return e.msg }

// ParseInput never fails: problems are reported to rep and an empty input of
// the expected kind is returned. Diagnostics are held back until the whole
// file has been parsed so a #nowarn anywhere in the file applies to all of it.
func ParseInput(file *source.File, opts Options, unit Compiland, rep diag.Reporter) (out syntax.ParsedInput) {
	delayed := diag.NewCapturingReporter(0)
	var pragmas []syntax.ScopedPragma

	defer func() {
		if r := recover(); r != nil {
			diag.ReportError(delayed, diag.BuildInternalError, source.StartupSpan,
				fmt.Sprintf("internal error while parsing '%s': %v", file.Path, r)).Emit()
			out = Placeholder(file.Path, file.ID, unit)
		}
		off := diag.NewCodeSet()
		for _, p := range pragmas {
			off.Add(p.Code)
		}
		delayed.CommitTo(diag.NewScopedFilter(rep, off))
	}()

	in, err := parseAndPostParse(file, opts, unit, delayed)
	if err != nil {
		var fe *fileError
		if errors.As(err, &fe) {
			diag.ReportError(delayed, fe.code, fe.span, fe.msg).Emit()
		}
		return Placeholder(file.Path, file.ID, unit)
	}
	pragmas = in.Header().ScopedPragmas
	return in
}

// Placeholder is the empty input that stands in for a file that could not be
// read or parsed. Its kind and name follow from the path alone.
func Placeholder(path string, id source.FileID, unit Compiland) syntax.ParsedInput {
	in := syntax.EmptyInput(path, id, ident.IsSignature(path),
		ident.FromFilename(source.FileStart(id), path))
	hdr := in.Header()
	hdr.IsScript = ident.IsScript(path)
	hdr.IsLastCompiland = unit.IsLast
	hdr.IsExe = unit.IsExe
	return in
}

func parseAndPostParse(file *source.File, opts Options, unit Compiland, rep diag.Reporter) (syntax.ParsedInput, error) {
	var grammar parser.Grammar
	switch {
	case ident.IsSignature(file.Path):
		grammar = parser.GrammarSignature
	case ident.IsImplementation(file.Path):
		grammar = parser.GrammarImplementation
	default:
		return nil, &fileError{
			code: diag.BuildInvalidSourceExtension,
			span: source.StartupSpan,
			msg: fmt.Sprintf("The file extension of '%s' is not recognized. "+
				"Source files must have extension .fs, .fsi, .fsx or .fsscript", file.Path),
		}
	}
	if opts.FailParse {
		panic(ErrSimulatedParseFailure)
	}

	toks, trivia := lexer.Tokenize(file, lexer.Options{
		Defines:  lexer.DefineSet(opts.Defines),
		Reporter: rep,
	})
	raw := parser.Parse(toks, grammar, parser.Options{FileID: file.ID, Reporter: rep})

	frags, err := postParseFragments(raw.Fragments, opts.DefaultNamespace, file, unit, rep)
	if err != nil {
		return nil, err
	}
	hdr := syntax.InputHeader{
		FileName:        file.Path,
		FileID:          file.ID,
		QualName:        qualNameOfFragments(file, frags),
		ScopedPragmas:   collectScopedPragmas(raw.HashDirectives, frags),
		HashDirectives:  raw.HashDirectives,
		Trivia:          trivia,
		IsScript:        ident.IsScript(file.Path),
		IsLastCompiland: unit.IsLast,
		IsExe:           unit.IsExe,
	}
	if grammar == parser.GrammarSignature {
		return &syntax.SignatureFile{InputHeader: hdr, Contents: frags}, nil
	}
	return &syntax.ImplementationFile{InputHeader: hdr, Contents: frags}, nil
}

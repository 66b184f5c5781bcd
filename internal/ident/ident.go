// Package ident derives qualified names for input files.
package ident

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"fsfront/internal/diag"
	"fsfront/internal/source"
	"fsfront/internal/syntax"
)

// ScriptMarker is appended to qualified names of script files so a script
// and a compiled file with the same module name never collide.
const ScriptMarker = "$fsx"

var (
	scriptSuffixes    = []string{".fsx", ".fsscript"}
	signatureSuffixes = []string{".fsi"}
	implSuffixes      = []string{".fs", ".fsx", ".fsscript"}
)

func hasSuffix(filename string, suffixes []string) bool {
	lower := strings.ToLower(filename)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// IsScript reports .fsx and .fsscript files.
func IsScript(filename string) bool {
	return hasSuffix(filename, scriptSuffixes)
}

func IsSignature(filename string) bool {
	return hasSuffix(filename, signatureSuffixes)
}

func IsImplementation(filename string) bool {
	return hasSuffix(filename, implSuffixes)
}

// Canonicalize strips directory and extension and capitalizes the first
// letter: "dir/my_file.fs" -> "My_file". A name without extension is kept.
// The result is NFC-normalized so decomposed file names yield the same
// module name as composed ones.
func Canonicalize(filename string) string {
	base := filepath.Base(filepath.FromSlash(filename))
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	base = norm.NFC.String(base)
	r, size := utf8.DecodeRuneInString(base)
	if r == utf8.RuneError {
		return base
	}
	return string(unicode.ToUpper(r)) + base[size:]
}

// IsValidIdentifier reports whether every rune is a letter, a digit or '_'.
// Letters and digits are the Unicode general categories L* and Nd,
// independent of the process locale.
func IsValidIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func scriptTag(filename string) string {
	if IsScript(filename) {
		return ScriptMarker
	}
	return ""
}

// FromModule names a file after its single named module.
func FromModule(sp source.Span, filename string, lid syntax.LongIdent) syntax.QualifiedName {
	return syntax.QualifiedName{Text: lid.Text() + scriptTag(filename), Span: sp}
}

// FromFilename is the fallback when the file has no single named module.
func FromFilename(sp source.Span, filename string) syntax.QualifiedName {
	return syntax.QualifiedName{Text: Canonicalize(filename) + scriptTag(filename), Span: sp}
}

// AnonymousModuleName builds the module path for declarations without a
// header. When check is set and the file-derived name is not an identifier a
// warning is reported; scripts are exempt.
func AnonymousModuleName(check bool, defaultNamespace, filename string, sp source.Span, rep diag.Reporter) syntax.LongIdent {
	modname := Canonicalize(filename)
	if check && !IsValidIdentifier(modname) && !IsScript(filename) && rep != nil {
		diag.ReportWarning(rep, diag.BuildImplicitModuleNotIdentifier, sp, fmt.Sprintf(
			"The implicitly added top-level module '%s' for the file '%s' is not a valid identifier. "+
				"Consider renaming the file or adding a module or namespace declaration at the top of the file",
			modname, filepath.Base(filename))).Emit()
	}
	combined := modname
	if defaultNamespace != "" {
		combined = defaultNamespace + "." + modname
	}
	parts := strings.Split(combined, ".")
	out := make(syntax.LongIdent, len(parts))
	for i, p := range parts {
		out[i] = syntax.Ident{Text: p, Span: sp}
	}
	return out
}

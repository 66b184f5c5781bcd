// Package dedup keeps top-level module names unique when a host loads files
// whose synthesized names collide, e.g. two Script.fsx from different folders.
package dedup

import (
	"fmt"
	"maps"
	"path/filepath"

	"fsfront/internal/syntax"
)

// Names maps qualified-name text to source directory to the name actually
// assigned. Values are never mutated in place; every step returns a new map
// so a host can drop a failed step and keep the previous one.
type Names map[string]map[string]string

// sourceDir is the directory key for fileName, absolute when it can be.
func sourceDir(fileName string) string {
	dir := filepath.Dir(filepath.FromSlash(fileName))
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

// ModuleName returns the name to use for q coming from fileName. The first
// directory keeps q unchanged; later directories get q___2, q___3, ...
// A directory seen before gets its earlier name back.
func ModuleName(names Names, fileName string, q syntax.QualifiedName) (syntax.QualifiedName, Names) {
	dir := sourceDir(fileName)
	paths, seen := names[q.Text]
	if seen {
		if assigned, ok := paths[dir]; ok {
			return syntax.QualifiedName{Text: assigned, Span: q.Span}, names
		}
	}

	assigned := q.Text
	if seen {
		assigned = fmt.Sprintf("%s___%d", q.Text, len(paths)+1)
	}
	next := maps.Clone(names)
	if next == nil {
		next = make(Names, 1)
	}
	nextPaths := maps.Clone(paths)
	if nextPaths == nil {
		nextPaths = make(map[string]string, 1)
	}
	nextPaths[dir] = assigned
	next[q.Text] = nextPaths
	return syntax.QualifiedName{Text: assigned, Span: q.Span}, next
}

// Input applies ModuleName to a parsed input. Signatures and implementations
// share the table, so a .fsi and its .fs from one directory keep matching.
func Input(names Names, in syntax.ParsedInput) (syntax.ParsedInput, Names) {
	hdr := in.Header()
	q, next := ModuleName(names, hdr.FileName, hdr.QualName)
	if q.Text == hdr.QualName.Text {
		return in, next
	}
	return syntax.WithQualifiedName(in, q), next
}

// Batch deduplicates inputs in order.
func Batch(names Names, inputs []syntax.ParsedInput) ([]syntax.ParsedInput, Names) {
	out := make([]syntax.ParsedInput, len(inputs))
	for i, in := range inputs {
		out[i], names = Input(names, in)
	}
	return out, names
}

// Package resolve locates the targets of `#r` / `#i` directives and command
// line references, and keeps the table of imported modules the first file is
// checked against.
package resolve

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fsfront/internal/config"
	"fsfront/internal/directive"
)

// PackagePrefix marks a package-manager reference.
const PackagePrefix = "nuget:"

var (
	ErrEmptyPath = errors.New("empty reference path")
	ErrNotFound  = errors.New("reference not found")
)

type Request struct {
	Path         string
	Kind         directive.Kind
	SourceDir    string
	IncludePaths []string
}

// Resolver searches the file system. Stat is replaceable in tests.
type Resolver struct {
	Stat func(path string) (os.FileInfo, error)
}

func New() *Resolver {
	return &Resolver{Stat: os.Stat}
}

// Resolve maps a request to a reference. Package references never touch
// the file system; file references are tried as given, against the source
// directory, then along the include paths.
func (r *Resolver) Resolve(req Request) (config.Reference, error) {
	path := strings.TrimSpace(req.Path)
	if path == "" {
		return config.Reference{}, ErrEmptyPath
	}
	if pkg, ok := strings.CutPrefix(path, PackagePrefix); ok {
		pkg = strings.TrimSpace(pkg)
		if pkg == "" {
			return config.Reference{}, fmt.Errorf("%w: missing package name", ErrEmptyPath)
		}
		return config.Reference{Path: PackagePrefix + " " + pkg, Package: true}, nil
	}
	if req.Kind == directive.KindInclude {
		// `#i` names a package source, it is recorded verbatim.
		return config.Reference{Path: path, Package: true}, nil
	}
	for _, cand := range r.candidates(path, req) {
		if r.exists(cand) {
			return config.Reference{Path: cand}, nil
		}
	}
	return config.Reference{}, fmt.Errorf("%w: %s", ErrNotFound, path)
}

// ResolveReference adapts Resolve to the directive fold.
func (r *Resolver) ResolveReference(path string, kind directive.Kind, sourceDir string, includePaths []string) (config.Reference, error) {
	return r.Resolve(Request{Path: path, Kind: kind, SourceDir: sourceDir, IncludePaths: includePaths})
}

func (r *Resolver) candidates(path string, req Request) []string {
	if filepath.IsAbs(path) {
		return []string{filepath.Clean(path)}
	}
	out := make([]string, 0, len(req.IncludePaths)+2)
	if req.SourceDir != "" {
		out = append(out, filepath.Join(req.SourceDir, path))
	} else {
		out = append(out, filepath.Clean(path))
	}
	for _, dir := range req.IncludePaths {
		out = append(out, filepath.Join(dir, path))
	}
	return out
}

func (r *Resolver) exists(path string) bool {
	stat := r.Stat
	if stat == nil {
		stat = os.Stat
	}
	info, err := stat(path)
	return err == nil && !info.IsDir()
}

// Package config holds compiler settings: a mutable Builder that command
// line, manifest and hash directives write into, and the frozen Config the
// pipeline reads.
package config

import (
	"fmt"
	"path/filepath"
	"slices"

	"fsfront/internal/diag"
	"fsfront/internal/source"
)

type Target uint8

const (
	TargetLibrary Target = iota
	TargetExe
)

func (t Target) String() string {
	if t == TargetExe {
		return "exe"
	}
	return "library"
}

// ParseTarget accepts "exe" and "library".
func ParseTarget(s string) (Target, error) {
	switch s {
	case "exe":
		return TargetExe, nil
	case "library", "lib", "":
		return TargetLibrary, nil
	}
	return TargetLibrary, fmt.Errorf("unknown target %q (want exe or library)", s)
}

// Reference is an assembly or package reference added by `#r`, `#i` or the
// command line.
type Reference struct {
	Path    string
	Package bool
	Span    source.Span
}

// LoadedSource is a file pulled in by `#load`.
type LoadedSource struct {
	Path string
	Span source.Span
}

// Builder is mutable; the directive fold and the CLI write into it.
type Builder struct {
	IncludePaths        []string
	References          []Reference
	NoWarn              diag.CodeSet
	WarnAsError         diag.CodeSet
	AllWarnAsError      bool
	Defines             []string
	Target              Target
	DefaultNamespace    string
	ConcurrentBuild     bool
	Jobs                int
	MaxErrors           int
	SkipImplIfSigExists bool
	SimulateFault       FaultKind
	LoadedSources       []LoadedSource
	CcuName             string
}

func NewBuilder() *Builder {
	return &Builder{
		NoWarn:      diag.NewCodeSet(),
		WarnAsError: diag.NewCodeSet(),
		CcuName:     "Program",
	}
}

// TurnWarningOff disables a warning by its textual number. Invalid numbers
// produce FS0203 and leave the builder unchanged.
func (b *Builder) TurnWarningOff(sp source.Span, text string, rep diag.Reporter) {
	code, ok := diag.ParseCode(text)
	if !ok {
		if rep != nil {
			diag.ReportWarning(rep, diag.BuildInvalidWarningNumber, sp,
				fmt.Sprintf("Invalid warning number '%s'", text)).Emit()
		}
		return
	}
	if b.NoWarn == nil {
		b.NoWarn = diag.NewCodeSet()
	}
	b.NoWarn.Add(code)
}

// AddIncludePath records dir resolved against includedFrom.
func (b *Builder) AddIncludePath(dir, includedFrom string) {
	if !filepath.IsAbs(dir) && includedFrom != "" {
		dir = filepath.Join(includedFrom, dir)
	}
	dir = filepath.Clean(dir)
	if !slices.Contains(b.IncludePaths, dir) {
		b.IncludePaths = append(b.IncludePaths, dir)
	}
}

// AddReference records a reference unless the same path is already present.
func (b *Builder) AddReference(ref Reference) {
	for _, r := range b.References {
		if r.Path == ref.Path && r.Package == ref.Package {
			return
		}
	}
	b.References = append(b.References, ref)
}

// AddLoadedSource records a `#load` target resolved against loadedFrom.
func (b *Builder) AddLoadedSource(sp source.Span, path, loadedFrom string) {
	if !filepath.IsAbs(path) && loadedFrom != "" {
		path = filepath.Join(loadedFrom, path)
	}
	b.LoadedSources = append(b.LoadedSources, LoadedSource{Path: filepath.Clean(path), Span: sp})
}

func (b *Builder) AddDefine(sym string) {
	if !slices.Contains(b.Defines, sym) {
		b.Defines = append(b.Defines, sym)
	}
}

// Freeze takes an independent snapshot.
func (b *Builder) Freeze() Config {
	return Config{b: b.clone()}
}

func (b *Builder) clone() Builder {
	cp := *b
	cp.IncludePaths = slices.Clone(b.IncludePaths)
	cp.References = slices.Clone(b.References)
	cp.NoWarn = b.NoWarn.Clone()
	cp.WarnAsError = b.WarnAsError.Clone()
	cp.Defines = slices.Clone(b.Defines)
	cp.LoadedSources = slices.Clone(b.LoadedSources)
	return cp
}

// Config is an immutable snapshot of a Builder.
type Config struct {
	b Builder
}

// ToBuilder returns a mutable copy.
func (c Config) ToBuilder() *Builder {
	cp := c.b.clone()
	return &cp
}

func (c Config) IncludePaths() []string        { return slices.Clone(c.b.IncludePaths) }
func (c Config) References() []Reference       { return slices.Clone(c.b.References) }
func (c Config) Defines() []string             { return slices.Clone(c.b.Defines) }
func (c Config) LoadedSources() []LoadedSource { return slices.Clone(c.b.LoadedSources) }
func (c Config) Target() Target                { return c.b.Target }
func (c Config) IsExe() bool                   { return c.b.Target == TargetExe }
func (c Config) DefaultNamespace() string      { return c.b.DefaultNamespace }
func (c Config) ConcurrentBuild() bool         { return c.b.ConcurrentBuild }
func (c Config) MaxErrors() int                { return c.b.MaxErrors }
func (c Config) SkipImplIfSigExists() bool     { return c.b.SkipImplIfSigExists }
func (c Config) SimulateFault() FaultKind      { return c.b.SimulateFault }
func (c Config) CcuName() string               { return c.b.CcuName }

// Jobs is the parallel parse limit; 0 means GOMAXPROCS.
func (c Config) Jobs() int { return c.b.Jobs }

func (c Config) IsWarningOff(code diag.Code) bool { return c.b.NoWarn.Has(code) }

// WarningOptions exposes the warning switches for diag.FilterReporter.
func (c Config) WarningOptions() diag.WarningOptions {
	return diag.WarningOptions{
		NoWarn:         c.b.NoWarn.Clone(),
		WarnAsError:    c.b.WarnAsError.Clone(),
		AllWarnAsError: c.b.AllWarnAsError,
	}
}

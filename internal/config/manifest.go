package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"

	"fsfront/internal/diag"
	"fsfront/internal/source"
)

// ManifestName is the project file looked up from the working directory up.
const ManifestName = "fsfront.toml"

// diagnostics about manifest values have no position inside a source file
var manifestSpan = source.StartupSpan

// Manifest is a decoded fsfront.toml.
type Manifest struct {
	Path   string
	Root   string
	Config manifestConfig
	meta   toml.MetaData
}

type manifestConfig struct {
	Project projectSection `toml:"project"`
	Compile compileSection `toml:"compile"`
}

type projectSection struct {
	Name             string   `toml:"name"`
	Target           string   `toml:"target"`
	DefaultNamespace string   `toml:"default_namespace"`
	Sources          []string `toml:"sources"`
}

type compileSection struct {
	Defines         []string `toml:"defines"`
	NoWarn          []string `toml:"nowarn"`
	WarnAsError     []string `toml:"warn_as_error"`
	ConcurrentBuild bool     `toml:"concurrent_build"`
	Jobs            int      `toml:"jobs"`
	MaxErrors       int      `toml:"max_errors"`
	Include         []string `toml:"include"`
	References      []string `toml:"references"`
	SkipImplIfSig   bool     `toml:"skip_impl_if_sig"`
}

// FindManifest walks from startDir to the filesystem root.
func FindManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest decodes and validates path.
func LoadManifest(path string) (*Manifest, error) {
	var cfg manifestConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("project") {
		return nil, fmt.Errorf("%s: missing [project]", path)
	}
	if !meta.IsDefined("project", "name") || strings.TrimSpace(cfg.Project.Name) == "" {
		return nil, fmt.Errorf("%s: missing [project].name", path)
	}
	if !meta.IsDefined("project", "sources") || len(cfg.Project.Sources) == 0 {
		return nil, fmt.Errorf("%s: missing [project].sources", path)
	}
	if _, err := ParseTarget(cfg.Project.Target); err != nil {
		return nil, fmt.Errorf("%s: [project].target: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
		meta:   meta,
	}, nil
}

// Apply writes the manifest settings into b. Keys missing from the file
// leave b untouched, so defaults and earlier layers survive.
func (m *Manifest) Apply(b *Builder, rep diag.Reporter) {
	p, c := m.Config.Project, m.Config.Compile
	b.CcuName = p.Name
	if m.meta.IsDefined("project", "target") {
		b.Target, _ = ParseTarget(p.Target)
	}
	if m.meta.IsDefined("project", "default_namespace") {
		b.DefaultNamespace = p.DefaultNamespace
	}
	for _, d := range c.Defines {
		b.AddDefine(d)
	}
	for _, w := range c.NoWarn {
		b.TurnWarningOff(manifestSpan, w, rep)
	}
	for _, w := range c.WarnAsError {
		if code, ok := diag.ParseCode(w); ok {
			b.WarnAsError.Add(code)
		}
	}
	if m.meta.IsDefined("compile", "concurrent_build") {
		b.ConcurrentBuild = c.ConcurrentBuild
	}
	if m.meta.IsDefined("compile", "jobs") {
		b.Jobs = c.Jobs
	}
	if m.meta.IsDefined("compile", "max_errors") {
		b.MaxErrors = c.MaxErrors
	}
	if m.meta.IsDefined("compile", "skip_impl_if_sig") {
		b.SkipImplIfSigExists = c.SkipImplIfSig
	}
	for _, inc := range c.Include {
		b.AddIncludePath(inc, m.Root)
	}
	for _, ref := range c.References {
		b.AddReference(Reference{Path: ref, Package: strings.HasPrefix(ref, "nuget:"), Span: manifestSpan})
	}
}

// Sources expands [project].sources relative to the manifest root.
func (m *Manifest) Sources() ([]string, error) {
	return ExpandSources(m.Root, m.Config.Project.Sources)
}

// ExpandSources resolves patterns under root. Compilation order matters:
// patterns keep their order, matches of one pattern are sorted, and a file
// matched twice keeps its first position. Patterns without wildcards are
// kept verbatim even if the file does not exist, so the driver reports it.
func ExpandSources(root string, patterns []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(rel string) {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if !seen[full] {
			seen[full] = true
			out = append(out, full)
		}
	}

	var files []string
	walked := false
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		if !strings.ContainsAny(pattern, "*?[{") {
			add(pattern)
			continue
		}
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid source pattern %q: %w", pattern, err)
		}
		if !walked {
			files, err = listFiles(root)
			if err != nil {
				return nil, err
			}
			walked = true
		}
		var matched []string
		for _, rel := range files {
			if g.Match(rel) {
				matched = append(matched, rel)
			}
		}
		slices.Sort(matched)
		for _, rel := range matched {
			add(rel)
		}
	}
	return out, nil
}

func listFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sources under %s: %w", root, err)
	}
	return files, nil
}

package buildpipeline

import (
	"path/filepath"
	"strings"
)

// DisplayName renders path relative to baseDir with forward slashes, the
// form progress events and the UI use as file keys.
func DisplayName(path, baseDir string) string {
	if path == "" {
		return ""
	}
	p := filepath.Clean(path)
	base := strings.TrimSpace(baseDir)
	if base != "" {
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		if rel, err := filepath.Rel(base, p); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
			p = rel
		}
	}
	return filepath.ToSlash(p)
}

// DisplayNames maps paths through DisplayName keeping compilation order and
// dropping duplicates.
func DisplayNames(files []string, baseDir string) []string {
	out := make([]string, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		name := DisplayName(f, baseDir)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Package manifest resolves the input files of a project.
package manifest

import (
	"fmt"
	"path/filepath"
	"strings"

	"easyconfig/configsource"
)

// Expand resolves patterns relative to dir, in order. Glob patterns
// contribute their matches sorted by name; a plain path is kept even if
// the file does not exist yet. Duplicates keep their first position.
// Returned paths are relative to dir and use forward slashes.
func Expand(dir string, patterns []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)

	add := func(p string) {
		p = filepath.ToSlash(filepath.Clean(p))
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if filepath.IsAbs(pattern) {
			return nil, fmt.Errorf("input %q must be relative to the project directory", pattern)
		}

		if !hasMeta(pattern) {
			add(pattern)
			continue
		}

		matches, err := filepath.Glob(filepath.Join(dir, filepath.FromSlash(pattern)))
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", pattern, err)
		}
		for _, m := range matches {
			rel, err := filepath.Rel(dir, m)
			if err != nil {
				return nil, fmt.Errorf("input %q: %w", pattern, err)
			}
			add(rel)
		}
	}

	return out, nil
}

// Filter keeps the paths with a supported configuration extension.
func Filter(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if configsource.Supported(p) {
			out = append(out, p)
		}
	}
	return out
}

// Runtime drops the paths that contain marker, case-insensitively. Such files
// still shape the schema but are not loaded by the generated Load. An
// empty marker keeps every path.
func Runtime(paths []string, marker string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if marker != "" && strings.Contains(strings.ToLower(p), strings.ToLower(marker)) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, `*?[`)
}

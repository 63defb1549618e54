package fsutil

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// GlobSet matches paths relative to the working directory against ignore
// or include patterns. "**" crosses directory boundaries and "*" does not.
// A pattern without a slash matches at any depth, and a path matches when
// it or any of its parent directories does.
type GlobSet struct {
	patterns []string
	globs    []glob.Glob
}

// CompileGlobs compiles patterns into a GlobSet.
func CompileGlobs(patterns []string) (GlobSet, error) {
	set := GlobSet{patterns: patterns}
	for _, pattern := range patterns {
		for _, variant := range globVariants(pattern) {
			g, err := glob.Compile(variant, '/')
			if err != nil {
				return GlobSet{}, fmt.Errorf("invalid glob %q: %w", pattern, err)
			}
			set.globs = append(set.globs, g)
		}
	}
	return set, nil
}

// globVariants expands pattern into the forms it should match: "dir/**"
// also matches dir itself, "**/x" also matches x at the top level, and a
// bare name matches in any directory.
func globVariants(pattern string) []string {
	p := strings.TrimPrefix(filepath.ToSlash(pattern), "./")
	variants := []string{p}

	switch {
	case strings.HasSuffix(p, "/**"):
		variants = append(variants, strings.TrimSuffix(p, "/**"))
	case strings.HasPrefix(p, "**/"):
		variants = append(variants, strings.TrimPrefix(p, "**/"))
	case !strings.Contains(p, "/"):
		variants = append(variants, "**/"+p)
	}
	return variants
}

// Empty reports whether the set has no patterns.
func (s GlobSet) Empty() bool {
	return len(s.globs) == 0
}

// Match reports whether rel or one of its parent directories matches.
func (s GlobSet) Match(rel string) bool {
	if s.Empty() {
		return false
	}
	for p := filepath.ToSlash(rel); p != "." && p != "/" && p != ""; p = path.Dir(p) {
		for _, g := range s.globs {
			if g.Match(p) {
				return true
			}
		}
	}
	return false
}

func (s GlobSet) String() string {
	return strings.Join(s.patterns, ", ")
}

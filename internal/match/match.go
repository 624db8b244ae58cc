// Package match provides the one glob matcher shared by skip patterns,
// compat patterns and always-include names, so all pattern families behave
// consistently: `*` stops at directory boundaries, `**` crosses them, and a
// pattern with N components matches the trailing N components of a path.
package match

import (
	"strings"

	"github.com/gobwas/glob"

	"cxxconv/internal/errors"
	"cxxconv/internal/util"
)

type pathPattern struct {
	raw      string
	depth    int
	anywhere bool // contains **: match the whole path only
	g        glob.Glob
}

// PathMatcher matches relative slash-separated paths against a fixed pattern set.
type PathMatcher struct {
	patterns []pathPattern
}

// CompilePaths compiles the pattern list. Invalid patterns are a ConfigError.
func CompilePaths(patterns []string) (*PathMatcher, error) {
	m := &PathMatcher{patterns: make([]pathPattern, 0, len(patterns))}
	for _, raw := range patterns {
		p := util.NormalizePatternPath(raw)
		if p == "" {
			continue
		}
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeConfig, "invalid pattern "+raw)
		}
		m.patterns = append(m.patterns, pathPattern{
			raw:      p,
			depth:    strings.Count(p, "/") + 1,
			anywhere: strings.Contains(p, "**"),
			g:        g,
		})
	}
	return m, nil
}

// Match reports whether any pattern matches the path. Patterns without `**`
// are right-anchored: they match against the path's trailing components.
func (m *PathMatcher) Match(relPath string) bool {
	if m == nil || len(m.patterns) == 0 {
		return false
	}
	p := util.NormalizePatternPath(relPath)
	if p == "" {
		return false
	}
	comps := strings.Split(p, "/")
	for _, pat := range m.patterns {
		if pat.anywhere {
			if pat.g.Match(p) {
				return true
			}
			continue
		}
		if pat.depth > len(comps) {
			continue
		}
		tail := strings.Join(comps[len(comps)-pat.depth:], "/")
		if pat.g.Match(tail) {
			return true
		}
	}
	return false
}

// Empty reports whether the matcher holds no patterns.
func (m *PathMatcher) Empty() bool {
	return m == nil || len(m.patterns) == 0
}

// Name matches bare names (module names, file base names) where `*` matches
// anything including separators.
type Name struct {
	raw string
	g   glob.Glob
}

// CompileName compiles a single name pattern with no separator semantics.
func CompileName(pattern string) (Name, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return Name{}, errors.Wrap(err, errors.CodeConfig, "invalid pattern "+pattern)
	}
	return Name{raw: pattern, g: g}, nil
}

func (n Name) Match(s string) bool {
	return n.g != nil && n.g.Match(s)
}

func (n Name) String() string { return n.raw }

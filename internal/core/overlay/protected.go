package overlay

import (
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultProtected are user-owned prefixes that are never written.
var DefaultProtected = []string{"specs/", ".git/"}

// ProtectedPathSet decides which project-relative paths the engine may
// touch. A path is excluded when it falls under a protected prefix or
// outside every tool-owned root.
type ProtectedPathSet struct {
	prefixes []string
	roots    []string
}

// NewProtectedPathSet builds a set from the tool-owned roots and extra
// protected prefixes. DefaultProtected is always included.
func NewProtectedPathSet(roots []string, prefixes ...string) *ProtectedPathSet {
	s := &ProtectedPathSet{}
	for _, p := range append(append([]string{}, DefaultProtected...), prefixes...) {
		if p = normalize(p); p != "" {
			s.prefixes = append(s.prefixes, p)
		}
	}
	for _, r := range roots {
		if r = normalize(r); r != "" {
			s.roots = append(s.roots, r)
		}
	}
	sort.Strings(s.prefixes)
	sort.Strings(s.roots)
	return s
}

func normalize(p string) string {
	p = path.Clean(filepath.ToSlash(strings.TrimSpace(p)))
	if p == "." || p == "/" {
		return ""
	}
	return strings.TrimPrefix(p, "./")
}

// within reports whether p is dir or lies below it.
func within(p, dir string) bool {
	return p == dir || strings.HasPrefix(p, dir+"/")
}

// Excludes reports whether p must stay invisible to planning and applying.
func (s *ProtectedPathSet) Excludes(p string) bool {
	if !filepath.IsLocal(filepath.FromSlash(p)) {
		return true
	}
	p = path.Clean(p)
	for _, pre := range s.prefixes {
		if within(p, pre) {
			return true
		}
	}
	_, owned := s.Root(p)
	return !owned
}

// Root returns the innermost tool-owned root containing p.
func (s *ProtectedPathSet) Root(p string) (string, bool) {
	p = path.Clean(p)
	best := ""
	for _, r := range s.roots {
		if within(p, r) && len(r) > len(best) {
			best = r
		}
	}
	return best, best != ""
}

// Roots returns the tool-owned roots, sorted.
func (s *ProtectedPathSet) Roots() []string {
	return append([]string(nil), s.roots...)
}

// Prefixes returns the protected prefixes, sorted.
func (s *ProtectedPathSet) Prefixes() []string {
	return append([]string(nil), s.prefixes...)
}

package workdir

import (
	"fmt"
	"path"
	"strings"
)

// ExcludeMatcher matches slash-separated relative paths against a list of
// glob patterns. A pattern matches the full path, any path segment suffix
// when prefixed with "**/", or a whole directory subtree when it ends with
// "/".
type ExcludeMatcher struct {
	patterns []string
}

// NewExcludeMatcher validates the patterns and builds a matcher. Empty
// pattern lists are fine; the matcher then never matches.
func NewExcludeMatcher(patterns ...string) (*ExcludeMatcher, error) {
	cleaned := make([]string, 0, len(patterns))
	for _, raw := range patterns {
		pattern := strings.TrimSpace(raw)
		if pattern == "" {
			continue
		}
		probe := strings.TrimPrefix(pattern, "**/")
		probe = strings.TrimSuffix(probe, "/")
		if _, err := path.Match(probe, "probe"); err != nil {
			return nil, fmt.Errorf("workdir: exclude pattern %q: %w", raw, err)
		}
		cleaned = append(cleaned, pattern)
	}
	return &ExcludeMatcher{patterns: cleaned}, nil
}

// Match reports whether the path is excluded.
func (m *ExcludeMatcher) Match(rel string) bool {
	if m == nil || len(m.patterns) == 0 {
		return false
	}
	candidate := path.Clean(strings.TrimSpace(rel))
	if candidate == "" || candidate == "." {
		return false
	}

	for _, pattern := range m.patterns {
		if matchOne(pattern, candidate) {
			return true
		}
	}
	return false
}

// Patterns returns the cleaned pattern list.
func (m *ExcludeMatcher) Patterns() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.patterns...)
}

func matchOne(pattern, candidate string) bool {
	// Directory patterns exclude the whole subtree.
	if strings.HasSuffix(pattern, "/") {
		prefix := strings.TrimSuffix(pattern, "/")
		return candidate == prefix || strings.HasPrefix(candidate, prefix+"/")
	}

	if strings.HasPrefix(pattern, "**/") {
		base := strings.TrimPrefix(pattern, "**/")
		if ok, _ := path.Match(base, path.Base(candidate)); ok {
			return true
		}
		return false
	}

	ok, _ := path.Match(pattern, candidate)
	return ok
}

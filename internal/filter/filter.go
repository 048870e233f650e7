// Package filter restricts the staged change set to the files that get formatted.
package filter

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/bebsworthy/stagefmt/internal/debug"
	"github.com/bebsworthy/stagefmt/internal/git"
)

// Matcher matches repository relative paths against glob patterns
type Matcher struct {
	patterns []string
}

// NewMatcher validates patterns and returns a Matcher over them. Patterns
// use doublestar syntax, so "**" is needed to cross directories.
func NewMatcher(patterns []string) (*Matcher, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("at least one pattern is required")
	}

	normalized := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = filepath.ToSlash(p)
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid pattern %q", p)
		}
		normalized = append(normalized, p)
	}

	return &Matcher{patterns: normalized}, nil
}

// Patterns returns the patterns in use
func (m *Matcher) Patterns() []string {
	return append([]string(nil), m.patterns...)
}

// Match reports whether path matches at least one pattern
func (m *Matcher) Match(path string) bool {
	path = filepath.ToSlash(path)
	for _, pattern := range m.patterns {
		if doublestar.MatchUnvalidated(pattern, path) {
			return true
		}
	}
	return false
}

// Filter keeps the entries whose path matches, preserving order
func (m *Matcher) Filter(entries []git.ChangeSetEntry) []git.ChangeSetEntry {
	debug.LogSection("File Filtering")

	var out []git.ChangeSetEntry
	for _, e := range entries {
		matched := m.Match(e.Path)
		debug.LogMatch(e.Path, matched)
		if matched {
			out = append(out, e)
		}
	}

	debug.Log("%d of %d staged files eligible", len(out), len(entries))
	return out
}

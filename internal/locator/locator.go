// Package locator finds a clang-format executable on the search path that is
// recent enough to use.
package locator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/bebsworthy/stagefmt/internal/debug"
	"github.com/bebsworthy/stagefmt/internal/executor"
)

var (
	// ErrNotFound indicates no candidate on the search path qualified
	ErrNotFound = errors.New("clang-format executable not found")

	// ErrTooOld indicates an explicitly chosen executable is below the minimum version
	ErrTooOld = errors.New("clang-format executable too old")

	// ErrNoVersion indicates --version output carried no version number
	ErrNoVersion = errors.New("no version number in output")
)

var (
	afterKeyword = regexp.MustCompile(`(?i)\bversion\s+v?(\d+(?:\.\d+){0,2})`)
	firstNumber  = regexp.MustCompile(`\d+(?:\.\d+){0,2}`)
)

// Candidate is an executable that answered a version probe
type Candidate struct {
	Path         string
	MajorVersion int
}

// Locator searches directories for a formatter executable
type Locator struct {
	searchPath []string
	pattern    *regexp.Regexp
	minMajor   int
	runner     executor.Runner
}

// New creates a Locator over searchPath. Executable names must match pattern
// and report a major version of at least minMajor.
func New(searchPath []string, pattern *regexp.Regexp, minMajor int, runner executor.Runner) *Locator {
	return &Locator{
		searchPath: searchPath,
		pattern:    pattern,
		minMajor:   minMajor,
		runner:     runner,
	}
}

// MinMajorVersion returns the minimum accepted major version
func (l *Locator) MinMajorVersion() int {
	return l.minMajor
}

// Candidates yields every executable regular file whose name matches the
// pattern, directory by directory in search path order and in directory
// listing order within each. Unreadable directories are skipped.
func (l *Locator) Candidates() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, dir := range l.searchPath {
			entries, err := os.ReadDir(dir)
			if err != nil {
				debug.Log("Skipping search directory %s: %v", dir, err)
				continue
			}
			for _, entry := range entries {
				if !l.pattern.MatchString(entry.Name()) {
					continue
				}
				path := filepath.Join(dir, entry.Name())
				if !isExecutable(path) {
					debug.Log("Skipping %s: not an executable file", path)
					continue
				}
				if !yield(path) {
					return
				}
			}
		}
	}
}

// Probe runs path --version and parses the major version from its output
func (l *Locator) Probe(ctx context.Context, path string) (Candidate, error) {
	out, err := executor.Output(ctx, l.runner, path, []string{"--version"}, executor.ExecOptions{InheritEnv: true})
	if err != nil {
		return Candidate{}, err
	}

	major, err := ParseMajorVersion(string(out))
	if err != nil {
		return Candidate{}, fmt.Errorf("parse version of %s: %w", path, err)
	}

	return Candidate{Path: path, MajorVersion: major}, nil
}

// Find probes candidates in order and returns the first one whose major
// version meets the minimum. Candidates that cannot be probed are skipped.
// The search stops at the first match.
func (l *Locator) Find(ctx context.Context) (Candidate, error) {
	debug.LogSection("Formatter Search")

	for path := range l.Candidates() {
		if err := ctx.Err(); err != nil {
			return Candidate{}, err
		}

		c, err := l.Probe(ctx, path)
		if err != nil && ctx.Err() != nil {
			return Candidate{}, ctx.Err()
		}
		debug.LogProbe(path, c.MajorVersion, err)
		if err != nil {
			continue
		}

		if c.MajorVersion >= l.minMajor {
			debug.Log("Using %s", c.Path)
			return c, nil
		}
	}

	return Candidate{}, fmt.Errorf("%w (minimum major version %d)", ErrNotFound, l.minMajor)
}

// Check probes an explicitly configured executable and rejects it when it
// is below the minimum version
func (l *Locator) Check(ctx context.Context, path string) (Candidate, error) {
	if !strings.ContainsRune(path, filepath.Separator) {
		// Bare names are resolved against the search path like a shell would
		path = l.lookPath(path)
	}

	c, err := l.Probe(ctx, path)
	debug.LogProbe(path, c.MajorVersion, err)
	if err != nil {
		return Candidate{}, fmt.Errorf("probe %s: %w", path, err)
	}

	if c.MajorVersion < l.minMajor {
		return Candidate{}, fmt.Errorf("%w: %s reports major version %d, need at least %d",
			ErrTooOld, path, c.MajorVersion, l.minMajor)
	}

	return c, nil
}

func (l *Locator) lookPath(name string) string {
	for _, dir := range l.searchPath {
		if candidate := filepath.Join(dir, name); isExecutable(candidate) {
			return candidate
		}
	}
	return name
}

// ParseMajorVersion extracts the major version from --version output. The
// number following the word "version" is preferred; otherwise the first
// numeric token is used.
func ParseMajorVersion(output string) (int, error) {
	token := ""
	if m := afterKeyword.FindStringSubmatch(output); m != nil {
		token = m[1]
	} else if m := firstNumber.FindString(output); m != "" {
		token = m
	}
	if token == "" {
		return 0, ErrNoVersion
	}

	v, err := semver.NewVersion(token)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", token, err)
	}

	return int(v.Major()), nil //nolint:gosec // major versions are small
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}

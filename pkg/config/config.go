// Package config provides the core configuration types and validation logic for stagefmt.
package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// DefaultExecutablePattern matches clang-format and its versioned aliases
	DefaultExecutablePattern = `^clang-format(-\d+)?$`

	// DefaultMinMajorVersion is the oldest clang-format release accepted
	DefaultMinMajorVersion = 14

	// DefaultPatchStrip is the prefix depth removed by patch when applying diffs
	DefaultPatchStrip = 1
)

// ColorMode controls colourised diff output
type ColorMode string

const (
	// ColorAuto colours output only when stdout is a terminal
	ColorAuto ColorMode = "auto"
	// ColorAlways always colours output
	ColorAlways ColorMode = "always"
	// ColorNever never colours output
	ColorNever ColorMode = "never"
)

// DefaultPatterns lists the staged paths that get formatted. Keep it in sync
// with the list of format-checked files in CI.
var DefaultPatterns = []string{
	"src/**/*.h",
	"src/**/*.c",
	"src/**/*.cpp",
}

// Config represents the main configuration structure for stagefmt
type Config struct {
	Formatter   FormatterConfig
	Patterns    []string
	DryRun      bool
	Interactive bool
	Debug       bool
	Color       ColorMode
	PatchStrip  int
}

// FormatterConfig describes how the formatter is located and invoked
type FormatterConfig struct {
	// Pattern is the regular expression executable names must match
	Pattern string
	// MinMajorVersion is the smallest acceptable major version
	MinMajorVersion int
	// Path skips the search when set
	Path string
	// Args are passed to the formatter on every invocation
	Args []string
	// Timeout bounds each subprocess. Zero means no timeout.
	Timeout time.Duration
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Formatter: FormatterConfig{
			Pattern:         DefaultExecutablePattern,
			MinMajorVersion: DefaultMinMajorVersion,
			Args:            []string{"-Werror", "--style=file"},
		},
		Patterns:   append([]string(nil), DefaultPatterns...),
		Color:      ColorAuto,
		PatchStrip: DefaultPatchStrip,
	}
}

// Validate performs validation on the Config
func (c *Config) Validate() error {
	if err := c.Formatter.Validate(); err != nil {
		return fmt.Errorf("formatter: %w", err)
	}

	if len(c.Patterns) == 0 {
		return fmt.Errorf("at least one file pattern is required")
	}

	for i, pattern := range c.Patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("file pattern %d: invalid glob %q", i, pattern)
		}
	}

	if err := c.Color.Validate(); err != nil {
		return err
	}

	if c.PatchStrip < 0 {
		return fmt.Errorf("patch strip depth must be non-negative")
	}

	if c.Interactive && c.DryRun {
		return fmt.Errorf("interactive mode cannot be combined with dry run")
	}

	return nil
}

// Validate performs validation on the FormatterConfig
func (f *FormatterConfig) Validate() error {
	if f.Path == "" {
		if f.Pattern == "" {
			return fmt.Errorf("executable pattern is required")
		}
		if _, err := f.CompilePattern(); err != nil {
			return fmt.Errorf("invalid executable pattern: %w", err)
		}
	}

	if f.MinMajorVersion < 0 {
		return fmt.Errorf("minimum version must be non-negative")
	}

	if f.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}

	return nil
}

// CompilePattern returns the compiled executable name pattern
func (f *FormatterConfig) CompilePattern() (*regexp.Regexp, error) {
	return regexp.Compile(f.Pattern)
}

// Validate checks the colour mode is one of the known values
func (m ColorMode) Validate() error {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return nil
	}
	return fmt.Errorf("invalid color mode %q: must be auto, always or never", string(m))
}

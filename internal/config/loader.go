// Package config loads stagefmt's runtime configuration from the environment.
package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bebsworthy/stagefmt/internal/debug"
	"github.com/bebsworthy/stagefmt/pkg/config"
)

const (
	// FormatterEnvVar names an explicit formatter executable
	FormatterEnvVar = "STAGEFMT_CLANG_FORMAT"

	// MinVersionEnvVar overrides the minimum formatter major version
	MinVersionEnvVar = "STAGEFMT_MIN_VERSION"

	// TimeoutEnvVar bounds each subprocess, as a Go duration
	TimeoutEnvVar = "STAGEFMT_TIMEOUT"

	// PathEnvVar is the executable search path
	PathEnvVar = "PATH"
)

// Loader builds a Config from defaults and environment overrides
type Loader struct {
	env EnvProvider
}

// NewLoader creates a new configuration loader reading from env
func NewLoader(env EnvProvider) *Loader {
	if env == nil {
		env = NewEnvProvider()
	}
	return &Loader{env: env}
}

// Load returns the default configuration with environment overrides applied.
// The result is not validated; callers apply flags first and then validate.
func (l *Loader) Load() (*config.Config, error) {
	debug.LogSection("Configuration Loading")

	cfg := config.Default()

	if path := strings.TrimSpace(l.env.Get(FormatterEnvVar)); path != "" {
		debug.Log("Formatter from %s: %s", FormatterEnvVar, path)
		cfg.Formatter.Path = path
	}

	if raw := strings.TrimSpace(l.env.Get(MinVersionEnvVar)); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", MinVersionEnvVar, raw, err)
		}
		debug.Log("Minimum version from %s: %d", MinVersionEnvVar, v)
		cfg.Formatter.MinMajorVersion = v
	}

	if raw := strings.TrimSpace(l.env.Get(TimeoutEnvVar)); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", TimeoutEnvVar, raw, err)
		}
		debug.Log("Timeout from %s: %s", TimeoutEnvVar, d)
		cfg.Formatter.Timeout = d
	}

	return cfg, nil
}

// SearchPath returns the directories listed in PATH, in order. Empty
// entries are dropped.
func (l *Loader) SearchPath() []string {
	var dirs []string
	for _, dir := range filepath.SplitList(l.env.Get(PathEnvVar)) {
		if dir == "" {
			continue
		}
		dirs = append(dirs, dir)
	}
	return dirs
}

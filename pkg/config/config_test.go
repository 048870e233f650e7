package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	if cfg.Formatter.MinMajorVersion != 14 {
		t.Errorf("expected minimum version 14, got %d", cfg.Formatter.MinMajorVersion)
	}
	if cfg.Color != ColorAuto {
		t.Errorf("expected auto colour, got %q", cfg.Color)
	}
	if cfg.PatchStrip != 1 {
		t.Errorf("expected patch strip 1, got %d", cfg.PatchStrip)
	}
	if strings.Join(cfg.Formatter.Args, " ") != "-Werror --style=file" {
		t.Errorf("unexpected formatter args %v", cfg.Formatter.Args)
	}

	// Patterns must be a copy so callers cannot change the defaults
	cfg.Patterns[0] = "changed"
	if DefaultPatterns[0] == "changed" {
		t.Error("Default() shares its pattern slice with DefaultPatterns")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "defaults",
			modify:  func(*Config) {},
			wantErr: false,
		},
		{
			name: "no patterns",
			modify: func(c *Config) {
				c.Patterns = nil
			},
			wantErr: true,
			errMsg:  "at least one file pattern is required",
		},
		{
			name: "invalid glob",
			modify: func(c *Config) {
				c.Patterns = []string{"src/[*.c"}
			},
			wantErr: true,
			errMsg:  "invalid glob",
		},
		{
			name: "invalid executable pattern",
			modify: func(c *Config) {
				c.Formatter.Pattern = "clang-format("
			},
			wantErr: true,
			errMsg:  "invalid executable pattern",
		},
		{
			name: "explicit path ignores pattern",
			modify: func(c *Config) {
				c.Formatter.Pattern = ""
				c.Formatter.Path = "/opt/llvm/bin/clang-format"
			},
			wantErr: false,
		},
		{
			name: "empty pattern without path",
			modify: func(c *Config) {
				c.Formatter.Pattern = ""
			},
			wantErr: true,
			errMsg:  "executable pattern is required",
		},
		{
			name: "negative minimum version",
			modify: func(c *Config) {
				c.Formatter.MinMajorVersion = -1
			},
			wantErr: true,
			errMsg:  "minimum version must be non-negative",
		},
		{
			name: "negative timeout",
			modify: func(c *Config) {
				c.Formatter.Timeout = -time.Second
			},
			wantErr: true,
			errMsg:  "timeout must be non-negative",
		},
		{
			name: "unknown colour mode",
			modify: func(c *Config) {
				c.Color = "sometimes"
			},
			wantErr: true,
			errMsg:  "invalid color mode",
		},
		{
			name: "negative strip",
			modify: func(c *Config) {
				c.PatchStrip = -1
			},
			wantErr: true,
			errMsg:  "patch strip depth",
		},
		{
			name: "interactive dry run",
			modify: func(c *Config) {
				c.DryRun = true
				c.Interactive = true
			},
			wantErr: true,
			errMsg:  "interactive mode cannot be combined with dry run",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() error = %v, want error containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestFormatterConfig_CompilePattern(t *testing.T) {
	f := Default().Formatter
	re, err := f.CompilePattern()
	if err != nil {
		t.Fatalf("CompilePattern() error = %v", err)
	}

	for name, want := range map[string]bool{
		"clang-format":        true,
		"clang-format-15":     true,
		"clang-format-diff":   false,
		"git-clang-format":    false,
		"clang-format-15.bak": false,
	} {
		if got := re.MatchString(name); got != want {
			t.Errorf("MatchString(%q) = %v, want %v", name, got, want)
		}
	}
}

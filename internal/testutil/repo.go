package testutil

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// Repo is a throwaway git repository rooted in a test temp dir.
type Repo struct {
	t   testing.TB
	Dir string
}

// NewRepo initialises an empty repository with a fixed identity. The test is
// skipped when git is not installed.
func NewRepo(t testing.TB) *Repo {
	t.Helper()
	RequireCommand(t, "git")

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to resolve temp dir: %v", err)
	}

	r := &Repo{t: t, Dir: dir}
	r.Git("init", "--quiet")
	r.Git("config", "user.email", "dev@example.com")
	r.Git("config", "user.name", "Dev")
	r.Git("config", "commit.gpgsign", "false")
	r.Git("config", "core.autocrlf", "false")
	return r
}

// Git runs git in the repository and returns its stdout. Any failure fails
// the test.
func (r *Repo) Git(args ...string) string {
	r.t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = gitTestEnv()
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		r.t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, stderr.String())
	}
	return stdout.String()
}

// WriteFile writes content to a path relative to the repository root,
// creating parent directories.
func (r *Repo) WriteFile(path, content string) {
	r.t.Helper()
	r.WriteFileMode(path, content, 0o644)
}

// WriteFileMode is WriteFile with an explicit permission.
func (r *Repo) WriteFileMode(path, content string, perm os.FileMode) {
	r.t.Helper()

	full := filepath.Join(r.Dir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		r.t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(full, []byte(content), perm); err != nil { //nolint:gosec // test fixture
		r.t.Fatalf("Failed to write %s: %v", path, err)
	}
	if err := os.Chmod(full, perm); err != nil {
		r.t.Fatalf("Failed to chmod %s: %v", path, err)
	}
}

// ReadFile returns the working tree content of path.
func (r *Repo) ReadFile(path string) string {
	r.t.Helper()

	data, err := os.ReadFile(filepath.Join(r.Dir, filepath.FromSlash(path))) // #nosec G304 - paths are controlled by tests
	if err != nil {
		r.t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// Stage adds paths to the index.
func (r *Repo) Stage(paths ...string) {
	r.t.Helper()
	r.Git(append([]string{"add", "--"}, paths...)...)
}

// Commit records the index with message.
func (r *Repo) Commit(message string) {
	r.t.Helper()
	r.Git("commit", "--quiet", "--no-verify", "-m", message)
}

// StagedContent returns the blob recorded in the index for path.
func (r *Repo) StagedContent(path string) string {
	r.t.Helper()
	return r.Git("show", ":"+path)
}

// IndexEntry returns the mode and object id staged for path.
func (r *Repo) IndexEntry(path string) (mode, oid string) {
	r.t.Helper()

	fields := strings.Fields(r.Git("ls-files", "-s", "--", path))
	if len(fields) < 2 {
		r.t.Fatalf("path %s is not in the index", path)
	}
	return fields[0], fields[1]
}

// UnstagedDiff returns the diff between the index and the working tree.
func (r *Repo) UnstagedDiff() string {
	r.t.Helper()
	return r.Git("diff")
}

// gitTestEnv isolates git from the user's global and system configuration.
func gitTestEnv() []string {
	env := make([]string, 0, len(os.Environ())+4)
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "GIT_") {
			continue
		}
		env = append(env, kv)
	}
	return append(env,
		"GIT_CONFIG_NOSYSTEM=1",
		"GIT_CONFIG_GLOBAL="+os.DevNull,
		"GIT_AUTHOR_DATE=2024-01-01T00:00:00Z",
		"GIT_COMMITTER_DATE=2024-01-01T00:00:00Z",
	)
}

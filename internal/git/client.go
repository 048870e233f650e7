// Package git reads and rewrites the staged side of a git repository through
// the git command line.
package git

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bebsworthy/stagefmt/internal/debug"
	"github.com/bebsworthy/stagefmt/internal/executor"
)

// Client runs git commands against one repository
type Client struct {
	runner executor.Runner
	dir    string

	rootOnce sync.Once
	root     string
	rootErr  error
}

// NewClient creates a Client for the repository containing dir
func NewClient(runner executor.Runner, dir string) *Client {
	return &Client{runner: runner, dir: dir}
}

// Root returns the top level directory of the working tree. It is resolved
// on first use and cached.
func (c *Client) Root(ctx context.Context) (string, error) {
	c.rootOnce.Do(func() {
		out, err := c.runIn(ctx, c.dir, nil, "rev-parse", "--show-toplevel")
		if err != nil {
			c.rootErr = fmt.Errorf("resolve repository root: %w", err)
			return
		}
		c.root = strings.TrimRight(string(out), "\r\n")
		debug.Log("Repository root: %s", c.root)
	})
	return c.root, c.rootErr
}

// Status returns every entry reported by git status, untracked files excluded
func (c *Client) Status(ctx context.Context) ([]StatusEntry, error) {
	out, err := c.run(ctx, nil, "status", "--porcelain=v2", "-z", "--untracked-files=no")
	if err != nil {
		return nil, fmt.Errorf("read status: %w", err)
	}
	return ParseStatus(out)
}

// StagedChanges returns the staged files that are candidates for formatting
func (c *Client) StagedChanges(ctx context.Context) ([]ChangeSetEntry, error) {
	entries, err := c.Status(ctx)
	if err != nil {
		return nil, err
	}
	return StagedChanges(entries), nil
}

// ShowStaged returns the content staged for path, byte for byte
func (c *Client) ShowStaged(ctx context.Context, path string) ([]byte, error) {
	out, err := c.run(ctx, nil, "show", ":"+path)
	if err != nil {
		return nil, fmt.Errorf("read staged %s: %w", path, err)
	}
	return out, nil
}

// HashObject writes content to the object store and returns its id
func (c *Client) HashObject(ctx context.Context, content []byte) (string, error) {
	if content == nil {
		content = []byte{}
	}
	out, err := c.run(ctx, content, "hash-object", "-w", "--stdin")
	if err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}
	oid := string(bytes.TrimSpace(out))
	if oid == "" {
		return "", fmt.Errorf("write object: git hash-object printed no object id")
	}
	return oid, nil
}

// UpdateIndex points the index entry for path at oid with the given mode
func (c *Client) UpdateIndex(ctx context.Context, mode, oid, path string) error {
	cacheinfo := fmt.Sprintf("%s,%s,%s", mode, oid, path)
	if _, err := c.run(ctx, nil, "update-index", "--add", "--cacheinfo", cacheinfo); err != nil {
		return fmt.Errorf("update index for %s: %w", path, err)
	}
	return nil
}

func (c *Client) run(ctx context.Context, stdin []byte, args ...string) ([]byte, error) {
	root, err := c.Root(ctx)
	if err != nil {
		return nil, err
	}
	return c.runIn(ctx, root, stdin, args...)
}

func (c *Client) runIn(ctx context.Context, dir string, stdin []byte, args ...string) ([]byte, error) {
	return executor.Output(ctx, c.runner, "git", args, executor.ExecOptions{
		WorkingDir: dir,
		InheritEnv: true,
		Stdin:      stdin,
	})
}

package repohandle

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Git implements Handle against the system git binary.
type Git struct {
	repoRoot string
	gitDir   string
}

var _ Handle = (*Git)(nil)

// Open resolves path to its containing repository and returns a Handle for
// it. path must be inside a git working copy (not bare).
func Open(path string) (*Git, error) {
	g := &Git{}
	if err := g.detect(path); err != nil {
		return nil, err
	}
	return g, nil
}

// Init creates a new repository at path (used by tests and first-time
// bootstrap) and returns a Handle for it.
func Init(ctx context.Context, path string) (*Git, error) {
	if _, err := execContext(ctx, 0, path, "git", "init"); err != nil {
		return nil, fmt.Errorf("git init: %w", err)
	}
	return Open(path)
}

func (g *Git) detect(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	cmd := exec.Command("git", "rev-parse", "--git-dir", "--show-toplevel")
	cmd.Dir = absPath

	output, err := cmd.Output()
	if err != nil {
		return ErrNotInVCS
	}

	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(lines) < 2 {
		return fmt.Errorf("unexpected git rev-parse output: %q", string(output))
	}

	gitDir := strings.TrimSpace(lines[0])
	repoRoot := strings.TrimSpace(lines[1])

	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(absPath, gitDir)
	}

	g.gitDir = gitDir
	g.repoRoot = repoRoot
	return nil
}

// RepoRoot returns the working copy root.
func (g *Git) RepoRoot() string {
	return g.repoRoot
}

// HasHead reports whether the repository has at least one commit.
func (g *Git) HasHead() bool {
	cmd := exec.Command("git", "rev-parse", "--verify", "-q", "HEAD")
	cmd.Dir = g.repoRoot
	return cmd.Run() == nil
}

// HeadCommit returns the id HEAD points at.
func (g *Git) HeadCommit() (string, error) {
	if !g.HasHead() {
		return "", nil
	}
	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = g.repoRoot
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return trimOutput(out), nil
}

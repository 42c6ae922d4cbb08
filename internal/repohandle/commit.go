package repohandle

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Add stages paths for commit.
func (g *Git) Add(paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	args := append([]string{"add"}, paths...)
	if _, err := execSimple(g.repoRoot, "git", args...); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	return nil
}

// Rm removes paths from the working tree and the index.
func (g *Git) Rm(paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	args := append([]string{"rm", "-r", "--ignore-unmatch", "--"}, paths...)
	if _, err := execSimple(g.repoRoot, "git", args...); err != nil {
		return fmt.Errorf("rm: %w", err)
	}
	return nil
}

// Status reports working-tree/staging status, optionally scoped to paths.
func (g *Git) Status(paths ...string) ([]FileStatus, error) {
	args := append([]string{"status", "--porcelain"}, paths...)

	cmd := exec.Command("git", args...)
	cmd.Dir = g.repoRoot
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	var statuses []FileStatus
	for _, line := range parseLines(out) {
		if len(line) < 3 {
			continue
		}
		statuses = append(statuses, FileStatus{
			Path:       strings.TrimSpace(line[3:]),
			Status:     statusCode(line[1:2]),
			StagedCode: statusCode(line[0:1]),
		})
	}
	return statuses, nil
}

func statusCode(code string) StatusCode {
	switch code {
	case "M":
		return StatusModified
	case "A":
		return StatusAdded
	case "D":
		return StatusDeleted
	case "R":
		return StatusRenamed
	case "C":
		return StatusCopied
	case "?":
		return StatusUntracked
	case "!":
		return StatusIgnored
	case "U":
		return StatusConflict
	default:
		return StatusUnmodified
	}
}

// Commit creates a commit per opts. Returns false if nothing was committed.
func (g *Git) Commit(ctx context.Context, opts CommitOptions) (bool, error) {
	if opts.Message == "" {
		return false, fmt.Errorf("commit message is required")
	}

	if len(opts.Paths) > 0 {
		if err := g.Add(opts.Paths); err != nil {
			return false, err
		}
	}

	args := []string{"commit", "-m", opts.Message}
	if author := opts.Author.String(); author != "" {
		args = append(args, "--author", author)
	}
	if opts.AllowEmpty {
		args = append(args, "--allow-empty")
	}
	if len(opts.Paths) > 0 {
		args = append(args, "--")
		args = append(args, opts.Paths...)
	}

	out, err := execContext(ctx, 0, g.repoRoot, "git", args...)
	if err != nil {
		if !opts.AllowEmpty && strings.Contains(string(out), "nothing to commit") {
			return false, nil
		}
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

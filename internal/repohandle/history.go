package repohandle

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ReadFileAt returns the content of path as of ref.
func (g *Git) ReadFileAt(ref, path string) ([]byte, error) {
	cmd := exec.Command("git", "show", ref+":"+path)
	cmd.Dir = g.repoRoot
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("show %s:%s: %w", ref, path, err)
	}
	return out, nil
}

// Diff returns a unified diff of path between two refs.
func (g *Git) Diff(ctx context.Context, fromRef, toRef, path string) (string, error) {
	args := []string{"diff", fromRef, toRef, "--", path}
	out, err := execContext(ctx, 0, g.repoRoot, "git", args...)
	if err != nil {
		return "", fmt.Errorf("diff %s %s -- %s: %w", fromRef, toRef, path, err)
	}
	return string(out), nil
}

// Log returns the commit history touching path on branch, most recent
// first, bounded by limit (0 uses git's default of unbounded).
func (g *Git) Log(ctx context.Context, branch, path string, limit int) ([]CommitInfo, error) {
	const sep = "\x1f"
	format := "%H" + sep + "%an <%ae>" + sep + "%aI" + sep + "%s"

	args := []string{"log", "--format=" + format, branch}
	if limit > 0 {
		args = append(args, "-n", strconv.Itoa(limit))
	}
	if path != "" {
		args = append(args, "--", path)
	}

	out, err := execContext(ctx, 0, g.repoRoot, "git", args...)
	if err != nil {
		return nil, fmt.Errorf("log %s -- %s: %w", branch, path, err)
	}

	var commits []CommitInfo
	for _, line := range parseLines(out) {
		parts := strings.SplitN(line, sep, 4)
		if len(parts) != 4 {
			continue
		}
		commits = append(commits, CommitInfo{
			Hash:    parts[0],
			Author:  parts[1],
			Date:    parts[2],
			Subject: parts[3],
		})
	}
	return commits, nil
}

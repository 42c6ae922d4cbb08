package repohandle

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// CurrentBranch returns the checked-out branch, "" if HEAD is detached.
func (g *Git) CurrentBranch() (string, error) {
	cmd := exec.Command("git", "symbolic-ref", "--short", "HEAD")
	cmd.Dir = g.repoRoot

	out, err := cmd.Output()
	if err != nil {
		if isExitError(err) {
			return "", nil // detached HEAD
		}
		return "", fmt.Errorf("current branch: %w", err)
	}
	return trimOutput(out), nil
}

// Checkout switches to branch, optionally discarding local modifications.
func (g *Git) Checkout(ctx context.Context, branch string, force bool) error {
	args := []string{"checkout"}
	if force {
		args = append(args, "-f")
	}
	args = append(args, branch)

	if _, err := execContext(ctx, 0, g.repoRoot, "git", args...); err != nil {
		return fmt.Errorf("checkout %s: %w", branch, err)
	}
	return nil
}

// CheckoutNewTracking creates and checks out branch tracking remote/branch.
func (g *Git) CheckoutNewTracking(ctx context.Context, branch, remote string, force bool) error {
	args := []string{"checkout"}
	if force {
		args = append(args, "-f")
	}
	args = append(args, "-b", branch, "--track", remote+"/"+branch)

	if _, err := execContext(ctx, 0, g.repoRoot, "git", args...); err != nil {
		return fmt.Errorf("checkout tracking branch %s: %w", branch, err)
	}
	return nil
}

// BranchExists reports whether the named local branch exists.
func (g *Git) BranchExists(name string) bool {
	cmd := exec.Command("git", "show-ref", "--verify", "--quiet", "refs/heads/"+name)
	cmd.Dir = g.repoRoot
	return cmd.Run() == nil
}

// BranchCreate creates branch at base (HEAD when empty).
func (g *Git) BranchCreate(name, base string) error {
	if g.BranchExists(name) {
		return ErrRefExists
	}

	args := []string{"branch", name}
	if base != "" {
		args = append(args, base)
	}

	if _, err := execSimple(g.repoRoot, "git", args...); err != nil {
		return fmt.Errorf("create branch %s: %w", name, err)
	}
	return nil
}

// BranchDelete force-deletes a local branch.
func (g *Git) BranchDelete(name string) error {
	if !g.BranchExists(name) {
		return ErrRefNotFound
	}

	if _, err := execSimple(g.repoRoot, "git", "branch", "-D", name); err != nil {
		return fmt.Errorf("delete branch %s: %w", name, err)
	}
	return nil
}

// BranchList returns local and remote-tracking branches.
func (g *Git) BranchList() ([]BranchRef, error) {
	cmd := exec.Command("git", "for-each-ref", "--format=%(refname) %(objectname)")
	cmd.Dir = g.repoRoot

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("for-each-ref: %w", err)
	}

	var refs []BranchRef
	for _, line := range parseLines(out) {
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}

		refName, hash := parts[0], parts[1]
		ref := BranchRef{Hash: hash}

		switch {
		case strings.HasPrefix(refName, "refs/heads/"):
			ref.Name = strings.TrimPrefix(refName, "refs/heads/")
		case strings.HasPrefix(refName, "refs/remotes/"):
			rest := strings.TrimPrefix(refName, "refs/remotes/")
			split := strings.SplitN(rest, "/", 2)
			if len(split) != 2 {
				continue
			}
			ref.Remote, ref.Name = split[0], split[1]
			ref.IsRemote = true
		default:
			continue // tags and other refs are not versions
		}

		refs = append(refs, ref)
	}

	return refs, nil
}

// Divergence reports ahead/behind commit counts between local and remote.
func (g *Git) Divergence(local, remote string) (DivergenceInfo, error) {
	var info DivergenceInfo

	ahead, err := g.revListCount(remote + ".." + local)
	if err != nil {
		return info, fmt.Errorf("count ahead commits: %w", err)
	}
	info.LocalAhead = ahead

	behind, err := g.revListCount(local + ".." + remote)
	if err != nil {
		return info, fmt.Errorf("count behind commits: %w", err)
	}
	info.RemoteAhead = behind

	return info, nil
}

func (g *Git) revListCount(rangeSpec string) (int, error) {
	cmd := exec.Command("git", "rev-list", "--count", rangeSpec)
	cmd.Dir = g.repoRoot
	out, err := cmd.Output()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(out)))
}

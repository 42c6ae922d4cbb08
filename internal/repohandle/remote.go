package repohandle

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// HasRemote reports whether any remote is configured.
func (g *Git) HasRemote() bool {
	cmd := exec.Command("git", "remote")
	cmd.Dir = g.repoRoot
	out, err := cmd.Output()
	return err == nil && len(strings.TrimSpace(string(out))) > 0
}

// GetRemotes lists configured remotes.
func (g *Git) GetRemotes() ([]RemoteInfo, error) {
	cmd := exec.Command("git", "remote", "-v")
	cmd.Dir = g.repoRoot
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("remote -v: %w", err)
	}

	seen := make(map[string]string)
	var order []string
	for _, line := range parseLines(out) {
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		if _, ok := seen[parts[0]]; !ok {
			order = append(order, parts[0])
		}
		seen[parts[0]] = parts[1]
	}

	remotes := make([]RemoteInfo, 0, len(order))
	for _, name := range order {
		remotes = append(remotes, RemoteInfo{Name: name, URL: seen[name]})
	}
	return remotes, nil
}

// Fetch fetches from remote (default "origin" when empty). Returns nil
// quietly when no remotes are configured.
func (g *Git) Fetch(ctx context.Context, remote string) error {
	if !g.HasRemote() {
		return nil
	}
	if remote == "" {
		remote = "origin"
	}

	if _, err := execContext(ctx, 0, g.repoRoot, "git", "fetch", remote); err != nil {
		return fmt.Errorf("fetch %s: %w", remote, err)
	}
	return nil
}

// Push pushes per opts. Returns nil quietly when no remotes are configured.
func (g *Git) Push(ctx context.Context, opts PushOptions) error {
	if !g.HasRemote() {
		return nil
	}

	remote := opts.Remote
	if remote == "" {
		remote = "origin"
	}

	ref := opts.Ref
	if ref == "" {
		var err error
		ref, err = g.CurrentBranch()
		if err != nil {
			return err
		}
		if ref == "" {
			return ErrDetached
		}
	}

	args := []string{"push"}
	if opts.SetUpstream {
		args = append(args, "-u")
	}
	if opts.Force {
		args = append(args, "--force")
	}
	args = append(args, remote, ref)

	out, err := execContext(ctx, 0, g.repoRoot, "git", args...)
	if err != nil {
		s := string(out)
		if strings.Contains(s, "rejected") || strings.Contains(s, "non-fast-forward") {
			return ErrPushRejected
		}
		return fmt.Errorf("push %s %s: %w", remote, ref, err)
	}
	return nil
}

// GetRemoteURL returns the configured URL for remote, "" if unset.
func (g *Git) GetRemoteURL(remote string) (string, error) {
	return g.ConfigGet(fmt.Sprintf("remote.%s.url", remote))
}

// SetRemoteURL sets remote.<remote>.url, adding the remote if it is new.
func (g *Git) SetRemoteURL(remote, url string) error {
	if !g.hasRemoteNamed(remote) {
		if _, err := execSimple(g.repoRoot, "git", "remote", "add", remote, url); err != nil {
			return fmt.Errorf("remote add %s: %w", remote, err)
		}
		return nil
	}
	if _, err := execSimple(g.repoRoot, "git", "remote", "set-url", remote, url); err != nil {
		return fmt.Errorf("remote set-url %s: %w", remote, err)
	}
	return nil
}

// SetFetchRefspec sets remote.<remote>.fetch.
func (g *Git) SetFetchRefspec(remote, refspec string) error {
	key := fmt.Sprintf("remote.%s.fetch", remote)
	if _, err := execSimple(g.repoRoot, "git", "config", "--replace-all", key, refspec); err != nil {
		return fmt.Errorf("config %s: %w", key, err)
	}
	return nil
}

// ConfigGet reads a single git config value, "" if unset.
func (g *Git) ConfigGet(key string) (string, error) {
	cmd := exec.Command("git", "config", "--get", key)
	cmd.Dir = g.repoRoot
	out, err := cmd.Output()
	if err != nil {
		if isExitError(err) {
			return "", nil
		}
		return "", fmt.Errorf("config --get %s: %w", key, err)
	}
	return trimOutput(out), nil
}

func (g *Git) hasRemoteNamed(remote string) bool {
	remotes, err := g.GetRemotes()
	if err != nil {
		return false
	}
	for _, r := range remotes {
		if r.Name == remote {
			return true
		}
	}
	return false
}

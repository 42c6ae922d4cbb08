package repohandle

import (
	"context"
	"fmt"
	"strings"
)

// StashCreate shelves uncommitted changes under id and message. Returns
// false if there was nothing to stash (git stash is then a no-op).
//
// Every write operation stashes before it does anything else (see the
// serializer's prelude) as a guard against incidental dirty files left by a
// prior failed operation; this is the one place a stash is ever created.
func (g *Git) StashCreate(ctx context.Context, id Identity, message string) (bool, error) {
	if message == "" {
		message = "Stash before a write"
	}

	args := []string{"-c", "user.name=" + orDefault(id.Name, "fabric-gitstore"),
		"-c", "user.email=" + orDefault(id.Email, "fabric-gitstore@local"),
		"stash", "push", "--include-untracked", "-m", message}

	out, err := execContext(ctx, 0, g.repoRoot, "git", args...)
	if err != nil {
		return false, fmt.Errorf("stash: %w", err)
	}

	return !strings.Contains(string(out), "No local changes to save"), nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

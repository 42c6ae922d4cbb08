package repohandle

import (
	"context"
	"fmt"
	"strings"
)

// Clean removes untracked files and directories from the working tree.
func (g *Git) Clean(ctx context.Context) error {
	if _, err := execContext(ctx, 0, g.repoRoot, "git", "clean", "-fd"); err != nil {
		return fmt.Errorf("clean: %w", err)
	}
	return nil
}

// Merge merges ref into the current branch using strategy.
//
// Only MergeTheirs is implemented: every conflict is resolved by taking
// ref's side, making the remote authoritative during reconciliation.
// Anything more sophisticated is out of scope.
func (g *Git) Merge(ctx context.Context, ref string, strategy MergeStrategy) (MergeResult, error) {
	if strategy != MergeTheirs {
		return "", fmt.Errorf("unsupported merge strategy %q", strategy)
	}

	out, err := execContext(ctx, 0, g.repoRoot, "git", "merge", "-X", "theirs", "--no-edit", ref)
	if err != nil {
		s := string(out)
		if strings.Contains(s, "CONFLICT") {
			return "", ErrMergeConflict
		}
		return "", fmt.Errorf("merge %s: %w", ref, err)
	}

	s := string(out)
	switch {
	case strings.Contains(s, "Already up to date"):
		return MergeAlreadyUpToDate, nil
	case strings.Contains(s, "Fast-forward"):
		return MergeFastForward, nil
	default:
		return MergeCommitted, nil
	}
}

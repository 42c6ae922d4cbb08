package gitstore

import (
	"context"
	"strings"

	"github.com/fusesource/fabric-gitstore/internal/repohandle"
)

const tmpBranchSuffix = "-tmp"

// reconcile runs the Remote Reconciliation subroutine: fetch, then bring
// the local branch set in line with the remote's, preferring the remote
// on divergence. Called as the write_op pull prelude (which every sync
// loop tick runs) and by Reconcile. As the pull prelude its failure is
// logged and never propagated; Reconcile returns it to its caller. It
// never panics or mutates partial state beyond what each branch step
// already committed to disk.
func (s *Store) reconcile(ctx context.Context) error {
	h := s.handle

	url, err := h.GetRemoteURL("origin")
	if err != nil {
		return err
	}
	if url == "" {
		return nil
	}

	if err := h.Fetch(ctx, "origin"); err != nil {
		return err
	}

	refs, err := h.BranchList()
	if err != nil {
		return err
	}

	local := make(map[string]string)   // branch -> hash
	remote := make(map[string]string)  // branch -> hash
	for _, ref := range refs {
		if strings.HasSuffix(ref.Name, tmpBranchSuffix) {
			continue
		}
		if ref.IsRemote {
			if ref.Remote == "origin" {
				remote[ref.Name] = ref.Hash
			}
			continue
		}
		local[ref.Name] = ref.Hash
	}

	remoteEmpty := len(remote) == 0

	versions := make(map[string]struct{}, len(local)+len(remote))
	for v := range local {
		versions[v] = struct{}{}
	}
	for v := range remote {
		versions[v] = struct{}{}
	}

	hasChanged := false
	for v := range versions {
		_, inLocal := local[v]
		_, inRemote := remote[v]

		switch {
		case !inRemote && !remoteEmpty && v != "master":
			if err := s.deleteLocalBranch(ctx, h, v); err != nil {
				return err
			}
			hasChanged = true

		case !inLocal:
			if err := h.CheckoutNewTracking(ctx, v, "origin", true); err != nil {
				return err
			}
			hasChanged = true

		case inLocal && inRemote && local[v] != remote[v]:
			changed, err := s.mergeDivergent(ctx, h, v)
			if err != nil {
				return err
			}
			if changed {
				hasChanged = true
			}
		}
	}

	if hasChanged {
		s.fireChange()
	}
	return nil
}

func (s *Store) deleteLocalBranch(ctx context.Context, h repohandle.Handle, branch string) error {
	if err := h.BranchDelete(branch); err != nil {
		current, cerr := h.CurrentBranch()
		if cerr == nil && current == branch {
			if err := h.Checkout(ctx, "master", true); err != nil {
				return err
			}
			return h.BranchDelete(branch)
		}
		return err
	}
	return nil
}

func (s *Store) mergeDivergent(ctx context.Context, h repohandle.Handle, branch string) (bool, error) {
	if div, err := h.Divergence(branch, "origin/"+branch); err == nil {
		s.logger.Printf("branch %s diverged: %d ahead, %d behind, merging theirs", branch, div.LocalAhead, div.RemoteAhead)
	}

	if err := h.Clean(ctx); err != nil {
		return false, err
	}

	head, err := h.CurrentBranch()
	if err != nil {
		return false, err
	}
	if head != "" {
		if err := h.Checkout(ctx, head, true); err != nil {
			return false, err
		}
	}
	if err := h.Checkout(ctx, branch, true); err != nil {
		return false, err
	}

	result, err := h.Merge(ctx, "origin/"+branch, repohandle.MergeTheirs)
	if err != nil {
		return false, err
	}

	return result != repohandle.MergeAlreadyUpToDate, nil
}

package gitstore

import (
	"context"

	"github.com/fusesource/fabric-gitstore/internal/repohandle"
)

// OpFunc is a caller-supplied operation body. It receives the Repository
// Handle and a GitContext it may fill in to request a commit/push, and
// returns whatever value the facade operation wants to hand back to its
// own caller.
type OpFunc func(h repohandle.Handle, gctx *GitContext) (any, error)

// ReadOp runs fn under the mutex without the pull prelude. Even read
// operations serialize: they still change the working directory via
// checkout, so there is no lock-free fast path.
func (s *Store) ReadOp(ctx context.Context, fn OpFunc) (any, error) {
	return s.run(ctx, Identity{}, fn, false, &GitContext{})
}

// WriteOp runs fn under the mutex with the pull prelude, then commits,
// restores the original branch and pushes as directed by the GitContext fn
// populates.
func (s *Store) WriteOp(ctx context.Context, id Identity, fn OpFunc, pullFirst bool, gctx *GitContext) (any, error) {
	return s.run(ctx, id, fn, pullFirst, gctx)
}

// WriteOpWithIdentity is WriteOp with an explicit author identity, used
// for authored commits (facade operations that need a specific actor
// rather than the repository's default configured identity).
func (s *Store) WriteOpWithIdentity(ctx context.Context, id Identity, fn OpFunc, pullFirst bool, gctx *GitContext) (any, error) {
	return s.run(ctx, id, fn, pullFirst, gctx)
}

// run implements the shared protocol all three entry points converge on.
func (s *Store) run(ctx context.Context, id Identity, fn OpFunc, pullFirst bool, gctx *GitContext) (result any, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.handle
	if h == nil {
		return nil, ErrPrecondition
	}

	if _, err := s.credentials.Credentials(ctx); err != nil {
		return nil, err
	}

	resolvedID := id
	if resolvedID.Name == "" && resolvedID.Email == "" {
		resolvedID = s.identity
	}

	if h.HasHead() {
		if _, err := h.StashCreate(ctx, resolvedID, "Stash before a write"); err != nil {
			s.logger.Printf("stash failed, continuing: %v", err)
		}
	}

	originalBranch, err := h.CurrentBranch()
	if err != nil {
		return nil, wrapOp("acquire", "", err)
	}
	statusBefore, _ := h.HeadCommit()

	if pullFirst {
		if err := s.reconcile(ctx); err != nil {
			s.logger.Printf("reconciliation failed, continuing with local state: %v", err)
		}
	}

	result, bodyErr := fn(h, gctx)
	if bodyErr != nil {
		s.restoreBranch(ctx, h, originalBranch)
		return nil, wrapOp("operation", originalBranch, bodyErr)
	}

	requirePush := gctx.RequirePush
	if gctx.RequireCommit {
		if gctx.CommitMessage == "" {
			s.logger.Printf("commit requested with empty message")
		}
		committed, err := h.Commit(ctx, repohandle.CommitOptions{
			Message: gctx.CommitMessage,
			Author:  resolvedID,
		})
		if err != nil {
			s.restoreBranch(ctx, h, originalBranch)
			return nil, wrapOp("commit", originalBranch, err)
		}
		if committed {
			requirePush = true
		}
	} else {
		statusAfter, _ := h.HeadCommit()
		if statusAfter != statusBefore {
			requirePush = true
		}
	}

	s.restoreBranch(ctx, h, originalBranch)

	if requirePush {
		pushBranch := gctx.PushBranch
		if pushBranch == "" {
			pushBranch = originalBranch
		}
		if err := h.Push(ctx, repohandle.PushOptions{Ref: pushBranch}); err != nil {
			s.logger.Printf("push failed, local commit stands: %v", err)
		}
		s.fireChange()
	}

	return result, nil
}

func (s *Store) restoreBranch(ctx context.Context, h repohandle.Handle, branch string) {
	if branch == "" {
		return
	}
	current, err := h.CurrentBranch()
	if err == nil && current == branch {
		return
	}
	if err := h.Checkout(ctx, branch, true); err != nil {
		s.logger.Printf("failed to restore branch %s: %v", branch, err)
	}
}


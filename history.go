package fabricgitstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fusesource/fabric-gitstore/internal/gitstore"
	"github.com/fusesource/fabric-gitstore/internal/repohandle"
)

// GetFileHistory walks the commit log filtered to name's path on version
// v's branch, most-recent first, bounded by limit (0 = unbounded).
func (ds *DataStore) GetFileHistory(ctx context.Context, v, p, name string, limit int) ([]repohandle.CommitInfo, error) {
	result, err := ds.store.ReadOp(ctx, func(h repohandle.Handle, gctx *gitstore.GitContext) (any, error) {
		if err := h.Checkout(ctx, v, true); err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(h.RepoRoot(), filepath.Join(profileDir(ds, h, p), name))
		if err != nil {
			return nil, err
		}
		return h.Log(ctx, v, rel, limit)
	})
	if err != nil {
		return nil, err
	}
	return result.([]repohandle.CommitInfo), nil
}

// Diff returns a unified diff of name between two refs, each either an
// exact commit id or a human time expression ("3 days ago") resolved
// against the file's own history.
func (ds *DataStore) Diff(ctx context.Context, v, p, name, fromRef, toRef string) (string, error) {
	result, err := ds.store.ReadOp(ctx, func(h repohandle.Handle, gctx *gitstore.GitContext) (any, error) {
		if err := h.Checkout(ctx, v, true); err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(h.RepoRoot(), filepath.Join(profileDir(ds, h, p), name))
		if err != nil {
			return nil, err
		}

		log, err := h.Log(ctx, v, rel, 0)
		if err != nil {
			return nil, err
		}

		from, err := ds.resolveRef(fromRef, log)
		if err != nil {
			return nil, err
		}
		to, err := ds.resolveRef(toRef, log)
		if err != nil {
			return nil, err
		}

		return h.Diff(ctx, from, to, rel)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// RevertTo extracts name's content at ref and writes it over the current
// content; identical bytes is a no-op that still succeeds.
func (ds *DataStore) RevertTo(ctx context.Context, v, p, name, ref string) error {
	_, err := ds.store.WriteOp(ctx, gitstore.Identity{}, func(h repohandle.Handle, gctx *gitstore.GitContext) (any, error) {
		if err := h.Checkout(ctx, v, true); err != nil {
			return nil, err
		}

		full := filepath.Join(profileDir(ds, h, p), name)
		rel, err := filepath.Rel(h.RepoRoot(), full)
		if err != nil {
			return nil, err
		}

		resolvedRef := ref
		if !isCommitIsh(ref) {
			log, err := h.Log(ctx, v, rel, 0)
			if err != nil {
				return nil, err
			}
			resolvedRef, err = ds.resolveRef(ref, log)
			if err != nil {
				return nil, err
			}
		}

		content, err := h.ReadFileAt(resolvedRef, rel)
		if err != nil {
			return nil, err
		}

		current, _ := os.ReadFile(full)
		if string(current) == string(content) {
			return nil, nil
		}

		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(full, content, 0o644); err != nil {
			return nil, err
		}
		if err := h.Add([]string{rel}); err != nil {
			return nil, err
		}

		gctx.RequireCommit = true
		gctx.CommitMessage = fmt.Sprintf("Reverted %s for profile %s to %s", name, p, ref)
		gctx.PushBranch = v
		return nil, nil
	}, true, &gitstore.GitContext{})
	return err
}

// resolveRef passes exact commit-ish refs through unchanged, and resolves
// everything else as a human time expression against log.
func (ds *DataStore) resolveRef(ref string, log []repohandle.CommitInfo) (string, error) {
	if isCommitIsh(ref) {
		return ref, nil
	}
	return ds.resolver.ResolveRef(ref, time.Now(), log)
}

// isCommitIsh reports whether ref looks like a git rev rather than a
// natural-language time expression: an empty ref, a HEAD-relative ref, or
// a string made only of hex digits and the characters ~ ^ / - . (short or
// long commit ids, dotted version branches such as 1.0). Any other name,
// including a branch or tag name with letters beyond a-f, is treated as a
// time expression.
func isCommitIsh(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "HEAD") {
		return true
	}
	for _, r := range ref {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F' || r == '~' || r == '^' || r == '/' || r == '-' || r == '.') {
			return false
		}
	}
	return true
}

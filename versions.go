package fabricgitstore

import (
	"context"

	"github.com/fusesource/fabric-gitstore/internal/gitstore"
	"github.com/fusesource/fabric-gitstore/internal/mapper"
	"github.com/fusesource/fabric-gitstore/internal/repohandle"
)

// ListVersions returns every version id: every local branch name except
// "master", sorted in semantic-version order where every id parses as
// one, lexical order otherwise.
func (ds *DataStore) ListVersions(ctx context.Context) ([]string, error) {
	result, err := ds.store.ReadOp(ctx, func(h repohandle.Handle, gctx *gitstore.GitContext) (any, error) {
		refs, err := h.BranchList()
		if err != nil {
			return nil, err
		}
		var ids []string
		for _, ref := range refs {
			if ref.IsRemote || ref.Name == mapper.MasterVersion {
				continue
			}
			ids = append(ids, ref.Name)
		}
		return ids, nil
	})
	if err != nil {
		return nil, err
	}
	return mapper.SortVersions(result.([]string)), nil
}

// HasVersion reports whether v is a member of ListVersions.
func (ds *DataStore) HasVersion(ctx context.Context, v string) (bool, error) {
	versions, err := ds.ListVersions(ctx)
	if err != nil {
		return false, err
	}
	for _, id := range versions {
		if id == v {
			return true, nil
		}
	}
	return false, nil
}

// CreateVersion creates a new branch v from the currently checked-out
// branch (typically master).
func (ds *DataStore) CreateVersion(ctx context.Context, v string) error {
	return ds.createVersion(ctx, "", v)
}

// CreateVersionFrom creates a new branch v checked out from parent.
func (ds *DataStore) CreateVersionFrom(ctx context.Context, parent, v string) error {
	if parent == "" {
		return gitstore.Precondition("parent version id must not be empty")
	}
	return ds.createVersion(ctx, parent, v)
}

func (ds *DataStore) createVersion(ctx context.Context, parent, v string) error {
	if v == "" {
		return gitstore.Precondition("version id must not be empty")
	}

	_, err := ds.store.WriteOp(ctx, gitstore.Identity{}, func(h repohandle.Handle, gctx *gitstore.GitContext) (any, error) {
		if parent != "" {
			if err := h.Checkout(ctx, parent, true); err != nil {
				return nil, err
			}
		}
		if err := h.BranchCreate(v, ""); err != nil {
			return nil, err
		}
		if err := h.Checkout(ctx, v, true); err != nil {
			return nil, err
		}
		gctx.RequirePush = true
		gctx.PushBranch = v
		return nil, nil
	}, true, &gitstore.GitContext{})
	return err
}

// DeleteVersion is intentionally unsupported: removing a version means
// deleting a branch other peers may already be tracking, with no defined
// reconciliation story.
func (ds *DataStore) DeleteVersion(ctx context.Context, v string) error {
	return gitstore.ErrUnsupported
}

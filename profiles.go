package fabricgitstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fusesource/fabric-gitstore/internal/gitstore"
	"github.com/fusesource/fabric-gitstore/internal/mapper"
	"github.com/fusesource/fabric-gitstore/internal/repohandle"
)

// ListProfiles returns the union of profiles defined on master (the
// fabric-wide "ensemble" profiles) and on v. Each branch's listing is
// read through internal/cache, refreshing the index on a cache miss
// rather than walking the checked-out tree on every call.
func (ds *DataStore) ListProfiles(ctx context.Context, v string) ([]string, error) {
	result, err := ds.store.ReadOp(ctx, func(h repohandle.Handle, gctx *gitstore.GitContext) (any, error) {
		seen := make(map[string]struct{})
		var out []string

		collect := func(branch string) error {
			names, err := ds.profileNamesCached(ctx, h, branch)
			if err != nil {
				return err
			}
			for _, n := range names {
				if _, ok := seen[n]; !ok {
					seen[n] = struct{}{}
					out = append(out, n)
				}
			}
			return nil
		}

		if err := collect(mapper.MasterVersion); err != nil {
			return nil, err
		}
		if v != mapper.MasterVersion {
			if err := collect(v); err != nil {
				return nil, err
			}
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}

// profileNamesCached returns branch's profile ids from internal/cache,
// populating the cache by checking out branch and walking its profiles
// directory on a miss.
func (ds *DataStore) profileNamesCached(ctx context.Context, h repohandle.Handle, branch string) ([]string, error) {
	if names, ok, err := ds.idx.ListProfiles(ctx, branch); err != nil {
		return nil, err
	} else if ok {
		return names, nil
	}

	if err := h.Checkout(ctx, branch, true); err != nil {
		return nil, err
	}
	if err := ds.idx.RefreshVersion(ctx, ds.mapper, branch, profilesRoot(h)); err != nil {
		return nil, err
	}

	names, _, err := ds.idx.ListProfiles(ctx, branch)
	return names, err
}

// CreateProfile creates profile p on version v. A no-op (returns nil) if
// the agent metadata file already exists.
func (ds *DataStore) CreateProfile(ctx context.Context, v, p string) error {
	if v == "" || p == "" {
		return gitstore.Precondition("version and profile id must not be empty")
	}

	_, err := ds.store.WriteOp(ctx, gitstore.Identity{}, func(h repohandle.Handle, gctx *gitstore.GitContext) (any, error) {
		if err := h.Checkout(ctx, v, true); err != nil {
			return nil, err
		}

		dir := filepath.Join(profilesRoot(h), ds.mapper.DirectoryOf(p))
		markerPath := filepath.Join(dir, mapper.AgentMetadataFile)

		if _, err := os.Stat(markerPath); err == nil {
			return nil, nil
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(markerPath, []byte(fmt.Sprintf("#Profile:%s\n", p)), 0o644); err != nil {
			return nil, err
		}

		rel, err := filepath.Rel(h.RepoRoot(), markerPath)
		if err != nil {
			return nil, err
		}
		if err := h.Add([]string{rel}); err != nil {
			return nil, err
		}

		gctx.RequireCommit = true
		gctx.CommitMessage = fmt.Sprintf("Added profile %s", p)
		gctx.PushBranch = v
		return nil, nil
	}, true, &gitstore.GitContext{})
	return err
}

// DeleteProfile recursively removes profile p's directory from version v.
func (ds *DataStore) DeleteProfile(ctx context.Context, v, p string) error {
	if v == "" || p == "" {
		return gitstore.Precondition("version and profile id must not be empty")
	}

	_, err := ds.store.WriteOp(ctx, gitstore.Identity{}, func(h repohandle.Handle, gctx *gitstore.GitContext) (any, error) {
		if err := h.Checkout(ctx, v, true); err != nil {
			return nil, err
		}

		dir := filepath.Join(profilesRoot(h), ds.mapper.DirectoryOf(p))
		rel, err := filepath.Rel(h.RepoRoot(), dir)
		if err != nil {
			return nil, err
		}

		if err := h.Rm([]string{rel}); err != nil {
			return nil, err
		}
		if err := os.RemoveAll(dir); err != nil {
			return nil, err
		}

		gctx.RequireCommit = true
		gctx.CommitMessage = fmt.Sprintf("Removed profile %s", p)
		gctx.PushBranch = v
		return nil, nil
	}, true, &gitstore.GitContext{})
	return err
}

// RenameProfile moves profile old to new on version v, preserving file
// contents and the agent metadata marker, in one commit. Fails with
// ErrPrecondition if new already exists.
func (ds *DataStore) RenameProfile(ctx context.Context, v, oldName, newName string) error {
	if v == "" || oldName == "" || newName == "" {
		return gitstore.Precondition("version, old and new profile ids must not be empty")
	}

	_, err := ds.store.WriteOp(ctx, gitstore.Identity{}, func(h repohandle.Handle, gctx *gitstore.GitContext) (any, error) {
		if err := h.Checkout(ctx, v, true); err != nil {
			return nil, err
		}

		oldDir := filepath.Join(profilesRoot(h), ds.mapper.DirectoryOf(oldName))
		newDir := filepath.Join(profilesRoot(h), ds.mapper.DirectoryOf(newName))

		if _, err := os.Stat(filepath.Join(newDir, mapper.AgentMetadataFile)); err == nil {
			return nil, gitstore.Precondition("profile %s already exists", newName)
		}

		if err := os.MkdirAll(filepath.Dir(newDir), 0o755); err != nil {
			return nil, err
		}
		if err := os.Rename(oldDir, newDir); err != nil {
			return nil, err
		}

		oldRel, err := filepath.Rel(h.RepoRoot(), oldDir)
		if err != nil {
			return nil, err
		}
		if err := h.Rm([]string{oldRel}); err != nil {
			return nil, err
		}

		newRel, err := filepath.Rel(h.RepoRoot(), newDir)
		if err != nil {
			return nil, err
		}
		if err := h.Add([]string{newRel}); err != nil {
			return nil, err
		}

		gctx.RequireCommit = true
		gctx.CommitMessage = fmt.Sprintf("Renamed profile %s to %s", oldName, newName)
		gctx.PushBranch = v
		return nil, nil
	}, true, &gitstore.GitContext{})
	return err
}

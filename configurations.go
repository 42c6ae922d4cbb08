package fabricgitstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fusesource/fabric-gitstore/internal/gitstore"
	"github.com/fusesource/fabric-gitstore/internal/properties"
	"github.com/fusesource/fabric-gitstore/internal/repohandle"
)

// GetFileConfigurations returns every file under profile p on version v as
// a map from relative path to contents. The file name listing is read
// through internal/cache; contents are always read fresh off the working
// copy, since the cache only indexes names, not bytes.
func (ds *DataStore) GetFileConfigurations(ctx context.Context, v, p string) (map[string][]byte, error) {
	result, err := ds.store.ReadOp(ctx, func(h repohandle.Handle, gctx *gitstore.GitContext) (any, error) {
		if err := h.Checkout(ctx, v, true); err != nil {
			return nil, err
		}

		dir := profileDir(ds, h, p)

		names, ok, err := ds.idx.ListFiles(ctx, v, p)
		if err != nil {
			return nil, err
		}
		if !ok {
			if err := ds.idx.RefreshVersion(ctx, ds.mapper, v, profilesRoot(h)); err != nil {
				return nil, err
			}
			names, _, err = ds.idx.ListFiles(ctx, v, p)
			if err != nil {
				return nil, err
			}
		}
		if names == nil {
			return gatherFiles(dir)
		}

		out := make(map[string][]byte, len(names))
		for _, name := range names {
			content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return nil, err
			}
			out[name] = content
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string][]byte), nil
}

// SetFileConfigurations replaces profile p's file set on version v with
// files, treating the input as authoritative: entries present are
// written/overwritten, pre-existing entries absent from files are removed.
func (ds *DataStore) SetFileConfigurations(ctx context.Context, v, p string, files map[string][]byte) error {
	_, err := ds.store.WriteOp(ctx, gitstore.Identity{}, func(h repohandle.Handle, gctx *gitstore.GitContext) (any, error) {
		if err := h.Checkout(ctx, v, true); err != nil {
			return nil, err
		}

		dir := profileDir(ds, h, p)
		existing, err := gatherFiles(dir)
		if err != nil {
			return nil, err
		}

		var added []string
		for name, content := range files {
			full := filepath.Join(dir, filepath.FromSlash(name))
			if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
				return nil, err
			}
			if err := os.WriteFile(full, content, 0o644); err != nil {
				return nil, err
			}
			rel, err := filepath.Rel(h.RepoRoot(), full)
			if err != nil {
				return nil, err
			}
			added = append(added, rel)
		}

		var removed []string
		for name := range existing {
			if _, keep := files[name]; keep {
				continue
			}
			full := filepath.Join(dir, filepath.FromSlash(name))
			rel, err := filepath.Rel(h.RepoRoot(), full)
			if err != nil {
				return nil, err
			}
			removed = append(removed, rel)
		}

		if len(added) > 0 {
			if err := h.Add(added); err != nil {
				return nil, err
			}
		}
		if len(removed) > 0 {
			if err := h.Rm(removed); err != nil {
				return nil, err
			}
		}

		gctx.RequireCommit = true
		gctx.CommitMessage = fmt.Sprintf("Updated configurations for profile %s", p)
		gctx.PushBranch = v
		return nil, nil
	}, true, &gitstore.GitContext{})
	return err
}

// SetFileConfiguration writes (or, when bytes is nil, deletes) a single
// file under profile p.
func (ds *DataStore) SetFileConfiguration(ctx context.Context, v, p, name string, bytes []byte) error {
	_, err := ds.store.WriteOp(ctx, gitstore.Identity{}, func(h repohandle.Handle, gctx *gitstore.GitContext) (any, error) {
		if err := h.Checkout(ctx, v, true); err != nil {
			return nil, err
		}

		full := filepath.Join(profileDir(ds, h, p), filepath.FromSlash(name))
		rel, err := filepath.Rel(h.RepoRoot(), full)
		if err != nil {
			return nil, err
		}

		if bytes == nil {
			if err := h.Rm([]string{rel}); err != nil {
				return nil, err
			}
			if err := os.RemoveAll(full); err != nil {
				return nil, err
			}
		} else {
			if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
				return nil, err
			}
			if err := os.WriteFile(full, bytes, 0o644); err != nil {
				return nil, err
			}
			if err := h.Add([]string{rel}); err != nil {
				return nil, err
			}
		}

		gctx.RequireCommit = true
		gctx.CommitMessage = fmt.Sprintf("Updated %s for profile %s", name, p)
		gctx.PushBranch = v
		return nil, nil
	}, true, &gitstore.GitContext{})
	return err
}

// GetFileConfiguration returns the contents of name under profile p, or
// nil if absent. If name resolves to a directory (an unusual but
// supported edge case for a PID that collides with a directory),
// concatenates "<child_name> = <child_contents>\n" for every child.
func (ds *DataStore) GetFileConfiguration(ctx context.Context, v, p, name string) ([]byte, error) {
	result, err := ds.store.ReadOp(ctx, func(h repohandle.Handle, gctx *gitstore.GitContext) (any, error) {
		if err := h.Checkout(ctx, v, true); err != nil {
			return nil, err
		}

		full := filepath.Join(profileDir(ds, h, p), filepath.FromSlash(name))
		info, err := os.Stat(full)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, err
		}

		if !info.IsDir() {
			return os.ReadFile(full)
		}

		entries, err := os.ReadDir(full)
		if err != nil {
			return nil, err
		}
		var sb strings.Builder
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			content, err := os.ReadFile(filepath.Join(full, e.Name()))
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&sb, "%s = %s\n", e.Name(), content)
		}
		return []byte(sb.String()), nil
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	return result.([]byte), nil
}

// GetConfiguration is PID sugar over GetFileConfiguration, decoding the
// file's contents as an ordered properties map.
func (ds *DataStore) GetConfiguration(ctx context.Context, v, p, pid string) (map[string]string, error) {
	bytes, err := ds.GetFileConfiguration(ctx, v, p, pid+".properties")
	if err != nil {
		return nil, err
	}
	if bytes == nil {
		return nil, nil
	}
	m, err := properties.Decode(bytes)
	if err != nil {
		return nil, err
	}
	return m.ToMap(), nil
}

// SetConfiguration is PID sugar over SetFileConfiguration. An empty or
// nil values map deletes the PID file entirely, symmetric with
// SetFileConfiguration's null-bytes-means-delete rule.
func (ds *DataStore) SetConfiguration(ctx context.Context, v, p, pid string, values map[string]string) error {
	if len(values) == 0 {
		return ds.SetFileConfiguration(ctx, v, p, pid+".properties", nil)
	}
	encoded := properties.Encode(properties.FromMap(values))
	return ds.SetFileConfiguration(ctx, v, p, pid+".properties", encoded)
}

func profileDir(ds *DataStore, h repohandle.Handle, p string) string {
	return filepath.Join(profilesRoot(h), ds.mapper.DirectoryOf(p))
}

// gatherFiles walks dir iteratively and returns every regular file's
// contents keyed by its slash-separated path relative to dir.
func gatherFiles(dir string) (map[string][]byte, error) {
	out := make(map[string][]byte)

	type frame struct {
		path string
		rel  string
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, err
	}

	stack := make([]frame, 0, len(entries))
	for _, e := range entries {
		stack = append(stack, frame{path: filepath.Join(dir, e.Name()), rel: e.Name()})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		info, err := os.Stat(top.path)
		if err != nil {
			continue
		}
		if info.IsDir() {
			children, err := os.ReadDir(top.path)
			if err != nil {
				continue
			}
			for _, c := range children {
				stack = append(stack, frame{path: filepath.Join(top.path, c.Name()), rel: top.rel + "/" + c.Name()})
			}
			continue
		}

		content, err := os.ReadFile(top.path)
		if err != nil {
			return nil, err
		}
		out[top.rel] = content
	}

	return out, nil
}

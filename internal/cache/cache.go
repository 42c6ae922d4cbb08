// Package cache keeps a local, read-through SQLite index of branch names,
// profile directories and file listings. Every successful mutation or
// non-empty pull drops the index, and a version's rows are rebuilt from
// the working copy on the next read that misses. list_profiles and
// get_file_configurations are called far more often than the working
// copy actually changes; re-walking the checked-out tree on every facade
// call is wasteful once a fleet has hundreds of profiles. The cache is
// invalidated before every change notification is fired and is never read
// without having been refreshed as of the last fired notification.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/fusesource/fabric-gitstore/internal/mapper"
)

const schema = `
CREATE TABLE IF NOT EXISTS versions (
	version_id TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS profiles (
	version_id TEXT NOT NULL,
	profile_id TEXT NOT NULL,
	PRIMARY KEY (version_id, profile_id)
);
CREATE TABLE IF NOT EXISTS files (
	version_id TEXT NOT NULL,
	profile_id TEXT NOT NULL,
	name TEXT NOT NULL,
	PRIMARY KEY (version_id, profile_id, name)
);
`

// Index is the local read-through cache.
type Index struct {
	db *sql.DB
}

// Open creates (if needed) and opens the SQLite index file at path.
func Open(path string) (*Index, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s", path))
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	conn.SetMaxOpenConns(1) // a single local writer/reader is all this needs

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Index{db: conn}, nil
}

// Close releases the underlying database connection.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// Invalidate drops every cached row. Called through the Store's
// cache-invalidation callback before every fired notification and on
// receive-pack; the next read repopulates lazily via RefreshVersion.
func (idx *Index) Invalidate(ctx context.Context) error {
	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM versions", "DELETE FROM profiles", "DELETE FROM files"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RefreshVersion replaces the cached profile/file listing for one version
// branch, walking profilesRoot (the checked-out branch's fabric/profiles
// directory) with m.
func (idx *Index) RefreshVersion(ctx context.Context, m *mapper.Mapper, versionID, profilesRoot string) error {
	profiles, err := m.ProfileNames(profilesRoot)
	if err != nil {
		return err
	}

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO versions(version_id) VALUES (?)`, versionID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE version_id = ?`, versionID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM files WHERE version_id = ?`, versionID); err != nil {
		return err
	}

	for _, p := range profiles {
		if _, err := tx.ExecContext(ctx, `INSERT INTO profiles(version_id, profile_id) VALUES (?, ?)`, versionID, p); err != nil {
			return err
		}

		dir := filepath.Join(profilesRoot, m.DirectoryOf(p))
		names, err := listFiles(dir)
		if err != nil {
			continue // a profile that vanished mid-walk is not fatal to the refresh
		}
		for _, n := range names {
			if _, err := tx.ExecContext(ctx, `INSERT INTO files(version_id, profile_id, name) VALUES (?, ?, ?)`, versionID, p, n); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// ListProfiles returns the cached profile ids for versionID, or (nil,
// false) if the version has never been refreshed.
func (idx *Index) ListProfiles(ctx context.Context, versionID string) ([]string, bool, error) {
	var known int
	if err := idx.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM versions WHERE version_id = ?`, versionID).Scan(&known); err != nil {
		return nil, false, err
	}
	if known == 0 {
		return nil, false, nil
	}

	rows, err := idx.db.QueryContext(ctx, `SELECT profile_id FROM profiles WHERE version_id = ? ORDER BY profile_id`, versionID)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, false, err
		}
		out = append(out, id)
	}
	return out, true, rows.Err()
}

// ListFiles returns the cached relative file names for (versionID,
// profileID), or (nil, false) if that profile has never been refreshed.
func (idx *Index) ListFiles(ctx context.Context, versionID, profileID string) ([]string, bool, error) {
	var known int
	if err := idx.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM profiles WHERE version_id = ? AND profile_id = ?`, versionID, profileID,
	).Scan(&known); err != nil {
		return nil, false, err
	}
	if known == 0 {
		return nil, false, nil
	}

	rows, err := idx.db.QueryContext(ctx,
		`SELECT name FROM files WHERE version_id = ? AND profile_id = ? ORDER BY name`, versionID, profileID)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, false, err
		}
		out = append(out, name)
	}
	return out, true, rows.Err()
}

// listFiles returns every file under dir, at any depth, as a
// slash-separated path relative to dir.
func listFiles(dir string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		names = append(names, filepath.ToSlash(rel))
		return err
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}


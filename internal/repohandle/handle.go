package repohandle

import "context"

// Handle is the set of atomic repository primitives the Operation
// Serializer composes. It is the "Repository Handle" of the design: a
// process-wide object owning the on-disk working copy and its .git
// directory.
//
// Every method here corresponds to a primitive named in the design
// (checkout, add, commit, push, fetch, branch-list, branch-delete,
// branch-create, stash-create, clean, merge, status, rm) plus the small
// amount of read-only introspection (current branch, HEAD commit, remote
// config) the serializer and reconciliation loop need to make decisions.
//
// Handle implementations are not expected to be safe for concurrent use;
// serializing access to a Handle is the Operation Serializer's job, not
// this package's.
type Handle interface {
	// RepoRoot returns the working copy's root directory.
	RepoRoot() string

	// HasHead reports whether the repository has at least one commit.
	HasHead() bool

	// HeadCommit returns the commit id HEAD currently resolves to.
	// Returns "" if HasHead is false.
	HeadCommit() (string, error)

	// CurrentBranch returns the checked-out branch name, or "" if HEAD is
	// detached.
	CurrentBranch() (string, error)

	// Checkout switches the working copy to branch. If force, local
	// modifications to tracked files are discarded.
	Checkout(ctx context.Context, branch string, force bool) error

	// CheckoutNewTracking creates and checks out a local branch tracking
	// remote/branch, as in reconciliation's "local-missing" case.
	CheckoutNewTracking(ctx context.Context, branch, remote string, force bool) error

	// BranchList returns local and remote-tracking branches.
	BranchList() ([]BranchRef, error)

	// BranchExists reports whether the named local branch exists.
	BranchExists(name string) bool

	// BranchCreate creates branch at base (HEAD when base is empty).
	BranchCreate(name, base string) error

	// BranchDelete force-deletes a local branch.
	BranchDelete(name string) error

	// Add stages paths for commit.
	Add(paths []string) error

	// Rm removes paths from the working tree and the index.
	Rm(paths []string) error

	// Status reports working-tree/staging status, optionally scoped to paths.
	Status(paths ...string) ([]FileStatus, error)

	// Commit creates a commit per opts. Returns false if nothing was
	// committed (e.g. AllowEmpty is false and there was nothing staged).
	Commit(ctx context.Context, opts CommitOptions) (bool, error)

	// StashCreate shelves the working tree's uncommitted changes under the
	// given identity and message. Returns false if there was nothing to
	// stash.
	StashCreate(ctx context.Context, id Identity, message string) (bool, error)

	// Clean removes untracked files and directories.
	Clean(ctx context.Context) error

	// Merge merges ref into the current branch using strategy.
	Merge(ctx context.Context, ref string, strategy MergeStrategy) (MergeResult, error)

	// HasRemote reports whether any remote is configured.
	HasRemote() bool

	// GetRemotes lists configured remotes.
	GetRemotes() ([]RemoteInfo, error)

	// Divergence counts commits local has that remote lacks and vice
	// versa, the way "git rev-list --count a..b"/"b..a" reports ahead
	// and behind.
	Divergence(local, remote string) (DivergenceInfo, error)

	// Fetch fetches from remote (default "origin" when empty).
	Fetch(ctx context.Context, remote string) error

	// Push pushes per opts.
	Push(ctx context.Context, opts PushOptions) error

	// GetRemoteURL returns the configured URL for remote, or "" if unset.
	GetRemoteURL(remote string) (string, error)

	// SetRemoteURL sets remote.<remote>.url, adding the remote if absent.
	SetRemoteURL(remote, url string) error

	// SetFetchRefspec sets remote.<remote>.fetch.
	SetFetchRefspec(remote, refspec string) error

	// ConfigGet reads a single git config value ("" if unset).
	ConfigGet(key string) (string, error)

	// ReadFileAt returns the content of path as of ref ("<ref>:<path>").
	ReadFileAt(ref, path string) ([]byte, error)

	// Diff returns a unified diff of path between two refs.
	Diff(ctx context.Context, fromRef, toRef, path string) (string, error)

	// Log returns the commit history touching path on branch, most recent
	// first, bounded by limit (0 = unbounded).
	Log(ctx context.Context, branch, path string, limit int) ([]CommitInfo, error)
}

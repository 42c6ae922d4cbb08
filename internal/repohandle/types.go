package repohandle

// BranchRef describes a local or remote-tracking branch.
type BranchRef struct {
	// Name is the branch name (e.g. "1.0", "master").
	Name string

	// Hash is the commit the branch currently points at.
	Hash string

	// Remote is the remote name for remote-tracking refs, empty for local.
	Remote string

	// IsRemote indicates this is a remote-tracking ref (refs/remotes/...).
	IsRemote bool
}

// RemoteInfo describes a configured remote.
type RemoteInfo struct {
	Name string
	URL  string
}

// StatusCode mirrors git's porcelain status letters.
type StatusCode string

const (
	StatusUnmodified StatusCode = " "
	StatusModified   StatusCode = "M"
	StatusAdded      StatusCode = "A"
	StatusDeleted    StatusCode = "D"
	StatusRenamed    StatusCode = "R"
	StatusCopied     StatusCode = "C"
	StatusUntracked  StatusCode = "?"
	StatusIgnored    StatusCode = "!"
	StatusConflict   StatusCode = "U"
)

// FileStatus is the working-directory/staging status of one path.
type FileStatus struct {
	Path       string
	Status     StatusCode
	StagedCode StatusCode
}

// Identity is the author/committer used for a commit or a stash.
type Identity struct {
	Name  string
	Email string
}

// String renders the identity in "Name <email>" form, git's --author format.
func (id Identity) String() string {
	if id.Name == "" && id.Email == "" {
		return ""
	}
	return id.Name + " <" + id.Email + ">"
}

// CommitOptions configures a commit.
type CommitOptions struct {
	// Message is the commit message. Required.
	Message string

	// Paths restricts the commit to specific paths. Empty commits everything staged.
	Paths []string

	// Author overrides the commit author. Empty uses git's configured identity.
	Author Identity

	// AllowEmpty permits a commit with no changes.
	AllowEmpty bool
}

// PushOptions configures a push.
type PushOptions struct {
	// Remote defaults to "origin" when empty.
	Remote string

	// Ref is the branch to push. Empty pushes the currently checked-out branch.
	Ref string

	// SetUpstream configures tracking for Ref.
	SetUpstream bool

	// Force enables a force push.
	Force bool
}

// MergeStrategy selects how Merge resolves conflicting hunks.
type MergeStrategy string

const (
	// MergeTheirs resolves every conflict by taking the incoming side.
	// This is the only strategy the reconciliation loop uses ("remote
	// wins"); anything else is future work.
	MergeTheirs MergeStrategy = "theirs"
)

// MergeResult reports the outcome of a merge.
type MergeResult string

const (
	MergeAlreadyUpToDate MergeResult = "already-up-to-date"
	MergeFastForward     MergeResult = "fast-forward"
	MergeCommitted       MergeResult = "merged"
)

// DivergenceInfo reports how far two refs have drifted apart.
type DivergenceInfo struct {
	// LocalAhead is the commit count reachable from local but not remote.
	LocalAhead int

	// RemoteAhead is the commit count reachable from remote but not local.
	RemoteAhead int
}

// CommitInfo is one entry in a file's history.
type CommitInfo struct {
	Hash    string
	Author  string
	Date    string
	Subject string
}

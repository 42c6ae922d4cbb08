package repohandle

import "errors"

// Sentinel errors returned by Handle implementations. Check with errors.Is.
var (
	// ErrNotInVCS is returned when path does not resolve to a git repository.
	ErrNotInVCS = errors.New("not in a git repository")

	// ErrRefExists is returned creating a branch that already exists.
	ErrRefExists = errors.New("branch already exists")

	// ErrRefNotFound is returned operating on a branch that doesn't exist.
	ErrRefNotFound = errors.New("branch not found")

	// ErrNoRemote is returned when an operation requires a remote but none is configured.
	ErrNoRemote = errors.New("no remote configured")

	// ErrDetached is returned when an operation requires a checked-out branch
	// but HEAD is detached.
	ErrDetached = errors.New("HEAD is detached")

	// ErrPushRejected is returned when a push is rejected, typically a
	// non-fast-forward update.
	ErrPushRejected = errors.New("push rejected by remote")

	// ErrMergeConflict is returned when a merge could not resolve cleanly
	// even under the configured strategy.
	ErrMergeConflict = errors.New("merge conflict")
)

//go:build unix

package repohandle

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// RepoLock guards a working copy against concurrent processes. The
// Operation Serializer only needs to keep goroutines within this process
// from racing each other, but a second fabric-gitstore process pointed at
// the same workdir (a redeployed instance started before the old one
// exited, a stray debug run) would otherwise interleave checkouts with
// it. RepoLock closes that gap with an exclusive flock on a sentinel
// file inside .git.
type RepoLock struct {
	f *os.File
}

// AcquireRepoLock opens (creating if needed) workdir/.git/fabric-gitstore.lock
// and takes a non-blocking exclusive flock. Returns an error immediately if
// another process already holds it.
func AcquireRepoLock(workdir string) (*RepoLock, error) {
	path := filepath.Join(workdir, ".git", "fabric-gitstore.lock")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("repository %s is locked by another process: %w", workdir, err)
	}

	return &RepoLock{f: f}, nil
}

// Release unlocks and closes the sentinel file.
func (l *RepoLock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	if err := unix.Flock(int(l.f.Fd()), unix.LOCK_UN); err != nil {
		l.f.Close()
		return fmt.Errorf("unlock: %w", err)
	}
	return l.f.Close()
}

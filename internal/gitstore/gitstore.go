// Package gitstore implements the Operation Serializer: the consistency,
// serialization and synchronization engine mediating between in-process
// callers, the ambient sync loop, external pushes, a rotating credential
// source and an attribute store.
package gitstore

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"github.com/fusesource/fabric-gitstore/internal/creds"
	"github.com/fusesource/fabric-gitstore/internal/repohandle"
)

// GitContext is the per-operation scratchpad a write_op body fills in to
// tell the serializer what commit/push behavior it wants afterward.
type GitContext struct {
	// RequireCommit, if true, makes the serializer commit CommitMessage
	// after the body returns (warning if the message is empty).
	RequireCommit bool

	// RequirePush, if true, forces a push even if HEAD did not move
	// (e.g. a no-op commit the caller still wants published).
	RequirePush bool

	// CommitMessage is used when RequireCommit is set.
	CommitMessage string

	// PushBranch overrides the branch pushed; empty means "the branch
	// checked out at commit time".
	PushBranch string
}

// Identity is the author identity used for commits and stashes made by
// the serializer. The zero value lets the Repository Handle fall back to
// its configured git identity.
type Identity = repohandle.Identity

// Config configures a Store.
type Config struct {
	// Handle is the Repository Handle owning the working copy.
	Handle repohandle.Handle

	// Credentials yields push/pull credentials, resolved fresh on every
	// operation.
	Credentials creds.Source

	// DefaultIdentity is used for stashes and commits when the caller
	// supplies none.
	DefaultIdentity Identity

	// Logger receives one line per noteworthy event.
	Logger *log.Logger
}

// Store is the Operation Serializer: a process-wide mutex wrapping every
// repository interaction, plus the reconciliation loop, sync loop and
// change publisher that share it.
type Store struct {
	handle      repohandle.Handle
	credentials creds.Source
	identity    Identity
	logger      *log.Logger

	mu sync.Mutex

	publisher *Publisher
	syncLoop  *SyncLoop

	// cacheInvalidate is the sole cache-invalidation callback, set by
	// SetCacheInvalidator. It is distinct from publisher: a receive-pack
	// hook must invalidate caches without waking arbitrary external
	// listeners (e.g. the CLI's watch command), so it is never added as
	// a Publisher subscriber.
	cacheInvalidate Listener
}

// New builds a Store. The caller is responsible for starting the Sync
// Loop separately via StartSyncLoop.
func New(cfg Config) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[gitstore] ", log.LstdFlags)
	}

	s := &Store{
		handle:      cfg.Handle,
		credentials: cfg.Credentials,
		identity:    cfg.DefaultIdentity,
		logger:      logger,
		publisher:   NewPublisher(),
	}
	return s
}

// Publisher returns the Change Publisher so callers can (un)bind
// listeners at any time, independent of operation flow.
func (s *Store) Publisher() *Publisher {
	return s.publisher
}

// SetCacheInvalidator registers the Store's single cache-invalidation
// callback. It runs on every change the Store observes, including ones
// (like an external receive-pack) that must not wake the general
// Publisher's listeners.
func (s *Store) SetCacheInvalidator(fn Listener) {
	s.cacheInvalidate = fn
}

// invalidateCache runs the cache invalidator, if any, recovering from a
// panicking callback the same way Publisher.Fire shields its listeners.
func (s *Store) invalidateCache() {
	if s.cacheInvalidate == nil {
		return
	}
	defer func() { recover() }()
	s.cacheInvalidate()
}

// fireChange is the full change-notification path used by the sync loop
// and write_op completions: it invalidates caches first, then fires the
// general Publisher so external listeners see post-invalidation state.
func (s *Store) fireChange() {
	s.invalidateCache()
	s.publisher.Fire()
}

// StartSyncLoop starts the single-threaded periodic pull worker at the
// given fixed delay (default 1000ms).
func (s *Store) StartSyncLoop(period time.Duration) {
	s.syncLoop = NewSyncLoop(s, period, s.logger)
	s.syncLoop.Start()
}

// StopSyncLoop stops the sync loop, allowing up to 5s for an in-flight
// tick to finish.
func (s *Store) StopSyncLoop() {
	if s.syncLoop != nil {
		s.syncLoop.Stop(5 * time.Second)
	}
}

// Reconcile runs one Remote Reconciliation pass synchronously under the
// serializer's mutex: the subroutine a Sync Loop tick runs as its pull
// prelude. Unlike a tick it does not stash, restore the original branch
// or push, and it returns the reconciliation error to its caller. Exported
// so a caller (or a test) can force a deterministic pull/merge instead of
// waiting out the sync period.
func (s *Store) Reconcile(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconcile(ctx)
}

// OnRemoteURLChanged implements the Repository Handle's remote-url-changed
// callback: if the stored URL differs, it runs a write_op that updates
// remote.<remote>.url and the default fetch refspec, then pulls. The
// write_op runs synchronously on the caller's goroutine; it is not handed
// to the Sync Loop's worker.
func (s *Store) OnRemoteURLChanged(ctx context.Context, remote, url string) error {
	current, err := s.handle.GetRemoteURL(remote)
	if err != nil {
		return err
	}
	if current == url {
		return nil
	}

	_, err = s.WriteOp(ctx, Identity{}, func(h repohandle.Handle, gctx *GitContext) (any, error) {
		if err := h.SetRemoteURL(remote, url); err != nil {
			return nil, err
		}
		if err := h.SetFetchRefspec(remote, "+refs/heads/*:refs/remotes/"+remote+"/*"); err != nil {
			return nil, err
		}
		if err := s.reconcile(ctx); err != nil {
			s.logger.Printf("reconciliation after remote URL change failed: %v", err)
		}
		return nil, nil
	}, true, &GitContext{})
	return err
}

// OnReceivePack implements the Repository Handle's receive-hook callback:
// it only invalidates caches, issuing no repository primitives and
// waking none of the Publisher's general listeners from the callback
// itself.
func (s *Store) OnReceivePack() {
	s.invalidateCache()
}

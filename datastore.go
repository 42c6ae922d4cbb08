// Package fabricgitstore is the public operation surface of a versioned
// configuration store backed by a git repository: list/create/delete
// versions, list/create/delete/rename profiles, get/set file and PID
// configurations, read history, diff and revert. It is a thin dispatcher
// composing the Operation Serializer with the Version/Profile Mapper;
// the hard consistency and synchronization work lives in
// internal/gitstore.
package fabricgitstore

import (
	"context"
	"fmt"
	"log"

	"github.com/fusesource/fabric-gitstore/internal/attrstore"
	"github.com/fusesource/fabric-gitstore/internal/cache"
	"github.com/fusesource/fabric-gitstore/internal/config"
	"github.com/fusesource/fabric-gitstore/internal/creds"
	"github.com/fusesource/fabric-gitstore/internal/gitstore"
	"github.com/fusesource/fabric-gitstore/internal/historyquery"
	"github.com/fusesource/fabric-gitstore/internal/logging"
	"github.com/fusesource/fabric-gitstore/internal/mapper"
	"github.com/fusesource/fabric-gitstore/internal/repohandle"
)

// DataStore is the activated facade. It owns the Repository Handle, the
// Operation Serializer, the local cache and the attribute-store glue for
// the lifetime of the process.
type DataStore struct {
	settings *config.Settings
	handle   repohandle.Handle
	store    *gitstore.Store
	mapper   *mapper.Mapper
	attrs    attrstore.Store
	idx      *cache.Index
	resolver *historyquery.Resolver
	lock     *repohandle.RepoLock
	logger   *log.Logger
}

// Activate opens (or initializes) the working copy at settings.WorkDir,
// wires the credential source, starts the sync loop at
// settings.GitPullPeriod and installs the cache invalidation callback.
// attrs may be nil if no attribute-store collaborator is configured; the
// attribute-store helpers then return ErrCoordination.
func Activate(settings *config.Settings, attrs attrstore.Store, logger *log.Logger) (*DataStore, error) {
	if settings == nil {
		return nil, gitstore.Precondition("settings must not be nil")
	}
	if settings.WorkDir == "" {
		return nil, gitstore.Precondition("WorkDir must not be empty")
	}
	if logger == nil {
		logger = logging.New("fabricgitstore", nil)
	}

	handle, err := repohandle.Open(settings.WorkDir)
	if err != nil {
		if err == repohandle.ErrNotInVCS {
			handle, err = repohandle.Init(context.Background(), settings.WorkDir)
		}
		if err != nil {
			return nil, fmt.Errorf("activate: %w", err)
		}
	}

	lock, err := repohandle.AcquireRepoLock(settings.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("activate: %w", err)
	}

	var credSource creds.Source = creds.None{}
	if settings.HasExternalCredentials() {
		credSource = creds.NewStatic(settings.GitRemoteUser, settings.GitRemotePassword)
	}

	if settings.GitRemoteURL != "" {
		if err := handle.SetRemoteURL("origin", settings.GitRemoteURL); err != nil {
			lock.Release()
			return nil, fmt.Errorf("activate: %w", err)
		}
	}

	store := gitstore.New(gitstore.Config{
		Handle:      handle,
		Credentials: credSource,
		Logger:      logger,
	})

	idx, err := cache.Open(cachePath(settings.WorkDir))
	if err != nil {
		lock.Release()
		return nil, fmt.Errorf("activate: %w", err)
	}

	ds := &DataStore{
		settings: settings,
		handle:   handle,
		store:    store,
		mapper:   mapper.New(settings.Hierarchical),
		attrs:    attrs,
		idx:      idx,
		resolver: historyquery.NewResolver(),
		lock:     lock,
		logger:   logger,
	}

	store.SetCacheInvalidator(func() {
		if err := idx.Invalidate(context.Background()); err != nil {
			logger.Printf("cache invalidation failed: %v", err)
		}
	})

	store.StartSyncLoop(settings.GitPullPeriod)

	return ds, nil
}

// Deactivate stops the sync loop (with grace) and releases the
// cross-process working-copy lock.
func (ds *DataStore) Deactivate() error {
	ds.store.StopSyncLoop()
	if err := ds.idx.Close(); err != nil {
		ds.logger.Printf("cache close failed: %v", err)
	}
	return ds.lock.Release()
}

// Subscribe registers a change listener, fired after every successful
// mutation or non-empty pull.
func (ds *DataStore) Subscribe(l gitstore.Listener) int {
	return ds.store.Publisher().Subscribe(l)
}

// Unsubscribe removes a previously registered listener.
func (ds *DataStore) Unsubscribe(id int) {
	ds.store.Publisher().Unsubscribe(id)
}

// OnRemoteURLChanged must be called by the embedder when the Repository
// Handle's remote URL changes out of band.
func (ds *DataStore) OnRemoteURLChanged(ctx context.Context, url string) error {
	return ds.store.OnRemoteURLChanged(ctx, "origin", url)
}

// OnReceivePack must be called by the embedder's receive-hook.
func (ds *DataStore) OnReceivePack() {
	ds.store.OnReceivePack()
}

// Sync forces one Remote Reconciliation pass immediately, rather than
// waiting for the next sync-loop tick. Useful for an embedder that just
// learned of a remote change out of band.
func (ds *DataStore) Sync(ctx context.Context) error {
	return ds.store.Reconcile(ctx)
}

func cachePath(workDir string) string {
	return workDir + "/.git/fabric-gitstore-cache.db"
}

func profilesRoot(h repohandle.Handle) string {
	return h.RepoRoot() + "/" + mapper.ProfilesDir
}


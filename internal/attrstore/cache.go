package attrstore

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
)

// snapshot is the on-disk shape of the disconnected-coordinator cache: a
// flat path-to-value map, small enough that a human can read or hand-edit
// it during an outage.
type snapshot struct {
	Values map[string]string `toml:"values"`
}

// CachingStore wraps a Store with a disk-backed last-known-value cache.
// Reads that fail (coordinator unreachable) fall back to the last value
// seen for that path; reads that succeed refresh the cache. The cache
// file is also watched for external writes (another process refreshing
// it out of band) via fsnotify, so CachingStore picks up those updates
// without waiting for its own next successful read.
type CachingStore struct {
	upstream Store
	path     string
	logger   *log.Logger

	mu   sync.RWMutex
	vals map[string]string

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewCachingStore wraps upstream, persisting its cache to cachePath.
// cachePath's parent directory is created if missing. An existing cache
// file is loaded immediately so a cold start during an outage still has
// the last-known values.
func NewCachingStore(upstream Store, cachePath string, logger *log.Logger) (*CachingStore, error) {
	if logger == nil {
		logger = log.New(os.Stderr, "[attrstore] ", log.LstdFlags)
	}

	cs := &CachingStore{
		upstream: upstream,
		path:     cachePath,
		logger:   logger,
		vals:     make(map[string]string),
	}

	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		return nil, err
	}
	cs.mu.Lock()
	cs.loadLocked()
	cs.mu.Unlock()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(cachePath)); err != nil {
		watcher.Close()
		return nil, err
	}
	cs.watcher = watcher
	cs.done = make(chan struct{})
	go cs.watchLoop()

	return cs, nil
}

// Close stops the fsnotify watch goroutine.
func (cs *CachingStore) Close() error {
	if cs.watcher == nil {
		return nil
	}
	close(cs.done)
	return cs.watcher.Close()
}

// Get tries upstream first; on failure it logs the failure and falls back
// to the cached value rather than surfacing the error, since the caller
// (facade helpers) treats the attribute store as eventually consistent and
// must tolerate a disconnected coordinator. When no value is cached for
// path, the upstream error is returned.
func (cs *CachingStore) Get(ctx context.Context, path string) (string, error) {
	v, err := cs.upstream.Get(ctx, path)
	if err == nil {
		cs.mu.Lock()
		cs.vals[path] = v
		cs.mu.Unlock()
		cs.persist()
		return v, nil
	}

	cs.logger.Printf("upstream get failed, using cached value path=%s err=%v", path, err)
	cs.mu.RLock()
	cached, ok := cs.vals[path]
	cs.mu.RUnlock()
	if !ok {
		return "", err
	}
	return cached, nil
}

// Set writes through to upstream and updates the local cache on success.
func (cs *CachingStore) Set(ctx context.Context, path, value string) error {
	if err := cs.upstream.Set(ctx, path, value); err != nil {
		return err
	}
	cs.mu.Lock()
	cs.vals[path] = value
	cs.mu.Unlock()
	cs.persist()
	return nil
}

// loadLocked reads the cache file into cs.vals. Callers must hold cs.mu.
func (cs *CachingStore) loadLocked() {
	var s snapshot
	if _, err := toml.DecodeFile(cs.path, &s); err != nil {
		return // missing or unreadable cache is not fatal, starts empty
	}
	if s.Values != nil {
		cs.vals = s.Values
	}
}

func (cs *CachingStore) persist() {
	cs.mu.RLock()
	s := snapshot{Values: make(map[string]string, len(cs.vals))}
	for k, v := range cs.vals {
		s.Values[k] = v
	}
	cs.mu.RUnlock()

	f, err := os.Create(cs.path)
	if err != nil {
		cs.logger.Printf("persist cache failed path=%s err=%v", cs.path, err)
		return
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(s); err != nil {
		cs.logger.Printf("encode cache failed path=%s err=%v", cs.path, err)
	}
}

func (cs *CachingStore) watchLoop() {
	for {
		select {
		case <-cs.done:
			return
		case ev, ok := <-cs.watcher.Events:
			if !ok {
				return
			}
			if ev.Name != cs.path || (ev.Op&(fsnotify.Write|fsnotify.Create) == 0) {
				continue
			}
			cs.mu.Lock()
			cs.loadLocked()
			cs.mu.Unlock()
		case err, ok := <-cs.watcher.Errors:
			if !ok {
				return
			}
			cs.logger.Printf("watch error: %v", err)
		}
	}
}

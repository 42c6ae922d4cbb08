package gitstore

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/fusesource/fabric-gitstore/internal/repohandle"
)

// SyncLoop is the single-threaded periodic pull worker: a tick is
// structurally equivalent to an external operation, acquiring the same
// mutex through WriteOp with an empty body.
type SyncLoop struct {
	store  *Store
	period time.Duration
	logger *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncLoop builds a SyncLoop; call Start to begin ticking.
func NewSyncLoop(store *Store, period time.Duration, logger *log.Logger) *SyncLoop {
	if period <= 0 {
		period = time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &SyncLoop{store: store, period: period, logger: logger, ctx: ctx, cancel: cancel}
}

// Start begins ticking in a background goroutine.
func (sl *SyncLoop) Start() {
	sl.wg.Add(1)
	go sl.run()
}

func (sl *SyncLoop) run() {
	defer sl.wg.Done()

	ticker := time.NewTicker(sl.period)
	defer ticker.Stop()

	for {
		select {
		case <-sl.ctx.Done():
			return
		case <-ticker.C:
			sl.tick()
		}
	}
}

func (sl *SyncLoop) tick() {
	_, err := sl.store.WriteOp(sl.ctx, Identity{}, func(h repohandle.Handle, gctx *GitContext) (any, error) {
		return nil, nil
	}, true, &GitContext{})
	if err != nil {
		sl.logger.Printf("sync tick failed: %v", err)
	}
}

// Stop signals the loop to exit and waits up to grace for it to finish
// any in-flight tick.
func (sl *SyncLoop) Stop(grace time.Duration) {
	sl.cancel()

	done := make(chan struct{})
	go func() {
		sl.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(grace):
		sl.logger.Printf("sync loop did not stop within %s grace period", grace)
	}
}

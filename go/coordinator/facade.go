// Package coordinator implements the Client Facade: the object invoked
// in-process by the scheduler, and (via go/rpc) by remote task
// executors.
//
// Grounded on go/shuffle/api.go's API.Shuffle: a thin entry point that
// builds a request, hands it to the owning actor (here, a
// dispatcher.Dispatcher), and blocks on the reply.
package coordinator

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	log "github.com/sirupsen/logrus"

	"github.com/estuary/occ/go/dispatcher"
	"github.com/estuary/occ/go/occpb"
)

// recentlyEndedCacheSize bounds the stage-liveness fast path. It is
// sized generously relative to any realistic number of
// concurrently-recent stage boundaries; eviction only ever degrades
// back to the normal (still-correct) Dispatcher round trip.
const recentlyEndedCacheSize = 4096

// Facade is the in-process entry point for the five coordinator
// operations: stageStart, stageEnd, taskCompleted, canCommit, and
// stop.
type Facade struct {
	mu   sync.RWMutex
	disp *dispatcher.Dispatcher // nil once Stop has completed

	// recentlyEnded lets canCommit short-circuit to false for a stage
	// it already knows has ended, without a Dispatcher round trip.
	// This can only ever agree with what the Dispatcher would have
	// said (invariant 2 / P5), so a cache miss or eviction simply
	// falls through to the normal path.
	recentlyEnded *lru.Cache[occpb.StageId, struct{}]
}

// New builds a Facade wrapping the given Dispatcher, which must
// already be running (see dispatcher.Dispatcher.Start).
func New(disp *dispatcher.Dispatcher) *Facade {
	cache, err := lru.New[occpb.StageId, struct{}](recentlyEndedCacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which
		// recentlyEndedCacheSize never is.
		panic(err)
	}
	return &Facade{disp: disp, recentlyEnded: cache}
}

// StageStart implements the stageStart notification.
func (f *Facade) StageStart(ctx context.Context, stage occpb.StageId) error {
	disp, ok := f.attached()
	if !ok {
		return nil
	}
	f.recentlyEnded.Remove(stage)
	return disp.Notify(ctx, occpb.StageStarted{Stage: stage})
}

// StageEnd implements the stageEnd notification.
func (f *Facade) StageEnd(ctx context.Context, stage occpb.StageId) error {
	disp, ok := f.attached()
	if !ok {
		return nil
	}
	f.recentlyEnded.Add(stage, struct{}{})
	return disp.Notify(ctx, occpb.StageEnded{Stage: stage})
}

// TaskCompleted implements the taskCompleted notification.
func (f *Facade) TaskCompleted(ctx context.Context, stage occpb.StageId, task occpb.TaskId, attempt occpb.AttemptId, reason occpb.TaskEndReason) error {
	disp, ok := f.attached()
	if !ok {
		return nil
	}
	return disp.Notify(ctx, occpb.TaskCompleted{Stage: stage, Task: task, Attempt: attempt, Reason: reason})
}

// CanCommit implements the canCommit request. If the coordinator has
// been stopped, it denies rather than erroring — a denial is always
// safe, since the caller simply will not commit.
func (f *Facade) CanCommit(ctx context.Context, stage occpb.StageId, task occpb.TaskId, attempt occpb.AttemptId) (bool, error) {
	disp, ok := f.attached()
	if !ok {
		return false, nil
	}
	if _, ended := f.recentlyEnded.Get(stage); ended {
		return false, nil
	}
	return disp.Ask(ctx, occpb.AskPermissionToCommit{Stage: stage, Task: task, Attempt: attempt})
}

// Stop implements the stop lifecycle operation: it drains the
// Dispatcher's state (by asking it to process StopCoordinator) and
// then detaches, so every subsequent call on this Facade is a
// safe no-op/denial without touching the Dispatcher again.
func (f *Facade) Stop(ctx context.Context) error {
	f.mu.Lock()
	disp := f.disp
	f.disp = nil
	f.mu.Unlock()

	if disp == nil {
		return nil // already stopped
	}
	if err := disp.Stop(ctx); err != nil {
		log.WithError(err).Warn("coordinator stop did not receive an acknowledgement before its context expired")
		return err
	}
	return nil
}

// attached returns the current Dispatcher and whether the Facade is
// still attached to one (i.e. Stop has not completed).
func (f *Facade) attached() (*dispatcher.Dispatcher, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.disp, f.disp != nil
}

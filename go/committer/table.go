// Package committer implements the Decision Kernel: a pure,
// single-threaded state machine over the Committers Table that decides
// which task attempt may commit its output. Nothing in this package
// blocks, sleeps, or performs I/O beyond the occasional log line —
// event handlers here are plain synchronous transformations, so
// whatever serializes calls into the Table (the Dispatcher) never
// itself blocks on kernel logic.
package committer

import (
	log "github.com/sirupsen/logrus"

	"github.com/estuary/occ/go/occpb"
)

// StageCommitSet maps TaskId to the AttemptId currently authorized to
// commit, for one live stage. Absence of a key means no attempt of
// that task has yet been granted.
type StageCommitSet map[occpb.TaskId]occpb.AttemptId

// Table tracks, per live stage, which attempt of each task currently
// holds the commit slot. Its zero value is ready to use. Table is not
// safe for concurrent use by design: it is owned exclusively by the
// Dispatcher goroutine, and no other component may read or mutate it
// directly.
type Table struct {
	stages map[occpb.StageId]StageCommitSet
}

// New returns an empty Table.
func New() *Table {
	return &Table{stages: make(map[occpb.StageId]StageCommitSet)}
}

// IsLive reports whether stage currently has a Committers Table
// subtable, i.e. whether a StageStarted has been processed for it
// without a matching StageEnded.
func (t *Table) IsLive(stage occpb.StageId) bool {
	_, ok := t.stages[stage]
	return ok
}

// Held returns the attempt currently holding the commit slot for
// (stage, task), and whether one is held at all.
func (t *Table) Held(stage occpb.StageId, task occpb.TaskId) (occpb.AttemptId, bool) {
	set, ok := t.stages[stage]
	if !ok {
		return 0, false
	}
	a, ok := set[task]
	return a, ok
}

// HandleStageStart inserts an empty StageCommitSet under stage. A
// repeated StageStarted for a stage that is already live replaces its
// subtable with a fresh empty one, abandoning any locks the prior
// stage run held — starting a stage over means none of its prior
// attempts are owed anything. See DESIGN.md's Open Questions for why
// this choice (replace, not reject or merge) was pinned.
func (t *Table) HandleStageStart(stage occpb.StageId) {
	t.stages[stage] = make(StageCommitSet)
}

// HandleStageEnd removes stage from the table, discarding its
// subtable. A no-op if the stage isn't live.
func (t *Table) HandleStageEnd(stage occpb.StageId) {
	delete(t.stages, stage)
}

// HandleAsk grants the commit slot for (stage, task) to attempt if
// none is held yet, and returns whether attempt now holds it. The
// first attempt to ask wins; every later ask for the same task is
// denied regardless of which attempt asks, including the one already
// holding the slot.
func (t *Table) HandleAsk(stage occpb.StageId, task occpb.TaskId, attempt occpb.AttemptId) bool {
	set, live := t.stages[stage]
	if !live {
		log.WithFields(log.Fields{"stage": stage, "task": task, "attempt": attempt}).
			Debug("ask for permission to commit against a stage that is not live")
		return false
	}
	if _, held := set[task]; held {
		// The first authorized attempt retains the lock regardless of
		// whether existing == attempt; re-asking does not renew.
		return false
	}
	set[task] = attempt
	return true
}

// HandleTaskCompletion records that attempt finished, for the reason
// given. Only a non-committing failure (ReasonOther) releases the
// commit slot, and only if attempt is the one actually holding it —
// a success leaves the slot held until stage end to block a late
// duplicate, and a denial was never holding the slot to begin with.
func (t *Table) HandleTaskCompletion(stage occpb.StageId, task occpb.TaskId, attempt occpb.AttemptId, reason occpb.TaskEndReason) {
	set, live := t.stages[stage]
	if !live {
		log.WithFields(log.Fields{"stage": stage, "task": task, "attempt": attempt}).
			Debug("task completion against a stage that is not live")
		return
	}

	switch reason.Kind {
	case occpb.ReasonSuccess:
		// The authorized committer completed; the lock is meaningful
		// until stage end, to prevent a late duplicate. Leave as-is.
		return
	case occpb.ReasonCommitDenied:
		// This attempt was denied by this coordinator; that denial
		// must not release the real lock held by another attempt.
		return
	default: // occpb.ReasonOther
		if held, ok := set[task]; ok && held == attempt {
			delete(set, task)
		}
		// If the held attempt differs, some other attempt that was
		// never granted failed; the lock belongs to the real
		// committer and is untouched.
	}
}

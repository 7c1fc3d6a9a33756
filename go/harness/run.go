package harness

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nsf/jsondiff"

	"github.com/estuary/occ/go/coordinator"
)

// Outcome records what actually happened when a ScriptedEvent was
// replayed, so Run's caller (a test, or cmd/occd-sim) can compare it
// against the event's expectations.
type Outcome struct {
	Event   ScriptedEvent
	Granted bool // only meaningful for EventAskPermissionToCommit
}

// ErrUnexpectedReply is returned by Run when an Ask event's observed
// reply doesn't match ScriptedEvent.ExpectGranted.
type ErrUnexpectedReply struct {
	Event    ScriptedEvent
	Granted  bool
	Expected bool
}

func (e *ErrUnexpectedReply) Error() string {
	return fmt.Sprintf("stage=%d task=%d attempt=%d: %s",
		e.Event.Stage, e.Event.Task, e.Event.Attempt, e.diff())
}

// diff renders what was observed against what the ScriptedEvent
// expected as a readable JSON diff, so a scenario failure in
// cmd/occd-sim or a test log shows more than a bare boolean mismatch.
func (e *ErrUnexpectedReply) diff() string {
	got, _ := json.Marshal(struct {
		Granted bool `json:"granted"`
	}{e.Granted})
	want, _ := json.Marshal(struct {
		Granted bool `json:"granted"`
	}{e.Expected})

	opts := jsondiff.DefaultConsoleOptions()
	_, rendered := jsondiff.Compare(want, got, &opts)
	return rendered
}

// Run drains a Scenario's ready events in program order, dispatches
// each into facade, and blocks on its reply (if any) before advancing
// simulated time to unblock the next batch.
//
// Adapted from go/testing/action.go's RunTestCase, generalized from
// driving shard Stat/Ingest/Verify calls to driving the Facade's five
// operations directly — there is no separate Driver abstraction here,
// because unlike the teacher's catalog tests an OCC scenario talks to
// the real Facade, not a test double.
func Run(ctx context.Context, facade *coordinator.Facade, scenario *Scenario) ([]Outcome, error) {
	var outcomes []Outcome

	for {
		ready, nextReady := scenario.PopReady()

		for _, ev := range ready {
			outcome, err := fire(ctx, facade, ev)
			if err != nil {
				return outcomes, err
			}
			outcomes = append(outcomes, outcome)

			if ev.Kind == EventAskPermissionToCommit && outcome.Granted != ev.ExpectGranted {
				return outcomes, &ErrUnexpectedReply{Event: ev, Granted: outcome.Granted, Expected: ev.ExpectGranted}
			}
		}

		// Completed a batch: loop again in case draining it unblocked
		// nothing further at this same instant (mirrors RunTestCase's
		// "if we completed stats, loop again" re-check).
		if len(ready) != 0 {
			continue
		}

		if nextReady == -1 {
			return outcomes, nil // script exhausted.
		}
		scenario.CompletedAdvance(nextReady)
	}
}

func fire(ctx context.Context, facade *coordinator.Facade, ev ScriptedEvent) (Outcome, error) {
	switch ev.Kind {
	case EventStageStarted:
		return Outcome{Event: ev}, facade.StageStart(ctx, ev.Stage)
	case EventStageEnded:
		return Outcome{Event: ev}, facade.StageEnd(ctx, ev.Stage)
	case EventTaskCompleted:
		return Outcome{Event: ev}, facade.TaskCompleted(ctx, ev.Stage, ev.Task, ev.Attempt, ev.Reason)
	case EventStop:
		return Outcome{Event: ev}, facade.Stop(ctx)
	case EventAskPermissionToCommit:
		granted, err := facade.CanCommit(ctx, ev.Stage, ev.Task, ev.Attempt)
		return Outcome{Event: ev, Granted: granted}, err
	default:
		return Outcome{Event: ev}, fmt.Errorf("unknown event kind %v", ev.Kind)
	}
}

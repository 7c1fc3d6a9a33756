package harness

import "github.com/estuary/occ/go/occpb"

// Scenarios returns the six canonical end-to-end scenarios exercising
// the Decision Kernel's trickiest properties (speculative races,
// a committer that fails before commit, a stale retry, stage gating,
// a denial that must stay inert, and a stopped coordinator), each as a
// replayable Scenario. Every entry here is exercised both directly
// and end-to-end through Run (see harness's own scenarios_test.go):
// the first five in go/committer's table_test.go, with no
// Dispatcher/Facade involved, and the stopped coordinator in
// go/coordinator's facade_test.go and go/transport's local_test.go.
func Scenarios() map[string]*Scenario {
	return map[string]*Scenario{
		"speculation race":    speculationRace(),
		"failed committer":    failedCommitter(),
		"stale completion":    staleCompletion(),
		"stage gating":        stageGating(),
		"denial is inert":     denialIsInert(),
		"stopped coordinator": stoppedCoordinator(),
	}
}

func speculationRace() *Scenario {
	return NewScenario([]ScriptedEvent{
		{ReadyAt: 0, Kind: EventStageStarted, Stage: 5},
		{ReadyAt: 1, Kind: EventAskPermissionToCommit, Stage: 5, Task: 9, Attempt: 100, ExpectGranted: true},
		{ReadyAt: 1, Kind: EventAskPermissionToCommit, Stage: 5, Task: 9, Attempt: 101, ExpectGranted: false},
		{ReadyAt: 2, Kind: EventTaskCompleted, Stage: 5, Task: 9, Attempt: 100, Reason: occpb.Success()},
		{ReadyAt: 3, Kind: EventAskPermissionToCommit, Stage: 5, Task: 9, Attempt: 102, ExpectGranted: false},
	})
}

func failedCommitter() *Scenario {
	return NewScenario([]ScriptedEvent{
		{ReadyAt: 0, Kind: EventStageStarted, Stage: 5},
		{ReadyAt: 1, Kind: EventAskPermissionToCommit, Stage: 5, Task: 9, Attempt: 100, ExpectGranted: true},
		{ReadyAt: 2, Kind: EventTaskCompleted, Stage: 5, Task: 9, Attempt: 100, Reason: occpb.Other("executor crashed before commit")},
		{ReadyAt: 3, Kind: EventAskPermissionToCommit, Stage: 5, Task: 9, Attempt: 101, ExpectGranted: true},
		{ReadyAt: 4, Kind: EventTaskCompleted, Stage: 5, Task: 9, Attempt: 101, Reason: occpb.Success()},
	})
}

func staleCompletion() *Scenario {
	return NewScenario([]ScriptedEvent{
		{ReadyAt: 0, Kind: EventStageStarted, Stage: 5},
		{ReadyAt: 1, Kind: EventAskPermissionToCommit, Stage: 5, Task: 9, Attempt: 100, ExpectGranted: true},
		// Attempt 77 was never granted; its completion must not touch the slot held by 100.
		{ReadyAt: 2, Kind: EventTaskCompleted, Stage: 5, Task: 9, Attempt: 77, Reason: occpb.Other("stale retry from a superseded attempt")},
		{ReadyAt: 3, Kind: EventAskPermissionToCommit, Stage: 5, Task: 9, Attempt: 101, ExpectGranted: false},
	})
}

func stageGating() *Scenario {
	return NewScenario([]ScriptedEvent{
		{ReadyAt: 0, Kind: EventAskPermissionToCommit, Stage: 7, Task: 0, Attempt: 1, ExpectGranted: false},
		{ReadyAt: 1, Kind: EventStageStarted, Stage: 7},
		{ReadyAt: 2, Kind: EventAskPermissionToCommit, Stage: 7, Task: 0, Attempt: 1, ExpectGranted: true},
		{ReadyAt: 3, Kind: EventStageEnded, Stage: 7},
		{ReadyAt: 4, Kind: EventAskPermissionToCommit, Stage: 7, Task: 0, Attempt: 2, ExpectGranted: false},
	})
}

func denialIsInert() *Scenario {
	return NewScenario([]ScriptedEvent{
		{ReadyAt: 0, Kind: EventStageStarted, Stage: 5},
		{ReadyAt: 1, Kind: EventAskPermissionToCommit, Stage: 5, Task: 9, Attempt: 100, ExpectGranted: true},
		{ReadyAt: 2, Kind: EventTaskCompleted, Stage: 5, Task: 9, Attempt: 101, Reason: occpb.CommitDenied("job-42", "split-3", 101)},
		// Lock is still held by 100: a fresh attempt must be denied.
		{ReadyAt: 3, Kind: EventAskPermissionToCommit, Stage: 5, Task: 9, Attempt: 102, ExpectGranted: false},
	})
}

func stoppedCoordinator() *Scenario {
	return NewScenario([]ScriptedEvent{
		{ReadyAt: 0, Kind: EventStageStarted, Stage: 5},
		{ReadyAt: 1, Kind: EventStop},
		{ReadyAt: 2, Kind: EventAskPermissionToCommit, Stage: 5, Task: 9, Attempt: 100, ExpectGranted: false},
	})
}

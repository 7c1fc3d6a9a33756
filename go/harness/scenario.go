// Package harness is a small discretized-time driver that fires a
// scripted sequence of stage/task events into a real coordinator.Facade
// and checks the replies it gets back, the same role go/testing plays
// for the teacher's own streaming catalog tests (graph.go's Graph,
// action.go's RunTestCase), generalized from shuffled derivation reads
// to OCC's five wire messages.
package harness

import (
	"time"

	"github.com/estuary/occ/go/occpb"
)

// EventKind names which of the five wire messages a ScriptedEvent
// replays.
type EventKind int

const (
	EventStageStarted EventKind = iota
	EventStageEnded
	EventAskPermissionToCommit
	EventTaskCompleted
	EventStop
)

func (k EventKind) String() string {
	switch k {
	case EventStageStarted:
		return "StageStarted"
	case EventStageEnded:
		return "StageEnded"
	case EventAskPermissionToCommit:
		return "AskPermissionToCommit"
	case EventTaskCompleted:
		return "TaskCompleted"
	case EventStop:
		return "StopCoordinator"
	default:
		return "Unknown"
	}
}

// ScriptedEvent is one line of a Scenario's script: a wire message to
// replay at a given simulated time, plus (for an Ask) the reply the
// scenario author expects back.
type ScriptedEvent struct {
	// ReadyAt is the simulated time at which this event fires.
	ReadyAt time.Duration
	Kind    EventKind

	Stage   occpb.StageId
	Task    occpb.TaskId
	Attempt occpb.AttemptId
	Reason  occpb.TaskEndReason

	// ExpectGranted is only consulted for EventAskPermissionToCommit.
	ExpectGranted bool
}

// Scenario is a fixed script of ScriptedEvents, replayed by Run
// against a real coordinator.Facade. Unlike the teacher's Graph
// (which grew its pending queue dynamically as upstream writes were
// projected through a shuffle topology), an OCC scenario's script is
// wholly authored up front: permission requests here don't cascade
// into further events the way a derivation's read of a write does.
type Scenario struct {
	atTime  time.Duration
	pending []ScriptedEvent
}

// NewScenario builds a Scenario from a fixed script. The script need
// not be pre-sorted by ReadyAt.
func NewScenario(script []ScriptedEvent) *Scenario {
	pending := append([]ScriptedEvent(nil), script...)
	return &Scenario{pending: pending}
}

// PopReady removes and returns every ScriptedEvent whose ReadyAt
// equals the scenario's current simulated time, along with the
// smallest delta from now among all events it examined, including the
// ones it just returned (so 0 whenever ready is non-empty, and -1 only
// when there were no events at all), mirroring go/testing/graph.go's
// PopReadyStats.
func (s *Scenario) PopReady() (ready []ScriptedEvent, nextReady time.Duration) {
	nextReady = -1
	var r, w int

	for ; r != len(s.pending); r++ {
		delta := s.pending[r].ReadyAt - s.atTime

		if nextReady == -1 || delta < nextReady {
			nextReady = delta
		}
		if delta == 0 {
			ready = append(ready, s.pending[r])
		} else {
			s.pending[w] = s.pending[r]
			w++
		}
	}
	s.pending = s.pending[:w]
	return ready, nextReady
}

// CompletedAdvance moves the scenario's simulated clock forward by
// delta, panicking if doing so would skip past a still-pending event
// (which would mean PopReady's accounting was wrong).
func (s *Scenario) CompletedAdvance(delta time.Duration) {
	s.atTime += delta
	for _, ev := range s.pending {
		if ev.ReadyAt < s.atTime {
			panic("scenario time advanced beyond a pending event")
		}
	}
}

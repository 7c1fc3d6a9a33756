package committer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/estuary/occ/go/occpb"
)

// TestSpeculationRace pins the speculation-race scenario: two
// concurrently speculative attempts of the same task race to ask
// first, and only the winner is ever granted.
func TestSpeculationRace(t *testing.T) {
	var tbl = New()

	tbl.HandleStageStart(5)
	require.True(t, tbl.HandleAsk(5, 9, 100))
	require.False(t, tbl.HandleAsk(5, 9, 101))

	tbl.HandleTaskCompletion(5, 9, 100, occpb.Success())
	require.False(t, tbl.HandleAsk(5, 9, 102))
}

// TestFailedCommitter pins scenario 2: a non-success completion of
// the held attempt releases the slot (P2).
func TestFailedCommitter(t *testing.T) {
	var tbl = New()

	tbl.HandleStageStart(5)
	require.True(t, tbl.HandleAsk(5, 9, 100))

	tbl.HandleTaskCompletion(5, 9, 100, occpb.Other("lost executor"))
	require.True(t, tbl.HandleAsk(5, 9, 101))

	tbl.HandleTaskCompletion(5, 9, 101, occpb.Success())
	require.False(t, tbl.HandleAsk(5, 9, 102))
}

// TestStaleCompletion pins scenario 3 (P7): a completion for an
// attempt that was never granted must not disturb the real holder.
func TestStaleCompletion(t *testing.T) {
	var tbl = New()

	tbl.HandleStageStart(5)
	require.True(t, tbl.HandleAsk(5, 9, 100))

	tbl.HandleTaskCompletion(5, 9, 77, occpb.Other("stale retry"))

	held, ok := tbl.Held(5, 9)
	require.True(t, ok)
	require.Equal(t, occpb.AttemptId(100), held)

	require.False(t, tbl.HandleAsk(5, 9, 101))
}

// TestStageGating pins scenario 4 (P5): no stage, no grant, and a
// stage end revokes every outstanding lock.
func TestStageGating(t *testing.T) {
	var tbl = New()

	require.False(t, tbl.HandleAsk(7, 0, 1))

	tbl.HandleStageStart(7)
	require.True(t, tbl.HandleAsk(7, 0, 1))

	tbl.HandleStageEnd(7)
	require.False(t, tbl.HandleAsk(7, 0, 2))
}

// TestDenialIsInert pins scenario 5 (P4): a CommitDenied completion
// for an attempt that was never the holder changes nothing.
func TestDenialIsInert(t *testing.T) {
	var tbl = New()

	tbl.HandleStageStart(5)
	require.True(t, tbl.HandleAsk(5, 9, 100))

	tbl.HandleTaskCompletion(5, 9, 101, occpb.CommitDenied("job-42", "split-3", 101))

	held, ok := tbl.Held(5, 9)
	require.True(t, ok)
	require.Equal(t, occpb.AttemptId(100), held)
	require.False(t, tbl.HandleAsk(5, 9, 102))
}

// TestIdempotentRetries pins P6: replaying the same Ask twice leaves
// the table exactly as a single Ask would have, even though the
// second call's own reply is false (the slot is already held).
func TestIdempotentRetries(t *testing.T) {
	var tbl = New()
	tbl.HandleStageStart(5)

	first := tbl.HandleAsk(5, 9, 100)
	second := tbl.HandleAsk(5, 9, 100)

	require.True(t, first)
	require.False(t, second)

	held, ok := tbl.Held(5, 9)
	require.True(t, ok)
	require.Equal(t, occpb.AttemptId(100), held)
}

// TestStageStartOverwritesLiveSubtable pins the pinned resolution to
// an otherwise ambiguous case: a repeated StageStarted against an
// already-live stage is destructive, discarding any locks the prior
// incarnation held.
func TestStageStartOverwritesLiveSubtable(t *testing.T) {
	var tbl = New()

	tbl.HandleStageStart(5)
	require.True(t, tbl.HandleAsk(5, 9, 100))

	tbl.HandleStageStart(5) // Restart: wipes the subtable.
	require.True(t, tbl.IsLive(5))

	_, held := tbl.Held(5, 9)
	require.False(t, held)
	require.True(t, tbl.HandleAsk(5, 9, 200))
}

// TestUnrelatedAttemptCannotReleaseLock pins P7 directly against
// HandleTaskCompletion, independent of the stale-completion scenario
// fixture above.
func TestUnrelatedAttemptCannotReleaseLock(t *testing.T) {
	var tbl = New()
	tbl.HandleStageStart(5)
	require.True(t, tbl.HandleAsk(5, 9, 100))

	tbl.HandleTaskCompletion(5, 9, 999, occpb.Other("unrelated"))

	held, ok := tbl.Held(5, 9)
	require.True(t, ok)
	require.Equal(t, occpb.AttemptId(100), held)
}

// TestCompletionAgainstUnknownStageIsNoop covers handleTaskCompletion
// and handleAskPermissionToCommit both being safe no-ops/denials
// against a stage the table has never heard of.
func TestCompletionAgainstUnknownStageIsNoop(t *testing.T) {
	var tbl = New()

	require.False(t, tbl.IsLive(9))
	tbl.HandleTaskCompletion(9, 1, 1, occpb.Other("no such stage"))
	require.False(t, tbl.HandleAsk(9, 1, 2))
}

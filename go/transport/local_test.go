package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/estuary/occ/go/coordinator"
	"github.com/estuary/occ/go/dispatcher"
	"github.com/estuary/occ/go/occpb"
)

func TestLocalTransportThroughShimMatchesFacade(t *testing.T) {
	disp := dispatcher.New(0, nil)
	disp.Start()
	facade := coordinator.New(disp)

	shim := NewShim(Local{Facade: facade}, Policy{MaxAttempts: 1, RetryInterval: time.Millisecond, Timeout: time.Second})

	ctx := context.Background()
	require.NoError(t, facade.StageStart(ctx, 5))

	granted, err := shim.Ask(ctx, occpb.AskPermissionToCommit{Stage: 5, Task: 9, Attempt: 100})
	require.NoError(t, err)
	require.True(t, granted)
}

// TestStoppedCoordinatorDeniesWithoutBlocking pins the stopped-
// coordinator scenario: once stopped, canCommit returns false and
// never blocks longer than one retry interval.
func TestStoppedCoordinatorDeniesWithoutBlocking(t *testing.T) {
	disp := dispatcher.New(0, nil)
	disp.Start()
	facade := coordinator.New(disp)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, facade.Stop(ctx))

	shim := NewShim(Local{Facade: facade}, Policy{MaxAttempts: 3, RetryInterval: 10 * time.Millisecond, Timeout: 50 * time.Millisecond})

	start := time.Now()
	granted, err := shim.Ask(context.Background(), occpb.AskPermissionToCommit{Stage: 5, Task: 9, Attempt: 100})
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.False(t, granted)
	require.Less(t, elapsed, 10*time.Millisecond)
}

package dispatcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/estuary/occ/go/occpb"
)

func startDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	d := New(0, nil)
	d.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = d.Stop(ctx)
	})
	return d
}

func TestDispatcherSerializesAskAndNotify(t *testing.T) {
	d := startDispatcher(t)
	ctx := context.Background()

	require.NoError(t, d.Notify(ctx, occpb.StageStarted{Stage: 5}))

	granted, err := d.Ask(ctx, occpb.AskPermissionToCommit{Stage: 5, Task: 9, Attempt: 100})
	require.NoError(t, err)
	require.True(t, granted)

	granted, err = d.Ask(ctx, occpb.AskPermissionToCommit{Stage: 5, Task: 9, Attempt: 101})
	require.NoError(t, err)
	require.False(t, granted)
}

func TestDispatcherStopUnblocksDone(t *testing.T) {
	d := New(0, nil)
	d.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))

	select {
	case <-d.Done():
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

func TestAskRespectsContextCancellation(t *testing.T) {
	// A Dispatcher with a full, unconsumed mailbox never drains, so
	// Ask must still honor ctx cancellation rather than block forever.
	d := New(0, nil) // Not started: nothing ever reads the mailbox.

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := d.Ask(ctx, occpb.AskPermissionToCommit{Stage: 1, Task: 1, Attempt: 1})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

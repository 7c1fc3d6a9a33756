package transport

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/estuary/occ/go/occpb"
)

// flakyTransport fails the first failCount attempts, then succeeds
// with grant.
type flakyTransport struct {
	failCount int32
	grant     bool
	attempts  int32
}

func (f *flakyTransport) Ask(ctx context.Context, req occpb.AskPermissionToCommit) (bool, error) {
	n := atomic.AddInt32(&f.attempts, 1)
	if n <= f.failCount {
		return false, errTransient
	}
	return f.grant, nil
}

var errTransient = &transientErr{}

type transientErr struct{}

func (*transientErr) Error() string { return "transient failure" }

func TestShimRetriesUntilSuccess(t *testing.T) {
	ft := &flakyTransport{failCount: 2, grant: true}
	shim := NewShim(ft, Policy{MaxAttempts: 3, RetryInterval: time.Millisecond, Timeout: time.Second})

	granted, err := shim.Ask(context.Background(), occpb.AskPermissionToCommit{Stage: 1, Task: 1, Attempt: 1})
	require.NoError(t, err)
	require.True(t, granted)
	require.EqualValues(t, 3, ft.attempts)
}

func TestShimExhaustsAttemptsAndReturnsSentinel(t *testing.T) {
	ft := &flakyTransport{failCount: 10, grant: true}
	shim := NewShim(ft, Policy{MaxAttempts: 3, RetryInterval: time.Millisecond, Timeout: time.Second})

	_, err := shim.Ask(context.Background(), occpb.AskPermissionToCommit{Stage: 1, Task: 1, Attempt: 1})
	require.ErrorIs(t, err, ErrCoordinatorUnreachable)
	require.EqualValues(t, 3, ft.attempts)
}

func TestShimZeroMaxAttemptsTreatedAsOne(t *testing.T) {
	ft := &flakyTransport{failCount: 0, grant: true}
	shim := NewShim(ft, Policy{MaxAttempts: 0, RetryInterval: time.Millisecond, Timeout: time.Second})

	granted, err := shim.Ask(context.Background(), occpb.AskPermissionToCommit{Stage: 1, Task: 1, Attempt: 1})
	require.NoError(t, err)
	require.True(t, granted)
	require.EqualValues(t, 1, ft.attempts)
}

func TestShimNeverBlocksLongerThanOneRetryIntervalPastDeadline(t *testing.T) {
	ft := &flakyTransport{failCount: 100, grant: true}
	shim := NewShim(ft, Policy{MaxAttempts: 100, RetryInterval: 10 * time.Millisecond, Timeout: 5 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := shim.Ask(ctx, occpb.AskPermissionToCommit{Stage: 1, Task: 1, Attempt: 1})
	elapsed := time.Since(start)

	require.Error(t, err)
	require.Less(t, elapsed, 100*time.Millisecond)
}

// Package transport implements the retry shim canCommit dispatches
// through, with bounded retries and a per-attempt timeout. It
// is deliberately narrow (a single Ask method) so the coordinator can
// be tested with a synchronous in-memory Transport while production
// callers use the gRPC-backed implementation in go/transport/grpc.go.
package transport

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/estuary/occ/go/occpb"
)

// ErrCoordinatorUnreachable is returned by Ask when every attempt
// failed to produce a reply. Callers must treat it as denial and must
// not commit.
var ErrCoordinatorUnreachable = errors.New("coordinator unreachable")

// Transport sends one AskPermissionToCommit and returns its boolean
// reply, or an error if this single attempt failed (timed out,
// connection refused, etc.). Retries and the overall policy live in
// Shim, not here.
type Transport interface {
	Ask(ctx context.Context, req occpb.AskPermissionToCommit) (bool, error)
}

// Policy configures how many times an Ask is retried, how long to
// pause between attempts, and how long a single attempt may take.
type Policy struct {
	// MaxAttempts is the number of send attempts, >= 1.
	MaxAttempts int
	// RetryInterval is the pause between attempts.
	RetryInterval time.Duration
	// Timeout bounds each individual attempt.
	Timeout time.Duration
}

// Shim wraps a Transport with Policy's bounded retry behavior. This is
// the component canCommit actually calls.
type Shim struct {
	transport Transport
	policy    Policy
}

// NewShim builds a Shim. A zero Policy.MaxAttempts is treated as 1 (a
// single attempt, no retries).
func NewShim(t Transport, policy Policy) *Shim {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &Shim{transport: t, policy: policy}
}

// Ask performs up to Policy.MaxAttempts send attempts, spaced by
// Policy.RetryInterval, each bounded individually by Policy.Timeout.
// On the first successful reply, that boolean is returned verbatim —
// retrying is always safe, since the kernel's own handling of a
// repeated ask is idempotent. On exhaustion, Ask returns
// ErrCoordinatorUnreachable.
//
// Grounded on go/shuffle/reader.go's StartReplayRead retry loop
// (attempt counter, sleep between attempts). Unlike that loop, errors
// are not classified: every failed attempt is retried while attempts
// remain and ctx is not done.
func (s *Shim) Ask(ctx context.Context, req occpb.AskPermissionToCommit) (bool, error) {
	var lastErr error
	for attempt := 0; attempt < s.policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(s.policy.RetryInterval):
			case <-ctx.Done():
				return false, errors.Wrap(ctx.Err(), "ask cancelled while waiting to retry")
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, s.policy.Timeout)
		granted, err := s.transport.Ask(attemptCtx, req)
		cancel()

		if err == nil {
			return granted, nil
		}

		lastErr = err
		log.WithFields(log.Fields{
			"stage":   req.Stage,
			"task":    req.Task,
			"attempt": req.Attempt,
			"send":    attempt + 1,
			"err":     err,
		}).Warn("ask permission to commit attempt failed; will retry if attempts remain")

		if ctx.Err() != nil {
			return false, errors.Wrap(ctx.Err(), "ask cancelled")
		}
	}

	return false, errors.Wrapf(ErrCoordinatorUnreachable, "exhausted %d attempts, last error: %v", s.policy.MaxAttempts, lastErr)
}

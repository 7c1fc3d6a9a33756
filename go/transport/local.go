package transport

import (
	"context"

	"github.com/estuary/occ/go/coordinator"
	"github.com/estuary/occ/go/occpb"
)

// Local is the synchronous in-memory Transport used by same-process
// task runtimes and by this package's Shim tests. It calls
// straight into a coordinator.Facade and never
// fails an individual attempt on its own account (the Facade's own
// "not attached" denial is a valid false reply, not a transport
// error), so a Shim wrapping Local only ever retries when an attempt's
// Policy.Timeout expires before the Dispatcher replies; once the
// caller's own context is done, the Shim stops instead of retrying.
type Local struct {
	Facade *coordinator.Facade
}

// Ask implements Transport.
func (l Local) Ask(ctx context.Context, req occpb.AskPermissionToCommit) (bool, error) {
	return l.Facade.CanCommit(ctx, req.Stage, req.Task, req.Attempt)
}

package transport

import (
	"context"

	"github.com/estuary/occ/go/occpb"
	"github.com/estuary/occ/go/rpc"
)

// GRPC is the remote Transport used by task executors running on a
// different host than the driver. It relies on go/rpc's hand-wired
// gRPC service (no protoc step) and JWT task authentication.
type GRPC struct {
	Client *rpc.Client
	Tokens rpc.TokenSource
}

// Ask implements Transport.
func (g GRPC) Ask(ctx context.Context, req occpb.AskPermissionToCommit) (bool, error) {
	token, err := g.Tokens.Sign(int64(req.Stage), int64(req.Task), int64(req.Attempt))
	if err != nil {
		return false, err
	}
	reply, err := g.Client.AskPermissionToCommit(rpc.WithBearer(ctx, token), &rpc.AskRequest{
		Stage:   req.Stage,
		Task:    req.Task,
		Attempt: req.Attempt,
	})
	if err != nil {
		return false, err
	}
	return reply.Granted, nil
}

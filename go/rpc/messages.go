package rpc

import "github.com/estuary/occ/go/occpb"

// AskRequest is the wire shape of an AskPermissionToCommit call. The
// bearer token that AuthInterceptor validates travels alongside it in
// the call's gRPC metadata (see WithBearer), not in this message.
type AskRequest struct {
	Stage   occpb.StageId   `json:"stage"`
	Task    occpb.TaskId    `json:"task"`
	Attempt occpb.AttemptId `json:"attempt"`
}

// AskReply carries the boolean verdict of an AskPermissionToCommit
// reply.
type AskReply struct {
	Granted bool `json:"granted"`
}

// StageStartedRequest is the wire shape of a StageStarted notification.
type StageStartedRequest struct {
	Stage occpb.StageId `json:"stage"`
}

// StageEndedRequest is the wire shape of a StageEnded notification.
type StageEndedRequest struct {
	Stage occpb.StageId `json:"stage"`
}

// TaskCompletedRequest is the wire shape of a TaskCompleted
// notification.
type TaskCompletedRequest struct {
	Stage   occpb.StageId       `json:"stage"`
	Task    occpb.TaskId        `json:"task"`
	Attempt occpb.AttemptId     `json:"attempt"`
	Reason  occpb.TaskEndReason `json:"reason"`
}

// Empty is the reply to every fire-and-forget RPC: it exists only so
// the RPC has a well-formed response, since even a "none" reply needs
// an envelope at the transport level.
type Empty struct{}

// StopReply is the ack returned by StopCoordinator.
type StopReply struct {
	Ok bool `json:"ok"`
}

package occpb

// Message is the sealed sum type carried over the wire: a tagged union
// matched exhaustively by the Dispatcher. Every concrete message
// embeds message so only types in this package satisfy the interface.
type Message interface {
	isMessage()
}

type message struct{}

func (message) isMessage() {}

// StageStarted notifies the coordinator that a stage has begun. No
// reply.
type StageStarted struct {
	message
	Stage StageId `json:"stage"`
}

// StageEnded notifies the coordinator that a stage has finished. No
// reply.
type StageEnded struct {
	message
	Stage StageId `json:"stage"`
}

// AskPermissionToCommit requests authorization for one attempt of one
// task to commit its output. Replies with a bool.
type AskPermissionToCommit struct {
	message
	Stage   StageId   `json:"stage"`
	Task    TaskId    `json:"task"`
	Attempt AttemptId `json:"attempt"`
}

// TaskCompleted reports the terminal outcome of one task attempt. No
// reply.
type TaskCompleted struct {
	message
	Stage   StageId       `json:"stage"`
	Task    TaskId        `json:"task"`
	Attempt AttemptId     `json:"attempt"`
	Reason  TaskEndReason `json:"reason"`
}

// StopCoordinator requests the coordinator drain its state and detach
// its dispatcher. Replies with a bool ack.
type StopCoordinator struct {
	message
}

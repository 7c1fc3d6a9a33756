// Package dispatcher implements the Message Dispatcher: a
// single-consumer mailbox that serializes every mutation of the
// Committers Table through the Decision Kernel, and replies to
// AskPermissionToCommit requests on completion.
//
// The pattern is lifted from the teacher's go/shuffle/ring.go, whose
// ring.serve() select-loop owns an index no other goroutine touches
// and replies to callers via a per-request channel (doneCh). Here the
// mailbox carries five message kinds instead of one subscription kind.
package dispatcher

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/estuary/occ/go/committer"
	"github.com/estuary/occ/go/occpb"
)

// envelope is one mailbox entry. reply is nil for fire-and-forget
// notifications (StageStarted, StageEnded, TaskCompleted) and non-nil
// for AskPermissionToCommit and StopCoordinator.
type envelope struct {
	msg   occpb.Message
	reply chan<- bool
}

// Dispatcher owns a committer.Table exclusively: every read and write
// of the table happens on the single goroutine run by Start.
type Dispatcher struct {
	table   *committer.Table
	mailbox chan envelope
	metrics *Metrics

	stopped chan struct{}
}

// New constructs a Dispatcher with the given mailbox buffer depth. A
// depth of 0 is valid (direct handoff); a small positive depth lets
// bursts of notifications from the scheduler avoid blocking on a busy
// consumer without changing any observable semantics, since ordering
// within one producer is still FIFO.
func New(depth int, metrics *Metrics) *Dispatcher {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Dispatcher{
		table:   committer.New(),
		mailbox: make(chan envelope, depth),
		metrics: metrics,
		stopped: make(chan struct{}),
	}
}

// Notify enqueues a fire-and-forget message. It blocks until the
// mailbox accepts it or ctx is done.
func (d *Dispatcher) Notify(ctx context.Context, msg occpb.Message) error {
	select {
	case d.mailbox <- envelope{msg: msg}:
		d.metrics.observeEnqueue(len(d.mailbox))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ask enqueues an AskPermissionToCommit request and blocks until its
// boolean reply arrives or ctx is done.
func (d *Dispatcher) Ask(ctx context.Context, req occpb.AskPermissionToCommit) (bool, error) {
	reply := make(chan bool, 1)
	select {
	case d.mailbox <- envelope{msg: req, reply: reply}:
		d.metrics.observeEnqueue(len(d.mailbox))
	case <-ctx.Done():
		return false, ctx.Err()
	}
	select {
	case granted := <-reply:
		return granted, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Stop enqueues StopCoordinator and blocks until it has been
// processed and acknowledged, or ctx is done.
func (d *Dispatcher) Stop(ctx context.Context) error {
	reply := make(chan bool, 1)
	select {
	case d.mailbox <- envelope{msg: occpb.StopCoordinator{}, reply: reply}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run is the single-consumer loop. It must be run on exactly one
// goroutine for the lifetime of the Dispatcher; Start is a convenience
// wrapper that does so. Run returns once StopCoordinator has been
// processed and acknowledged.
func (d *Dispatcher) Run() {
	defer close(d.stopped)
	for env := range d.mailbox {
		d.handle(env)
		if _, ok := env.msg.(occpb.StopCoordinator); ok {
			return
		}
	}
}

// Start launches Run on a new goroutine and returns immediately.
func (d *Dispatcher) Start() {
	go d.Run()
}

// Done is closed once Run has returned (Stop has been fully
// processed).
func (d *Dispatcher) Done() <-chan struct{} { return d.stopped }

func (d *Dispatcher) handle(env envelope) {
	switch msg := env.msg.(type) {
	case occpb.StageStarted:
		d.table.HandleStageStart(msg.Stage)
		d.metrics.stageStarted.Inc()

	case occpb.StageEnded:
		d.table.HandleStageEnd(msg.Stage)
		d.metrics.stageEnded.Inc()

	case occpb.AskPermissionToCommit:
		granted := d.table.HandleAsk(msg.Stage, msg.Task, msg.Attempt)
		d.metrics.observeAsk(granted)
		if env.reply != nil {
			env.reply <- granted
		}

	case occpb.TaskCompleted:
		d.table.HandleTaskCompletion(msg.Stage, msg.Task, msg.Attempt, msg.Reason)
		d.metrics.observeTaskCompleted(msg.Reason)

	case occpb.StopCoordinator:
		if env.reply != nil {
			env.reply <- true
		}

	default:
		// An unrecognized message tag is logged at warn and dropped
		// rather than crashing the dispatcher.
		log.WithField("go-type", fmt.Sprintf("%T", msg)).
			Warn("dropping unrecognized message")
		d.metrics.malformed.Inc()
	}
}

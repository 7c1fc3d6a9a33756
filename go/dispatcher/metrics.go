package dispatcher

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/estuary/occ/go/occpb"
)

// Metrics are pure observations of already-computed Kernel output:
// nothing here can influence a reply.
type Metrics struct {
	stageStarted   prometheus.Counter
	stageEnded     prometheus.Counter
	asksGranted    prometheus.Counter
	asksDenied     prometheus.Counter
	taskCompleted  *prometheus.CounterVec
	malformed      prometheus.Counter
	mailboxDepth   prometheus.Gauge
}

// NewMetrics builds and, if reg is non-nil, registers the Dispatcher's
// metrics against reg. A nil reg is valid: the counters still work,
// they're simply never scraped (useful in tests).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stageStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "occ_stage_started_total",
			Help: "Number of StageStarted notifications processed.",
		}),
		stageEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "occ_stage_ended_total",
			Help: "Number of StageEnded notifications processed.",
		}),
		asksGranted: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "occ_asks_total",
			Help:        "Number of AskPermissionToCommit requests processed.",
			ConstLabels: prometheus.Labels{"result": "granted"},
		}),
		asksDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "occ_asks_total",
			Help:        "Number of AskPermissionToCommit requests processed.",
			ConstLabels: prometheus.Labels{"result": "denied"},
		}),
		taskCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "occ_task_completed_total",
			Help: "Number of TaskCompleted notifications processed, by reason.",
		}, []string{"reason"}),
		malformed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "occ_malformed_messages_total",
			Help: "Number of unrecognized messages dropped by the dispatcher.",
		}),
		mailboxDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "occ_mailbox_depth",
			Help: "Number of messages buffered in the dispatcher mailbox after the most recent enqueue.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.stageStarted, m.stageEnded, m.asksGranted, m.asksDenied, m.taskCompleted, m.malformed, m.mailboxDepth)
	}
	return m
}

func (m *Metrics) observeEnqueue(depth int) {
	if m == nil {
		return
	}
	m.mailboxDepth.Set(float64(depth))
}

func (m *Metrics) observeAsk(granted bool) {
	if m == nil {
		return
	}
	if granted {
		m.asksGranted.Inc()
	} else {
		m.asksDenied.Inc()
	}
}

func (m *Metrics) observeTaskCompleted(reason occpb.TaskEndReason) {
	if m == nil {
		return
	}
	m.taskCompleted.WithLabelValues(reason.Kind.String()).Inc()
}

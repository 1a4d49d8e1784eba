package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		submissionsTotal, pollsTotal, pollErrorsTotal,
		syncPassesTotal, stuckPromotedTotal,
		cancellationsTotal, dismissalsTotal,
		activeJobs, historyJobs,
	)
}

var submissionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tracker_submissions_total",
		Help: "Search job submissions, labeled by outcome.",
	},
	[]string{"outcome"}, // 'accepted', 'rejected', 'failed'
)

var pollsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tracker_polls_total",
		Help: "Per-job status polls, labeled by observed status.",
	},
	[]string{"status"},
)

var pollErrorsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "tracker_poll_errors_total",
		Help: "Polls that failed and halted their poller.",
	},
)

var syncPassesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tracker_sync_passes_total",
		Help: "List reconciliation passes, labeled by outcome.",
	},
	[]string{"outcome"}, // 'ok', 'error'
)

var stuckPromotedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "tracker_stuck_promoted_total",
		Help: "Non-terminal jobs reclassified as failed after the stuck timeout.",
	},
)

var cancellationsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "tracker_cancellations_total",
		Help: "User-triggered job cancellations.",
	},
)

var dismissalsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "tracker_dismissals_total",
		Help: "Jobs dismissed from the active view.",
	},
)

var activeJobs = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "tracker_active_jobs",
		Help: "Jobs currently in the active view.",
	},
)

var historyJobs = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "tracker_history_jobs",
		Help: "Jobs currently retained in the history view.",
	},
)

func IncSubmission(outcome string)    { submissionsTotal.WithLabelValues(norm(outcome)).Inc() }
func IncPoll(status string)           { pollsTotal.WithLabelValues(norm(status)).Inc() }
func IncPollError()                   { pollErrorsTotal.Inc() }
func IncSyncPass(outcome string)      { syncPassesTotal.WithLabelValues(norm(outcome)).Inc() }
func AddStuckPromoted(n int)          { stuckPromotedTotal.Add(float64(n)) }
func IncCancellation()                { cancellationsTotal.Inc() }
func IncDismissal()                   { dismissalsTotal.Inc() }
func SetViewSizes(active, hist int)   { activeJobs.Set(float64(active)); historyJobs.Set(float64(hist)) }

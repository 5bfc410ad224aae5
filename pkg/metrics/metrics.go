package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	sqlProxy = "sql_proxy"

	// Statement metrics
	statementsTotal        = "statements_total"
	idempotencyEventsTotal = "idempotency_cache_events_total"

	// Cluster metrics
	jobLaunchesTotal = "job_launches_total"
	jarUploadsTotal  = "jar_uploads_total"

	// Labels
	statementOutcomeLabel = "outcome"
	cacheEventLabel       = "event"
)

// Statement outcomes
const (
	StatementOutcomeSubmitted        = "submitted"
	StatementOutcomeReplayed         = "replayed"
	StatementOutcomeRejected         = "rejected"
	StatementOutcomeJobUnavailable   = "job_unavailable"
	StatementOutcomeSubmissionFailed = "submission_failed"
	StatementOutcomeUpstreamError    = "upstream_error"
)

// Cache events
const (
	CacheEventHit   = "hit"
	CacheEventMiss  = "miss"
	CacheEventStore = "store"
)

var statementsTotalLabels = []string{
	statementOutcomeLabel,
}

var idempotencyEventsTotalLabels = []string{
	cacheEventLabel,
}

/**
* Metrics definition
**/
var statementsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: sqlProxy,
		Name:      statementsTotal,
		Help:      "number of SQL statements handled, partitioned by outcome",
	},
	statementsTotalLabels,
)

var idempotencyEventsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: sqlProxy,
		Name:      idempotencyEventsTotal,
		Help:      "idempotency cache activity, partitioned by event",
	},
	idempotencyEventsTotalLabels,
)

var jobLaunchesTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: sqlProxy,
		Name:      jobLaunchesTotal,
		Help:      "number of application jobs launched on the cluster",
	},
)

var jarUploadsTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: sqlProxy,
		Name:      jarUploadsTotal,
		Help:      "number of application jars uploaded to the cluster",
	},
)

func IncreaseStatementsTotalMetric(outcome string) {
	labels := prometheus.Labels{
		statementOutcomeLabel: outcome,
	}
	statementsTotalMetric.With(labels).Inc()
}

func IncreaseIdempotencyEventsTotalMetric(event string) {
	labels := prometheus.Labels{
		cacheEventLabel: event,
	}
	idempotencyEventsTotalMetric.With(labels).Inc()
}

func IncreaseJobLaunchesTotalMetric() {
	jobLaunchesTotalMetric.Inc()
}

func IncreaseJarUploadsTotalMetric() {
	jarUploadsTotalMetric.Inc()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(statementsTotalMetric)
	prometheus.MustRegister(idempotencyEventsTotalMetric)
	prometheus.MustRegister(jobLaunchesTotalMetric)
	prometheus.MustRegister(jarUploadsTotalMetric)
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"gontrel-admin/internal/engine"
)

var (
	activeWorkspacesDesc = prometheus.NewDesc(
		"gontrel_admin_active_workspaces",
		"Number of live staff moderation workspaces",
		nil,
		nil,
	)

	commitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gontrel_admin_commits_total",
			Help: "Total save attempts by queue kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	committedChangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gontrel_admin_committed_changes_total",
			Help: "Total individual status changes pushed to the platform",
		},
		[]string{"kind", "status"},
	)

	countLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gontrel_admin_count_lookups_total",
			Help: "Queue total lookups by cache result",
		},
		[]string{"result"},
	)

	platformRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gontrel_admin_platform_request_seconds",
			Help:    "Latency of calls to the Gontrel platform API",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// WorkspaceCollector is a custom Prometheus collector that reads the live
// workspace count from the registry on each scrape.
type WorkspaceCollector struct {
	workspaces *engine.Registry
}

// Describe sends the metric descriptor to the channel.
func (c *WorkspaceCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- activeWorkspacesDesc
}

// Collect emits the current workspace count as a gauge.
func (c *WorkspaceCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(
		activeWorkspacesDesc,
		prometheus.GaugeValue,
		float64(c.workspaces.Len()),
	)
}

var initOnce sync.Once

// Init registers all collectors. Must be called once at startup.
func Init(workspaces *engine.Registry) {
	initOnce.Do(func() {
		prometheus.MustRegister(
			&WorkspaceCollector{workspaces: workspaces},
			commitsTotal,
			committedChangesTotal,
			countLookupsTotal,
			platformRequestDuration,
		)
	})
}

// RecordCommit records the outcome of a save attempt.
func RecordCommit(kind, outcome string) {
	commitsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordCommittedChange records one status change accepted by the platform.
func RecordCommittedChange(kind, status string) {
	committedChangesTotal.WithLabelValues(kind, status).Inc()
}

// RecordCountLookup records whether a queue total was served from cache.
func RecordCountLookup(cached bool) {
	result := "miss"
	if cached {
		result = "hit"
	}
	countLookupsTotal.WithLabelValues(result).Inc()
}

// ObservePlatformRequest records the latency of a platform API call.
func ObservePlatformRequest(operation string, seconds float64) {
	platformRequestDuration.WithLabelValues(operation).Observe(seconds)
}

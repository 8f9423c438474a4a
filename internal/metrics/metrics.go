// Package metrics records per-run counters for reconciliation and purge runs.
//
// A run is a short-lived batch job, so metrics live in a private registry
// that the CLI pushes to a Prometheus Pushgateway when one is configured.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Recorder holds the collectors of one process.
type Recorder struct {
	Registry *prometheus.Registry

	RowsRead      prometheus.Counter
	RowsFlagged   prometheus.Counter
	Groups        prometheus.Counter
	EventsCreated prometheus.Counter
	EventsUpdated prometheus.Counter
	EventsPurged  prometheus.Counter
	RunsFailed    prometheus.Counter
	RunDuration   prometheus.Histogram
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		Registry: reg,
		RowsRead: f.NewCounter(prometheus.CounterOpts{
			Name: "travel_desk_rows_read_total",
			Help: "Total number of data rows read from the feed.",
		}),
		RowsFlagged: f.NewCounter(prometheus.CounterOpts{
			Name: "travel_desk_rows_flagged_total",
			Help: "Total number of rows flagged as invalid.",
		}),
		Groups: f.NewCounter(prometheus.CounterOpts{
			Name: "travel_desk_groups_total",
			Help: "Total number of travel groups reconciled.",
		}),
		EventsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "travel_desk_events_created_total",
			Help: "Total number of arrival events created.",
		}),
		EventsUpdated: f.NewCounter(prometheus.CounterOpts{
			Name: "travel_desk_events_updated_total",
			Help: "Total number of arrival events updated in place.",
		}),
		EventsPurged: f.NewCounter(prometheus.CounterOpts{
			Name: "travel_desk_events_purged_total",
			Help: "Total number of events deleted by purge.",
		}),
		RunsFailed: f.NewCounter(prometheus.CounterOpts{
			Name: "travel_desk_runs_failed_total",
			Help: "Total number of runs aborted by an external store error.",
		}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "travel_desk_run_duration_seconds",
			Help:    "Wall time of a reconciliation run.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
	}
}

// ObserveRun records the duration of a run that started at start.
func (r *Recorder) ObserveRun(start time.Time) {
	r.RunDuration.Observe(time.Since(start).Seconds())
}

// Push sends the registry to the Pushgateway at url under job.
func (r *Recorder) Push(url, job string) error {
	return push.New(url, job).Gatherer(r.Registry).Push()
}

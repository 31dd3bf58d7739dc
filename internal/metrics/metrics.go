package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pm_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pm_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	TimeEntryOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pm_time_entry_operations_total",
		Help: "Time entry writes by operation and result",
	}, []string{"op", "result"})

	Reconciliations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pm_task_reconciliations_total",
		Help: "Task logged-hours recomputations from the entry set",
	})

	ReconcileDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pm_task_reconcile_duration_seconds",
		Help:    "Time to recompute and store a task's logged hours",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})

	DirectHourIncrements = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pm_task_direct_hour_increments_total",
		Help: "Logged-hours changes that bypassed time entries",
	})

	ReactionChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pm_comment_reaction_changes_total",
		Help: "Comment reaction adds and removes",
	}, []string{"op"})

	NotificationsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pm_notifications_total",
		Help: "Notifications by type and delivery result",
	}, []string{"type", "result"})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

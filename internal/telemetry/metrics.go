package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ScheduleRunsTotal counts scheduling runs by strategy and outcome.
	ScheduleRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schedulesmart_schedule_runs_total",
		Help: "Scheduling runs by strategy and result status.",
	}, []string{"strategy", "status"})

	// ScheduleRunDuration observes wall-clock time per scheduling run.
	ScheduleRunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "schedulesmart_schedule_run_duration_seconds",
		Help:    "Duration of scheduling runs by strategy.",
		Buckets: prometheus.DefBuckets,
	}, []string{"strategy"})

	// TasksScheduledTotal counts tasks that received a placement.
	TasksScheduledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "schedulesmart_tasks_scheduled_total",
		Help: "Tasks placed onto the calendar across all runs.",
	})

	// TasksUnscheduledTotal counts tasks no placement was found for.
	TasksUnscheduledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "schedulesmart_tasks_unscheduled_total",
		Help: "Tasks left unscheduled across all runs.",
	})

	// SolverOutcomesTotal counts solver terminations by status.
	SolverOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schedulesmart_solver_outcomes_total",
		Help: "Solver search outcomes by status.",
	}, []string{"status"})

	// APIRequestsTotal counts HTTP requests.
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schedulesmart_api_requests_total",
		Help: "HTTP requests by method, endpoint, and status code.",
	}, []string{"method", "endpoint", "status"})

	// APIRequestDuration observes HTTP request latency.
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "schedulesmart_api_request_duration_seconds",
		Help:    "HTTP request duration by method, endpoint, and status code.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status"})

	// APIActiveConnections gauges in-flight HTTP requests.
	APIActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "schedulesmart_api_active_connections",
		Help: "In-flight HTTP requests.",
	})

	// DatabaseQueryDuration observes gorm operation latency.
	DatabaseQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "schedulesmart_db_query_duration_seconds",
		Help:    "Database operation duration by operation and table.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// DatabaseErrorsTotal counts gorm operation errors.
	DatabaseErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schedulesmart_db_errors_total",
		Help: "Database operation errors by operation and table.",
	}, []string{"operation", "table"})

	// DatabaseConnectionsActive gauges open database connections.
	DatabaseConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "schedulesmart_db_connections_active",
		Help: "Open database connections.",
	})
)

// Handler exposes the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

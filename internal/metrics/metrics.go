package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector exported by the /metrics route
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Result labels
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Billing sources
const (
	SourceTracked = "tracked"
	SourceManual  = "manual"
)

var (
	// HTTPRequestDuration HTTP request latency
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)

	// TimerOperationsTotal timer start/stop attempts
	TimerOperationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timer_operations_total",
			Help: "Total number of timer operations",
		},
		[]string{"operation", "result"},
	)

	// BilledSecondsTotal seconds booked onto projects
	BilledSecondsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billed_seconds_total",
			Help: "Total seconds booked onto projects",
		},
		[]string{"source"},
	)

	// TimeEntryMutationsTotal time entry writes
	TimeEntryMutationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "time_entry_mutations_total",
			Help: "Total number of time entry mutations",
		},
		[]string{"operation"},
	)

	// ReportGenerationsTotal generated reports
	ReportGenerationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_generations_total",
			Help: "Total number of generated reports",
		},
		[]string{"type"},
	)
)

// RecordHTTPRequest records the duration of one HTTP request
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

// IncrementTimerOperation counts a timer operation and its outcome
func IncrementTimerOperation(operation string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	TimerOperationsTotal.WithLabelValues(operation, result).Inc()
}

// AddBilledSeconds counts booked seconds. Non-positive values are ignored.
func AddBilledSeconds(source string, seconds int64) {
	if seconds <= 0 {
		return
	}
	BilledSecondsTotal.WithLabelValues(source).Add(float64(seconds))
}

// IncrementTimeEntryMutation counts a time entry write
func IncrementTimeEntryMutation(operation string) {
	TimeEntryMutationsTotal.WithLabelValues(operation).Inc()
}

// IncrementReportGeneration counts a generated report by type
func IncrementReportGeneration(reportType string) {
	ReportGenerationsTotal.WithLabelValues(reportType).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

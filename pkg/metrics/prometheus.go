// Package metrics provides Prometheus metrics for the FIESTA event service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the FIESTA service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Conversation Metrics - inbound update handling
	updatesProcessed prometheus.Counter
	updatesDuplicate prometheus.Counter
	updatesRejected  prometheus.Counter
	unknownInputs    prometheus.Counter
	dispatchLatency  prometheus.Histogram

	// Scoring Metrics - ledger and quiz activity
	registrations   prometheus.Counter
	pointAdjusts    prometheus.Counter
	quizRoundsScored prometheus.Counter
	quizCompletions prometheus.Counter
	quizReentries   prometheus.Counter

	// Snapshot Metrics - persistence gateway health
	snapshotSaves      prometheus.Counter
	snapshotFailures   prometheus.Counter
	snapshotDuration   prometheus.Histogram
	snapshotLastUnix   prometheus.Gauge

	// Operational Health Metrics
	participantsByTrack *prometheus.GaugeVec
	sessionsActive      prometheus.Gauge
	queueSize           prometheus.Gauge
	queueCapacity       prometheus.Gauge
	queueUtilization    prometheus.Gauge
	queueEnqueueErrors  prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics - per component tracking
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fiesta",
		subsystem:        "event",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.updatesProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "updates_processed_total",
		Help:      "Total number of inbound conversation updates processed.",
	})
	m.updatesDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "updates_duplicate_total",
		Help:      "Total number of inbound updates dropped as gateway redeliveries.",
	})
	m.updatesRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "updates_rejected_total",
		Help:      "Total number of inbound updates rejected on queue backpressure.",
	})
	m.unknownInputs = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unknown_inputs_total",
		Help:      "Total number of updates that matched no intent and hit the fallback.",
	})
	m.dispatchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dispatch_latency_ms",
		Help:      "Latency of a full state transition plus persist, in milliseconds.",
		Buckets:   m.histogramBuckets,
	})

	m.registrations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "registrations_total",
		Help:      "Total number of successful participant registrations.",
	})
	m.pointAdjusts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "point_adjustments_total",
		Help:      "Total number of ledger point adjustments applied.",
	})
	m.quizRoundsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "quiz_rounds_scored_total",
		Help:      "Total number of quiz rounds answered correctly and awarded.",
	})
	m.quizCompletions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "quiz_completions_total",
		Help:      "Total number of quizzes completed end to end.",
	})
	m.quizReentries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "quiz_reentries_refused_total",
		Help:      "Total number of quiz entries refused because the quiz was already completed.",
	})

	m.snapshotSaves = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_saves_total",
		Help:      "Total number of durable snapshot writes.",
	})
	m.snapshotFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_failures_total",
		Help:      "Total number of snapshot write or read failures.",
	})
	m.snapshotDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_duration_ms",
		Help:      "Duration of snapshot serialization and write, in milliseconds.",
		Buckets:   m.histogramBuckets,
	})
	m.snapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_last_unix",
		Help:      "Unix timestamp of the last successful snapshot write.",
	})

	m.participantsByTrack = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "participants",
		Help:      "Current number of registered participants per track.",
	}, []string{"track"})
	m.sessionsActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_active",
		Help:      "Current number of live conversation sessions.",
	})
	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current number of queued inbound updates.",
	})
	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Configured capacity of the inbound update queue.",
	})
	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_utilization",
		Help:      "Queue size divided by queue capacity.",
	})
	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_errors_total",
		Help:      "Total number of failed enqueue attempts.",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration by endpoint, method and status, in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_total",
		Help:      "Total number of errors by component and type.",
	}, []string{"component", "type"})
}

// Package-level helpers operating on the global manager.

func RecordUpdateProcessed() {
	if globalManager.enabled {
		globalManager.updatesProcessed.Inc()
	}
}

func RecordUpdateDuplicate() {
	if globalManager.enabled {
		globalManager.updatesDuplicate.Inc()
	}
}

func RecordUpdateRejected() {
	if globalManager.enabled {
		globalManager.updatesRejected.Inc()
	}
}

func RecordUnknownInput() {
	if globalManager.enabled {
		globalManager.unknownInputs.Inc()
	}
}

func RecordDispatchLatency(latencyMs float64) {
	if globalManager.enabled {
		globalManager.dispatchLatency.Observe(latencyMs)
	}
}

func RecordRegistration() {
	if globalManager.enabled {
		globalManager.registrations.Inc()
	}
}

func RecordPointAdjustment() {
	if globalManager.enabled {
		globalManager.pointAdjusts.Inc()
	}
}

func RecordQuizRoundScored() {
	if globalManager.enabled {
		globalManager.quizRoundsScored.Inc()
	}
}

func RecordQuizCompletion() {
	if globalManager.enabled {
		globalManager.quizCompletions.Inc()
	}
}

func RecordQuizReentryRefused() {
	if globalManager.enabled {
		globalManager.quizReentries.Inc()
	}
}

func RecordSnapshotSave(durationMs float64) {
	if globalManager.enabled {
		globalManager.snapshotSaves.Inc()
		globalManager.snapshotDuration.Observe(durationMs)
		globalManager.snapshotLastUnix.SetToCurrentTime()
	}
}

func RecordSnapshotFailure() {
	if globalManager.enabled {
		globalManager.snapshotFailures.Inc()
	}
}

func UpdateParticipants(track string, count int) {
	if globalManager.enabled {
		globalManager.participantsByTrack.WithLabelValues(track).Set(float64(count))
	}
}

func UpdateSessionsActive(count int) {
	if globalManager.enabled {
		globalManager.sessionsActive.Set(float64(count))
	}
}

func UpdateQueueSize(size int) {
	if globalManager.enabled {
		globalManager.queueSize.Set(float64(size))
	}
}

func UpdateQueueCapacity(capacity int) {
	if globalManager.enabled {
		globalManager.queueCapacity.Set(float64(capacity))
	}
}

func UpdateQueueUtilization(utilization float64) {
	if globalManager.enabled {
		globalManager.queueUtilization.Set(utilization)
	}
}

func RecordQueueEnqueueError() {
	if globalManager.enabled {
		globalManager.queueEnqueueErrors.Inc()
	}
}

func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

func RecordErrorByComponent(component, errorType string) {
	if globalManager.enabled {
		globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// GetRegistry returns the custom Prometheus registry for the /metrics handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for OpenMFG.
type Metrics struct {
	config MetricsConfig

	// Job metrics
	jobsStarted   *prometheus.CounterVec
	jobsCompleted *prometheus.CounterVec
	jobDuration   *prometheus.HistogramVec

	// Action metrics
	actionTransitions *prometheus.CounterVec
	actionDuration    *prometheus.HistogramVec

	// Requirement check metrics
	requirementChecks *prometheus.CounterVec
	checkDuration     *prometheus.HistogramVec

	// Allocation metrics
	allocationsRecorded *prometheus.CounterVec

	// Resource metrics
	resourcesManaged *prometheus.GaugeVec
	resourceState    *prometheus.GaugeVec

	// Error metrics
	errorsByClass *prometheus.CounterVec
	errorsByCode  *prometheus.CounterVec

	// System metrics
	activeJobs     prometheus.Gauge
	pendingActions prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		// Return a no-op metrics instance
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	// Create a new registry
	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		// Job metrics
		jobsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "jobs_started_total",
				Help:      "Total number of jobs started",
			},
			[]string{"priority"},
		),
		jobsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "jobs_completed_total",
				Help:      "Total number of jobs completed",
			},
			[]string{"status"},
		),
		jobDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "job_duration_seconds",
				Help:      "Duration of job execution in seconds",
				Buckets:   buckets,
			},
			[]string{"status"},
		),

		// Action metrics
		actionTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "action_transitions_total",
				Help:      "Total number of action status transitions",
			},
			[]string{"action_type", "status"},
		),
		actionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "action_duration_seconds",
				Help:      "Duration of action execution in seconds",
				Buckets:   buckets,
			},
			[]string{"action_type"},
		),

		// Requirement check metrics
		requirementChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requirement_checks_total",
				Help:      "Total number of requirement checks",
			},
			[]string{"kind", "outcome"},
		),
		checkDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "requirement_check_duration_seconds",
				Help:      "Duration of action satisfaction checks in seconds",
				Buckets:   buckets,
			},
			[]string{"outcome"},
		),

		// Allocation metrics
		allocationsRecorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "allocations_recorded_total",
				Help:      "Total number of resource allocations recorded",
			},
			[]string{"action_type"},
		),

		// Resource metrics
		resourcesManaged: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "resources_managed",
				Help:      "Current number of managed resources",
			},
			[]string{"category", "status"},
		),
		resourceState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "resource_state",
				Help:      "Current state of resources (1=available, 0=not available)",
			},
			[]string{"resource_id", "category"},
		),

		// Error metrics
		errorsByClass: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_by_class_total",
				Help:      "Total number of errors by error class",
			},
			[]string{"class"},
		),
		errorsByCode: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_by_code_total",
				Help:      "Total number of errors by error code",
			},
			[]string{"code"},
		),

		// System metrics
		activeJobs: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_jobs",
				Help:      "Current number of jobs in progress",
			},
		),
		pendingActions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "pending_actions",
				Help:      "Current number of actions waiting to run",
			},
		),
	}

	// Register all metrics
	registry.MustRegister(
		m.jobsStarted,
		m.jobsCompleted,
		m.jobDuration,
		m.actionTransitions,
		m.actionDuration,
		m.requirementChecks,
		m.checkDuration,
		m.allocationsRecorded,
		m.resourcesManaged,
		m.resourceState,
		m.errorsByClass,
		m.errorsByCode,
		m.activeJobs,
		m.pendingActions,
	)

	return m, nil
}

// Job Metrics

// RecordJobStarted increments the counter for started jobs.
func (m *Metrics) RecordJobStarted(priority string) {
	if m.jobsStarted == nil {
		return
	}
	m.jobsStarted.WithLabelValues(priority).Inc()
	m.activeJobs.Inc()
}

// RecordJobCompleted records a finished job with its terminal status and duration.
func (m *Metrics) RecordJobCompleted(status string, duration time.Duration) {
	if m.jobsCompleted == nil {
		return
	}
	m.jobsCompleted.WithLabelValues(status).Inc()
	m.jobDuration.WithLabelValues(status).Observe(duration.Seconds())
	m.activeJobs.Dec()
}

// Action Metrics

// RecordActionTransition records an action status change.
func (m *Metrics) RecordActionTransition(actionType, status string) {
	if m.actionTransitions == nil {
		return
	}
	m.actionTransitions.WithLabelValues(actionType, status).Inc()
}

// RecordActionDuration records how long an action ran.
func (m *Metrics) RecordActionDuration(actionType string, duration time.Duration) {
	if m.actionDuration == nil {
		return
	}
	m.actionDuration.WithLabelValues(actionType).Observe(duration.Seconds())
}

// Requirement Check Metrics

// RecordRequirementCheck records the outcome of a single requirement check.
func (m *Metrics) RecordRequirementCheck(kind, outcome string) {
	if m.requirementChecks == nil {
		return
	}
	m.requirementChecks.WithLabelValues(kind, outcome).Inc()
}

// RecordCheckDuration records how long an action satisfaction check took.
func (m *Metrics) RecordCheckDuration(outcome string, duration time.Duration) {
	if m.checkDuration == nil {
		return
	}
	m.checkDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// Allocation Metrics

// RecordAllocation records a ledger write for an action.
func (m *Metrics) RecordAllocation(actionType string) {
	if m.allocationsRecorded == nil {
		return
	}
	m.allocationsRecorded.WithLabelValues(actionType).Inc()
}

// Resource Metrics

// SetResourceCount sets the current count of managed resources.
func (m *Metrics) SetResourceCount(category, status string, count float64) {
	if m.resourcesManaged == nil {
		return
	}
	m.resourcesManaged.WithLabelValues(category, status).Set(count)
}

// SetResourceState sets the availability of a specific resource.
func (m *Metrics) SetResourceState(resourceID, category string, available bool) {
	if m.resourceState == nil {
		return
	}
	value := 0.0
	if available {
		value = 1.0
	}
	m.resourceState.WithLabelValues(resourceID, category).Set(value)
}

// Error Metrics

// RecordError records an error by class and optionally by code.
func (m *Metrics) RecordError(errorClass, errorCode string) {
	if m.errorsByClass == nil {
		return
	}
	m.errorsByClass.WithLabelValues(errorClass).Inc()
	if errorCode != "" && m.errorsByCode != nil {
		m.errorsByCode.WithLabelValues(errorCode).Inc()
	}
}

// System Metrics

// SetActiveJobs sets the current number of in-progress jobs.
func (m *Metrics) SetActiveJobs(count float64) {
	if m.activeJobs == nil {
		return
	}
	m.activeJobs.Set(count)
}

// SetPendingActions sets the current number of actions waiting to run.
func (m *Metrics) SetPendingActions(count float64) {
	if m.pendingActions == nil {
		return
	}
	m.pendingActions.Set(count)
}

// Timer provides a convenient way to time operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration is a helper to time an operation and record it.
func (t *Timer) ObserveDuration(observer prometheus.Observer) {
	observer.Observe(t.Duration().Seconds())
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// StartMetricsServer starts an HTTP server to expose metrics.
func (m *Metrics) StartMetricsServer() error {
	if !m.config.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())

	server := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			// Log error but don't fail the application
			fmt.Printf("metrics server error: %v\n", err)
		}
	}()

	return nil
}

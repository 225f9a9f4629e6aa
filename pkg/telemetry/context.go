package telemetry

import (
	"context"
	"time"
)

// Telemetry provides a unified telemetry interface combining logging, metrics, and events.
type Telemetry struct {
	Logger  *Logger
	Metrics *Metrics
	Events  *EventPublisher
	Config  *Config
}

// telemetryContextKey is the context key for telemetry instances.
type telemetryContextKey struct{}

// NewTelemetry creates a new telemetry instance from configuration.
func NewTelemetry(cfg *Config) (*Telemetry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Initialize logger
	logger, err := NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	// Initialize metrics
	metrics, err := NewMetrics(cfg.Metrics)
	if err != nil {
		return nil, err
	}

	// Initialize event publisher
	events, err := NewEventPublisher(cfg.Events)
	if err != nil {
		return nil, err
	}

	return &Telemetry{
		Logger:  logger,
		Metrics: metrics,
		Events:  events,
		Config:  cfg,
	}, nil
}

// WithContext adds the telemetry instance to the context.
func (t *Telemetry) WithContext(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, telemetryContextKey{}, t)
	ctx = t.Logger.WithContext(ctx)
	return ctx
}

// FromTelemetryContext retrieves the telemetry instance from the context.
// If no telemetry is found, it returns nil.
func FromTelemetryContext(ctx context.Context) *Telemetry {
	if t, ok := ctx.Value(telemetryContextKey{}).(*Telemetry); ok {
		return t
	}
	return nil
}

// Shutdown gracefully shuts down all telemetry components.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if err := t.Events.Shutdown(ctx); err != nil {
		return err
	}

	// Metrics server is not explicitly shut down here as it may need to continue
	// serving metrics until the very end of the application lifecycle

	return nil
}

// StartMetricsServer starts the metrics HTTP server if metrics are enabled.
func (t *Telemetry) StartMetricsServer() error {
	return t.Metrics.StartMetricsServer()
}

// Context Helpers for common instrumentation patterns

// WithJobContext creates a context enriched with job-specific telemetry and
// records the job start in metrics and events.
func WithJobContext(ctx context.Context, jobID, priority string) context.Context {
	tel := FromTelemetryContext(ctx)
	if tel == nil {
		return ctx
	}

	logger := tel.Logger.WithJobID(jobID).WithField("priority", priority)
	ctx = logger.WithContext(ctx)

	tel.Metrics.RecordJobStarted(priority)
	_ = tel.Events.PublishJobStarted(jobID, priority)

	ctx = context.WithValue(ctx, jobTimerKey{}, NewTimer())
	return ctx
}

// jobTimerKey is the context key for job timers.
type jobTimerKey struct{}

// EndJobContext completes the job context, recording metrics and events.
func EndJobContext(ctx context.Context, jobID, status string, err error) {
	tel := FromTelemetryContext(ctx)
	if tel == nil {
		return
	}

	var duration time.Duration
	if timer, ok := ctx.Value(jobTimerKey{}).(*Timer); ok {
		duration = timer.Duration()
	}

	tel.Metrics.RecordJobCompleted(status, duration)

	if err != nil {
		_ = tel.Events.PublishJobCancelled(jobID, err.Error())
		return
	}
	_ = tel.Events.PublishJobCompleted(jobID, duration)
}

// WithActionContext creates a context enriched with action-specific telemetry.
func WithActionContext(ctx context.Context, jobID, actionID, actionType string) context.Context {
	tel := FromTelemetryContext(ctx)
	if tel == nil {
		return ctx
	}

	logger := tel.Logger.
		WithJobID(jobID).
		WithActionID(actionID).
		WithField("action_type", actionType)
	return logger.WithContext(ctx)
}

// RecordCheck times a satisfaction check and records its outcome.
func RecordCheck(ctx context.Context, fn func() (missing []string, err error)) ([]string, error) {
	tel := FromTelemetryContext(ctx)
	timer := NewTimer()

	missing, err := fn()

	if tel != nil {
		outcome := "satisfied"
		switch {
		case err != nil:
			outcome = "error"
		case len(missing) > 0:
			outcome = "unsatisfied"
		}
		tel.Metrics.RecordCheckDuration(outcome, timer.Duration())
	}

	return missing, err
}

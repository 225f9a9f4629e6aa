// Package telemetry provides observability instrumentation for OpenMFG.
//
// The telemetry package integrates structured logging (zerolog), metrics
// (Prometheus), and event publishing into a unified system for monitoring
// manufacturing operations.
//
// # Architecture
//
// The telemetry system is built on three pillars:
//
//  1. Structured Logging - Context-aware logging with zerolog
//  2. Metrics Collection - Prometheus metrics for operational insights
//  3. Event Publishing - Async event system for audit and notifications
//
// # Usage
//
// Initialize telemetry at application startup:
//
//	cfg := telemetry.DefaultConfig()
//	cfg.ServiceName = "openmfg"
//	cfg.ServiceVersion = "1.0.0"
//
//	tel, err := telemetry.NewTelemetry(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Shutdown(context.Background())
//
//	// Start metrics server
//	if err := tel.StartMetricsServer(); err != nil {
//	    log.Fatal(err)
//	}
//
// Loggers carry manufacturing identifiers as structured fields:
//
//	log := tel.Logger.WithJobID(job.ID).WithActionID(action.ID)
//	log.Info("requirements satisfied")
//
// Metrics cover requirement checks by kind and outcome, job and action
// lifecycle transitions, allocation ledger writes, and active job counts.
package telemetry

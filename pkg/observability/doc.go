// Package observability provides structured logging and Prometheus metrics.
//
// # Overview
//
// This package centralizes the client's observability infrastructure:
// JSON logging and the metrics handle injected into the permissions
// client at construction time.
//
// # Structured Logging
//
// Create logger:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stderr)
//	logger.WithField("person_id", personID).Debug("cache miss")
//
// # Prometheus Metrics
//
// Build a handle on a registry, tagged with service and environment:
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry, "invoicing", "production")
//	metrics.ObserveCheck("has_permission", "true", "read:invoices", elapsed)
//
// The handle is passed to permissions.NewClient; there is no implicit
// global collector.
//
// # Related Packages
//
//   - pkg/config: observability configuration
//   - pkg/permissions: consumes the Metrics handle
package observability

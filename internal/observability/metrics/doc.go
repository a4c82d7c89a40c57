// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count)
//   - Business metrics (offers by deal type, upstream fetches)
//   - Database query metrics
//
// All metrics are registered with the Prometheus default registry and
// exposed via the /metrics endpoint.
package metrics

// Package monitoring provides Prometheus metrics for the surface host.
//
// Tracked concerns:
//   - HTTP serving of the bundle and surface resources
//   - Protocol traffic in both directions, labeled by message type
//   - Inset and markdown preview population
//   - Preload batch sizes and reload recovery replays
//   - Surface channel connections and session lifetimes
//
// Example Usage:
//
//	metrics := monitoring.NewMetrics()
//	router.Use(monitoring.Middleware(metrics))
//	metrics.RecordMessageOut("view-scroll")
package monitoring

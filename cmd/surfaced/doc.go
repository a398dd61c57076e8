// Package main is the entry point for the surface host daemon.
//
// The daemon manages sandboxed rendering surfaces for notebook outputs:
// it assembles and serves each surface's HTML document, carries the
// host↔surface message channel over a WebSocket, and keeps enough state
// to restore a surface after it reloads.
//
// Architecture:
//
//	Notebook client (browser) → surfaced → served surface documents
//	                                     → WebSocket event channels
//	                                     → authorized resource serving
//
// The daemon provides:
//   - Session lifecycle over REST (create, delete)
//   - Output inset and markdown preview management per session
//   - Preload deduplication with per-provenance resource roots
//   - Reload replay so a regenerated surface recovers its outputs
//
// Configuration:
//   - Environment variables (12-factor)
//   - Optional TOML file (overrides env)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./surfaced -config /etc/inkcell/surfaced.toml
//
//	# Development mode (colored logs, debug level)
//	./surfaced -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main

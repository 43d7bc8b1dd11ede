// Package metric provides Prometheus metrics for respkv.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: registry, counters and histograms, HTTP handler
//   - collector.go: collector reading live store statistics at scrape time
//
// Metrics include:
//
//   - commands executed and their latency, per command kind
//   - open and accepted connections
//   - protocol errors by reason, rate limited commands
//   - keys removed by lazy expiry and resident keys
//
// All recording methods are safe on a nil *Registry, so components can be
// built without metrics.
package metric

// Package httpserver serves the operational HTTP endpoints of respkv-server.
//
// The RESP listener carries all data traffic. This server only exposes
// the Prometheus scrape endpoint and liveness/readiness probes:
//
//	GET /metrics  Prometheus text exposition
//	GET /health   liveness, always 200 while the process serves HTTP
//	GET /ready    readiness, 503 once the store has been released
//
// It uses the standard library net/http; handlers are composed with the
// Middleware chain in middleware.go.
package httpserver

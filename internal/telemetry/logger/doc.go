// Package logger provides structured logging for respkv.
//
// It wraps log/slog:
//
//   - logger.go: Logger interface, JSON/text handlers, dynamic level
//   - context.go: context propagation of the logger and connection ids
//   - truncate.go: shortening of stored values before they reach the log
//
// Keys and values written by clients can be arbitrarily large, so
// attributes that carry user data are cut down to a short preview.
package logger

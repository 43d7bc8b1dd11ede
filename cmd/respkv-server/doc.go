// Package main provides the entry point for respkv-server.
//
// The server keeps string keys and values in memory, with optional
// per-key expiry, and speaks the RESP2 protocol (PING, ECHO, GET, SET).
//
// Usage:
//
//	respkv-server [flags]
//	respkv-server --config /path/to/config.yaml
//
// Settings are read from the configuration file, RESPKV_* environment
// variables and flags, in increasing priority. When a configuration file
// is given, changes to log.level in it are applied without a restart.
package main

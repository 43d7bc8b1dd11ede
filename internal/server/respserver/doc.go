// Package respserver serves the key-value store over RESP2.
//
// Each accepted connection runs in its own goroutine and owns a Session
// that accumulates raw bytes until the decoder yields a complete frame.
// Complete frames are mapped to a Command, executed by the Dispatcher
// against the shared store, and answered in order.
//
// Supported commands:
//   - PING
//   - ECHO arg...
//   - GET key
//   - SET key value [EX seconds | PX milliseconds]
//
// Anything else is answered with "-Unrecognised command". Malformed input
// is answered with a best-effort "-ERR protocol error: ..." and the
// connection is closed.
package respserver

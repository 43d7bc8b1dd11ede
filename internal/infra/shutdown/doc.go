// Package shutdown coordinates graceful process termination.
//
// A Handler collects cleanup hooks while the process starts up and runs
// them in reverse order once SIGINT or SIGTERM arrives, the wait context is
// cancelled, or Trigger is called. All hooks share one timeout.
//
// Usage:
//
//	h := shutdown.NewHandler(30 * time.Second)
//	h.OnShutdown(srv.Shutdown)
//	err := h.Wait(ctx)
package shutdown

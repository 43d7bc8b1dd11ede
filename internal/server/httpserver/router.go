package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yndnr/respkv-go/internal/telemetry/logger"
	"github.com/yndnr/respkv-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Metrics is served on /metrics. Nil disables the endpoint.
	Metrics *metric.Registry

	// Store backs the readiness probe. Nil reports ready.
	Store metric.StoreStats

	// Logger for request logging.
	Logger logger.Logger
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /ready", readyHandler(cfg.Store))
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	return Chain(mux,
		RequestID(),
		Recover(log),
		AccessLog(log),
	)
}

type statusResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
	Keys   *int   `json:"keys,omitempty"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusOK, statusResponse{Status: "healthy"})
}

func readyHandler(store metric.StoreStats) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			writeStatus(w, http.StatusOK, statusResponse{Status: "ready"})
			return
		}
		if !store.Initialised() {
			writeStatus(w, http.StatusServiceUnavailable, statusResponse{Status: "unavailable"})
			return
		}
		n := store.Len()
		writeStatus(w, http.StatusOK, statusResponse{Status: "ready", Keys: &n})
	}
}

func writeStatus(w http.ResponseWriter, code int, body statusResponse) {
	body.Time = time.Now().UTC().Format(time.RFC3339)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

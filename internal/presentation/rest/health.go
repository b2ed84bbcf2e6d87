package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/bibbank/kyc-risk-service/pkg/postgres"
)

const serviceName = "kyc-risk-service"

// HealthHandler provides HTTP health check endpoints and exposes metrics.
type HealthHandler struct {
	logger  *slog.Logger
	db      postgres.Pinger
	metrics http.Handler
	timeout time.Duration
}

// NewHealthHandler creates a new HealthHandler. db may be nil when the service
// runs on in-memory storage; metrics may be nil to omit /metrics.
func NewHealthHandler(logger *slog.Logger, db postgres.Pinger, metrics http.Handler) *HealthHandler {
	return &HealthHandler{logger: logger, db: db, metrics: metrics, timeout: 2 * time.Second}
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Error   string `json:"error,omitempty"`
}

// RegisterRoutes registers the health and metrics routes on mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Health)
	mux.HandleFunc("GET /readyz", h.Ready)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics)
	}
}

// Health is the liveness probe endpoint.
func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	h.write(w, http.StatusOK, healthResponse{Status: "UP", Service: serviceName})
}

// Ready reports whether the database, when configured, answers a ping.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()
		if err := postgres.HealthCheck(ctx, h.db); err != nil {
			h.logger.Warn("readiness check failed", slog.String("error", err.Error()))
			h.write(w, http.StatusServiceUnavailable, healthResponse{Status: "NOT_READY", Service: serviceName, Error: err.Error()})
			return
		}
	}
	h.write(w, http.StatusOK, healthResponse{Status: "READY", Service: serviceName})
}

func (h *HealthHandler) write(w http.ResponseWriter, code int, resp healthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode health response", slog.String("error", err.Error()))
	}
}

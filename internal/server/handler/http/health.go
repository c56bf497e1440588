package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler answers liveness probes.
type HealthHandler struct {
	DB  Pinger
	Log *zap.Logger
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.PingContext(r.Context()); err != nil {
		if h.Log != nil {
			h.Log.Warn("health check failed", zap.Error(err))
		}
		writeJSON(w, http.StatusServiceUnavailable, envelope{"status": "unavailable", "error": "database unreachable"})
		return
	}
	writeOK(w, envelope{"status": "ok"})
}

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/profnet/internal/store"
	"github.com/go-chi/chi/v5"
)

const defaultHealthTimeout = 5 * time.Second

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	kv      store.KV
	timeout time.Duration
}

// NewHealthHandler creates a health handler that pings kv.
func NewHealthHandler(kv store.KV, timeout time.Duration) *HealthHandler {
	if timeout <= 0 {
		timeout = defaultHealthTimeout
	}
	return &HealthHandler{kv: kv, timeout: timeout}
}

// Health returns the health status of the API and its storage.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	checks := map[string]string{"api": "ok"}
	status := map[string]interface{}{
		"status": "healthy",
		"checks": checks,
	}
	statusCode := http.StatusOK

	if err := h.kv.Ping(ctx); err != nil {
		slog.Error("Health check failed", "error", err)
		status["status"] = "degraded"
		checks["storage"] = "unreachable"
		statusCode = http.StatusServiceUnavailable
	} else {
		checks["storage"] = "ok"
	}

	JSON(w, statusCode, status)
}

// RegisterHealth registers the health check route.
func (h *HealthHandler) RegisterHealth(r chi.Router) {
	r.Get("/health", h.Health)
}

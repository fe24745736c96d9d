package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jaudi/Portfolio-analysis/pkg/database"
	"github.com/jaudi/Portfolio-analysis/pkg/redis"
)

// HealthHandler reports the state of the optional backing stores
type HealthHandler struct {
	service string
	db      *database.DB  // nil when no price store is configured
	redis   *redis.Client // nil or disabled when caching is off
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service string, db *database.DB, rc *redis.Client) *HealthHandler {
	return &HealthHandler{service: service, db: db, redis: rc}
}

// Check returns server health status
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	body := map[string]interface{}{
		"status":  "ok",
		"service": h.service,
	}

	if h.db != nil {
		health, err := h.db.HealthCheck(ctx)
		body["database"] = health
		if err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
		}
	}

	if h.redis != nil && h.redis.Enabled() {
		if err := h.redis.Ping(ctx); err != nil {
			body["redis"] = err.Error()
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
		} else {
			body["redis"] = "ok"
		}
	}

	respondJSON(w, status, body)
}

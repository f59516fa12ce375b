package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/BradenHooton/sitebase/internal/database"
	pkghttp "github.com/BradenHooton/sitebase/pkg/http"
)

// DatabaseChecker reports database reachability and pool usage
type DatabaseChecker interface {
	HealthCheck(ctx context.Context) error
	Stats() database.PoolStats
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string              `json:"status"`
	Database string              `json:"database"`
	Pool     *database.PoolStats `json:"pool,omitempty"`
}

// HealthHandler serves the liveness and readiness probe
type HealthHandler struct {
	db     DatabaseChecker
	logger *slog.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db DatabaseChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		h.logger.Error("health check failed", slog.Any("error", err))
		pkghttp.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy", Database: "down"})
		return
	}

	stats := h.db.Stats()
	pkghttp.WriteJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Database: "up", Pool: &stats})
}

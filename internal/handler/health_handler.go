package handler

import (
	"net/http"
	"time"

	"github.com/ADCairex/dashboard-app/pkg/database"
	"github.com/ADCairex/dashboard-app/pkg/logger"
)

type HealthHandler struct {
	db     *database.DB
	logger *logger.Logger
}

func NewHealthHandler(db *database.DB, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: logger.WithComponent("health_handler"),
	}
}

// Check handles GET /health: a store connectivity probe
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(); err != nil {
		h.logger.Error("Health check failed", "error", err)
		writeJSONResponse(h.logger, w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "error",
			"database":  "disconnected",
			"timestamp": time.Now().UTC(),
		})
		return
	}

	stats := h.db.GetStats()
	writeJSONResponse(h.logger, w, http.StatusOK, map[string]interface{}{
		"status":           "ok",
		"database":         "connected",
		"open_connections": stats.OpenConnections,
		"timestamp":        time.Now().UTC(),
	})
}

package handler

import (
	"net/http"
	"time"

	"github.com/ADCairex/dashboard-app/internal/service"
	"github.com/ADCairex/dashboard-app/pkg/logger"
)

type MetricsHandler struct {
	metricsService service.MetricsServiceInterface
	logger         *logger.Logger
}

func NewMetricsHandler(metricsService service.MetricsServiceInterface, logger *logger.Logger) *MetricsHandler {
	return &MetricsHandler{
		metricsService: metricsService,
		logger:         logger.WithComponent("metrics_handler"),
	}
}

// GetMetrics handles GET /api/metrics
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	reqCtx := &logger.RequestContext{
		Method:     r.Method,
		Path:       r.URL.Path,
		RemoteAddr: r.RemoteAddr,
		StartTime:  time.Now(),
	}

	report, err := h.metricsService.GetMetrics()
	if err != nil {
		h.logger.Error("Failed to get metrics", "error", err)
		writeErrorResponse(h.logger, w, http.StatusInternalServerError, "Failed to compute metrics")
		reqCtx.StatusCode = http.StatusInternalServerError
		h.logger.LogResponse(reqCtx)
		return
	}

	writeJSONResponse(h.logger, w, http.StatusOK, report)
	reqCtx.StatusCode = http.StatusOK
	h.logger.LogResponse(reqCtx)
}

package get_analytics

import (
	"context"
	"net/http"

	"github.com/m04kA/SMC-SmartQueue/internal/api/handlers"
	"github.com/m04kA/SMC-SmartQueue/internal/service/analytics/models"
)

type AnalyticsService interface {
	Analytics(ctx context.Context) (*models.AnalyticsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type Handler struct {
	service AnalyticsService
	logger  Logger
}

func NewHandler(service AnalyticsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/analytics
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Analytics(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/analytics - Failed to build analytics: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/analytics - Analytics built")
	handlers.RespondJSON(w, http.StatusOK, report)
}

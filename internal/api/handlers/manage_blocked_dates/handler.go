package manage_blocked_dates

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SmartQueue/internal/api/handlers"
	"github.com/m04kA/SMC-SmartQueue/internal/domain"
	"github.com/m04kA/SMC-SmartQueue/internal/service/catalog"
	"github.com/m04kA/SMC-SmartQueue/internal/service/catalog/models"
)

const (
	msgInvalidID          = "некорректный ID блокировки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректная дата, ожидается YYYY-MM-DD"
	msgPastDate           = "нельзя заблокировать прошедшую дату"
	msgAlreadyBlocked     = "дата уже заблокирована"
	msgNotFound           = "блокировка не найдена"
)

// BlockDateRequest HTTP request model
type BlockDateRequest struct {
	Date   string `json:"date" validate:"required"`
	Reason string `json:"reason" validate:"max=255"`
}

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/v1/admin/blocked-dates
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListBlockedDates(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/blocked-dates - Failed to list blocked dates: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create POST /api/v1/admin/blocked-dates
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req BlockDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/blocked-dates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		h.logger.Warn("POST /admin/blocked-dates - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.BlockDate(r.Context(), &models.CreateBlockedDateRequest{Date: date, Reason: req.Reason})
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, catalog.ErrAlreadyBlocked):
			h.logger.Warn("POST /admin/blocked-dates - Already blocked: date=%s", req.Date)
			handlers.RespondConflict(w, msgAlreadyBlocked)

		default:
			h.logger.Error("POST /admin/blocked-dates - Failed to block date: date=%s, error=%v", req.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/blocked-dates - Date blocked: date=%s", result.Date)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Delete DELETE /api/v1/admin/blocked-dates/{blockedDateId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "blockedDateId")
	if err != nil {
		h.logger.Warn("DELETE /admin/blocked-dates/{id} - Invalid ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.UnblockDate(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrBlockedDateNotFound) {
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("DELETE /admin/blocked-dates/{id} - Failed to unblock: id=%d, error=%v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /admin/blocked-dates/{id} - Date unblocked: id=%d", id)
	w.WriteHeader(http.StatusNoContent)
}

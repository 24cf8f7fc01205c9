package manage_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SmartQueue/internal/api/handlers"
	"github.com/m04kA/SMC-SmartQueue/internal/service/catalog"
)

const (
	msgInvalidSlotID      = "некорректный ID слота"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgInvalidData        = "некорректные данные слота"
	msgSlotExists         = "слот на это время уже существует"
	msgSlotInUse          = "на слот есть бронирования"
	msgBelowOccupancy     = "вместимость меньше числа активных бронирований"
	msgNotFound           = "слот не найден"
)

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

// List GET /api/v1/admin/slots
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListUpcomingSlots(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/slots - Failed to list slots: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create POST /api/v1/admin/slots
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /admin/slots - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.service.CreateSlot(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("POST /admin/slots - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, catalog.ErrSlotExists):
			h.logger.Warn("POST /admin/slots - Slot exists: date=%s, start=%s", req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotExists)

		default:
			h.logger.Error("POST /admin/slots - Failed to create slot: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/slots - Slot created: slot_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Update PUT /api/v1/admin/slots/{slotId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.PathInt64(r, "slotId")
	if err != nil {
		h.logger.Warn("PUT /admin/slots/{id} - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req UpdateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/slots/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("PUT /admin/slots/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.service.UpdateSlot(r.Context(), slotID, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrSlotNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("PUT /admin/slots/{id} - Invalid data: slot_id=%d, %v", slotID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, catalog.ErrSlotExists):
			h.logger.Warn("PUT /admin/slots/{id} - Window taken: slot_id=%d, date=%s, start=%s", slotID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotExists)

		case errors.Is(err, catalog.ErrCapacityBelowOccupancy):
			h.logger.Warn("PUT /admin/slots/{id} - Capacity below occupancy: slot_id=%d", slotID)
			handlers.RespondConflict(w, msgBelowOccupancy)

		default:
			h.logger.Error("PUT /admin/slots/{id} - Failed to update slot: slot_id=%d, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/slots/{id} - Slot updated: slot_id=%d, capacity=%d", slotID, result.Capacity)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Delete DELETE /api/v1/admin/slots/{slotId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.PathInt64(r, "slotId")
	if err != nil {
		h.logger.Warn("DELETE /admin/slots/{id} - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	if err := h.service.DeleteSlot(r.Context(), slotID); err != nil {
		switch {
		case errors.Is(err, catalog.ErrSlotNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, catalog.ErrSlotInUse):
			h.logger.Warn("DELETE /admin/slots/{id} - Slot in use: slot_id=%d", slotID)
			handlers.RespondConflict(w, msgSlotInUse)

		default:
			h.logger.Error("DELETE /admin/slots/{id} - Failed to delete slot: slot_id=%d, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/slots/{id} - Slot deleted: slot_id=%d", slotID)
	w.WriteHeader(http.StatusNoContent)
}

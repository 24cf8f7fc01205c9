package apply_booking_action

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SmartQueue/internal/api/handlers"
	"github.com/m04kA/SMC-SmartQueue/internal/api/middleware"
	"github.com/m04kA/SMC-SmartQueue/internal/service/bookings"
)

const (
	msgInvalidBookingID  = "некорректный ID бронирования"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgInvalidAction     = "некорректное действие, допустимо: approve, reject, complete"
	msgNotFound          = "бронирование не найдено"
	msgInvalidTransition = "действие недопустимо для текущего статуса бронирования"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/bookings/{bookingId}/{action}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /admin/bookings/{id}/{action} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	staffID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /admin/bookings/{id}/{action} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	action := mux.Vars(r)["action"]

	booking, err := h.service.ApplyAction(r.Context(), bookingID, action, staffID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidAction):
			h.logger.Warn("POST /admin/bookings/{id}/{action} - Invalid action: %q", action)
			handlers.RespondBadRequest(w, msgInvalidAction)

		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /admin/bookings/{id}/{action} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("POST /admin/bookings/{id}/{action} - Invalid transition: booking_id=%d, action=%s",
				bookingID, action)
			handlers.RespondConflict(w, msgInvalidTransition)

		default:
			h.logger.Error("POST /admin/bookings/{id}/{action} - Failed to apply action: booking_id=%d, action=%s, error=%v",
				bookingID, action, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/bookings/{id}/{action} - Booking updated: booking_id=%d, status=%s, staff_id=%d",
		bookingID, booking.Status, staffID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}

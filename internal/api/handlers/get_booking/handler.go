package get_booking

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/SMC-SmartQueue/internal/api/handlers"
	"github.com/m04kA/SMC-SmartQueue/internal/api/middleware"
	"github.com/m04kA/SMC-SmartQueue/internal/service/bookings"
	"github.com/m04kA/SMC-SmartQueue/internal/service/bookings/models"
)

const (
	route = "GET /bookings/{bookingId}"

	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgForbidden        = "нет доступа к чужому бронированию"
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

// Handle GET /api/v1/bookings/{bookingId}
// Отдает бронирование с QR токеном и текущей оценкой ожидания в очереди
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing user ID", route)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("%s - Invalid booking ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	booking, err := h.service.GetByID(r.Context(), bookingID, userID)
	if err != nil {
		h.respondError(w, err, bookingID, userID)
		return
	}

	h.logger.Info("%s - Booking retrieved: booking_id=%d, user_id=%d, status=%s, wait=%s",
		route, bookingID, userID, booking.Status, waitLabel(booking))
	handlers.RespondJSON(w, http.StatusOK, booking)
}

func (h *Handler) respondError(w http.ResponseWriter, err error, bookingID, userID int64) {
	switch {
	case errors.Is(err, bookings.ErrBookingNotFound):
		h.logger.Warn("%s - Booking not found: booking_id=%d", route, bookingID)
		handlers.RespondNotFound(w, msgNotFound)
	case errors.Is(err, bookings.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: booking_id=%d, user_id=%d", route, bookingID, userID)
		handlers.RespondForbidden(w, msgForbidden)
	default:
		h.logger.Error("%s - Failed to get booking: booking_id=%d, error=%v", route, bookingID, err)
		handlers.RespondInternalError(w)
	}
}

func waitLabel(b *models.BookingResponse) string {
	if b.EstimatedWaitMinutes == nil {
		return "n/a"
	}
	return fmt.Sprintf("%dm", *b.EstimatedWaitMinutes)
}

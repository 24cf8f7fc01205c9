package check_in

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SmartQueue/internal/api/handlers"
	"github.com/m04kA/SMC-SmartQueue/internal/service/bookings"
)

const (
	msgMissingToken  = "отсутствует токен регистрации"
	msgNotFound      = "бронирование не найдено"
	msgCannotCheckIn = "регистрация доступна только для подтвержденных бронирований"
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

// Handle POST /api/v1/checkin/{token}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(mux.Vars(r)["token"])
	if token == "" {
		h.logger.Warn("POST /checkin/{token} - Missing token")
		handlers.RespondBadRequest(w, msgMissingToken)
		return
	}

	// Токен не формата UUID заведомо не принадлежит ни одному бронированию
	if err := uuid.Validate(token); err != nil {
		h.logger.Warn("POST /checkin/{token} - Malformed token: %v", err)
		handlers.RespondNotFound(w, msgNotFound)
		return
	}

	result, err := h.service.CheckIn(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /checkin/{token} - Unknown token")
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("POST /checkin/{token} - Booking is not approved")
			handlers.RespondConflict(w, msgCannotCheckIn)

		default:
			h.logger.Error("POST /checkin/{token} - Failed to check in: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /checkin/{token} - Checked in successfully: booking_id=%d", result.Booking.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

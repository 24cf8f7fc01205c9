package get_booking_qr

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/m04kA/SMC-SmartQueue/internal/api/handlers"
	"github.com/m04kA/SMC-SmartQueue/internal/api/middleware"
	"github.com/m04kA/SMC-SmartQueue/internal/service/bookings"
)

const (
	route = "GET /bookings/{bookingId}/qr"

	// checkInPath маршрут регистрации, на который ведет QR-код
	checkInPath = "/api/v1/checkin/"
	// imageSize сторона PNG в пикселях
	imageSize = 256

	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgForbidden        = "нет доступа к чужому бронированию"
)

type Handler struct {
	service   BookingService
	publicURL string
	logger    Logger
}

// NewHandler создает обработчик. publicURL внешний адрес сервиса без завершающего слэша
func NewHandler(service BookingService, publicURL string, logger Logger) *Handler {
	return &Handler{
		service:   service,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}/qr
// Отдает PNG с QR-кодом ссылки регистрации. Права как у просмотра бронирования
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

	token, err := h.service.CheckInToken(r.Context(), bookingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("%s - Booking not found: booking_id=%d", route, bookingID)
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("%s - Access denied: booking_id=%d, user_id=%d", route, bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)
		default:
			h.logger.Error("%s - Failed to get check-in token: booking_id=%d, error=%v", route, bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	png, err := qrcode.Encode(h.CheckInURL(token), qrcode.Medium, imageSize)
	if err != nil {
		h.logger.Error("%s - Failed to encode QR code: booking_id=%d, error=%v", route, bookingID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("%s - QR code rendered: booking_id=%d, user_id=%d, bytes=%d", route, bookingID, userID, len(png))
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "private, no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// CheckInURL ссылка, которую сканирует персонал на входе
func (h *Handler) CheckInURL(token string) string {
	return h.publicURL + checkInPath + token
}

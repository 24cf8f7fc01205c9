package apply_booking_action

import (
	"context"

	"github.com/m04kA/SMC-SmartQueue/internal/service/bookings/models"
)

type BookingService interface {
	ApplyAction(ctx context.Context, bookingID int64, action string, staffID int64) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

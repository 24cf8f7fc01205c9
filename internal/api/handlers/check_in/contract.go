package check_in

import (
	"context"

	"github.com/m04kA/SMC-SmartQueue/internal/service/bookings/models"
)

type BookingService interface {
	CheckIn(ctx context.Context, token string) (*models.CheckInResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package get_booking_qr

import "context"

type BookingService interface {
	CheckInToken(ctx context.Context, bookingID int64, userID int64) (string, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

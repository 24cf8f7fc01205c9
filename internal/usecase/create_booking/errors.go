package create_booking

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("create_booking: slot not found")

	// ErrDateBlocked возвращается, когда дата слота заблокирована
	ErrDateBlocked = errors.New("create_booking: date is blocked for booking")

	// ErrCapacityExceeded возвращается, когда в слоте не осталось мест
	ErrCapacityExceeded = errors.New("create_booking: time slot is fully booked")

	// ErrDuplicateBooking возвращается, когда у пользователя уже есть активная бронь на этот слот
	ErrDuplicateBooking = errors.New("create_booking: user already has a booking for this time slot")

	// ErrInvalidService возвращается, когда услуга не существует или неактивна
	ErrInvalidService = errors.New("create_booking: service does not exist or is inactive")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

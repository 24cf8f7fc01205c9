package catalog

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("catalog: service not found")

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("catalog: slot not found")

	// ErrSlotExists возвращается, когда слот с тем же окном уже существует
	ErrSlotExists = errors.New("catalog: slot already exists")

	// ErrSlotInUse возвращается при удалении слота с бронированиями
	ErrSlotInUse = errors.New("catalog: slot has bookings")

	// ErrCapacityBelowOccupancy возвращается, когда новая вместимость меньше числа активных бронирований
	ErrCapacityBelowOccupancy = errors.New("catalog: capacity is below current occupancy")

	// ErrBlockedDateNotFound возвращается, когда заблокированная дата не найдена
	ErrBlockedDateNotFound = errors.New("catalog: blocked date not found")

	// ErrAlreadyBlocked возвращается, когда дата уже заблокирована
	ErrAlreadyBlocked = errors.New("catalog: date is already blocked")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("catalog: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("catalog: internal error")
)

package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
	"github.com/m04kA/SMC-SmartQueue/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	HasActiveBooking(ctx context.Context, userID, slotID int64) (bool, error)
	CountQueueAhead(ctx context.Context, date time.Time, startTime types.TimeString) (int, error)
}

// SlotRepository интерфейс репозитория слотов (в транзакции строка блокируется FOR UPDATE)
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
}

// BlockedDateRepository интерфейс проверки заблокированных дат
type BlockedDateRepository interface {
	IsBlocked(ctx context.Context, date time.Time) (bool, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// CapacityTracker интерфейс подсчета занятости слота
type CapacityTracker interface {
	OccupancyOf(ctx context.Context, slot *domain.TimeSlot) (domain.SlotOccupancy, error)
	SyncAvailability(ctx context.Context, slotID int64) (domain.SlotOccupancy, error)
}

// Notifier интерфейс уведомлений после фиксации транзакции
type Notifier interface {
	BookingCreated(ctx context.Context, b *domain.Booking, waitMinutes int)
}

// Metrics учет исходов бронирования
type Metrics interface {
	ObserveBooking(outcome string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

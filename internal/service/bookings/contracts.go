package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
	"github.com/m04kA/SMC-SmartQueue/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByToken(ctx context.Context, token string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
	CountQueueAhead(ctx context.Context, date time.Time, startTime types.TimeString) (int, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
}

// ProfileRepository интерфейс репозитория профилей (роль пользователя)
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.Profile, error)
}

// CapacityTracker интерфейс синхронизации флага доступности слота
type CapacityTracker interface {
	SyncAvailability(ctx context.Context, slotID int64) (domain.SlotOccupancy, error)
}

// Notifier интерфейс уведомлений после фиксации транзакции
type Notifier interface {
	BookingTransitioned(ctx context.Context, b *domain.Booking, action domain.Action)
}

// Metrics учет переходов статусов
type Metrics interface {
	ObserveTransition(action, result string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

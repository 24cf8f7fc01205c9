package catalog

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
)

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	Create(ctx context.Context, s *domain.Service) (*domain.Service, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	List(ctx context.Context, onlyActive bool) ([]*domain.Service, error)
	Update(ctx context.Context, id int64, upd domain.ServiceUpdate) (*domain.Service, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error)
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
	Update(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error)
	ListFrom(ctx context.Context, from time.Time) ([]*domain.TimeSlot, error)
	Delete(ctx context.Context, id int64) error
}

// BlockedDateRepository интерфейс репозитория заблокированных дат
type BlockedDateRepository interface {
	Create(ctx context.Context, bd *domain.BlockedDate) (*domain.BlockedDate, error)
	List(ctx context.Context, from time.Time) ([]*domain.BlockedDate, error)
	Delete(ctx context.Context, id int64) error
}

// CapacityTracker интерфейс подсчета занятости слотов
type CapacityTracker interface {
	ForSlots(ctx context.Context, slots []*domain.TimeSlot) ([]domain.SlotOccupancy, error)
	OccupancyOf(ctx context.Context, slot *domain.TimeSlot) (domain.SlotOccupancy, error)
	SyncAvailability(ctx context.Context, slotID int64) (domain.SlotOccupancy, error)
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

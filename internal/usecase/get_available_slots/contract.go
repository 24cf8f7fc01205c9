package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	// ListByDate получает слоты на дату, упорядоченные по времени начала
	ListByDate(ctx context.Context, date time.Time) ([]*domain.TimeSlot, error)
}

// BlockedDateRepository интерфейс проверки заблокированных дат
type BlockedDateRepository interface {
	IsBlocked(ctx context.Context, date time.Time) (bool, error)
}

// CapacityTracker интерфейс подсчета занятости слотов
type CapacityTracker interface {
	ForSlots(ctx context.Context, slots []*domain.TimeSlot) ([]domain.SlotOccupancy, error)
}

// Recommender интерфейс рекомендаций по малозагруженным часам
type Recommender interface {
	RecommendedSlotIDs(ctx context.Context, slots []domain.SlotOccupancy) (map[int64]bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

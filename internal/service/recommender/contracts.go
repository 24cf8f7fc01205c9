package recommender

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
)

// TrafficRepository источник почасового трафика
type TrafficRepository interface {
	HourlyTraffic(ctx context.Context, from, to time.Time) ([]domain.HourCount, error)
}

// TrafficCache кеш почасового трафика
type TrafficCache interface {
	Get(ctx context.Context, from, to time.Time) ([]domain.HourCount, bool, error)
	Set(ctx context.Context, from, to time.Time, traffic []domain.HourCount) error
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	ListFrom(ctx context.Context, from time.Time) ([]*domain.TimeSlot, error)
}

// CapacityTracker интерфейс подсчета занятости слотов
type CapacityTracker interface {
	ForSlots(ctx context.Context, slots []*domain.TimeSlot) ([]domain.SlotOccupancy, error)
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

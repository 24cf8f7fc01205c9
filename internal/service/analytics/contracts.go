package analytics

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
)

// StatsRepository агрегирующие запросы по бронированиям
type StatsRepository interface {
	CountByStatus(ctx context.Context) (domain.StatusCounts, error)
	DailyCreated(ctx context.Context, from time.Time) ([]domain.DayCount, error)
	MonthlyCreated(ctx context.Context, from time.Time) ([]domain.MonthCount, error)
	HourDistribution(ctx context.Context) ([]domain.HourCount, error)
	TopServices(ctx context.Context, limit uint64) ([]domain.ServiceCount, error)
}

// BookingRepository последние бронирования
type BookingRepository interface {
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
}

// ServiceRepository количество активных услуг
type ServiceRepository interface {
	CountActive(ctx context.Context) (int, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
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

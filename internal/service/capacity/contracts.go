package capacity

import (
	"context"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
	SetAvailable(ctx context.Context, id int64, available bool) error
}

// BookingRepository интерфейс подсчета активных броней
type BookingRepository interface {
	CountActiveBySlot(ctx context.Context, slotID int64) (int, error)
	CountActiveBySlots(ctx context.Context, slotIDs []int64) (map[int64]int, error)
}

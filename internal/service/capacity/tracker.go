package capacity

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
	slotRepo "github.com/m04kA/SMC-SmartQueue/internal/infra/storage/slot"
)

// Tracker считает занятость слотов по активным броням.
// Репозитории читают через исполнитель из контекста, поэтому внутри транзакции
// занятость считается в той же транзакции
type Tracker struct {
	slotRepo    SlotRepository
	bookingRepo BookingRepository
}

// NewTracker создает трекер занятости
func NewTracker(slotRepo SlotRepository, bookingRepo BookingRepository) *Tracker {
	return &Tracker{
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
	}
}

// Occupancy возвращает занятость слота
func (t *Tracker) Occupancy(ctx context.Context, slotID int64) (domain.SlotOccupancy, error) {
	slot, err := t.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return domain.SlotOccupancy{}, ErrSlotNotFound
		}
		return domain.SlotOccupancy{}, fmt.Errorf("%w: Occupancy - slot repository error: %w", ErrInternal, err)
	}
	return t.OccupancyOf(ctx, slot)
}

// OccupancyOf считает занятость уже загруженного слота
func (t *Tracker) OccupancyOf(ctx context.Context, slot *domain.TimeSlot) (domain.SlotOccupancy, error) {
	occupied, err := t.bookingRepo.CountActiveBySlot(ctx, slot.ID)
	if err != nil {
		return domain.SlotOccupancy{}, fmt.Errorf("%w: OccupancyOf - booking repository error: %w", ErrInternal, err)
	}
	return domain.SlotOccupancy{Slot: *slot, Occupied: occupied}, nil
}

// ForSlots считает занятость списка слотов одним запросом, порядок сохраняется
func (t *Tracker) ForSlots(ctx context.Context, slots []*domain.TimeSlot) ([]domain.SlotOccupancy, error) {
	if len(slots) == 0 {
		return []domain.SlotOccupancy{}, nil
	}

	ids := make([]int64, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.ID)
	}

	counts, err := t.bookingRepo.CountActiveBySlots(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: ForSlots - booking repository error: %w", ErrInternal, err)
	}

	result := make([]domain.SlotOccupancy, 0, len(slots))
	for _, s := range slots {
		result = append(result, domain.SlotOccupancy{Slot: *s, Occupied: counts[s.ID]})
	}
	return result, nil
}

// SyncAvailability приводит флаг is_available в соответствие с занятостью.
// Флаг только подсказка: решения о вместимости всегда принимаются по занятости
func (t *Tracker) SyncAvailability(ctx context.Context, slotID int64) (domain.SlotOccupancy, error) {
	occ, err := t.Occupancy(ctx, slotID)
	if err != nil {
		return domain.SlotOccupancy{}, err
	}

	available := !occ.IsFull()
	if occ.Slot.IsAvailable == available {
		return occ, nil
	}

	if err := t.slotRepo.SetAvailable(ctx, slotID, available); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return domain.SlotOccupancy{}, ErrSlotNotFound
		}
		return domain.SlotOccupancy{}, fmt.Errorf("%w: SyncAvailability - slot repository error: %w", ErrInternal, err)
	}
	occ.Slot.IsAvailable = available
	return occ, nil
}

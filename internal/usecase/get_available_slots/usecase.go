package get_available_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
)

// UseCase use case для получения доступных слотов на дату
type UseCase struct {
	slotRepo        SlotRepository
	blockedDateRepo BlockedDateRepository
	tracker         CapacityTracker
	recommender     Recommender
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	blockedDateRepo BlockedDateRepository,
	tracker CapacityTracker,
	recommender Recommender,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:        slotRepo,
		blockedDateRepo: blockedDateRepo,
		tracker:         tracker,
		recommender:     recommender,
		logger:          logger,
	}
}

// Execute возвращает слоты даты со свободными местами.
// Для заблокированной даты список пуст и выставлен флаг Blocked
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidDate)
	}
	date := req.Date.Format(domain.DateFormat)
	uc.logger.Info("GetAvailableSlots: date=%s", date)

	resp := &Response{Date: req.Date, Slots: []Slot{}}

	blocked, err := uc.blockedDateRepo.IsBlocked(ctx, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to check blocked date %s: %v", date, err)
		return nil, fmt.Errorf("%w: failed to check blocked date: %v", ErrInternal, err)
	}
	if blocked {
		uc.logger.Info("GetAvailableSlots: date %s is blocked", date)
		resp.Blocked = true
		return resp, nil
	}

	slots, err := uc.slotRepo.ListByDate(ctx, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list slots for %s: %v", date, err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	occupancies, err := uc.tracker.ForSlots(ctx, slots)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to count occupancy for %s: %v", date, err)
		return nil, fmt.Errorf("%w: failed to count occupancy: %v", ErrInternal, err)
	}

	open := openSlots(occupancies)

	// Без рекомендаций слоты все равно отдаем
	recommended, err := uc.recommender.RecommendedSlotIDs(ctx, open)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: recommendations unavailable for %s: %v", date, err)
		recommended = map[int64]bool{}
	}

	for _, occ := range open {
		resp.Slots = append(resp.Slots, toSlot(occ, recommended[occ.Slot.ID]))
	}

	uc.logger.Info("GetAvailableSlots: %d of %d slots open on %s", len(resp.Slots), len(slots), date)
	return resp, nil
}

package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
	slotRepo "github.com/m04kA/SMC-SmartQueue/internal/infra/storage/slot"
	"github.com/m04kA/SMC-SmartQueue/internal/service/catalog/models"
)

// CreateSlot создает слот на сегодня или будущую дату
func (s *Service) CreateSlot(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("CreateSlot: date=%s, %s-%s", req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	if err := validateFutureDate(req.Date, s.timeProvider.Now()); err != nil {
		s.logger.Warn("CreateSlot: %v", err)
		return nil, err
	}

	slot := &domain.TimeSlot{
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Capacity:    domain.DefaultSlotCapacity,
		IsAvailable: true,
	}
	if req.Capacity != nil {
		slot.Capacity = *req.Capacity
	}

	if err := slot.Validate(); err != nil {
		s.logger.Warn("CreateSlot: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if slot.Capacity > domain.MaxSlotCapacity {
		return nil, fmt.Errorf("%w: capacity must not exceed %d", ErrInvalidInput, domain.MaxSlotCapacity)
	}

	created, err := s.slotRepo.Create(ctx, slot)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotExists) {
			s.logger.Warn("CreateSlot: slot %s %s-%s already exists", req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)
			return nil, ErrSlotExists
		}
		s.logger.Error("CreateSlot: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateSlot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateSlot: created slot id=%d", created.ID)
	resp := models.FromSlotOccupancy(domain.SlotOccupancy{Slot: *created})
	return &resp, nil
}

// UpdateSlot меняет окно и вместимость слота. Строка слота блокируется на время транзакции,
// поэтому вместимость нельзя опустить ниже занятости, пока параллельно идет бронирование
func (s *Service) UpdateSlot(ctx context.Context, id int64, req *models.UpdateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("UpdateSlot: id=%d, date=%s, %s-%s", id, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	if err := validateFutureDate(req.Date, s.timeProvider.Now()); err != nil {
		s.logger.Warn("UpdateSlot: %v", err)
		return nil, err
	}

	var result domain.SlotOccupancy
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		slot, err := s.slotRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: UpdateSlot - get slot: %w", ErrInternal, err)
		}

		slot.Date = req.Date
		slot.StartTime = req.StartTime
		slot.EndTime = req.EndTime
		if req.Capacity != nil {
			slot.Capacity = *req.Capacity
		}

		if err := slot.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if slot.Capacity > domain.MaxSlotCapacity {
			return fmt.Errorf("%w: capacity must not exceed %d", ErrInvalidInput, domain.MaxSlotCapacity)
		}

		occ, err := s.tracker.OccupancyOf(txCtx, slot)
		if err != nil {
			return fmt.Errorf("%w: UpdateSlot - occupancy: %w", ErrInternal, err)
		}
		if slot.Capacity < occ.Occupied {
			return fmt.Errorf("%w: capacity %d, active bookings %d", ErrCapacityBelowOccupancy, slot.Capacity, occ.Occupied)
		}

		if _, err := s.slotRepo.Update(txCtx, slot); err != nil {
			switch {
			case errors.Is(err, slotRepo.ErrSlotExists):
				return ErrSlotExists
			case errors.Is(err, slotRepo.ErrSlotNotFound):
				return ErrSlotNotFound
			default:
				return fmt.Errorf("%w: UpdateSlot - update slot: %w", ErrInternal, err)
			}
		}

		// Флаг доступности пересчитывается в той же транзакции
		result, err = s.tracker.SyncAvailability(txCtx, id)
		if err != nil {
			return fmt.Errorf("%w: UpdateSlot - sync availability: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrSlotNotFound):
			s.logger.Warn("UpdateSlot: slot id=%d not found", id)
			return nil, err
		case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrCapacityBelowOccupancy), errors.Is(err, ErrSlotExists):
			s.logger.Warn("UpdateSlot: rejected for id=%d: %v", id, err)
			return nil, err
		case errors.Is(err, ErrInternal):
			s.logger.Error("UpdateSlot: %v", err)
			return nil, err
		default:
			s.logger.Error("UpdateSlot: transaction failed for id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: UpdateSlot - transaction failed: %v", ErrInternal, err)
		}
	}

	s.logger.Info("UpdateSlot: updated slot id=%d, capacity=%d, booked=%d", id, result.Slot.Capacity, result.Occupied)
	resp := models.FromSlotOccupancy(result)
	return &resp, nil
}

// ListUpcomingSlots возвращает слоты начиная с сегодняшнего дня вместе с занятостью
func (s *Service) ListUpcomingSlots(ctx context.Context) (*models.SlotListResponse, error) {
	from := today(s.timeProvider.Now())
	s.logger.Info("ListUpcomingSlots: from=%s", from.Format(domain.DateFormat))

	slots, err := s.slotRepo.ListFrom(ctx, from)
	if err != nil {
		s.logger.Error("ListUpcomingSlots: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListUpcomingSlots - repository error: %v", ErrInternal, err)
	}

	occupancies, err := s.tracker.ForSlots(ctx, slots)
	if err != nil {
		s.logger.Error("ListUpcomingSlots: capacity error: %v", err)
		return nil, fmt.Errorf("%w: ListUpcomingSlots - capacity error: %v", ErrInternal, err)
	}

	resp := &models.SlotListResponse{Slots: make([]models.SlotResponse, 0, len(occupancies))}
	for _, occ := range occupancies {
		resp.Slots = append(resp.Slots, models.FromSlotOccupancy(occ))
	}
	return resp, nil
}

// DeleteSlot удаляет слот без бронирований
func (s *Service) DeleteSlot(ctx context.Context, id int64) error {
	s.logger.Info("DeleteSlot: id=%d", id)

	if err := s.slotRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, slotRepo.ErrSlotNotFound):
			s.logger.Warn("DeleteSlot: slot id=%d not found", id)
			return ErrSlotNotFound
		case errors.Is(err, slotRepo.ErrSlotInUse):
			s.logger.Warn("DeleteSlot: slot id=%d has bookings", id)
			return ErrSlotInUse
		default:
			s.logger.Error("DeleteSlot: repository error for id=%d: %v", id, err)
			return fmt.Errorf("%w: DeleteSlot - repository error: %v", ErrInternal, err)
		}
	}

	s.logger.Info("DeleteSlot: deleted slot id=%d", id)
	return nil
}

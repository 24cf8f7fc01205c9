package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SmartQueue/internal/infra/storage/booking"
	serviceRepo "github.com/m04kA/SMC-SmartQueue/internal/infra/storage/service"
	slotRepo "github.com/m04kA/SMC-SmartQueue/internal/infra/storage/slot"
)

const (
	outcomeCreated   = "created"
	outcomeFull      = "full"
	outcomeBlocked   = "blocked"
	outcomeDuplicate = "duplicate"
	outcomeInvalid   = "invalid"
	outcomeNotFound  = "not_found"
	outcomeError     = "error"
)

var tracer = otel.Tracer("github.com/m04kA/SMC-SmartQueue/internal/usecase/create_booking")

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo     BookingRepository
	slotRepo        SlotRepository
	blockedDateRepo BlockedDateRepository
	serviceRepo     ServiceRepository
	tracker         CapacityTracker
	txManager       TransactionManager
	notifier        Notifier
	metrics         Metrics
	newToken        func() string
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	blockedDateRepo BlockedDateRepository,
	serviceRepo ServiceRepository,
	tracker CapacityTracker,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:     bookingRepo,
		slotRepo:        slotRepo,
		blockedDateRepo: blockedDateRepo,
		serviceRepo:     serviceRepo,
		tracker:         tracker,
		txManager:       txManager,
		notifier:        notifier,
		metrics:         metrics,
		newToken:        uuid.NewString,
		logger:          logger,
	}
}

// WithTokenGenerator подменяет генератор QR токенов (для тестов)
func (uc *UseCase) WithTokenGenerator(gen func() string) *UseCase {
	uc.newToken = gen
	return uc
}

// Execute выполняет use case создания бронирования.
// Проверка вместимости и вставка идут в одной сериализуемой транзакции
// со строкой слота под FOR UPDATE, поэтому занятость слота не превышает capacity
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "CreateBooking")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("booking.user_id", req.UserID),
		attribute.Int64("booking.slot_id", req.SlotID),
		attribute.Int64("booking.service_id", req.ServiceID),
	)

	uc.logger.Info("CreateBooking: user=%d, service=%d, slot=%d", req.UserID, req.ServiceID, req.SlotID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.observe(err)
		return nil, err
	}
	notes := normalizeNotes(req.Notes)

	var (
		created     *domain.Booking
		waitMinutes int
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Слот под блокировкой строки
		slot, err := uc.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("CreateBooking: slot id=%d not found", req.SlotID)
				return ErrSlotNotFound
			}
			uc.logger.Error("CreateBooking: failed to get slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %w", ErrInternal, err)
		}

		// 3. Заблокированная дата отклоняется независимо от вместимости
		blocked, err := uc.blockedDateRepo.IsBlocked(txCtx, slot.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check blocked date for slot id=%d: %v", slot.ID, err)
			return fmt.Errorf("%w: failed to check blocked date: %w", ErrInternal, err)
		}
		if blocked {
			uc.logger.Warn("CreateBooking: date %s is blocked, slot id=%d", slot.Date.Format(domain.DateFormat), slot.ID)
			return ErrDateBlocked
		}

		// 4. Вместимость по активным броням
		occ, err := uc.tracker.OccupancyOf(txCtx, slot)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to count occupancy for slot id=%d: %v", slot.ID, err)
			return fmt.Errorf("%w: failed to count occupancy: %w", ErrInternal, err)
		}
		if occ.IsFull() {
			uc.logger.Warn("CreateBooking: slot id=%d is full (%d/%d)", slot.ID, occ.Occupied, slot.Capacity)
			return ErrCapacityExceeded
		}

		// 5. Одна активная бронь пользователя на слот
		exists, err := uc.bookingRepo.HasActiveBooking(txCtx, req.UserID, slot.ID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check duplicate for user=%d slot id=%d: %v", req.UserID, slot.ID, err)
			return fmt.Errorf("%w: failed to check duplicate: %w", ErrInternal, err)
		}
		if exists {
			uc.logger.Warn("CreateBooking: user=%d already booked slot id=%d", req.UserID, slot.ID)
			return ErrDuplicateBooking
		}

		// 6. Услуга
		service, err := uc.serviceRepo.GetByID(txCtx, req.ServiceID)
		if err != nil {
			if errors.Is(err, serviceRepo.ErrServiceNotFound) {
				uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
				return ErrInvalidService
			}
			uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
			return fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
		}
		if !service.IsActive {
			uc.logger.Warn("CreateBooking: service id=%d is inactive", req.ServiceID)
			return ErrInvalidService
		}

		// 7. Создание брони
		booking, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			UserID:    req.UserID,
			ServiceID: service.ID,
			SlotID:    slot.ID,
			Status:    domain.StatusPending,
			Notes:     notes,
			QRToken:   uc.newToken(),
		})
		if err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrDuplicateBooking):
				return ErrDuplicateBooking
			case errors.Is(err, bookingRepo.ErrInvalidReference):
				return ErrInvalidService
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		booking.ServiceName = service.Name
		booking.ServiceDuration = service.DurationMinutes
		booking.SlotDate = slot.Date
		booking.SlotStart = slot.StartTime
		booking.SlotEnd = slot.EndTime

		// 8. Подсказка is_available
		if _, err := uc.tracker.SyncAvailability(txCtx, slot.ID); err != nil {
			uc.logger.Error("CreateBooking: failed to sync slot id=%d availability: %v", slot.ID, err)
			return fmt.Errorf("%w: failed to sync availability: %w", ErrInternal, err)
		}

		// 9. Оценка ожидания
		ahead, err := uc.bookingRepo.CountQueueAhead(txCtx, slot.Date, slot.StartTime)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to count queue for slot id=%d: %v", slot.ID, err)
			return fmt.Errorf("%w: failed to count queue: %w", ErrInternal, err)
		}

		created = booking
		waitMinutes = ahead * service.Duration()
		return nil
	})
	if err != nil {
		uc.observe(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if isKnownError(err) {
			return nil, err
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	uc.observe(nil)
	span.SetAttributes(attribute.Int64("booking.id", created.ID))
	uc.logger.Info("CreateBooking: booking id=%d created for user=%d, slot id=%d", created.ID, created.UserID, created.SlotID)

	uc.notifier.BookingCreated(ctx, created, waitMinutes)

	return toResponse(created, waitMinutes), nil
}

func isKnownError(err error) bool {
	for _, known := range []error{
		ErrSlotNotFound, ErrDateBlocked, ErrCapacityExceeded,
		ErrDuplicateBooking, ErrInvalidService, ErrInternal,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}

func (uc *UseCase) observe(err error) {
	if uc.metrics == nil {
		return
	}

	outcome := outcomeError
	switch {
	case err == nil:
		outcome = outcomeCreated
	case errors.Is(err, ErrCapacityExceeded):
		outcome = outcomeFull
	case errors.Is(err, ErrDateBlocked):
		outcome = outcomeBlocked
	case errors.Is(err, ErrDuplicateBooking):
		outcome = outcomeDuplicate
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidService):
		outcome = outcomeInvalid
	case errors.Is(err, ErrSlotNotFound):
		outcome = outcomeNotFound
	}
	uc.metrics.ObserveBooking(outcome)
}

func toResponse(b *domain.Booking, waitMinutes int) *Response {
	return &Response{
		ID:                   b.ID,
		UserID:               b.UserID,
		ServiceID:            b.ServiceID,
		SlotID:               b.SlotID,
		Status:               string(b.Status),
		QRToken:              b.QRToken,
		ServiceName:          b.ServiceName,
		Date:                 b.SlotDate,
		StartTime:            b.SlotStart,
		EndTime:              b.SlotEnd,
		TimeSlot:             b.SlotLabel(),
		Notes:                b.Notes,
		EstimatedWaitMinutes: waitMinutes,
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
	}
}

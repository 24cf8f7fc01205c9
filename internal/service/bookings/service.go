package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SmartQueue/internal/infra/storage/booking"
	profileRepo "github.com/m04kA/SMC-SmartQueue/internal/infra/storage/profile"
	"github.com/m04kA/SMC-SmartQueue/internal/service/bookings/models"
)

const (
	resultOK       = "ok"
	resultNotFound = "not_found"
	resultDenied   = "denied"
	resultInvalid  = "invalid_transition"
	resultError    = "error"
)

// Service сервис для работы с бронированиями: чтение и переходы статусов
type Service struct {
	bookingRepo BookingRepository
	profileRepo ProfileRepository
	tracker     CapacityTracker
	txManager   TransactionManager
	notifier    Notifier
	metrics     Metrics
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	profileRepo ProfileRepository,
	tracker CapacityTracker,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		profileRepo: profileRepo,
		tracker:     tracker,
		txManager:   txManager,
		notifier:    notifier,
		metrics:     metrics,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID вместе с оценкой времени ожидания.
// Пользователь видит только своё бронирование, персонал - любое
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkUserAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	wait, err := s.EstimatedWaitMinutes(ctx, booking)
	if err != nil {
		return nil, err
	}

	resp := models.FromDomainBooking(booking)
	resp.EstimatedWaitMinutes = &wait

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return resp, nil
}

// EstimatedWaitMinutes оценивает ожидание: бронирования в очереди на ту же дату
// со слотом, начинающимся раньше, умноженные на длительность услуги
func (s *Service) EstimatedWaitMinutes(ctx context.Context, booking *domain.Booking) (int, error) {
	ahead, err := s.bookingRepo.CountQueueAhead(ctx, booking.SlotDate, booking.SlotStart)
	if err != nil {
		s.logger.Error("EstimatedWaitMinutes: repository error for booking id=%d: %v", booking.ID, err)
		return 0, fmt.Errorf("%w: EstimatedWaitMinutes - repository error: %w", ErrInternal, err)
	}
	return ahead * booking.ServiceDurationMinutes(), nil
}

// GetUserBookings получает бронирования пользователя, новые первыми
func (s *Service) GetUserBookings(ctx context.Context, userID int64) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d", userID)

	bookings, err := s.bookingRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), userID)
	return models.FromDomainBookingList(bookings), nil
}

// List получает все бронирования для персонала с опциональным фильтром по статусу
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("List: fetching bookings, status=%v, limit=%d, offset=%d", req.Status, req.Limit, req.Offset)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование. Отменить может только владелец, из статусов pending и approved
func (s *Service) Cancel(ctx context.Context, bookingID int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, userID)

	booking, err := s.transition(ctx, "Cancel", domain.ActionCancel,
		func(ctx context.Context) (*domain.Booking, error) {
			return s.bookingRepo.GetByID(ctx, bookingID)
		},
		func(b *domain.Booking) error {
			if !b.BelongsTo(userID) {
				s.logger.Warn("Cancel: user=%d is not the owner of booking id=%d", userID, bookingID)
				return ErrAccessDenied
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return models.FromDomainBooking(booking), nil
}

// ApplyAction применяет действие персонала: approve, reject, complete
func (s *Service) ApplyAction(ctx context.Context, bookingID int64, action string, staffID int64) (*models.BookingResponse, error) {
	s.logger.Info("ApplyAction: action=%s on booking id=%d by staff=%d", action, bookingID, staffID)

	act := domain.Action(action)
	if !act.IsStaffAction() {
		s.logger.Warn("ApplyAction: invalid action=%s for booking id=%d", action, bookingID)
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	booking, err := s.transition(ctx, "ApplyAction", act,
		func(ctx context.Context) (*domain.Booking, error) {
			return s.bookingRepo.GetByID(ctx, bookingID)
		},
		nil,
	)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ApplyAction: booking id=%d marked as %s", bookingID, booking.Status)
	return models.FromDomainBooking(booking), nil
}

// CheckIn регистрирует прибытие по токену: approved -> checked_in
func (s *Service) CheckIn(ctx context.Context, token string) (*models.CheckInResponse, error) {
	s.logger.Info("CheckIn: checking in by token")

	// Токен хранится в колонке UUID: строка другого формата не может совпасть ни с одним бронированием
	parsed, err := uuid.Parse(strings.TrimSpace(token))
	if err != nil {
		s.logger.Warn("CheckIn: malformed token: %v", err)
		s.observe(domain.ActionCheckIn, ErrBookingNotFound)
		return nil, ErrBookingNotFound
	}

	booking, err := s.transition(ctx, "CheckIn", domain.ActionCheckIn,
		func(ctx context.Context) (*domain.Booking, error) {
			return s.bookingRepo.GetByToken(ctx, parsed.String())
		},
		nil,
	)
	if err != nil {
		return nil, err
	}

	s.logger.Info("CheckIn: booking id=%d checked in", booking.ID)
	return &models.CheckInResponse{
		Booking: *models.FromDomainBooking(booking),
		Message: "Checked in successfully",
	}, nil
}

// CheckInToken возвращает токен регистрации для QR-кода. Доступ как у GetByID: владелец или персонал
func (s *Service) CheckInToken(ctx context.Context, bookingID int64, userID int64) (string, error) {
	s.logger.Info("CheckInToken: booking id=%d for user=%d", bookingID, userID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("CheckInToken: booking id=%d not found", bookingID)
			return "", ErrBookingNotFound
		}
		s.logger.Error("CheckInToken: repository error for booking id=%d: %v", bookingID, err)
		return "", fmt.Errorf("%w: CheckInToken - repository error: %v", ErrInternal, err)
	}

	if err := s.checkUserAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("CheckInToken: access denied for user=%d to booking id=%d", userID, bookingID)
		return "", err
	}

	return booking.QRToken, nil
}

// transition загружает бронирование с блокировкой строки, проверяет права,
// применяет действие и, если место освободилось, возвращает слоту флаг доступности.
// Уведомления уходят только после фиксации транзакции
func (s *Service) transition(
	ctx context.Context,
	op string,
	action domain.Action,
	load func(ctx context.Context) (*domain.Booking, error),
	authorize func(b *domain.Booking) error,
) (*domain.Booking, error) {
	var result *domain.Booking

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := load(txCtx)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("%s: booking not found", op)
				return ErrBookingNotFound
			}
			s.logger.Error("%s: repository error: %v", op, err)
			return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
		}

		if authorize != nil {
			if err := authorize(booking); err != nil {
				return err
			}
		}

		if err := booking.Apply(action); err != nil {
			s.logger.Warn("%s: cannot %s booking id=%d in status=%s", op, action, booking.ID, booking.Status)
			return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, booking.ID, booking.Status); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("%s: failed to update booking id=%d: %v", op, booking.ID, err)
			return fmt.Errorf("%w: %s - update status: %w", ErrInternal, op, err)
		}

		if action.FreesCapacity() {
			if _, err := s.tracker.SyncAvailability(txCtx, booking.SlotID); err != nil {
				s.logger.Error("%s: failed to sync slot id=%d availability: %v", op, booking.SlotID, err)
				return fmt.Errorf("%w: %s - sync availability: %w", ErrInternal, op, err)
			}
		}

		result = booking
		return nil
	})
	if err != nil {
		s.observe(action, err)
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrAccessDenied) ||
			errors.Is(err, ErrInvalidTransition) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		s.logger.Error("%s: transaction failed: %v", op, err)
		return nil, fmt.Errorf("%w: %s - transaction failed: %v", ErrInternal, op, err)
	}

	s.observe(action, nil)
	s.notifier.BookingTransitioned(ctx, result, action)
	return result, nil
}

// checkUserAccess владелец или персонал
func (s *Service) checkUserAccess(ctx context.Context, booking *domain.Booking, userID int64) error {
	if booking.BelongsTo(userID) {
		return nil
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profileRepo.ErrProfileNotFound) {
			return ErrAccessDenied
		}
		s.logger.Error("checkUserAccess: failed to get profile for user=%d: %v", userID, err)
		return fmt.Errorf("%w: checkUserAccess - profile repository error: %v", ErrInternal, err)
	}

	if !profile.Role.AtLeast(domain.RoleStaff) {
		return ErrAccessDenied
	}
	return nil
}

func (s *Service) observe(action domain.Action, err error) {
	if s.metrics == nil {
		return
	}

	result := resultOK
	switch {
	case err == nil:
	case errors.Is(err, ErrBookingNotFound):
		result = resultNotFound
	case errors.Is(err, ErrAccessDenied):
		result = resultDenied
	case errors.Is(err, ErrInvalidTransition):
		result = resultInvalid
	default:
		result = resultError
	}
	s.metrics.ObserveTransition(string(action), result)
}

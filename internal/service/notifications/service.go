package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
)

// DefaultTimeout ограничение на одну отправку
const DefaultTimeout = 10 * time.Second

const (
	kindConfirmation = "confirmation"
	kindApproval     = "approval"
	kindCancellation = "cancellation"
	kindEvent        = "event"

	statusSent    = "sent"
	statusFailed  = "failed"
	statusSkipped = "skipped"
)

// Service рассылает письма и публикует события после фиксации транзакции.
// Отправка асинхронная: ошибки логируются и не влияют на результат операции
type Service struct {
	mailer       Mailer
	publisher    EventPublisher
	profileRepo  ProfileRepository
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
	timeout      time.Duration
	wg           sync.WaitGroup

	// abortCtx отменяется, когда остановка сервиса не дождалась отправок
	abortCtx context.Context
	abort    context.CancelFunc
}

// NewService создает сервис уведомлений. mailer равный nil отключает письма
func NewService(
	mailer Mailer,
	publisher EventPublisher,
	profileRepo ProfileRepository,
	metrics Metrics,
	logger Logger,
) *Service {
	abortCtx, abort := context.WithCancel(context.Background())
	return &Service{
		abortCtx:     abortCtx,
		abort:        abort,
		mailer:       mailer,
		publisher:    publisher,
		profileRepo:  profileRepo,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		timeout:      DefaultTimeout,
	}
}

// BookingCreated отправляет подтверждение с временем ожидания и токеном, публикует booking.created
func (s *Service) BookingCreated(ctx context.Context, b *domain.Booking, waitMinutes int) {
	booking := *b
	s.dispatch(ctx, func(ctx context.Context) {
		s.publish(ctx, domain.EventBookingCreated, &booking)
		s.email(ctx, kindConfirmation, &booking, func(p *domain.Profile) (string, string) {
			return confirmationEmail(p, &booking, waitMinutes)
		})
	})
}

// BookingTransitioned публикует событие перехода.
// Письма уходят при одобрении и отмене
func (s *Service) BookingTransitioned(ctx context.Context, b *domain.Booking, action domain.Action) {
	booking := *b
	s.dispatch(ctx, func(ctx context.Context) {
		s.publish(ctx, domain.EventForAction(action), &booking)

		switch action {
		case domain.ActionApprove:
			s.email(ctx, kindApproval, &booking, func(p *domain.Profile) (string, string) {
				return approvalEmail(p, &booking)
			})
		case domain.ActionCancel:
			s.email(ctx, kindCancellation, &booking, func(p *domain.Profile) (string, string) {
				return cancellationEmail(p, &booking)
			})
		}
	})
}

// Wait дожидается завершения отправок (тесты)
func (s *Service) Wait() {
	s.wg.Wait()
}

// WaitContext дожидается отправок, но не дольше ctx. По истечении ctx
// незавершенные отправки отменяются, возвращается ctx.Err()
func (s *Service) WaitContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.abort()
		s.logger.Warn("Notifications: shutdown deadline reached, pending sends aborted")
		return ctx.Err()
	}
}

func (s *Service) dispatch(ctx context.Context, fn func(ctx context.Context)) {
	// Запрос уже завершен, поэтому отвязываемся от его отмены, но сохраняем значения (trace)
	base := context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("Notifications: panic recovered: %v", r)
			}
		}()

		ctx, cancel := context.WithTimeout(base, s.timeout)
		defer cancel()
		stop := context.AfterFunc(s.abortCtx, cancel)
		defer stop()
		fn(ctx)
	}()
}

func (s *Service) publish(ctx context.Context, eventType domain.EventType, b *domain.Booking) {
	if s.publisher == nil {
		return
	}

	event := domain.NewBookingEvent(eventType, b, s.timeProvider.Now().UTC())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Notifications: failed to publish %s for booking id=%d: %v", eventType, b.ID, err)
		s.observe(kindEvent, statusFailed)
		return
	}
	s.observe(kindEvent, statusSent)
}

func (s *Service) email(ctx context.Context, kind string, b *domain.Booking, render func(p *domain.Profile) (string, string)) {
	if s.mailer == nil {
		s.observe(kind, statusSkipped)
		return
	}

	profile, err := s.profileRepo.GetByUserID(ctx, b.UserID)
	if err != nil {
		s.logger.Warn("Notifications: no profile for user=%d, %s email for booking id=%d skipped: %v", b.UserID, kind, b.ID, err)
		s.observe(kind, statusSkipped)
		return
	}
	if profile.Email == "" {
		s.logger.Info("Notifications: user=%d has no email, %s email for booking id=%d skipped", b.UserID, kind, b.ID)
		s.observe(kind, statusSkipped)
		return
	}

	subject, body := render(profile)
	if err := s.mailer.Send(ctx, profile.Email, subject, body); err != nil {
		s.logger.Warn("Notifications: %s email for booking id=%d failed: %v", kind, b.ID, err)
		s.observe(kind, statusFailed)
		return
	}
	s.observe(kind, statusSent)
}

func (s *Service) observe(kind, status string) {
	if s.metrics != nil {
		s.metrics.ObserveNotification(kind, status)
	}
}

package analytics

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
	"github.com/m04kA/SMC-SmartQueue/internal/service/analytics/models"
	bookingModels "github.com/m04kA/SMC-SmartQueue/internal/service/bookings/models"
)

// Service строит дашборд персонала и аналитику администратора
type Service struct {
	statsRepo    StatsRepository
	bookingRepo  BookingRepository
	serviceRepo  ServiceRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса аналитики
func NewService(
	statsRepo StatsRepository,
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		statsRepo:    statsRepo,
		bookingRepo:  bookingRepo,
		serviceRepo:  serviceRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Dashboard счетчики по статусам, создания за 30 дней, часы пик 7-19,
// топ-5 услуг и последние бронирования
func (s *Service) Dashboard(ctx context.Context) (*models.DashboardResponse, error) {
	s.logger.Info("Dashboard: building staff dashboard")

	today := startOfDay(s.timeProvider.Now())
	from := today.AddDate(0, 0, -(domain.DashboardDays - 1))

	var d domain.Dashboard
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		if d.StatusCounts, err = s.statsRepo.CountByStatus(txCtx); err != nil {
			return fmt.Errorf("count by status: %w", err)
		}
		daily, err := s.statsRepo.DailyCreated(txCtx, from)
		if err != nil {
			return fmt.Errorf("daily created: %w", err)
		}
		d.Daily = fillDays(daily, today, domain.DashboardDays)

		hours, err := s.statsRepo.HourDistribution(txCtx)
		if err != nil {
			return fmt.Errorf("hour distribution: %w", err)
		}
		d.PeakHours = fillOperatingHours(hours)

		if d.TopServices, err = s.statsRepo.TopServices(txCtx, domain.DashboardTopServices); err != nil {
			return fmt.Errorf("top services: %w", err)
		}
		if d.Recent, err = s.bookingRepo.List(txCtx, domain.BookingFilter{Limit: domain.DashboardRecent}); err != nil {
			return fmt.Errorf("recent bookings: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Dashboard: %v", err)
		return nil, fmt.Errorf("%w: Dashboard - %v", ErrInternal, err)
	}

	return &models.DashboardResponse{
		Totals:      models.FromStatusCounts(d.StatusCounts),
		Daily:       models.FromDayCounts(d.Daily),
		PeakHours:   models.FromHourCounts(d.PeakHours),
		TopServices: models.FromServiceCounts(d.TopServices),
		Recent:      bookingModels.FromDomainBookingList(d.Recent).Bookings,
	}, nil
}

// Analytics помесячная динамика за 12 месяцев, топ-10 услуг, итоги и число активных услуг
func (s *Service) Analytics(ctx context.Context) (*models.AnalyticsResponse, error) {
	s.logger.Info("Analytics: building admin analytics")

	month := monthStart(s.timeProvider.Now())
	from := month.AddDate(0, -(domain.AnalyticsMonths - 1), 0)

	var a domain.Analytics
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		if a.StatusCounts, err = s.statsRepo.CountByStatus(txCtx); err != nil {
			return fmt.Errorf("count by status: %w", err)
		}
		monthly, err := s.statsRepo.MonthlyCreated(txCtx, from)
		if err != nil {
			return fmt.Errorf("monthly created: %w", err)
		}
		a.Monthly = fillMonths(monthly, month, domain.AnalyticsMonths)

		if a.TopServices, err = s.statsRepo.TopServices(txCtx, domain.AnalyticsTopServices); err != nil {
			return fmt.Errorf("top services: %w", err)
		}
		if a.ActiveServices, err = s.serviceRepo.CountActive(txCtx); err != nil {
			return fmt.Errorf("active services: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Analytics: %v", err)
		return nil, fmt.Errorf("%w: Analytics - %v", ErrInternal, err)
	}

	return &models.AnalyticsResponse{
		Totals:         models.FromStatusCounts(a.StatusCounts),
		Monthly:        models.FromMonthCounts(a.Monthly),
		TopServices:    models.FromServiceCounts(a.TopServices),
		ActiveServices: a.ActiveServices,
	}, nil
}

package recommender

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
)

// Config параметры рекомендаций
type Config struct {
	LookbackDays int
	DefaultLimit int
}

// Service рекомендует слоты с низкой исторической загрузкой.
// Рекомендации носят справочный характер и никак не влияют на бронирование
type Service struct {
	trafficRepo  TrafficRepository
	slotRepo     SlotRepository
	tracker      CapacityTracker
	cache        TrafficCache
	timeProvider TimeProvider
	cfg          Config
	logger       Logger
}

// NewService создает сервис рекомендаций. cache может быть nil
func NewService(
	trafficRepo TrafficRepository,
	slotRepo SlotRepository,
	tracker CapacityTracker,
	cache TrafficCache,
	cfg Config,
	logger Logger,
) *Service {
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = domain.TrafficLookbackDays
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = domain.DefaultRecommendationLimit
	}
	return &Service{
		trafficRepo:  trafficRepo,
		slotRepo:     slotRepo,
		tracker:      tracker,
		cache:        cache,
		timeProvider: &RealTimeProvider{},
		cfg:          cfg,
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// HourTraffic возвращает трафик по часам за окно [сегодня - LookbackDays, сегодня].
// Ошибки кеша не фатальны: логируем и читаем из БД
func (s *Service) HourTraffic(ctx context.Context) ([]domain.HourCount, error) {
	to := today(s.timeProvider.Now())
	from := to.AddDate(0, 0, -s.cfg.LookbackDays)

	if s.cache != nil {
		traffic, ok, err := s.cache.Get(ctx, from, to)
		switch {
		case err != nil:
			s.logger.Warn("HourTraffic: cache read failed, falling back to store: %v", err)
		case ok:
			return traffic, nil
		}
	}

	traffic, err := s.trafficRepo.HourlyTraffic(ctx, from, to)
	if err != nil {
		s.logger.Error("HourTraffic: repository error: %v", err)
		return nil, fmt.Errorf("%w: HourTraffic - repository error: %w", ErrInternal, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, from, to, traffic); err != nil {
			s.logger.Warn("HourTraffic: cache write failed: %v", err)
		}
	}

	return traffic, nil
}

// LowTrafficHours возвращает множество малозагруженных часов
func (s *Service) LowTrafficHours(ctx context.Context) (map[int]bool, error) {
	traffic, err := s.HourTraffic(ctx)
	if err != nil {
		return nil, err
	}
	return LowTrafficHours(traffic), nil
}

// RecommendedSlotIDs отмечает рекомендуемые слоты среди переданных
func (s *Service) RecommendedSlotIDs(ctx context.Context, slots []domain.SlotOccupancy) (map[int64]bool, error) {
	result := make(map[int64]bool)
	if len(slots) == 0 {
		return result, nil
	}

	lowHours, err := s.LowTrafficHours(ctx)
	if err != nil {
		return nil, err
	}

	for _, occ := range slots {
		if IsRecommended(lowHours, occ) {
			result[occ.Slot.ID] = true
		}
	}
	return result, nil
}

// RecommendedSlots возвращает до limit рекомендуемых будущих слотов в порядке даты и времени.
// limit <= 0 заменяется значением по умолчанию
func (s *Service) RecommendedSlots(ctx context.Context, limit int) ([]domain.SlotOccupancy, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	now := s.timeProvider.Now()
	s.logger.Info("RecommendedSlots: limit=%d, from=%s", limit, now.Format(domain.DateFormat))

	lowHours, err := s.LowTrafficHours(ctx)
	if err != nil {
		return nil, err
	}

	slots, err := s.slotRepo.ListFrom(ctx, today(now))
	if err != nil {
		s.logger.Error("RecommendedSlots: slot repository error: %v", err)
		return nil, fmt.Errorf("%w: RecommendedSlots - slot repository error: %w", ErrInternal, err)
	}

	upcoming := make([]*domain.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if !hasStarted(slot, now) {
			upcoming = append(upcoming, slot)
		}
	}

	occupancies, err := s.tracker.ForSlots(ctx, upcoming)
	if err != nil {
		s.logger.Error("RecommendedSlots: capacity error: %v", err)
		return nil, fmt.Errorf("%w: RecommendedSlots - capacity error: %w", ErrInternal, err)
	}

	result := make([]domain.SlotOccupancy, 0, limit)
	for _, occ := range occupancies {
		if len(result) == limit {
			break
		}
		if IsRecommended(lowHours, occ) {
			result = append(result, occ)
		}
	}

	s.logger.Info("RecommendedSlots: found %d slots", len(result))
	return result, nil
}

func today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// hasStarted сравнивает по календарной дате и времени на часах, без учета часовых поясов
func hasStarted(slot *domain.TimeSlot, now time.Time) bool {
	slotDay := slot.Date.Format(domain.DateFormat)
	nowDay := now.Format(domain.DateFormat)
	if slotDay != nowDay {
		return slotDay < nowDay
	}
	return slot.StartTime.Minutes() <= now.Hour()*60+now.Minute()
}

package catalog

import (
	"context"
	"errors"
	"fmt"

	serviceRepo "github.com/m04kA/SMC-SmartQueue/internal/infra/storage/service"
	"github.com/m04kA/SMC-SmartQueue/internal/service/catalog/models"
)

// Service администрирование каталога: услуги, слоты, заблокированные даты
type Service struct {
	serviceRepo     ServiceRepository
	slotRepo        SlotRepository
	blockedDateRepo BlockedDateRepository
	tracker         CapacityTracker
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(
	serviceRepo ServiceRepository,
	slotRepo SlotRepository,
	blockedDateRepo BlockedDateRepository,
	tracker CapacityTracker,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		serviceRepo:     serviceRepo,
		slotRepo:        slotRepo,
		blockedDateRepo: blockedDateRepo,
		tracker:         tracker,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// ListServices возвращает услуги. Публичный каталог показывает только активные
func (s *Service) ListServices(ctx context.Context, onlyActive bool) (*models.ServiceListResponse, error) {
	s.logger.Info("ListServices: onlyActive=%t", onlyActive)

	services, err := s.serviceRepo.List(ctx, onlyActive)
	if err != nil {
		s.logger.Error("ListServices: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListServices - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainServiceList(services), nil
}

// CreateService создает услугу
func (s *Service) CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("CreateService: name=%q", req.Name)

	svc := req.ToDomain()
	if err := svc.Validate(); err != nil {
		s.logger.Warn("CreateService: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.serviceRepo.Create(ctx, svc)
	if err != nil {
		s.logger.Error("CreateService: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateService - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateService: created service id=%d", created.ID)
	return models.FromDomainService(created), nil
}

// UpdateService частично обновляет услугу
func (s *Service) UpdateService(ctx context.Context, id int64, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("UpdateService: id=%d", id)

	upd := req.ToDomain()
	if err := validateServiceUpdate(upd); err != nil {
		s.logger.Warn("UpdateService: validation failed for id=%d: %v", id, err)
		return nil, err
	}

	updated, err := s.serviceRepo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("UpdateService: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("UpdateService: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateService - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateService: updated service id=%d", id)
	return models.FromDomainService(updated), nil
}

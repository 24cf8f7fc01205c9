package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
	blockedDateRepo "github.com/m04kA/SMC-SmartQueue/internal/infra/storage/blockeddate"
	"github.com/m04kA/SMC-SmartQueue/internal/service/catalog/models"
)

// BlockDate закрывает дату для бронирования. Существующие брони не затрагиваются
func (s *Service) BlockDate(ctx context.Context, req *models.CreateBlockedDateRequest) (*models.BlockedDateResponse, error) {
	s.logger.Info("BlockDate: date=%s", req.Date.Format(domain.DateFormat))

	if err := validateFutureDate(req.Date, s.timeProvider.Now()); err != nil {
		s.logger.Warn("BlockDate: %v", err)
		return nil, err
	}

	created, err := s.blockedDateRepo.Create(ctx, &domain.BlockedDate{
		Date:   req.Date,
		Reason: strings.TrimSpace(req.Reason),
	})
	if err != nil {
		if errors.Is(err, blockedDateRepo.ErrAlreadyBlocked) {
			s.logger.Warn("BlockDate: date %s already blocked", req.Date.Format(domain.DateFormat))
			return nil, ErrAlreadyBlocked
		}
		s.logger.Error("BlockDate: repository error: %v", err)
		return nil, fmt.Errorf("%w: BlockDate - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBlockedDate(created), nil
}

// ListBlockedDates возвращает заблокированные даты начиная с сегодняшней
func (s *Service) ListBlockedDates(ctx context.Context) (*models.BlockedDateListResponse, error) {
	dates, err := s.blockedDateRepo.List(ctx, today(s.timeProvider.Now()))
	if err != nil {
		s.logger.Error("ListBlockedDates: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBlockedDates - repository error: %v", ErrInternal, err)
	}

	resp := &models.BlockedDateListResponse{BlockedDates: make([]models.BlockedDateResponse, 0, len(dates))}
	for _, bd := range dates {
		resp.BlockedDates = append(resp.BlockedDates, *models.FromDomainBlockedDate(bd))
	}
	return resp, nil
}

// UnblockDate удаляет блокировку
func (s *Service) UnblockDate(ctx context.Context, id int64) error {
	s.logger.Info("UnblockDate: id=%d", id)

	if err := s.blockedDateRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, blockedDateRepo.ErrBlockedDateNotFound) {
			return ErrBlockedDateNotFound
		}
		s.logger.Error("UnblockDate: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: UnblockDate - repository error: %v", ErrInternal, err)
	}
	return nil
}

package profiles

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
	profileRepo "github.com/m04kA/SMC-SmartQueue/internal/infra/storage/profile"
	"github.com/m04kA/SMC-SmartQueue/internal/service/profiles/models"
)

// Service профили и роли пользователей
type Service struct {
	profileRepo ProfileRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса профилей
func NewService(profileRepo ProfileRepository, logger Logger) *Service {
	return &Service{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// Register создает профиль с ролью user по событию регистрации
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.ProfileResponse, error) {
	s.logger.Info("Register: user=%d, username=%q", req.UserID, req.Username)

	profile := &domain.Profile{
		UserID:    req.UserID,
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.TrimSpace(req.Email),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      domain.RoleUser,
	}
	if err := profile.Validate(); err != nil {
		s.logger.Warn("Register: validation failed for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.profileRepo.Create(ctx, profile)
	if err != nil {
		if errors.Is(err, profileRepo.ErrProfileExists) {
			s.logger.Warn("Register: user=%d already registered", req.UserID)
			return nil, ErrAlreadyRegistered
		}
		s.logger.Error("Register: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: Register - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Register: profile created for user=%d", req.UserID)
	return models.FromDomainProfile(created), nil
}

// Get возвращает профиль пользователя
func (s *Service) Get(ctx context.Context, userID int64) (*models.ProfileResponse, error) {
	profile, err := s.get(ctx, "Get", userID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainProfile(profile), nil
}

// Update обновляет контактные данные владельца профиля
func (s *Service) Update(ctx context.Context, userID int64, req *models.UpdateProfileRequest) (*models.ProfileResponse, error) {
	s.logger.Info("Update: user=%d", userID)

	if req.Email != nil && *req.Email != "" {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			return nil, fmt.Errorf("%w: invalid email: %v", ErrInvalidInput, err)
		}
	}

	updated, err := s.profileRepo.Update(ctx, userID, req.ToDomain())
	if err != nil {
		if errors.Is(err, profileRepo.ErrProfileNotFound) {
			s.logger.Warn("Update: profile for user=%d not found", userID)
			return nil, ErrProfileNotFound
		}
		s.logger.Error("Update: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainProfile(updated), nil
}

// SetRole меняет роль пользователя (только администратор)
func (s *Service) SetRole(ctx context.Context, userID int64, role string) (*models.ProfileResponse, error) {
	s.logger.Info("SetRole: user=%d, role=%s", userID, role)

	r := domain.Role(role)
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	updated, err := s.profileRepo.SetRole(ctx, userID, r)
	if err != nil {
		if errors.Is(err, profileRepo.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error("SetRole: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: SetRole - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainProfile(updated), nil
}

// RoleOf возвращает роль пользователя. Пользователь без профиля считается обычным
func (s *Service) RoleOf(ctx context.Context, userID int64) (domain.Role, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profileRepo.ErrProfileNotFound) {
			return domain.RoleUser, nil
		}
		s.logger.Error("RoleOf: repository error for user=%d: %v", userID, err)
		return "", fmt.Errorf("%w: RoleOf - repository error: %v", ErrInternal, err)
	}
	return profile.Role, nil
}

func (s *Service) get(ctx context.Context, op string, userID int64) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profileRepo.ErrProfileNotFound) {
			s.logger.Warn("%s: profile for user=%d not found", op, userID)
			return nil, ErrProfileNotFound
		}
		s.logger.Error("%s: repository error for user=%d: %v", op, userID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return profile, nil
}

package profiles

import (
	"context"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
)

// ProfileRepository интерфейс репозитория профилей
type ProfileRepository interface {
	Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Profile, error)
	Update(ctx context.Context, userID int64, upd domain.ProfileUpdate) (*domain.Profile, error)
	SetRole(ctx context.Context, userID int64, role domain.Role) (*domain.Profile, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

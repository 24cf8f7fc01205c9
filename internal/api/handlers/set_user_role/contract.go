package set_user_role

import (
	"context"

	"github.com/m04kA/SMC-SmartQueue/internal/service/profiles/models"
)

type ProfileService interface {
	SetRole(ctx context.Context, userID int64, role string) (*models.ProfileResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

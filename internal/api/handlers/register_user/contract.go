package register_user

import (
	"context"

	"github.com/m04kA/SMC-SmartQueue/internal/service/profiles/models"
)

type ProfileService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.ProfileResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

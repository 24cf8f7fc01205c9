package update_profile

import (
	"context"

	"github.com/m04kA/SMC-SmartQueue/internal/service/profiles/models"
)

type ProfileService interface {
	Update(ctx context.Context, userID int64, req *models.UpdateProfileRequest) (*models.ProfileResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

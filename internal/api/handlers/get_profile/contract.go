package get_profile

import (
	"context"

	"github.com/m04kA/SMC-SmartQueue/internal/service/profiles/models"
)

type ProfileService interface {
	Get(ctx context.Context, userID int64) (*models.ProfileResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

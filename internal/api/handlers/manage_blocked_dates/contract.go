package manage_blocked_dates

import (
	"context"

	"github.com/m04kA/SMC-SmartQueue/internal/service/catalog/models"
)

type CatalogService interface {
	BlockDate(ctx context.Context, req *models.CreateBlockedDateRequest) (*models.BlockedDateResponse, error)
	ListBlockedDates(ctx context.Context) (*models.BlockedDateListResponse, error)
	UnblockDate(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

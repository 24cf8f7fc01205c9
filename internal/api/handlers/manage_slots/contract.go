package manage_slots

import (
	"context"

	"github.com/m04kA/SMC-SmartQueue/internal/service/catalog/models"
)

type CatalogService interface {
	CreateSlot(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error)
	UpdateSlot(ctx context.Context, id int64, req *models.UpdateSlotRequest) (*models.SlotResponse, error)
	ListUpcomingSlots(ctx context.Context) (*models.SlotListResponse, error)
	DeleteSlot(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package manage_services

import (
	"context"

	"github.com/m04kA/SMC-SmartQueue/internal/service/catalog/models"
)

type CatalogService interface {
	ListServices(ctx context.Context, onlyActive bool) (*models.ServiceListResponse, error)
	CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error)
	UpdateService(ctx context.Context, id int64, req *models.UpdateServiceRequest) (*models.ServiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

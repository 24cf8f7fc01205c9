package manage_services

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SmartQueue/internal/service/catalog/models"
)

// CreateServiceRequest HTTP request model
type CreateServiceRequest struct {
	Name            string           `json:"name" validate:"required,max=100"`
	Description     string           `json:"description"`
	DurationMinutes *int             `json:"durationMinutes,omitempty" validate:"omitempty,gt=0"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	IsActive        *bool            `json:"isActive,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateServiceRequest) ToServiceRequest() *models.CreateServiceRequest {
	return &models.CreateServiceRequest{
		Name:            r.Name,
		Description:     r.Description,
		DurationMinutes: r.DurationMinutes,
		Price:           r.Price,
		IsActive:        r.IsActive,
	}
}

// UpdateServiceRequest HTTP request model, все поля опциональны
type UpdateServiceRequest struct {
	Name            *string          `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description     *string          `json:"description,omitempty"`
	DurationMinutes *int             `json:"durationMinutes,omitempty" validate:"omitempty,gt=0"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	IsActive        *bool            `json:"isActive,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateServiceRequest) ToServiceRequest() *models.UpdateServiceRequest {
	return &models.UpdateServiceRequest{
		Name:            r.Name,
		Description:     r.Description,
		DurationMinutes: r.DurationMinutes,
		Price:           r.Price,
		IsActive:        r.IsActive,
	}
}

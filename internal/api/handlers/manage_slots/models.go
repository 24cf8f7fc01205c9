package manage_slots

import (
	"time"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
	"github.com/m04kA/SMC-SmartQueue/internal/service/catalog/models"
	"github.com/m04kA/SMC-SmartQueue/pkg/types"
)

// CreateSlotRequest HTTP request model
type CreateSlotRequest struct {
	Date      string `json:"date" validate:"required"`      // "2025-10-15"
	StartTime string `json:"startTime" validate:"required"` // "09:00"
	EndTime   string `json:"endTime" validate:"required"`   // "09:30"
	Capacity  *int   `json:"capacity,omitempty" validate:"omitempty,gt=0,lte=100"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса (с парсингом даты и времени)
func (r *CreateSlotRequest) ToServiceRequest() (*models.CreateSlotRequest, error) {
	date, start, end, err := parseWindow(r.Date, r.StartTime, r.EndTime)
	if err != nil {
		return nil, err
	}

	return &models.CreateSlotRequest{
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Capacity:  r.Capacity,
	}, nil
}

// UpdateSlotRequest HTTP request model. Окно передается целиком, capacity можно опустить
type UpdateSlotRequest struct {
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
	Capacity  *int   `json:"capacity,omitempty" validate:"omitempty,gt=0,lte=100"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateSlotRequest) ToServiceRequest() (*models.UpdateSlotRequest, error) {
	date, start, end, err := parseWindow(r.Date, r.StartTime, r.EndTime)
	if err != nil {
		return nil, err
	}

	return &models.UpdateSlotRequest{
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Capacity:  r.Capacity,
	}, nil
}

func parseWindow(dateStr, startStr, endStr string) (time.Time, types.TimeString, types.TimeString, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, "", "", err
	}

	start, err := types.NewTimeStringFromString(startStr)
	if err != nil {
		return time.Time{}, "", "", err
	}

	end, err := types.NewTimeStringFromString(endStr)
	if err != nil {
		return time.Time{}, "", "", err
	}

	return date, start, end, nil
}

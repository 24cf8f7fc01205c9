package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
	"github.com/m04kA/SMC-SmartQueue/pkg/types"
)

// Request модели

// CreateServiceRequest запрос на создание услуги
type CreateServiceRequest struct {
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	DurationMinutes *int             `json:"durationMinutes,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	IsActive        *bool            `json:"isActive,omitempty"` // по умолчанию true
}

// ToDomain конвертирует запрос в domain модель
func (r *CreateServiceRequest) ToDomain() *domain.Service {
	s := &domain.Service{
		Name:            r.Name,
		Description:     r.Description,
		DurationMinutes: r.DurationMinutes,
		IsActive:        true,
	}
	if r.Price != nil {
		s.Price = decimal.NewNullDecimal(*r.Price)
	}
	if r.IsActive != nil {
		s.IsActive = *r.IsActive
	}
	return s
}

// UpdateServiceRequest частичное обновление услуги
type UpdateServiceRequest struct {
	Name            *string          `json:"name,omitempty"`
	Description     *string          `json:"description,omitempty"`
	DurationMinutes *int             `json:"durationMinutes,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	IsActive        *bool            `json:"isActive,omitempty"`
}

// ToDomain конвертирует запрос в domain модель
func (r *UpdateServiceRequest) ToDomain() domain.ServiceUpdate {
	return domain.ServiceUpdate{
		Name:            r.Name,
		Description:     r.Description,
		DurationMinutes: r.DurationMinutes,
		Price:           r.Price,
		IsActive:        r.IsActive,
	}
}

// CreateSlotRequest запрос на создание слота
type CreateSlotRequest struct {
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Capacity  *int // по умолчанию domain.DefaultSlotCapacity
}

// UpdateSlotRequest запрос на изменение слота. Capacity равный nil оставляет текущую вместимость
type UpdateSlotRequest struct {
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Capacity  *int
}

// CreateBlockedDateRequest запрос на блокировку даты
type CreateBlockedDateRequest struct {
	Date   time.Time
	Reason string
}

// Response модели

// ServiceResponse ответ с данными услуги
type ServiceResponse struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	DurationMinutes int              `json:"durationMinutes"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	IsActive        bool             `json:"isActive"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// ServiceListResponse ответ со списком услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// SlotResponse ответ с данными слота и его занятостью
type SlotResponse struct {
	ID             int64  `json:"id"`
	Date           string `json:"date"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	Label          string `json:"label"`
	Capacity       int    `json:"capacity"`
	Booked         int    `json:"booked"`
	AvailableSpots int    `json:"availableSpots"`
	Status         string `json:"status"`
	IsAvailable    bool   `json:"isAvailable"`
}

// SlotListResponse ответ со списком слотов
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// BlockedDateResponse ответ с заблокированной датой
type BlockedDateResponse struct {
	ID     int64  `json:"id"`
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// BlockedDateListResponse ответ со списком заблокированных дат
type BlockedDateListResponse struct {
	BlockedDates []BlockedDateResponse `json:"blockedDates"`
}

// Методы конвертации

// FromDomainService конвертирует domain модель в DTO
func FromDomainService(s *domain.Service) *ServiceResponse {
	if s == nil {
		return nil
	}

	resp := &ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.Duration(),
		IsActive:        s.IsActive,
		CreatedAt:       s.CreatedAt,
	}
	if s.Price.Valid {
		price := s.Price.Decimal
		resp.Price = &price
	}
	return resp
}

// FromDomainServiceList конвертирует список услуг в DTO
func FromDomainServiceList(services []*domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{Services: make([]ServiceResponse, 0, len(services))}
	for _, s := range services {
		resp.Services = append(resp.Services, *FromDomainService(s))
	}
	return resp
}

// FromSlotOccupancy конвертирует занятость слота в DTO
func FromSlotOccupancy(o domain.SlotOccupancy) SlotResponse {
	return SlotResponse{
		ID:             o.Slot.ID,
		Date:           o.Slot.Date.Format(domain.DateFormat),
		StartTime:      o.Slot.StartTime.String(),
		EndTime:        o.Slot.EndTime.String(),
		Label:          o.Slot.Label(),
		Capacity:       o.Slot.Capacity,
		Booked:         o.Occupied,
		AvailableSpots: o.Remaining(),
		Status:         string(o.Status()),
		IsAvailable:    o.Slot.IsAvailable,
	}
}

// FromDomainBlockedDate конвертирует domain модель в DTO
func FromDomainBlockedDate(bd *domain.BlockedDate) *BlockedDateResponse {
	if bd == nil {
		return nil
	}
	return &BlockedDateResponse{
		ID:     bd.ID,
		Date:   bd.Date.Format(domain.DateFormat),
		Reason: bd.Reason,
	}
}

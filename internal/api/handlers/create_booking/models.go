package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
	createBooking "github.com/m04kA/SMC-SmartQueue/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID int64   `json:"serviceId" validate:"required,gt=0"`
	SlotID    int64   `json:"slotId" validate:"required,gt=0"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                   int64   `json:"id"`
	UserID               int64   `json:"userId"`
	ServiceID            int64   `json:"serviceId"`
	ServiceName          string  `json:"serviceName"`
	SlotID               int64   `json:"slotId"`
	Date                 string  `json:"date"`
	StartTime            string  `json:"startTime"`
	EndTime              string  `json:"endTime"`
	TimeSlot             string  `json:"timeSlot"`
	Status               string  `json:"status"`
	QRToken              string  `json:"qrToken"`
	EstimatedWaitMinutes int     `json:"estimatedWaitMinutes"`
	Notes                *string `json:"notes,omitempty"`
	CreatedAt            string  `json:"createdAt"`
	UpdatedAt            string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) *createBooking.Request {
	return &createBooking.Request{
		UserID:    userID,
		ServiceID: r.ServiceID,
		SlotID:    r.SlotID,
		Notes:     r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                   resp.ID,
		UserID:               resp.UserID,
		ServiceID:            resp.ServiceID,
		ServiceName:          resp.ServiceName,
		SlotID:               resp.SlotID,
		Date:                 resp.Date.Format(domain.DateFormat),
		StartTime:            resp.StartTime.String(),
		EndTime:              resp.EndTime.String(),
		TimeSlot:             resp.TimeSlot,
		Status:               resp.Status,
		QRToken:              resp.QRToken,
		EstimatedWaitMinutes: resp.EstimatedWaitMinutes,
		Notes:                resp.Notes,
		CreatedAt:            resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            resp.UpdatedAt.Format(time.RFC3339),
	}
}

package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// ListBookingsRequest запрос персонала на список бронирований
type ListBookingsRequest struct {
	Status *string `json:"status,omitempty"`
	Limit  uint64  `json:"limit,omitempty"`
	Offset uint64  `json:"offset,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingFilter, error) {
	filter := domain.BookingFilter{
		Limit:  r.Limit,
		Offset: r.Offset,
	}

	if r.Status != nil && *r.Status != "" {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"userId"`
	ServiceID   int64   `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	SlotID      int64   `json:"slotId"`
	Date        string  `json:"date"`      // "2025-10-15"
	StartTime   string  `json:"startTime"` // "10:00"
	EndTime     string  `json:"endTime"`
	TimeSlot    string  `json:"timeSlot"` // "10:00 AM - 10:30 AM"
	Status      string  `json:"status"`
	Notes       *string `json:"notes,omitempty"`
	QRToken     string  `json:"qrToken"`

	// Заполняется только при запросе одного бронирования
	EstimatedWaitMinutes *int `json:"estimatedWaitMinutes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// CheckInResponse ответ на регистрацию по токену
type CheckInResponse struct {
	Booking BookingResponse `json:"booking"`
	Message string          `json:"message"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		ServiceID:   b.ServiceID,
		ServiceName: b.ServiceName,
		SlotID:      b.SlotID,
		Date:        b.SlotDate.Format(domain.DateFormat),
		StartTime:   b.SlotStart.String(),
		EndTime:     b.SlotEnd.String(),
		TimeSlot:    b.SlotLabel(),
		Status:      string(b.Status),
		Notes:       b.Notes,
		QRToken:     b.QRToken,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

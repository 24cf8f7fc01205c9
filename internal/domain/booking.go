package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SmartQueue/pkg/types"
)

// ErrInvalidTransition is returned when an action is not allowed from the booking's current status
var ErrInvalidTransition = errors.New("domain: invalid booking status transition")

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusApproved  BookingStatus = "approved"
	StatusCheckedIn BookingStatus = "checked_in"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusRejected  BookingStatus = "rejected"
)

// AllStatuses lists every booking status in lifecycle order
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusApproved,
	StatusCheckedIn,
	StatusCompleted,
	StatusCancelled,
	StatusRejected,
}

// InactiveStatuses do not occupy slot capacity
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusRejected,
}

// QueueStatuses are the statuses counted when estimating waiting time
var QueueStatuses = []BookingStatus{
	StatusPending,
	StatusApproved,
	StatusCheckedIn,
}

// IsValid reports whether s is a known status
func (s BookingStatus) IsValid() bool {
	for _, st := range AllStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// IsActive returns true if the status holds a unit of slot capacity
func (s BookingStatus) IsActive() bool {
	return s != StatusCancelled && s != StatusRejected
}

// Booking represents an appointment against a time slot
type Booking struct {
	ID        int64
	UserID    int64
	ServiceID int64
	SlotID    int64
	Status    BookingStatus
	Notes     *string
	QRToken   string // check-in token, assigned once at creation
	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined data for read models
	ServiceName     string
	ServiceDuration *int
	SlotDate        time.Time
	SlotStart       types.TimeString
	SlotEnd         types.TimeString
}

// SlotLabel formats the booked slot as "09:00 AM - 09:30 AM"
func (b *Booking) SlotLabel() string {
	return fmt.Sprintf("%s - %s", b.SlotStart.Format12h(), b.SlotEnd.Format12h())
}

// ServiceDurationMinutes returns the joined service duration, DefaultServiceDurationMinutes when unset
func (b *Booking) ServiceDurationMinutes() int {
	if b.ServiceDuration == nil || *b.ServiceDuration <= 0 {
		return DefaultServiceDurationMinutes
	}
	return *b.ServiceDuration
}

// IsActive returns true if the booking holds a unit of slot capacity
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// BelongsTo returns true if the booking is owned by the user
func (b *Booking) BelongsTo(userID int64) bool {
	return b.UserID == userID
}

// Apply moves the booking to the status produced by action.
// On error the booking is left unchanged.
func (b *Booking) Apply(action Action) error {
	next, err := NextStatus(b.Status, action)
	if err != nil {
		return err
	}
	b.Status = next
	return nil
}

// BookingFilter filters the staff listing of bookings
type BookingFilter struct {
	Status *BookingStatus
	UserID *int64
	Limit  uint64
	Offset uint64
}

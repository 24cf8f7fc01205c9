package domain

import "time"

// EventType names a booking lifecycle event
type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingApproved  EventType = "booking.approved"
	EventBookingRejected  EventType = "booking.rejected"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingCheckedIn EventType = "booking.checked_in"
	EventBookingCompleted EventType = "booking.completed"
)

// EventForAction maps a transition action to the event it emits
func EventForAction(a Action) EventType {
	switch a {
	case ActionApprove:
		return EventBookingApproved
	case ActionReject:
		return EventBookingRejected
	case ActionCancel:
		return EventBookingCancelled
	case ActionCheckIn:
		return EventBookingCheckedIn
	default:
		return EventBookingCompleted
	}
}

// BookingEvent is published after a booking change is committed
type BookingEvent struct {
	Type       EventType     `json:"type"`
	BookingID  int64         `json:"booking_id"`
	UserID     int64         `json:"user_id"`
	SlotID     int64         `json:"slot_id"`
	ServiceID  int64         `json:"service_id"`
	Status     BookingStatus `json:"status"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// NewBookingEvent builds an event from the booking's current state
func NewBookingEvent(t EventType, b *Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:       t,
		BookingID:  b.ID,
		UserID:     b.UserID,
		SlotID:     b.SlotID,
		ServiceID:  b.ServiceID,
		Status:     b.Status,
		OccurredAt: at,
	}
}

package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SmartQueue/pkg/types"
)

// SlotStatus is the derived fill level of a time slot
type SlotStatus string

const (
	SlotAvailable  SlotStatus = "available"
	SlotAlmostFull SlotStatus = "almost_full"
	SlotFull       SlotStatus = "full"
)

// TimeSlot represents a bookable time window on a date
type TimeSlot struct {
	ID        int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Capacity  int
	// IsAvailable is a denormalized hint kept in sync on create/cancel/reject.
	// Capacity decisions always use the derived occupancy.
	IsAvailable bool
}

// Label formats the slot as "09:00 AM - 09:30 AM"
func (s *TimeSlot) Label() string {
	return fmt.Sprintf("%s - %s", s.StartTime.Format12h(), s.EndTime.Format12h())
}

// StartHour returns the hour of day the slot starts at
func (s *TimeSlot) StartHour() int {
	return s.StartTime.Hour()
}

// StartsAt returns the slot start as an absolute time in the date's location
func (s *TimeSlot) StartsAt() time.Time {
	m := s.StartTime.Minutes()
	return time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(), m/60, m%60, 0, 0, s.Date.Location())
}

// Validate checks slot invariants: positive capacity and end after start
func (s *TimeSlot) Validate() error {
	if s.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidSlot)
	}
	if err := s.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start time: %v", ErrInvalidSlot, err)
	}
	if err := s.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: end time: %v", ErrInvalidSlot, err)
	}
	if !s.EndTime.IsAfter(s.StartTime) {
		return fmt.Errorf("%w: end time must be after start time", ErrInvalidSlot)
	}
	if s.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", ErrInvalidSlot)
	}
	return nil
}

// SlotOccupancy is a slot together with its active booking count
type SlotOccupancy struct {
	Slot     TimeSlot
	Occupied int
}

// Remaining returns max(0, capacity - occupied)
func (o SlotOccupancy) Remaining() int {
	r := o.Slot.Capacity - o.Occupied
	if r < 0 {
		return 0
	}
	return r
}

// IsFull returns true when no capacity is left. A slot with capacity <= 0 is always full.
func (o SlotOccupancy) IsFull() bool {
	return o.Occupied >= o.Slot.Capacity
}

// Status returns the derived fill level.
// Full is checked first so that a zero-capacity slot is never reported as available.
func (o SlotOccupancy) Status() SlotStatus {
	switch {
	case o.IsFull():
		return SlotFull
	case o.Occupied == 0:
		return SlotAvailable
	default:
		return SlotAlmostFull
	}
}

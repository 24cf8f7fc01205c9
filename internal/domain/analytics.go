package domain

import "time"

// HourCount is the number of bookings started at an hour of day
type HourCount struct {
	Hour  int
	Count int
}

// DayCount is the number of bookings created on a date
type DayCount struct {
	Date  time.Time
	Count int
}

// MonthCount is the number of bookings created in a month
type MonthCount struct {
	Month time.Time // first day of month
	Count int
}

// ServiceCount is the number of bookings referencing a service
type ServiceCount struct {
	ServiceID   int64
	ServiceName string
	Count       int
}

// StatusCounts maps booking status to the number of bookings in it
type StatusCounts map[BookingStatus]int

// Total returns the sum over all statuses
func (c StatusCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Dashboard is the staff overview
type Dashboard struct {
	StatusCounts StatusCounts
	Daily        []DayCount
	PeakHours    []HourCount
	TopServices  []ServiceCount
	Recent       []*Booking
}

// Analytics is the admin overview
type Analytics struct {
	StatusCounts   StatusCounts
	Monthly        []MonthCount
	TopServices    []ServiceCount
	ActiveServices int
}

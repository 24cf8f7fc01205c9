package domain

import "time"

// BlockedDate is a date on which no booking may be made
type BlockedDate struct {
	ID     int64
	Date   time.Time
	Reason string
}

package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Service represents a bookable service offered by the queue
type Service struct {
	ID              int64
	Name            string
	Description     string
	DurationMinutes *int
	Price           decimal.NullDecimal
	IsActive        bool
	CreatedAt       time.Time
}

// Duration returns the service duration in minutes, DefaultServiceDurationMinutes when unset
func (s *Service) Duration() int {
	if s.DurationMinutes == nil || *s.DurationMinutes <= 0 {
		return DefaultServiceDurationMinutes
	}
	return *s.DurationMinutes
}

// Validate checks catalog invariants
func (s *Service) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidService)
	}
	if utf8.RuneCountInString(s.Name) > MaxServiceNameLength {
		return fmt.Errorf("%w: name is too long", ErrInvalidService)
	}
	if s.DurationMinutes != nil && *s.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidService)
	}
	if s.Price.Valid && s.Price.Decimal.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidService)
	}
	return nil
}

// ServiceUpdate carries a partial update of a service
type ServiceUpdate struct {
	Name            *string
	Description     *string
	DurationMinutes *int
	Price           *decimal.Decimal
	IsActive        *bool
}

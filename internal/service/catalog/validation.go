package catalog

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SmartQueue/internal/domain"
)

// validateServiceUpdate проверяет только переданные поля
func validateServiceUpdate(upd domain.ServiceUpdate) error {
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		if utf8.RuneCountInString(name) > domain.MaxServiceNameLength {
			return fmt.Errorf("%w: name is too long", ErrInvalidInput)
		}
	}

	if upd.DurationMinutes != nil && *upd.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}

	if upd.Price != nil && upd.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	return nil
}

// validateFutureDate дата не раньше сегодняшней (по календарю)
func validateFutureDate(date, now time.Time) error {
	if date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if date.Format(domain.DateFormat) < now.Format(domain.DateFormat) {
		return fmt.Errorf("%w: date %s is in the past", ErrInvalidInput, date.Format(domain.DateFormat))
	}
	return nil
}

func today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

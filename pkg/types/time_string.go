package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const timeLayout = "15:04"

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOverflow возвращается, если результат выходит за пределы суток
	ErrTimeOverflow = errors.New("time string overflow")
)

// TimeString время суток в формате HH:MM
// Хранится в БД как TIME, сериализуется в JSON как строка
type TimeString string

// NewTimeString создает TimeString из time.Time (берутся только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString парсит строку HH:MM (также принимает HH:MM:SS)
func NewTimeStringFromString(s string) (TimeString, error) {
	t, err := parse(s)
	if err != nil {
		return "", err
	}
	return NewTimeString(t), nil
}

// Validate проверяет формат времени
func (ts TimeString) Validate() error {
	_, err := parse(string(ts))
	return err
}

// IsZero возвращает true, если время не задано
func (ts TimeString) IsZero() bool {
	return ts == ""
}

// String возвращает строковое представление
func (ts TimeString) String() string {
	return string(ts)
}

// Minutes возвращает количество минут от начала суток
func (ts TimeString) Minutes() int {
	t, err := parse(string(ts))
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}

// Hour возвращает час (0-23)
func (ts TimeString) Hour() int {
	return ts.Minutes() / 60
}

// AddMinutes прибавляет минуты, не допуская перехода через полночь
func (ts TimeString) AddMinutes(minutes int) (TimeString, error) {
	if err := ts.Validate(); err != nil {
		return "", err
	}
	total := ts.Minutes() + minutes
	if total < 0 || total >= 24*60 {
		return "", fmt.Errorf("%w: %s %+d min", ErrTimeOverflow, ts, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// IsBefore возвращает true, если ts строго раньше other
func (ts TimeString) IsBefore(other TimeString) bool {
	return ts.Minutes() < other.Minutes()
}

// IsAfter возвращает true, если ts строго позже other
func (ts TimeString) IsAfter(other TimeString) bool {
	return ts.Minutes() > other.Minutes()
}

// Format12h форматирует время как "09:30 AM"
func (ts TimeString) Format12h() string {
	t, err := parse(string(ts))
	if err != nil {
		return string(ts)
	}
	return t.Format("03:04 PM")
}

// Scan реализует sql.Scanner (lib/pq отдает TIME как time.Time)
func (ts *TimeString) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*ts = ""
		return nil
	case time.Time:
		*ts = NewTimeString(v)
		return nil
	case []byte:
		parsed, err := NewTimeStringFromString(string(v))
		if err != nil {
			return err
		}
		*ts = parsed
		return nil
	case string:
		parsed, err := NewTimeStringFromString(v)
		if err != nil {
			return err
		}
		*ts = parsed
		return nil
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidTimeString, src)
	}
}

// Value реализует driver.Valuer
func (ts TimeString) Value() (driver.Value, error) {
	if ts.IsZero() {
		return nil, nil
	}
	return string(ts), nil
}

func parse(s string) (time.Time, error) {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("15:04:05", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
}

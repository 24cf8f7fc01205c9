package domain

import "errors"

var (
	// ErrInvalidSlot is returned when a time slot violates its invariants
	ErrInvalidSlot = errors.New("domain: invalid time slot")

	// ErrInvalidService is returned when a service violates catalog invariants
	ErrInvalidService = errors.New("domain: invalid service")

	// ErrInvalidProfile is returned when a profile violates its invariants
	ErrInvalidProfile = errors.New("domain: invalid profile")
)

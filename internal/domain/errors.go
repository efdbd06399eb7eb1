package domain

import "errors"

// Domain errors (no external dependencies).
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicate          = errors.New("duplicate resource")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrConflict           = errors.New("conflict with current state")

	// ErrInsufficientStock is a business rejection: not enough available
	// quantity for a reservation or adjustment. Callers roll back and surface
	// it; it is not a system fault.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidState signals an internal accounting violation, e.g. releasing
	// more than was reserved. Reservation/release pairing is the engine's own
	// responsibility, so this is surfaced and logged as unexpected.
	ErrInvalidState = errors.New("invalid stock state")

	// ErrStoreUnavailable wraps persistence connectivity failures.
	ErrStoreUnavailable = errors.New("store unavailable")
)

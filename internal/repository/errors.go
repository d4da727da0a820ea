package repository

import "errors"

// Sentinel errors surfaced to handlers.  Handlers translate these into
// client-facing responses; anything else is treated as a persistence
// failure, logged with detail and genericized.
var (
	ErrEmailExists      = errors.New("email already exists")
	ErrUsernameExists   = errors.New("username already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrUnitNotFound     = errors.New("unit not found")
	ErrUnitNumberExists = errors.New("unit number already exists")
	ErrLevyNotFound     = errors.New("levy not found")
	ErrLevyAlreadyPaid  = errors.New("levy already paid")
	ErrNoEligibleUnits  = errors.New("no units with owners found")
	ErrRequestNotFound  = errors.New("maintenance request not found")
)

package model

import "errors"

// Typed failures surfaced by the participation and advertisement services.
// Repositories map storage-level conditions (missing rows, unique violations,
// conditional update misses) onto these so callers can branch with errors.Is.
var (
	ErrAdvertisementNotFound = errors.New("advertisement not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrTitleExists           = errors.New("advertisement title already exists")
	ErrUserExists            = errors.New("user already exists")
	ErrInvalidUser           = errors.New("invalid user")
	ErrInvalidAdvertisement  = errors.New("invalid advertisement")
	ErrInvalidCriteria       = errors.New("invalid qualification criteria")
	ErrQuotaExhausted        = errors.New("no remaining participation count")
	ErrAlreadyParticipated   = errors.New("user already participated in this advertisement")
	ErrNotEligible           = errors.New("user does not meet the qualification criteria")
	ErrLockUnavailable       = errors.New("participation lock unavailable")
)

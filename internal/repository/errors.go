// Package repository defines the error taxonomy shared across all
// repositories. These sentinel values let handlers distinguish failure
// kinds without inspecting SQL errors: not-found sentinels map to 404,
// ErrForbidden to 403, ErrConflict to 409 and ErrInvalidOperation to 400.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, captain, or belong to.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a mutation violates a state precondition,
// such as booking a slot that is no longer available.
var ErrConflict = errors.New("conflict")

// ErrInvalidOperation is returned when a mutation is structurally
// disallowed regardless of who asks for it, such as a captain removing
// themselves from their own team.
var ErrInvalidOperation = errors.New("invalid operation")

// Per-entity not-found sentinels.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrFieldNotFound        = errors.New("field not found")
	ErrSlotNotFound         = errors.New("slot not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrMatchRequestNotFound = errors.New("match request not found")
)

// Membership-specific failures for the team registry.
var (
	ErrAlreadyMember = errors.New("already a member")
	ErrNotMember     = errors.New("not a member")
)

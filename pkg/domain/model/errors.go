package model

import "errors"

// Domain rule violations. Handlers translate these into user-facing
// ephemeral messages; everything else is an upstream failure.
var (
	ErrMalformedInput = errors.New("poll text is malformed")
	ErrInvalidOption  = errors.New("option index out of range")
	ErrQuotaExceeded  = errors.New("monthly quota exceeded")
	ErrTeamExpired    = errors.New("team subscription expired")
)

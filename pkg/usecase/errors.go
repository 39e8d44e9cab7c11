package usecase

import "errors"

// Sentinel errors for the use case layer
var (
	ErrUnauthorized = errors.New("no user for given credential")
	ErrPollNotFound = errors.New("poll not found")
)
